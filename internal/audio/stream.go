package audio

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ebitengine/oto/v3"
	"github.com/hajimehoshi/go-mp3"
)

// DefaultVolume is the playback volume for background resources.
const DefaultVolume = 0.3

const endPollInterval = 50 * time.Millisecond

var (
	otoOnce    sync.Once
	otoContext *oto.Context
	otoRate    int
	otoErr     error
)

// sharedContext opens the process-wide output context. oto allows only one.
func sharedContext(sampleRate int) (*oto.Context, error) {
	otoOnce.Do(func() {
		ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
			SampleRate:   sampleRate,
			ChannelCount: 2,
			Format:       oto.FormatSignedInt16LE,
		})
		if err != nil {
			otoErr = fmt.Errorf("open audio context: %w", err)
			return
		}
		<-ready
		otoContext = ctx
		otoRate = sampleRate
	})
	if otoErr != nil {
		return nil, otoErr
	}
	if sampleRate != otoRate {
		return nil, fmt.Errorf("sample rate %d differs from audio context rate %d", sampleRate, otoRate)
	}
	return otoContext, nil
}

// StreamPlayer plays an MP3 resource from a file path or http(s) URL.
// The resource is fetched and decoded on the first Play.
// Without looping, the end of the clip is reported through OnEnded and the
// next Play rewinds to the start.
type StreamPlayer struct {
	mu       sync.Mutex
	locator  string
	volume   float64
	loop     bool
	client   *http.Client
	player   *oto.Player
	onEnded  func()
	draining bool
	drained  bool
}

// NewStreamPlayer creates a player for locator.
func NewStreamPlayer(locator string, volume float64, loop bool) *StreamPlayer {
	if volume <= 0 || volume > 1 {
		volume = DefaultVolume
	}
	return &StreamPlayer{
		locator: locator,
		volume:  volume,
		loop:    loop,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

// Play implements Player.
func (stream *StreamPlayer) Play(ctx context.Context) error {
	stream.mu.Lock()
	defer stream.mu.Unlock()
	if stream.player == nil {
		player, err := stream.open(ctx)
		if err != nil {
			return err
		}
		stream.player = player
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if stream.drained || stream.draining {
		if _, err := stream.player.Seek(0, io.SeekStart); err != nil {
			return fmt.Errorf("rewind %s: %w", stream.locator, err)
		}
		stream.drained = false
		stream.draining = false
	}
	stream.player.Play()
	return nil
}

// OnEnded implements EndNotifier.
func (stream *StreamPlayer) OnEnded(handler func()) {
	stream.mu.Lock()
	defer stream.mu.Unlock()
	stream.onEnded = handler
}

// Pause implements Player.
func (stream *StreamPlayer) Pause() {
	stream.mu.Lock()
	defer stream.mu.Unlock()
	if stream.player != nil {
		stream.player.Pause()
	}
}

// Close implements Player.
func (stream *StreamPlayer) Close() error {
	stream.mu.Lock()
	defer stream.mu.Unlock()
	if stream.player == nil {
		return nil
	}
	err := stream.player.Close()
	stream.player = nil
	return err
}

func (stream *StreamPlayer) open(ctx context.Context) (*oto.Player, error) {
	data, err := loadSource(ctx, stream.client, stream.locator)
	if err != nil {
		return nil, err
	}
	decoder, err := mp3.NewDecoder(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", stream.locator, err)
	}
	output, err := sharedContext(decoder.SampleRate())
	if err != nil {
		return nil, err
	}

	var source io.Reader
	if stream.loop {
		source = &loopReader{source: decoder}
	} else {
		source = &endReader{source: decoder, onEOF: stream.sourceDrained}
	}
	player := output.NewPlayer(source)
	player.SetVolume(stream.volume)
	return player, nil
}

// sourceDrained is called from the output goroutine, which may hold the
// player's own lock, so the wait happens elsewhere.
func (stream *StreamPlayer) sourceDrained() {
	go stream.awaitEnd()
}

// awaitEnd reports the end once the player has played its buffered samples.
func (stream *StreamPlayer) awaitEnd() {
	stream.mu.Lock()
	player := stream.player
	if player == nil || stream.draining {
		stream.mu.Unlock()
		return
	}
	stream.draining = true
	stream.mu.Unlock()

	ticker := time.NewTicker(endPollInterval)
	defer ticker.Stop()
	for range ticker.C {
		stream.mu.Lock()
		if stream.player != player || !stream.draining {
			stream.mu.Unlock()
			return
		}
		if player.IsPlaying() {
			stream.mu.Unlock()
			continue
		}
		stream.draining = false
		stream.drained = true
		handler := stream.onEnded
		stream.mu.Unlock()
		if handler != nil {
			handler()
		}
		return
	}
}

func loadSource(ctx context.Context, client *http.Client, locator string) ([]byte, error) {
	if strings.TrimSpace(locator) == "" {
		return nil, fmt.Errorf("load audio: locator is empty")
	}
	parsed, err := url.Parse(locator)
	if err == nil && (parsed.Scheme == "http" || parsed.Scheme == "https") {
		return fetch(ctx, client, locator)
	}
	path := locator
	if err == nil && parsed.Scheme == "file" {
		path = parsed.Path
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read audio file: %w", err)
	}
	return data, nil
}

func fetch(ctx context.Context, client *http.Client, locator string) ([]byte, error) {
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, locator, nil)
	if err != nil {
		return nil, fmt.Errorf("build audio request: %w", err)
	}
	response, err := client.Do(request)
	if err != nil {
		return nil, fmt.Errorf("fetch audio: %w", err)
	}
	defer response.Body.Close()
	if response.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch audio: unexpected status %s", response.Status)
	}
	data, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, fmt.Errorf("read audio body: %w", err)
	}
	return data, nil
}

// loopReader rewinds its source at EOF so playback repeats.
type loopReader struct {
	source io.ReadSeeker
}

func (reader *loopReader) Read(buffer []byte) (int, error) {
	n, err := reader.source.Read(buffer)
	if err != io.EOF {
		return n, err
	}
	if _, seekErr := reader.source.Seek(0, io.SeekStart); seekErr != nil {
		return n, seekErr
	}
	if n > 0 {
		return n, nil
	}
	return reader.source.Read(buffer)
}

// endReader reports EOF of a source that does not loop, once per pass.
type endReader struct {
	source io.ReadSeeker
	onEOF  func()
	ended  atomic.Bool
}

func (reader *endReader) Read(buffer []byte) (int, error) {
	n, err := reader.source.Read(buffer)
	if err == io.EOF && reader.ended.CompareAndSwap(false, true) {
		reader.onEOF()
	}
	return n, err
}

func (reader *endReader) Seek(offset int64, whence int) (int64, error) {
	position, err := reader.source.Seek(offset, whence)
	if err == nil {
		reader.ended.Store(false)
	}
	return position, err
}
