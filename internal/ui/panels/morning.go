package panels

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"dayjourney/internal/audio"
)

// MorningPanel offers the song and the voice message. At most one of them
// plays at a time.
type MorningPanel struct {
	texts       Texts
	song        *audio.Controller
	voice       *audio.Controller
	group       *audio.Exclusive
	songButton  *widget.Button
	voiceButton *widget.Button
	content     fyne.CanvasObject
}

// NewMorningPanel builds the panel. A nil controller hides its button.
func NewMorningPanel(texts Texts, song, voice *audio.Controller) *MorningPanel {
	var members []*audio.Controller
	for _, controller := range []*audio.Controller{song, voice} {
		if controller != nil {
			members = append(members, controller)
		}
	}

	panel := &MorningPanel{
		texts: texts,
		song:  song,
		voice: voice,
		group: audio.NewExclusive(members...),
	}

	rows := container.NewVBox()
	if song != nil {
		panel.songButton = widget.NewButtonWithIcon("", theme.MediaPlayIcon(), func() { panel.group.Toggle(song) })
		rows.Add(widget.NewLabelWithStyle(texts.Text("morning.music.title"), fyne.TextAlignCenter, fyne.TextStyle{Bold: true}))
		rows.Add(panel.songButton)
		song.OnChange(func(audio.State) { fyne.Do(panel.Refresh) })
	}
	if voice != nil {
		panel.voiceButton = widget.NewButtonWithIcon("", theme.MediaPlayIcon(), func() { panel.group.Toggle(voice) })
		rows.Add(widget.NewLabelWithStyle(texts.Text("morning.voice.title"), fyne.TextAlignCenter, fyne.TextStyle{Bold: true}))
		rows.Add(panel.voiceButton)
		voice.OnChange(func(audio.State) { fyne.Do(panel.Refresh) })
	}
	panel.content = rows
	panel.Refresh()
	return panel
}

// Content returns the panel body.
func (panel *MorningPanel) Content() fyne.CanvasObject {
	return panel.content
}

// Refresh re-reads both controllers and updates the buttons.
func (panel *MorningPanel) Refresh() {
	if panel.song != nil {
		applyButtonState(panel.songButton, panel.texts, panel.song.State(), "audio.music.play", "audio.music.pause")
	}
	if panel.voice != nil {
		applyButtonState(panel.voiceButton, panel.texts, panel.voice.State(), "audio.voice.play", "audio.voice.pause")
	}
}

// PauseAll stops both resources.
func (panel *MorningPanel) PauseAll() {
	panel.group.PauseAll()
}

func applyButtonState(button *widget.Button, texts Texts, state audio.State, playKey, pauseKey string) {
	label, playing := buttonLabel(texts, state, playKey, pauseKey)
	button.SetText(label)
	if playing {
		button.SetIcon(theme.MediaPauseIcon())
	} else {
		button.SetIcon(theme.MediaPlayIcon())
	}
}

// buttonLabel reports Playing only once playback was confirmed.
func buttonLabel(texts Texts, state audio.State, playKey, pauseKey string) (string, bool) {
	switch {
	case state.Playing:
		return texts.Text(pauseKey), true
	case state.Pending && state.Wanted:
		return texts.Text("audio.starting"), false
	default:
		return texts.Text(playKey), false
	}
}
