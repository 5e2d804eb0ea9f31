package journeyview

import (
	"log/slog"
	"net/url"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"dayjourney/internal/audio"
	"dayjourney/internal/core/journey"
	"dayjourney/internal/core/model"
	"dayjourney/internal/lifecycle"
	"dayjourney/internal/ui/animation"
	"dayjourney/internal/ui/panels"
)

const eventBuffer = 16

// Journey is the state machine the view reflects and drives.
type Journey interface {
	View() model.ViewState
	Progress() float64
	Sections() []model.SectionID
	PreviewEnabled() bool
	HintActive() bool
	Select(section model.SectionID)
	TogglePreview()
	ConfirmPreview()
	CancelPreview()
	Subscribe(buffer int) <-chan journey.Event
}

// Texts resolves localized labels.
type Texts interface {
	Text(key string, args ...any) string
	SectionLabel(section model.SectionID) string
}

// Config defines static view options.
type Config struct {
	RootURL string
	Trail   model.TrailConfig
}

// Options contains the view collaborators. Music may be nil.
type Options struct {
	Journey  Journey
	Texts    Texts
	Renderer panels.Renderer
	Music    *audio.Controller
	Logger   *slog.Logger
}

// Window manages the main journey UI.
type Window struct {
	window  fyne.Window
	options Options
	scope   lifecycle.Scope

	emitter *animation.Emitter
	trail   *trailLayer
	pointer *pointerLayer

	progress      *widget.ProgressBar
	trailButton   *widget.Button
	musicButton   *widget.Button
	navButtons    map[model.SectionID]*widget.Button
	previewToggle *widget.Button
	confirm       *widget.Button
	cancel        *widget.Button
	banner        *widget.Label
	showing       *widget.Label
	hint          *widget.Label
	panel         *fyne.Container

	displayed model.SectionID
	rendered  bool
}

// New creates the journey window. The window stays hidden until Show.
func New(app fyne.App, config Config, options Options) *Window {
	if options.Logger == nil {
		options.Logger = slog.Default()
	}
	texts := options.Texts
	window := app.NewWindow(texts.Text("app.title"))
	if app.Icon() != nil {
		window.SetIcon(app.Icon())
	}

	view := &Window{
		window:     window,
		options:    options,
		trail:      newTrailLayer(),
		progress:   widget.NewProgressBar(),
		navButtons: make(map[model.SectionID]*widget.Button),
		banner:     widget.NewLabel(texts.Text("preview.banner")),
		showing:    widget.NewLabel(""),
		hint:       widget.NewLabel(""),
		panel:      container.NewStack(options.Renderer.Render("")),
	}
	view.progress.Max = 100

	view.emitter = animation.NewEmitter(animation.ConfigFromTrail(config.Trail), func(tokens []animation.Token) {
		fyne.Do(func() { view.trail.setTokens(tokens) })
	})
	view.pointer = newPointerLayer(view.emitter)
	if config.Trail.Enabled {
		view.emitter.Enable()
	}
	view.scope.Add(window.Close)
	view.scope.Add(view.emitter.Close)

	header := view.buildHeader(config.RootURL)
	nav := view.buildNav()
	previewBar := view.buildPreviewBar()

	view.banner.Wrapping = fyne.TextWrapWord
	view.hint.Importance = widget.WarningImportance
	view.hint.Alignment = fyne.TextAlignCenter
	view.hint.Hide()

	top := container.NewVBox(header, view.progress, nav, previewBar, view.banner, view.showing, view.hint)
	content := container.NewBorder(top, nil, nil, nil, view.panel)
	window.SetContent(container.NewStack(view.pointer, content, view.trail))
	window.SetCloseIntercept(window.Hide)
	window.Resize(fyne.NewSize(960, 720))

	view.subscribe()
	return view
}

func (view *Window) buildHeader(rootURL string) fyne.CanvasObject {
	texts := view.options.Texts
	var home fyne.CanvasObject = widget.NewLabel(texts.Text("app.home"))
	if parsed, err := url.Parse(rootURL); err == nil && parsed.Scheme != "" {
		home = widget.NewHyperlink(texts.Text("app.home"), parsed)
	} else if rootURL != "" {
		view.options.Logger.Warn("ignoring home url without scheme", "url", rootURL)
	}

	title := widget.NewLabelWithStyle(texts.Text("app.title"), fyne.TextAlignCenter, fyne.TextStyle{Bold: true})

	view.trailButton = widget.NewButtonWithIcon(texts.Text("trail.toggle"), theme.VisibilityIcon(), view.ToggleTrail)
	controls := container.NewHBox(view.trailButton)
	if view.options.Music != nil {
		view.musicButton = widget.NewButtonWithIcon(texts.Text("audio.background"), theme.MediaPlayIcon(), view.ToggleMusic)
		controls.Add(view.musicButton)
		music := view.options.Music
		music.OnChange(func(audio.State) { fyne.Do(view.refreshMusic) })
		view.scope.Add(func() { music.OnChange(nil) })
	}
	view.refreshTrail()
	view.refreshMusic()

	return container.NewHBox(home, layout.NewSpacer(), title, layout.NewSpacer(), controls)
}

func (view *Window) buildNav() fyne.CanvasObject {
	nav := container.NewHBox(layout.NewSpacer())
	for _, section := range view.options.Journey.Sections() {
		button := widget.NewButton(view.options.Texts.SectionLabel(section), view.action(func() {
			view.options.Journey.Select(section)
		}))
		view.navButtons[section] = button
		nav.Add(button)
	}
	nav.Add(layout.NewSpacer())
	return nav
}

func (view *Window) buildPreviewBar() fyne.CanvasObject {
	texts := view.options.Texts
	keeper := view.options.Journey
	view.previewToggle = widget.NewButtonWithIcon(texts.Text("preview.enable"), theme.VisibilityIcon(), view.action(keeper.TogglePreview))
	view.confirm = widget.NewButtonWithIcon(texts.Text("preview.confirm"), theme.ConfirmIcon(), view.action(keeper.ConfirmPreview))
	view.confirm.Importance = widget.HighImportance
	view.cancel = widget.NewButtonWithIcon(texts.Text("preview.cancel"), theme.CancelIcon(), view.action(keeper.CancelPreview))
	return container.NewHBox(layout.NewSpacer(), view.previewToggle, view.confirm, view.cancel, layout.NewSpacer())
}

// action runs fn against the journey and refreshes immediately, so a dropped
// event never leaves the view stale.
func (view *Window) action(fn func()) func() {
	return func() {
		fn()
		view.Refresh()
	}
}

func (view *Window) subscribe() {
	events := view.options.Journey.Subscribe(eventBuffer)
	done := make(chan struct{})
	view.scope.Add(func() { close(done) })
	go func() {
		for {
			select {
			case <-done:
				return
			case event, ok := <-events:
				if !ok {
					return
				}
				fyne.Do(func() { view.handleEvent(event) })
			}
		}
	}()
}

// Show displays the window and renders the current view.
func (view *Window) Show() {
	view.Refresh()
	view.window.Show()
	view.window.RequestFocus()
}

// Hide hides the window.
func (view *Window) Hide() {
	view.window.Hide()
}

// ToggleTrail flips the pointer trail.
func (view *Window) ToggleTrail() {
	view.emitter.Toggle()
	view.refreshTrail()
}

// SetTrailEnabled turns the pointer trail on or off.
func (view *Window) SetTrailEnabled(enabled bool) {
	if enabled {
		view.emitter.Enable()
	} else {
		view.emitter.Disable()
	}
	view.refreshTrail()
}

// TrailEnabled reports whether the pointer trail is active.
func (view *Window) TrailEnabled() bool {
	return view.emitter.Enabled()
}

// ToggleMusic flips the background music.
func (view *Window) ToggleMusic() {
	if view.options.Music == nil {
		return
	}
	view.options.Music.Toggle()
	view.refreshMusic()
}

// Close releases the trail and stops observing the journey. It is safe to
// call more than once.
func (view *Window) Close() {
	view.scope.Close()
}

// Refresh re-reads the journey and updates every widget. Events may be
// dropped, so the journey snapshot is always authoritative.
func (view *Window) Refresh() {
	keeper := view.options.Journey
	texts := view.options.Texts
	state := keeper.View()
	displayed := state.Displayed()

	view.progress.SetValue(keeper.Progress())

	for section, button := range view.navButtons {
		switch {
		case section == displayed:
			button.Importance = widget.HighImportance
		case section == state.Current:
			button.Importance = widget.MediumImportance
		default:
			button.Importance = widget.LowImportance
		}
		button.Refresh()
	}

	inPreview := state.Mode == model.ModePreviewConfirm
	if keeper.PreviewEnabled() {
		view.previewToggle.Show()
	} else {
		view.previewToggle.Hide()
	}
	if inPreview {
		view.previewToggle.SetText(texts.Text("preview.disable"))
		view.confirm.Show()
		view.cancel.Show()
		view.banner.Show()
	} else {
		view.previewToggle.SetText(texts.Text("preview.enable"))
		view.confirm.Hide()
		view.cancel.Hide()
		view.banner.Hide()
	}
	if inPreview && state.HasPreview && state.Preview != state.Current {
		view.showing.SetText(texts.Text("preview.showing", texts.SectionLabel(state.Preview)))
		view.showing.Show()
	} else {
		view.showing.Hide()
	}

	if !keeper.HintActive() {
		view.hint.Hide()
	}

	if !view.rendered || displayed != view.displayed {
		if leaver, ok := view.options.Renderer.(panels.Leaver); ok && view.rendered {
			leaver.Leave(view.displayed)
		}
		view.displayed = displayed
		view.rendered = true
		view.panel.Objects = []fyne.CanvasObject{view.options.Renderer.Render(displayed)}
		view.panel.Refresh()
	}
}

func (view *Window) handleEvent(event journey.Event) {
	switch event.Type {
	case journey.EventHint:
		view.hint.SetText(view.options.Texts.Text(string(event.Hint), view.options.Texts.SectionLabel(event.Requested)))
		view.hint.Show()
	case journey.EventHintExpired:
		view.hint.Hide()
	}
	view.Refresh()
}

func (view *Window) refreshTrail() {
	if view.emitter.Enabled() {
		view.trailButton.Importance = widget.HighImportance
	} else {
		view.trailButton.Importance = widget.LowImportance
	}
	view.trailButton.Refresh()
}

func (view *Window) refreshMusic() {
	if view.musicButton == nil {
		return
	}
	state := view.options.Music.State()
	switch {
	case state.Playing:
		view.musicButton.SetIcon(theme.MediaPauseIcon())
		view.musicButton.SetText(view.options.Texts.Text("audio.background"))
	case state.Pending && state.Wanted:
		view.musicButton.SetIcon(theme.MediaPlayIcon())
		view.musicButton.SetText(view.options.Texts.Text("audio.starting"))
	default:
		view.musicButton.SetIcon(theme.MediaPlayIcon())
		view.musicButton.SetText(view.options.Texts.Text("audio.background"))
	}
}
