package preferences

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"

	"dayjourney/internal/core/model"
	"dayjourney/internal/core/schedule"
)

// Texts resolves localized labels.
type Texts interface {
	Text(key string, args ...any) string
}

var modeOptions = []string{
	model.ModeFreeSelect.String(),
	model.ModeTimeLocked.String(),
	model.ModePreviewConfirm.String(),
}

// Window handles the preferences UI.
type Window struct {
	window   fyne.Window
	settings Settings
	onSave   func(Settings)
	onCancel func()

	mode    *widget.Select
	preview *widget.Check
	locale  *widget.Select
	preset  *widget.Select
	trail   *widget.Check
	volume  *widget.Slider
}

// New creates a preferences window. locales lists the selectable languages.
func New(app fyne.App, texts Texts, locales []string, settings Settings, onSave func(Settings)) *Window {
	window := app.NewWindow(texts.Text("prefs.title"))

	prefs := &Window{
		window:   window,
		settings: settings,
		onSave:   onSave,
		mode:     widget.NewSelect(modeOptions, nil),
		preview:  widget.NewCheck(texts.Text("prefs.preview"), nil),
		locale:   widget.NewSelect(locales, nil),
		preset:   widget.NewSelect(schedule.PresetNames(), nil),
		trail:    widget.NewCheck(texts.Text("prefs.trail"), nil),
		volume:   widget.NewSlider(0.05, 1),
	}
	prefs.volume.Step = 0.05

	// Preview confirm carries its own preview flag; time-locked forbids it.
	prefs.mode.OnChanged = func(value string) {
		mode, err := model.ParseMode(value)
		if err != nil {
			return
		}
		switch mode {
		case model.ModeTimeLocked:
			prefs.preview.SetChecked(false)
			prefs.preview.Disable()
		case model.ModePreviewConfirm:
			prefs.preview.SetChecked(true)
			prefs.preview.Disable()
		default:
			prefs.preview.Enable()
		}
	}

	form := container.NewVBox(
		widget.NewLabelWithStyle(texts.Text("prefs.mode"), fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		prefs.mode,
		prefs.preview,
		widget.NewLabel(texts.Text("prefs.preset")),
		prefs.preset,
		widget.NewLabel(texts.Text("prefs.locale")),
		prefs.locale,
		prefs.trail,
		widget.NewLabel(texts.Text("audio.background")),
		prefs.volume,
	)

	saveButton := widget.NewButton(texts.Text("prefs.save"), prefs.handleSave)
	cancelButton := widget.NewButton(texts.Text("prefs.cancel"), func() {
		window.Hide()
		if prefs.onCancel != nil {
			prefs.onCancel()
		}
	})
	buttons := container.NewHBox(saveButton, layout.NewSpacer(), cancelButton)

	window.SetContent(container.NewBorder(nil, buttons, nil, nil, form))
	window.SetCloseIntercept(window.Hide)
	window.Resize(fyne.NewSize(420, 460))

	prefs.UpdateSettings(settings)
	return prefs
}

// Show displays the preferences window.
func (prefs *Window) Show() {
	prefs.window.Show()
	prefs.window.RequestFocus()
}

// SetOnCancel sets the handler run when the window is dismissed without saving.
func (prefs *Window) SetOnCancel(handler func()) {
	prefs.onCancel = handler
}

// UpdateSettings replaces window values.
func (prefs *Window) UpdateSettings(settings Settings) {
	prefs.settings = settings
	prefs.mode.SetSelected(settings.Mode.String())
	if settings.Mode == model.ModeFreeSelect {
		prefs.preview.SetChecked(settings.PreviewEnabled)
	}
	prefs.locale.SetSelected(settings.Locale)
	if len(settings.Sections) > 0 {
		// Custom partitions come from the settings file only.
		prefs.preset.ClearSelected()
		prefs.preset.Disable()
	} else {
		prefs.preset.Enable()
		prefs.preset.SetSelected(settings.Preset)
	}
	prefs.trail.SetChecked(settings.TrailEnabled)
	prefs.volume.SetValue(settings.Volume)
}

func (prefs *Window) handleSave() {
	settings := prefs.collect()
	if err := settings.Validate(); err != nil {
		dialog.ShowError(err, prefs.window)
		return
	}

	prefs.settings = settings
	if prefs.onSave != nil {
		prefs.onSave(settings)
	}
	prefs.window.Hide()
}

func (prefs *Window) collect() Settings {
	settings := prefs.settings
	if mode, err := model.ParseMode(prefs.mode.Selected); err == nil {
		settings.Mode = mode
	}
	settings.PreviewEnabled = prefs.preview.Checked
	if prefs.locale.Selected != "" {
		settings.Locale = prefs.locale.Selected
	}
	if len(settings.Sections) == 0 && prefs.preset.Selected != "" {
		settings.Preset = prefs.preset.Selected
	}
	settings.TrailEnabled = prefs.trail.Checked
	settings.Volume = prefs.volume.Value
	return settings
}
