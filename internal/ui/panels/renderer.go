package panels

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"dayjourney/internal/core/model"
)

// Renderer builds the content panel for a section. An empty section id
// renders the loading placeholder.
type Renderer interface {
	Render(section model.SectionID) fyne.CanvasObject
}

// Leaver is implemented by renderers whose panels hold resources that must
// stop when their section is no longer displayed.
type Leaver interface {
	Leave(section model.SectionID)
}

// Texts resolves localized panel strings.
type Texts interface {
	Text(key string, args ...any) string
	SectionTitle(section model.SectionID) string
	SectionSubtitle(section model.SectionID) string
}

var sectionColors = map[model.SectionID]color.NRGBA{
	model.SectionMorning:   {R: 224, G: 242, B: 241, A: 255},
	model.SectionNoon:      {R: 255, G: 248, B: 225, A: 255},
	model.SectionAfternoon: {R: 255, G: 236, B: 219, A: 255},
	model.SectionEvening:   {R: 237, G: 231, B: 246, A: 255},
	model.SectionNight:     {R: 26, G: 35, B: 64, A: 255},
}

var defaultSectionColor = color.NRGBA{R: 245, G: 245, B: 245, A: 255}

// Catalog renders one panel per section and reuses it on later renders.
// It must be used from the UI goroutine.
type Catalog struct {
	texts   Texts
	morning *MorningPanel
	cache   map[model.SectionID]fyne.CanvasObject
}

// NewCatalog creates a renderer. morning may be nil, in which case the
// morning section uses the generic panel.
func NewCatalog(texts Texts, morning *MorningPanel) *Catalog {
	return &Catalog{
		texts:   texts,
		morning: morning,
		cache:   make(map[model.SectionID]fyne.CanvasObject),
	}
}

// Render returns the panel for section.
func (catalog *Catalog) Render(section model.SectionID) fyne.CanvasObject {
	if panel, ok := catalog.cache[section]; ok {
		return panel
	}

	var panel fyne.CanvasObject
	switch {
	case section == "":
		panel = catalog.placeholder()
	case section == model.SectionMorning && catalog.morning != nil:
		panel = catalog.sectionCard(section, catalog.morning.Content())
	default:
		panel = catalog.sectionCard(section, nil)
	}
	catalog.cache[section] = panel
	return panel
}

// Leave pauses the morning audio once the morning panel is swapped out.
func (catalog *Catalog) Leave(section model.SectionID) {
	if section == model.SectionMorning && catalog.morning != nil {
		catalog.morning.PauseAll()
	}
}

func (catalog *Catalog) placeholder() fyne.CanvasObject {
	label := widget.NewLabelWithStyle(catalog.texts.Text("section.placeholder"), fyne.TextAlignCenter, fyne.TextStyle{Italic: true})
	return container.NewCenter(container.NewVBox(widget.NewProgressBarInfinite(), label))
}

func (catalog *Catalog) sectionCard(section model.SectionID, body fyne.CanvasObject) fyne.CanvasObject {
	fill, ok := sectionColors[section]
	if !ok {
		fill = defaultSectionColor
	}
	background := canvas.NewRectangle(fill)
	background.CornerRadius = 12

	title := canvas.NewText(catalog.texts.SectionTitle(section), textColor(fill))
	title.Alignment = fyne.TextAlignCenter
	title.TextStyle = fyne.TextStyle{Bold: true}
	title.TextSize = 26

	subtitle := canvas.NewText(catalog.texts.SectionSubtitle(section), textColor(fill))
	subtitle.Alignment = fyne.TextAlignCenter
	subtitle.TextSize = 14

	column := container.NewVBox(title, subtitle)
	if body != nil {
		column.Add(body)
	}
	return container.NewStack(background, container.NewPadded(container.NewCenter(column)))
}

// textColor picks white on dark fills and near-black otherwise.
func textColor(fill color.NRGBA) color.Color {
	luminance := 0.299*float64(fill.R) + 0.587*float64(fill.G) + 0.114*float64(fill.B)
	if luminance < 128 {
		return color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	}
	return color.NRGBA{R: 33, G: 33, B: 33, A: 255}
}
