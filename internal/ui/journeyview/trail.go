package journeyview

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"dayjourney/internal/ui/animation"
)

const heartGlyph = "♥"

var heartColor = color.NRGBA{R: 236, G: 72, B: 153, A: 255}

// pointerLayer sits behind the content and feeds pointer moves to the
// emitter. Hoverable widgets above it keep their own hover handling.
type pointerLayer struct {
	widget.BaseWidget
	emitter *animation.Emitter
}

var _ desktop.Hoverable = (*pointerLayer)(nil)

func newPointerLayer(emitter *animation.Emitter) *pointerLayer {
	layer := &pointerLayer{emitter: emitter}
	layer.ExtendBaseWidget(layer)
	return layer
}

func (layer *pointerLayer) MouseIn(event *desktop.MouseEvent) {
	layer.move(event.Position)
}

func (layer *pointerLayer) MouseMoved(event *desktop.MouseEvent) {
	layer.move(event.Position)
}

func (layer *pointerLayer) MouseOut() {}

func (layer *pointerLayer) move(position fyne.Position) {
	layer.emitter.Move(float64(position.X), float64(position.Y))
}

func (layer *pointerLayer) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(canvas.NewRectangle(color.Transparent))
}

// trailLayer draws the live tokens above the content. It handles no input,
// so taps and hovers reach the widgets below.
type trailLayer struct {
	widget.BaseWidget
	tokens []animation.Token
}

func newTrailLayer() *trailLayer {
	layer := &trailLayer{}
	layer.ExtendBaseWidget(layer)
	return layer
}

// setTokens must run on the UI goroutine.
func (layer *trailLayer) setTokens(tokens []animation.Token) {
	layer.tokens = tokens
	layer.Refresh()
}

func (layer *trailLayer) CreateRenderer() fyne.WidgetRenderer {
	return &trailRenderer{layer: layer}
}

type trailRenderer struct {
	layer   *trailLayer
	objects []fyne.CanvasObject
}

func (renderer *trailRenderer) Layout(fyne.Size) {}

func (renderer *trailRenderer) MinSize() fyne.Size {
	return fyne.NewSize(0, 0)
}

func (renderer *trailRenderer) Refresh() {
	objects := make([]fyne.CanvasObject, 0, len(renderer.layer.tokens))
	for _, token := range renderer.layer.tokens {
		objects = append(objects, heartText(token))
	}
	renderer.objects = objects
	canvas.Refresh(renderer.layer)
}

func (renderer *trailRenderer) Objects() []fyne.CanvasObject {
	return renderer.objects
}

func (renderer *trailRenderer) Destroy() {}

func heartText(token animation.Token) *canvas.Text {
	fill := heartColor
	fill.A = uint8(token.Opacity * 255)
	text := canvas.NewText(heartGlyph, fill)
	text.TextSize = float32(token.Size)
	size := text.MinSize()
	text.Resize(size)
	text.Move(fyne.NewPos(float32(token.X)-size.Width/2, float32(token.Y)-size.Height/2))
	return text
}
