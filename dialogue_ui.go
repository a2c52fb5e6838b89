package main

import (
	"image"
	"image/color"

	"github.com/ebitenui/ebitenui"
	imageui "github.com/ebitenui/ebitenui/image"
	"github.com/ebitenui/ebitenui/widget"
	"github.com/hajimehoshi/ebiten/v2"
	ebtext "github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/milk9111/storyscene/assets"
	"github.com/milk9111/storyscene/common"
	"github.com/milk9111/storyscene/dialogue"
	"github.com/sirupsen/logrus"
	"golang.org/x/image/font/basicfont"
)

const (
	maxDecisionButtons = 4
	portraitSize       = 64
)

// DialogueUI is the dialogue box: running text, a portrait and a column of
// decision buttons. It implements the dialogue view interfaces.
type DialogueUI struct {
	UI *ebitenui.UI

	box      *widget.Container
	text     *widget.Text
	portrait *widget.Graphic
	buttons  []*decisionButton

	log logrus.FieldLogger
}

type decisionButton struct {
	btn *widget.Button
}

func (b *decisionButton) SetLabel(label string) {
	if text := b.btn.Text(); text != nil {
		text.Label = label
	}
}

func (b *decisionButton) SetVisible(visible bool) {
	setVisible(b.btn.GetWidget(), visible)
}

// NewDialogueUI builds the dialogue box. onSelect receives the index of a
// clicked decision button.
func NewDialogueUI(log logrus.FieldLogger, onSelect func(i int)) *DialogueUI {
	goFace := ebtext.NewGoXFace(basicfont.Face7x13)
	var face ebtext.Face = goFace

	panelImg := imageui.NewNineSliceColor(color.NRGBA{R: 0x10, G: 0x10, B: 0x18, A: 220})
	btnImage := &widget.ButtonImage{
		Idle:    imageui.NewNineSliceColor(color.NRGBA{R: 0x33, G: 0x33, B: 0x44, A: 255}),
		Hover:   imageui.NewNineSliceColor(color.NRGBA{R: 0x4a, G: 0x4a, B: 0x66, A: 255}),
		Pressed: imageui.NewNineSliceColor(color.NRGBA{R: 0x22, G: 0x22, B: 0x2e, A: 255}),
	}
	btnTextColor := &widget.ButtonTextColor{Idle: color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}}

	d := &DialogueUI{log: log}

	d.portrait = widget.NewGraphic(
		widget.GraphicOpts.WidgetOpts(
			widget.WidgetOpts.MinSize(portraitSize, portraitSize),
			widget.WidgetOpts.LayoutData(widget.RowLayoutData{Position: widget.RowLayoutPositionStart}),
		),
	)

	d.text = widget.NewText(
		widget.TextOpts.Text("", &face, color.NRGBA{R: 0xf0, G: 0xe8, B: 0xd8, A: 0xff}),
		widget.TextOpts.MaxWidth(float64(common.BaseWidth-portraitSize-220)),
	)

	buttonColumn := widget.NewContainer(
		widget.ContainerOpts.Layout(widget.NewRowLayout(
			widget.RowLayoutOpts.Direction(widget.DirectionVertical),
			widget.RowLayoutOpts.Spacing(4),
		)),
	)
	for i := 0; i < maxDecisionButtons; i++ {
		idx := i
		btn := widget.NewButton(
			widget.ButtonOpts.Image(btnImage),
			widget.ButtonOpts.Text("", &face, btnTextColor),
			widget.ButtonOpts.WidgetOpts(
				widget.WidgetOpts.MinSize(180, 22),
				widget.WidgetOpts.LayoutData(widget.RowLayoutData{Stretch: true}),
			),
			widget.ButtonOpts.ClickedHandler(func(args *widget.ButtonClickedEventArgs) {
				if onSelect != nil {
					onSelect(idx)
				}
			}),
		)
		setVisible(btn.GetWidget(), false)
		d.buttons = append(d.buttons, &decisionButton{btn: btn})
		buttonColumn.AddChild(btn)
	}

	d.box = widget.NewContainer(
		widget.ContainerOpts.BackgroundImage(panelImg),
		widget.ContainerOpts.Layout(widget.NewRowLayout(
			widget.RowLayoutOpts.Direction(widget.DirectionHorizontal),
			widget.RowLayoutOpts.Spacing(12),
			widget.RowLayoutOpts.Padding(&widget.Insets{Top: 10, Bottom: 10, Left: 12, Right: 12}),
		)),
		widget.ContainerOpts.WidgetOpts(
			widget.WidgetOpts.MinSize(common.BaseWidth-20, 110),
			widget.WidgetOpts.LayoutData(widget.AnchorLayoutData{
				HorizontalPosition: widget.AnchorLayoutPositionCenter,
				VerticalPosition:   widget.AnchorLayoutPositionEnd,
			}),
		),
	)
	d.box.AddChild(d.portrait)
	d.box.AddChild(d.text)
	d.box.AddChild(buttonColumn)
	setVisible(d.box.GetWidget(), false)

	root := widget.NewContainer(widget.ContainerOpts.Layout(widget.NewAnchorLayout()))
	root.AddChild(d.box)
	d.UI = &ebitenui.UI{Container: root}
	return d
}

// Views adapts the widgets for the dialogue system.
func (d *DialogueUI) Views() (dialogue.TextView, dialogue.ImageView, []dialogue.ButtonView) {
	buttons := make([]dialogue.ButtonView, len(d.buttons))
	for i, b := range d.buttons {
		buttons[i] = b
	}
	return d, d, buttons
}

func (d *DialogueUI) SetText(text string) {
	d.text.Label = text
}

// SetImage swaps the portrait. An image that cannot be loaded clears it.
func (d *DialogueUI) SetImage(name string) {
	img, err := assets.Image(name)
	if err != nil {
		d.log.WithError(err).WithField("image", name).Error("portrait not loaded")
		d.portrait.Image = nil
		return
	}
	d.portrait.Image = img
}

// SetOpen shows or hides the whole box.
func (d *DialogueUI) SetOpen(open bool) {
	w := d.box.GetWidget()
	if (w.Visibility == widget.Visibility_Show) == open {
		return
	}
	setVisible(w, open)
	d.UI.Container.RequestRelayout()
}

// ButtonAt reports whether a visible decision button covers the point.
func (d *DialogueUI) ButtonAt(x, y int) bool {
	if d.box.GetWidget().Visibility != widget.Visibility_Show {
		return false
	}
	p := image.Pt(x, y)
	for _, b := range d.buttons {
		w := b.btn.GetWidget()
		if w.Visibility == widget.Visibility_Show && p.In(w.Rect) {
			return true
		}
	}
	return false
}

func (d *DialogueUI) Update() {
	d.UI.Update()
}

func (d *DialogueUI) Draw(screen *ebiten.Image) {
	d.UI.Draw(screen)
}

func setVisible(w *widget.Widget, visible bool) {
	if visible {
		w.Visibility = widget.Visibility_Show
	} else {
		w.Visibility = widget.Visibility_Hide
	}
}
