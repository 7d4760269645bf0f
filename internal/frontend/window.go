// Package frontend implements the desktop window for resizing an image.
package frontend

import (
	"image/color"

	"gioui.org/app"
	"gioui.org/font/gofont"
	"gioui.org/io/event"
	"gioui.org/io/key"
	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/text"
	"gioui.org/unit"
	"gioui.org/widget/material"
	"gioui.org/x/explorer"
	"go.uber.org/zap"
)

const (
	Title   = "Image Converter"
	Version = "2025/1/22-01"

	windowWidth  = 400
	windowHeight = 300
)

var errorColor = color.NRGBA{R: 0xb0, G: 0x20, B: 0x20, A: 0xff}

type action int

const (
	actionNone action = iota
	actionChoose
	actionFocusWidth
	actionFocusHeight
	actionNextFormat
	actionConvert
)

// shortcuts are pressed together with Alt
var shortcuts = map[key.Name]action{
	"O": actionChoose,
	"W": actionFocusWidth,
	"H": actionFocusHeight,
	"F": actionNextFormat,
	"S": actionConvert,
}

func shortcutFor(e key.Event) action {
	if e.State != key.Press || !e.Modifiers.Contain(key.ModAlt) {
		return actionNone
	}
	return shortcuts[e.Name]
}

func shortcutFilters() []event.Filter {
	filters := make([]event.Filter, 0, len(shortcuts))
	for name := range shortcuts {
		filters = append(filters, key.Filter{Name: name, Required: key.ModAlt})
	}
	return filters
}

type Window struct {
	form    *form
	theme   *material.Theme
	filters []event.Filter
}

// NewWindow prepares the window state. source pre-fills the file field.
func NewWindow(converter Converter, logger *zap.Logger, source string) *Window {
	theme := material.NewTheme()
	theme.Shaper = text.NewShaper(text.WithCollection(gofont.Collection()))
	return &Window{
		form:    newForm(converter, nil, logger, source),
		theme:   theme,
		filters: shortcutFilters(),
	}
}

// Options sets the title and fixed size of the window.
func Options() []app.Option {
	return []app.Option{
		app.Title(Title),
		app.Size(unit.Dp(windowWidth), unit.Dp(windowHeight)),
		app.MinSize(unit.Dp(windowWidth), unit.Dp(windowHeight)),
		app.MaxSize(unit.Dp(windowWidth), unit.Dp(windowHeight)),
	}
}

// Run processes window events until the window is closed.
func (w *Window) Run(window *app.Window) error {
	window.Option(Options()...)
	expl := explorer.NewExplorer(window)
	w.form.useChooser(expl)

	var ops op.Ops
	for {
		ev := window.Event()
		expl.ListenEvents(ev)
		switch e := ev.(type) {
		case app.DestroyEvent:
			return e.Err
		case app.FrameEvent:
			gtx := app.NewContext(&ops, e)
			w.update(gtx, window)
			w.layout(gtx)
			e.Frame(gtx.Ops)
		}
	}
}

func (w *Window) update(gtx layout.Context, window *app.Window) {
	w.form.takeSelected()

	for {
		ev, ok := gtx.Event(w.filters...)
		if !ok {
			break
		}
		if e, ok := ev.(key.Event); ok {
			w.perform(gtx, window, shortcutFor(e))
		}
	}
	if w.form.choose.Clicked(gtx) {
		w.perform(gtx, window, actionChoose)
	}
	if w.form.convert.Clicked(gtx) {
		w.perform(gtx, window, actionConvert)
	}
	w.form.format.Update(gtx)
}

func (w *Window) perform(gtx layout.Context, window *app.Window, a action) {
	switch a {
	case actionChoose:
		w.form.chooseSource(window.Invalidate)
	case actionFocusWidth:
		gtx.Execute(key.FocusCmd{Tag: &w.form.width})
	case actionFocusHeight:
		gtx.Execute(key.FocusCmd{Tag: &w.form.height})
	case actionNextFormat:
		w.form.nextFormat()
	case actionConvert:
		w.form.submit(window.Invalidate)
	}
}

func (w *Window) layout(gtx layout.Context) layout.Dimensions {
	th := w.theme
	pending, status, failed := w.form.state()

	return layout.UniformInset(unit.Dp(12)).Layout(gtx, func(gtx layout.Context) layout.Dimensions {
		return layout.Flex{Axis: layout.Vertical}.Layout(gtx,
			layout.Rigid(func(gtx layout.Context) layout.Dimensions {
				return layout.E.Layout(gtx, material.Caption(th, "Version: "+Version).Layout)
			}),
			layout.Rigid(layout.Spacer{Height: unit.Dp(8)}.Layout),
			layout.Rigid(w.source),
			layout.Rigid(layout.Spacer{Height: unit.Dp(8)}.Layout),
			layout.Rigid(func(gtx layout.Context) layout.Dimensions {
				return layout.Flex{Alignment: layout.Middle}.Layout(gtx,
					layout.Flexed(1, func(gtx layout.Context) layout.Dimensions {
						return w.row(gtx, "Width (Alt+W):", material.Editor(th, &w.form.width, "800").Layout)
					}),
					layout.Rigid(layout.Spacer{Width: unit.Dp(12)}.Layout),
					layout.Flexed(1, func(gtx layout.Context) layout.Dimensions {
						return w.row(gtx, "Height (Alt+H):", material.Editor(th, &w.form.height, "600").Layout)
					}),
				)
			}),
			layout.Rigid(layout.Spacer{Height: unit.Dp(8)}.Layout),
			layout.Rigid(w.formats),
			layout.Rigid(layout.Spacer{Height: unit.Dp(12)}.Layout),
			layout.Rigid(func(gtx layout.Context) layout.Dimensions {
				if pending {
					gtx = gtx.Disabled()
				}
				return material.Button(th, &w.form.convert, "Convert and save (Alt+S)").Layout(gtx)
			}),
			layout.Rigid(layout.Spacer{Height: unit.Dp(8)}.Layout),
			layout.Rigid(func(gtx layout.Context) layout.Dimensions {
				label := material.Body2(th, status)
				if pending {
					label.Text = "Converting..."
				}
				if failed && !pending {
					label.Color = errorColor
				}
				return label.Layout(gtx)
			}),
		)
	})
}

// source shows the chosen file next to the chooser button, or a path field
// when no native dialog is available
func (w *Window) source(gtx layout.Context) layout.Dimensions {
	th := w.theme
	if w.form.manualEntry() {
		return w.row(gtx, "File:", material.Editor(th, &w.form.source, "path to an image").Layout)
	}
	return layout.Flex{Alignment: layout.Middle}.Layout(gtx,
		layout.Flexed(1, material.Body1(th, fileLabel(w.form.source.Text())).Layout),
		layout.Rigid(layout.Spacer{Width: unit.Dp(6)}.Layout),
		layout.Rigid(material.Button(th, &w.form.choose, "Select image (Alt+O)").Layout),
	)
}

func (w *Window) row(gtx layout.Context, label string, field layout.Widget) layout.Dimensions {
	return layout.Flex{Alignment: layout.Middle}.Layout(gtx,
		layout.Rigid(material.Body1(w.theme, label).Layout),
		layout.Rigid(layout.Spacer{Width: unit.Dp(6)}.Layout),
		layout.Flexed(1, field),
	)
}

func (w *Window) formats(gtx layout.Context) layout.Dimensions {
	children := []layout.FlexChild{
		layout.Rigid(material.Body1(w.theme, "Format (Alt+F):").Layout),
	}
	for _, f := range w.form.formats {
		children = append(children, layout.Rigid(
			material.RadioButton(w.theme, &w.form.format, f.String(), f.String()).Layout,
		))
	}
	return layout.Flex{Alignment: layout.Middle}.Layout(gtx, children...)
}
