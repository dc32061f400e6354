package ui

import (
	"fmt"
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"

	"AmsynthGUI/i18n"
	"AmsynthGUI/params"
)

// Layout constants
const (
	WindowWidth   = 960
	WindowHeight  = 640
	GroupColumns  = 3
	LabelWidth    = 110
	ReadoutWidth  = 48
	SliderMinSize = 140
)

// ParameterWidget shows one parameter as a labelled slider with a value readout.
type ParameterWidget struct {
	*params.Adjustment

	nameLabel *widget.Label
	slider    *widget.Slider
	readout   *widget.Label
	row       *fyne.Container
}

// NewParameterWidget binds a slider to adj in both directions. Dragging the
// slider writes the adjustment; any adjustment change moves the slider.
func NewParameterWidget(adj *params.Adjustment) *ParameterWidget {
	w := &ParameterWidget{Adjustment: adj}

	w.nameLabel = widget.NewLabel(adj.Label)
	w.nameLabel.Truncation = fyne.TextTruncateEllipsis

	w.slider = widget.NewSlider(adj.Lower, adj.Upper)
	w.slider.Step = adj.Step
	w.slider.Value = adj.Value()
	w.slider.OnChanged = func(v float64) {
		adj.SetValue(v)
	}

	w.readout = widget.NewLabel(w.formatValue(adj.Value()))
	w.readout.Alignment = fyne.TextAlignTrailing

	adj.OnChanged(func(_ *params.Adjustment, v float64) {
		w.UpdateDisplay(v)
	})

	labelSize := canvas.NewRectangle(color.Transparent)
	labelSize.SetMinSize(fyne.NewSize(LabelWidth, 0))
	readoutSize := canvas.NewRectangle(color.Transparent)
	readoutSize.SetMinSize(fyne.NewSize(ReadoutWidth, 0))
	sliderSize := canvas.NewRectangle(color.Transparent)
	sliderSize.SetMinSize(fyne.NewSize(SliderMinSize, 0))

	w.row = container.NewBorder(nil, nil,
		container.NewStack(labelSize, w.nameLabel),
		container.NewStack(readoutSize, w.readout),
		container.NewStack(sliderSize, w.slider),
	)
	return w
}

// GetCanvasObject returns the row to place in a layout.
func (w *ParameterWidget) GetCanvasObject() fyne.CanvasObject {
	return w.row
}

// UpdateDisplay moves the slider and readout to v. Must run on the GUI goroutine.
// The slider value is assigned directly: Slider.SetValue snaps to Step and
// fires OnChanged, which would write the snapped value back into the adjustment.
func (w *ParameterWidget) UpdateDisplay(v float64) {
	if w.slider.Value != v {
		w.slider.Value = v
		w.slider.Refresh()
	}
	w.readout.SetText(w.formatValue(v))
}

func (w *ParameterWidget) formatValue(v float64) string {
	if w.Discrete() {
		return fmt.Sprintf("%.0f", v)
	}
	return fmt.Sprintf("%.2f", v)
}

// BuildParameterWidgets creates one widget per adjustment, in index order.
func BuildParameterWidgets(adjs []*params.Adjustment) []*ParameterWidget {
	widgets := make([]*ParameterWidget, len(adjs))
	for i, adj := range adjs {
		widgets[i] = NewParameterWidget(adj)
	}
	return widgets
}

// BuildGroups lays the widgets out as one card per parameter group.
func BuildGroups(groups []string, widgets []*ParameterWidget) fyne.CanvasObject {
	byGroup := make(map[string][]fyne.CanvasObject)
	for _, w := range widgets {
		byGroup[w.Group] = append(byGroup[w.Group], w.GetCanvasObject())
	}

	cards := make([]fyne.CanvasObject, 0, len(groups))
	for _, g := range groups {
		rows := byGroup[g]
		if len(rows) == 0 {
			continue
		}
		cards = append(cards, widget.NewCard(i18n.T(g), "", container.NewVBox(rows...)))
	}

	grid := container.New(layout.NewGridLayoutWithColumns(GroupColumns), cards...)
	return container.NewVScroll(grid)
}

// CreateMainWindow builds the editor window. The window is not shown.
func CreateMainWindow(fyneApp fyne.App, title string, catalog *params.Catalog, adjs []*params.Adjustment) (fyne.Window, []*ParameterWidget) {
	w := fyneApp.NewWindow(title)

	widgets := BuildParameterWidgets(adjs)
	w.SetContent(BuildGroups(catalog.Groups(), widgets))
	w.Resize(fyne.NewSize(WindowWidth, WindowHeight))
	return w, widgets
}

// WindowTitle formats the title the way DSSI hosts expect: "<plugin> - <instance>".
func WindowTitle(pluginName, identifier string) string {
	return fmt.Sprintf("%s - %s", pluginName, identifier)
}
