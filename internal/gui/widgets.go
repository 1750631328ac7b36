package gui

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"

	"codeberg.org/snonux/lingoflow/internal/sentiment"
)

const chartBarWidth = 240

// SentimentChart draws one horizontal bar per emotion in canonical order.
type SentimentChart struct {
	widget.BaseWidget

	container *fyne.Container
	bars      []*canvas.Rectangle
	values    []*widget.Label
	emptyText *widget.Label

	vector sentiment.Vector
}

// NewSentimentChart creates an empty chart
func NewSentimentChart() *SentimentChart {
	c := &SentimentChart{}

	rows := container.NewGridWithColumns(3)
	for i, label := range sentiment.Labels {
		bar := canvas.NewRectangle(parseHexColor(sentiment.Colors[i]))
		bar.SetMinSize(fyne.NewSize(0, 14))
		value := widget.NewLabel("0.00")

		c.bars = append(c.bars, bar)
		c.values = append(c.values, value)
		rows.Add(widget.NewLabel(label))
		rows.Add(container.NewGridWrap(fyne.NewSize(chartBarWidth, 18), container.NewHBox(bar)))
		rows.Add(value)
	}

	c.emptyText = widget.NewLabel("No sentiment data")
	c.emptyText.Alignment = fyne.TextAlignCenter

	c.container = container.NewVBox(c.emptyText, rows)
	c.ExtendBaseWidget(c)
	c.SetVector(sentiment.Vector{})
	return c
}

// CreateRenderer implements fyne.Widget
func (c *SentimentChart) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(c.container)
}

// SetVector replaces the displayed scores. Bar lengths are relative to the
// vector total.
func (c *SentimentChart) SetVector(v sentiment.Vector) {
	c.vector = v

	slices := sentiment.Slices(v)
	empty := true
	for i, s := range slices {
		if s.Share > 0 {
			empty = false
		}
		c.bars[i].SetMinSize(fyne.NewSize(float32(s.Share)*chartBarWidth, 14))
		c.bars[i].Refresh()
		c.values[i].SetText(fmt.Sprintf("%.2f", s.Value))
	}

	if empty {
		c.emptyText.Show()
	} else {
		c.emptyText.Hide()
	}
	c.Refresh()
}

// Vector returns the displayed scores
func (c *SentimentChart) Vector() sentiment.Vector {
	return c.vector
}

// parseHexColor turns "#rrggbb" into a colour. Malformed input is grey.
func parseHexColor(s string) color.Color {
	fallback := color.NRGBA{R: 0xcc, G: 0xcc, B: 0xcc, A: 0xff}

	s = strings.TrimPrefix(s, "#")
	if len(s) != 6 {
		return fallback
	}
	n, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return fallback
	}
	return color.NRGBA{R: uint8(n >> 16), G: uint8(n >> 8), B: uint8(n), A: 0xff}
}

func setEnabled(enabled bool, objects ...fyne.Disableable) {
	for _, o := range objects {
		if enabled {
			o.Enable()
		} else {
			o.Disable()
		}
	}
}

func boldLabel(text string) *widget.Label {
	return widget.NewLabelWithStyle(text, fyne.TextAlignLeading, fyne.TextStyle{Bold: true})
}

func layoutSpacer() fyne.CanvasObject {
	return layout.NewSpacer()
}

// overallText falls back to the locally derived classification when the
// backend sent none.
func overallText(overall string, v sentiment.Vector) string {
	if overall == "" {
		overall = sentiment.Overall(v)
	}
	if label, ok := sentiment.Dominant(v); ok {
		return fmt.Sprintf("Overall sentiment: %s (dominant: %s)", overall, label)
	}
	return "Overall sentiment: " + overall
}
