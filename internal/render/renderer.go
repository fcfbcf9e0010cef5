// Package render composites the launcher panel into a raw premultiplied
// RGBA buffer. The renderer is stateless with respect to application data;
// it only holds rasterization caches and the icon service handle.
package render

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"lumen/internal/config"
	"lumen/internal/icons"
	"lumen/internal/model"
)

// Snapshot is the engine state the renderer reads. Implemented by
// *engine.Engine.
type Snapshot interface {
	Query() string
	Len() int
	Cursor() int
	ItemAt(viewIdx int) (model.Item, bool)
}

type Renderer struct {
	text  *textEngine
	icons *icons.Service
	theme config.ThemeConfig

	background    color.NRGBA
	borderColor   color.NRGBA
	textColor     color.NRGBA
	selBackground color.NRGBA
	selText       color.NRGBA
	numberColor   color.NRGBA
}

func New(theme config.ThemeConfig, iconService *icons.Service) (*Renderer, error) {
	text, err := newTextEngine()
	if err != nil {
		return nil, fmt.Errorf("failed to init text engine: %w", err)
	}

	return &Renderer{
		text:          text,
		icons:         iconService,
		theme:         theme,
		background:    config.ParseColor(theme.Background),
		borderColor:   config.ParseColor(theme.BorderColor),
		textColor:     config.ParseColor(theme.Text),
		selBackground: config.ParseColor(theme.SelectionBackground),
		selText:       config.ParseColor(theme.SelectionText),
		numberColor:   config.ParseColor(theme.NumberColor),
	}, nil
}

// listStartY is the top of the first result row.
func (r *Renderer) listStartY() float64 {
	return r.theme.Padding + searchSize + r.theme.Spacing
}

// RowCapacity returns how many rows fit below the search line in a buffer
// of the given height. Shared with the session's digit-key shortcuts so
// both agree on which rows are visible.
func (r *Renderer) RowCapacity(bufHeight int) int {
	capacity := (float64(bufHeight) - r.listStartY() - r.theme.Padding) / RowHeight
	if capacity < 0 {
		return 0
	}
	return int(capacity)
}

// Draw composites the full panel for the given snapshot into buf.
func (r *Renderer) Draw(buf *image.RGBA, snap Snapshot) {
	for i := range buf.Pix {
		buf.Pix[i] = 0
	}

	width := buf.Bounds().Dx()
	height := buf.Bounds().Dy()
	if width == 0 || height == 0 {
		return
	}

	fillRoundedRect(buf, 0, 0, float32(width), float32(height), float32(r.theme.BorderRadius), r.background)
	strokeRoundedRect(buf, 0, 0, float32(width), float32(height), float32(r.theme.BorderRadius), 1.5, r.borderColor)

	pad := int(r.theme.Padding)
	searchText := "Search apps..."
	searchColor := color.NRGBA{R: 100, G: 100, B: 100, A: 255}
	if q := snap.Query(); q != "" {
		searchText = "> " + q
		searchColor = r.textColor
	}
	r.text.drawLine(buf, searchText, pad, pad, searchSize, searchColor)

	listTop := r.listStartY()
	capacity := r.RowCapacity(height)

	if snap.Len() == 0 {
		r.text.drawLine(buf, "No results found", pad, int(listTop), rowSize,
			color.NRGBA{R: 150, G: 100, B: 100, A: 255})
		return
	}

	start, end := Window(snap.Cursor(), snap.Len(), capacity)
	for i := start; i < end; i++ {
		item, ok := snap.ItemAt(i)
		if !ok {
			continue
		}
		r.drawRow(buf, item, i, i-start, listTop, width, i == snap.Cursor())
	}
}

func (r *Renderer) drawRow(buf *image.RGBA, item model.Item, viewIdx, relIdx int, listTop float64, width int, selected bool) {
	y := listTop + float64(relIdx)*RowHeight
	rowColor := r.textColor

	if selected {
		fillRoundedRect(buf,
			float32(r.theme.Padding/2), float32(y),
			float32(float64(width)-r.theme.Padding), RowHeight,
			float32(r.theme.BorderRadius/2), r.selBackground)
		rowColor = r.selText
	}

	textX := int(r.theme.Padding)
	textY := int(y + (RowHeight-rowSize)/2)

	// The first nine visible rows carry the ordinals used by the digit-key
	// shortcuts.
	if relIdx < 9 {
		label := fmt.Sprintf("%d. ", relIdx+1)
		r.text.drawLine(buf, label, textX, int(y+(RowHeight-numberSize)/2), numberSize, r.numberColor)
		textX += numberGap
	}

	if item.Icon != "" {
		if icon, ok := r.icons.Request(item.Icon, IconSize); ok && icon != nil {
			iconY := int(y + (RowHeight-IconSize)/2)
			target := icon.Bounds().Add(image.Pt(textX, iconY)).Intersect(buf.Bounds())
			if !target.Empty() {
				draw.Draw(buf, target, icon, target.Min.Sub(image.Pt(textX, iconY)), draw.Over)
			}
			textX += IconSize + IconGap
		}
	}

	maxWidth := width - textX - int(r.theme.Padding)
	name := r.text.truncateToWidth(item.Name, rowSize, maxWidth)
	r.text.drawLine(buf, name, textX, textY, rowSize, rowColor)
}
