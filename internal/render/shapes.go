package render

import (
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/vector"
)

// fillRoundedRect paints an anti-aliased rounded rectangle over dst.
func fillRoundedRect(dst *image.RGBA, x, y, w, h, radius float32, fill color.Color) {
	bounds := dst.Bounds()
	r := vector.NewRasterizer(bounds.Dx(), bounds.Dy())
	addRoundedRect(r, x, y, w, h, radius, false)
	r.DrawOp = draw.Over
	r.Draw(dst, bounds, image.NewUniform(fill), image.Point{})
}

// strokeRoundedRect paints the border of a rounded rectangle with the given
// stroke width, centered on the rectangle edge. The ring is formed by an
// outer path and an opposite-winding inner path so the fills cancel.
func strokeRoundedRect(dst *image.RGBA, x, y, w, h, radius, width float32, stroke color.Color) {
	bounds := dst.Bounds()
	r := vector.NewRasterizer(bounds.Dx(), bounds.Dy())

	half := width / 2
	addRoundedRect(r, x-half, y-half, w+width, h+width, radius+half, false)

	innerRadius := radius - half
	if innerRadius < 0 {
		innerRadius = 0
	}
	addRoundedRect(r, x+half, y+half, w-width, h-width, innerRadius, true)

	r.DrawOp = draw.Over
	r.Draw(dst, bounds, image.NewUniform(stroke), image.Point{})
}

// addRoundedRect appends a rounded-rectangle path, quarter corners drawn as
// quadratic curves. reverse flips the winding direction.
func addRoundedRect(r *vector.Rasterizer, x, y, w, h, rad float32, reverse bool) {
	if w <= 0 || h <= 0 {
		return
	}
	if max := minf(w, h) / 2; rad > max {
		rad = max
	}

	if !reverse {
		r.MoveTo(x+rad, y)
		r.LineTo(x+w-rad, y)
		r.QuadTo(x+w, y, x+w, y+rad)
		r.LineTo(x+w, y+h-rad)
		r.QuadTo(x+w, y+h, x+w-rad, y+h)
		r.LineTo(x+rad, y+h)
		r.QuadTo(x, y+h, x, y+h-rad)
		r.LineTo(x, y+rad)
		r.QuadTo(x, y, x+rad, y)
		r.ClosePath()
		return
	}

	r.MoveTo(x+rad, y)
	r.QuadTo(x, y, x, y+rad)
	r.LineTo(x, y+h-rad)
	r.QuadTo(x, y+h, x+rad, y+h)
	r.LineTo(x+w-rad, y+h)
	r.QuadTo(x+w, y+h, x+w, y+h-rad)
	r.LineTo(x+w, y+rad)
	r.QuadTo(x+w, y, x+w-rad, y)
	r.ClosePath()
}

func minf(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}
