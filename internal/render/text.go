package render

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// lineCacheSize bounds the shaped-line cache; rapid keystrokes re-render
// mostly identical rows, so hits dominate.
const lineCacheSize = 256

// textEngine shapes and rasterizes single lines of text, caching the
// resulting bitmaps per (text, size, color).
type textEngine struct {
	faces map[int]font.Face
	cache *lru.Cache[string, *image.RGBA]
}

func newTextEngine() (*textEngine, error) {
	parsed, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("failed to parse font: %w", err)
	}

	faces := make(map[int]font.Face, 3)
	for _, size := range []int{searchSize, rowSize, numberSize} {
		face, err := opentype.NewFace(parsed, &opentype.FaceOptions{
			Size:    float64(size),
			DPI:     72,
			Hinting: font.HintingFull,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create %dpx face: %w", size, err)
		}
		faces[size] = face
	}

	cache, err := lru.New[string, *image.RGBA](lineCacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create line cache: %w", err)
	}

	return &textEngine{faces: faces, cache: cache}, nil
}

// renderLine rasterizes one line of text in the given color, returning a
// tight premultiplied bitmap. Results are cached.
func (t *textEngine) renderLine(text string, size int, col color.NRGBA) *image.RGBA {
	if text == "" {
		return nil
	}

	key := fmt.Sprintf("%s|%d|%02x%02x%02x%02x", text, size, col.R, col.G, col.B, col.A)
	if img, ok := t.cache.Get(key); ok {
		return img
	}

	face := t.faces[size]
	metrics := face.Metrics()
	width := font.MeasureString(face, text).Ceil()
	height := (metrics.Ascent + metrics.Descent).Ceil()
	if width <= 0 || height <= 0 {
		return nil
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	d := font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(col),
		Face: face,
		Dot:  fixed.Point26_6{X: 0, Y: metrics.Ascent},
	}
	d.DrawString(text)

	t.cache.Add(key, img)
	return img
}

// drawLine composites a line of text over dst with its top-left corner at
// (x, y), clipping to the destination bounds.
func (t *textEngine) drawLine(dst *image.RGBA, text string, x, y, size int, col color.NRGBA) {
	line := t.renderLine(text, size, col)
	if line == nil {
		return
	}

	target := line.Bounds().Add(image.Pt(x, y)).Intersect(dst.Bounds())
	if target.Empty() {
		return
	}
	draw.Draw(dst, target, line, target.Min.Sub(image.Pt(x, y)), draw.Over)
}

// lineWidth measures the rendered advance of text at the given size.
func (t *textEngine) lineWidth(text string, size int) int {
	return font.MeasureString(t.faces[size], text).Ceil()
}

// truncateToWidth shortens text with a trailing ellipsis until its rendered
// advance fits maxWidth. Text that already fits is returned unchanged; a
// maxWidth too small for even the ellipsis yields the empty string.
func (t *textEngine) truncateToWidth(text string, size, maxWidth int) string {
	if t.lineWidth(text, size) <= maxWidth {
		return text
	}

	runes := []rune(text)
	for len(runes) > 0 {
		runes = runes[:len(runes)-1]
		candidate := string(runes) + "..."
		if t.lineWidth(candidate, size) <= maxWidth {
			return candidate
		}
	}
	return ""
}
