package render

import (
	"image"
	"strings"
	"testing"

	"lumen/internal/config"
	"lumen/internal/icons"
	"lumen/internal/model"
)

type fakeSnapshot struct {
	query  string
	items  []model.Item
	cursor int
}

func (f *fakeSnapshot) Query() string { return f.query }
func (f *fakeSnapshot) Len() int      { return len(f.items) }
func (f *fakeSnapshot) Cursor() int   { return f.cursor }
func (f *fakeSnapshot) ItemAt(i int) (model.Item, bool) {
	if i < 0 || i >= len(f.items) {
		return model.Item{}, false
	}
	return f.items[i], true
}

func testRenderer(t *testing.T) *Renderer {
	t.Helper()
	r, err := New(config.DefaultConfig.Theme, icons.NewService(icons.NewLoader(nil)))
	if err != nil {
		t.Fatalf("Failed to create renderer: %v", err)
	}
	return r
}

func TestWindow(t *testing.T) {
	testCases := []struct {
		name      string
		cursor    int
		total     int
		capacity  int
		wantStart int
		wantEnd   int
	}{
		{"everything fits", 3, 5, 10, 0, 5},
		{"exactly fits", 9, 10, 10, 0, 10},
		{"cursor near top clamps to zero", 1, 100, 10, 0, 10},
		{"cursor centered", 50, 100, 10, 45, 55},
		{"cursor near bottom clamps to tail", 98, 100, 10, 90, 100},
		{"cursor at last item", 99, 100, 10, 90, 100},
		{"zero capacity", 0, 5, 0, 0, 0},
		{"empty view", 0, 0, 10, 0, 0},
	}

	for _, tc := range testCases {
		start, end := Window(tc.cursor, tc.total, tc.capacity)
		if start != tc.wantStart || end != tc.wantEnd {
			t.Errorf("%s: Window(%d, %d, %d) = [%d, %d), want [%d, %d)",
				tc.name, tc.cursor, tc.total, tc.capacity, start, end, tc.wantStart, tc.wantEnd)
		}
	}
}

func TestWindowAlwaysContainsCursor(t *testing.T) {
	for total := 1; total <= 40; total++ {
		for cursor := 0; cursor < total; cursor++ {
			start, end := Window(cursor, total, 7)
			if cursor < start || cursor >= end {
				t.Fatalf("Window(%d, %d, 7) = [%d, %d) does not contain cursor", cursor, total, start, end)
			}
		}
	}
}

func TestRowCapacity(t *testing.T) {
	r := testRenderer(t)

	if got := r.RowCapacity(400); got <= 0 {
		t.Errorf("Expected positive capacity for 400px buffer, got %d", got)
	}
	if got := r.RowCapacity(0); got != 0 {
		t.Errorf("Expected zero capacity for empty buffer, got %d", got)
	}

	// Taller buffers never fit fewer rows.
	prev := 0
	for h := 100; h <= 800; h += 50 {
		c := r.RowCapacity(h)
		if c < prev {
			t.Errorf("Capacity shrank from %d to %d at height %d", prev, c, h)
		}
		prev = c
	}
}

func TestDrawPaintsPanelBackground(t *testing.T) {
	r := testRenderer(t)
	buf := image.NewRGBA(image.Rect(0, 0, 200, 200))

	r.Draw(buf, &fakeSnapshot{})

	center := buf.RGBAAt(100, 100)
	if center.A == 0 {
		t.Error("Expected opaque panel fill at buffer center")
	}

	// The rounded corner leaves the extreme corner pixel (nearly)
	// transparent.
	corner := buf.RGBAAt(0, 0)
	if corner.A == 255 {
		t.Error("Expected corner outside the rounded panel to not be fully opaque")
	}
}

func TestDrawEmptyViewShowsNoResults(t *testing.T) {
	r := testRenderer(t)
	buf := image.NewRGBA(image.Rect(0, 0, 300, 200))

	// Must not panic and must still paint the panel.
	r.Draw(buf, &fakeSnapshot{query: "zzz"})

	if buf.RGBAAt(150, 100).A == 0 {
		t.Error("Expected panel painted for empty view")
	}
}

func TestDrawRendersRowsWithinCapacity(t *testing.T) {
	r := testRenderer(t)
	buf := image.NewRGBA(image.Rect(0, 0, 400, 300))

	items := make([]model.Item, 50)
	for i := range items {
		items[i] = model.NewItem("id", "Item", "cmd", model.KindBinary, false)
	}

	// Cursor deep in the list forces a scrolled window; must not panic or
	// index outside the view.
	r.Draw(buf, &fakeSnapshot{items: items, cursor: 42})
}

func TestDrawIsDeterministic(t *testing.T) {
	r := testRenderer(t)
	snap := &fakeSnapshot{
		query: "fire",
		items: []model.Item{model.NewItem("ff", "Firefox", "firefox", model.KindDesktop, false)},
	}

	a := image.NewRGBA(image.Rect(0, 0, 300, 200))
	b := image.NewRGBA(image.Rect(0, 0, 300, 200))
	r.Draw(a, snap)
	r.Draw(b, snap)

	for i := range a.Pix {
		if a.Pix[i] != b.Pix[i] {
			t.Fatalf("Pixel data differs at byte %d between identical draws", i)
		}
	}
}

func TestTruncateToWidth(t *testing.T) {
	r := testRenderer(t)

	short := "Files"
	if got := r.text.truncateToWidth(short, rowSize, 400); got != short {
		t.Errorf("Expected fitting text unchanged, got %q", got)
	}

	long := strings.Repeat("VeryLongApplicationName", 8)
	got := r.text.truncateToWidth(long, rowSize, 200)
	if got == long {
		t.Fatal("Expected overlong text truncated")
	}
	if !strings.HasSuffix(got, "...") {
		t.Errorf("Expected truncated text to end with ellipsis, got %q", got)
	}
	if w := r.text.lineWidth(got, rowSize); w > 200 {
		t.Errorf("Truncated text still measures %dpx, want <= 200", w)
	}

	if got := r.text.truncateToWidth(long, rowSize, 1); got != "" {
		t.Errorf("Expected empty string when nothing fits, got %q", got)
	}
}

func TestDrawTruncatesOverlongRowText(t *testing.T) {
	r := testRenderer(t)
	buf := image.NewRGBA(image.Rect(0, 0, 300, 200))

	name := strings.Repeat("SupercalifragilisticLauncher", 8)
	snap := &fakeSnapshot{
		items: []model.Item{model.NewItem("id", name, "cmd", model.KindBinary, false)},
	}

	// Must not paint row text into the right padding band.
	r.Draw(buf, snap)

	textColor := config.ParseColor(config.DefaultConfig.Theme.Text)
	rowTop := int(r.listStartY())
	for y := rowTop; y < rowTop+RowHeight; y++ {
		px := buf.RGBAAt(298, y)
		if px.R >= textColor.R {
			t.Fatalf("Row text painted into the right padding at (298,%d): %+v", y, px)
		}
	}
}

func TestDrawOutputIsPremultiplied(t *testing.T) {
	r := testRenderer(t)
	buf := image.NewRGBA(image.Rect(0, 0, 200, 200))
	r.Draw(buf, &fakeSnapshot{})

	for y := 0; y < 200; y += 7 {
		for x := 0; x < 200; x += 7 {
			px := buf.RGBAAt(x, y)
			if px.R > px.A || px.G > px.A || px.B > px.A {
				t.Fatalf("Non-premultiplied pixel at (%d,%d): %+v", x, y, px)
			}
		}
	}
}
