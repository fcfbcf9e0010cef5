package icons

import (
	"image"
	"log"
	"os"
	"path/filepath"
	"strings"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
	xdraw "golang.org/x/image/draw"
)

// commonSubdirs are tried under every theme root, in priority order. The
// empty entry covers flat directories like /usr/share/pixmaps.
var commonSubdirs = []string{
	"hicolor/48x48/apps",
	"hicolor/scalable/apps",
	"hicolor/32x32/apps",
	"hicolor/64x64/apps",
	"Adwaita/48x48/apps",
	"Adwaita/scalable/apps",
	"",
}

var extensions = []string{"png", "svg", "xpm"}

// Loader finds and decodes icon files. It runs on the worker goroutine and
// may block on I/O; every failure degrades to a nil bitmap.
type Loader struct {
	themeRoots []string
}

func NewLoader(themeRoots []string) *Loader {
	return &Loader{themeRoots: themeRoots}
}

// DefaultThemeRoots returns the conventional icon search locations, in
// priority order.
func DefaultThemeRoots() []string {
	var roots []string
	if home, err := os.UserHomeDir(); err == nil {
		roots = append(roots, filepath.Join(home, ".local", "share", "icons"))
	}
	roots = append(roots, "/usr/share/icons", "/usr/share/pixmaps")
	return roots
}

// Load resolves name to a square bitmap of the given size, or nil when no
// icon can be found or decoded.
func (l *Loader) Load(name string, size int) *image.RGBA {
	if filepath.IsAbs(name) {
		if _, err := os.Stat(name); err == nil {
			return l.loadFromPath(name, size)
		}
		return nil
	}

	for _, root := range l.themeRoots {
		if _, err := os.Stat(root); err != nil {
			continue
		}
		for _, sub := range commonSubdirs {
			dir := filepath.Join(root, sub)
			if _, err := os.Stat(dir); err != nil {
				continue
			}
			for _, ext := range extensions {
				path := filepath.Join(dir, name+"."+ext)
				if _, err := os.Stat(path); err == nil {
					return l.loadFromPath(path, size)
				}
			}
		}
	}
	return nil
}

func (l *Loader) loadFromPath(path string, size int) *image.RGBA {
	if strings.EqualFold(filepath.Ext(path), ".svg") {
		return l.loadSVG(path, size)
	}
	return l.loadRaster(path, size)
}

// loadRaster decodes a raster image and resamples it to size x size.
// Drawing into an RGBA destination premultiplies the color channels.
func (l *Loader) loadRaster(path string, size int) *image.RGBA {
	f, err := os.Open(path)
	if err != nil {
		log.Printf("[ICON-LOADER] Failed to open %s: %v", path, err)
		return nil
	}
	defer f.Close()

	src, _, err := image.Decode(f)
	if err != nil {
		log.Printf("[ICON-LOADER] Failed to decode %s: %v", path, err)
		return nil
	}

	dst := image.NewRGBA(image.Rect(0, 0, size, size))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Src, nil)
	return dst
}

func (l *Loader) loadSVG(path string, size int) *image.RGBA {
	icon, err := oksvg.ReadIcon(path)
	if err != nil {
		log.Printf("[ICON-LOADER] Failed to parse SVG %s: %v", path, err)
		return nil
	}

	icon.SetTarget(0, 0, float64(size), float64(size))
	dst := image.NewRGBA(image.Rect(0, 0, size, size))
	scanner := rasterx.NewScannerGV(size, size, dst, dst.Bounds())
	icon.Draw(rasterx.NewDasher(size, size, scanner), 1.0)
	return dst
}
