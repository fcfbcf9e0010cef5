package sources

import (
	"os"
	"path/filepath"
	"strings"

	"lumen/internal/model"
)

// BinSource scans the directories on PATH for executable files.
type BinSource struct {
	pathVar string
}

func NewBinSource() *BinSource {
	return &BinSource{pathVar: os.Getenv("PATH")}
}

func (s *BinSource) Name() string {
	return "bin"
}

func (s *BinSource) Scan() ([]model.Item, error) {
	var items []model.Item
	seen := make(map[string]bool)

	for _, dir := range strings.Split(s.pathVar, ":") {
		if dir == "" {
			continue
		}
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			info, err := entry.Info()
			if err != nil || info.Mode()&0111 == 0 {
				continue
			}
			// First hit on PATH wins, like shell resolution.
			if seen[entry.Name()] {
				continue
			}
			seen[entry.Name()] = true

			path := filepath.Join(dir, entry.Name())
			items = append(items, model.NewItem(path, entry.Name(), path, model.KindBinary, false))
		}
	}

	return items, nil
}
