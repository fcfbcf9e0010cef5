package sources

import (
	"os"
	"path/filepath"

	"lumen/internal/model"
)

// ScriptsSource scans the user's lumen scripts directory for executables.
type ScriptsSource struct {
	dir string
}

func NewScriptsSource() *ScriptsSource {
	var dir string
	if home, err := os.UserHomeDir(); err == nil {
		dir = filepath.Join(home, ".config", "lumen", "scripts")
	}
	return &ScriptsSource{dir: dir}
}

func (s *ScriptsSource) Name() string {
	return "scripts"
}

func (s *ScriptsSource) Scan() ([]model.Item, error) {
	if s.dir == "" {
		return nil, nil
	}

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var items []model.Item
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil || info.Mode()&0111 == 0 {
			continue
		}
		path := filepath.Join(s.dir, entry.Name())
		items = append(items, model.NewItem(path, entry.Name(), path, model.KindCustom, false))
	}

	return items, nil
}
