package sources

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"lumen/internal/model"
)

// DesktopSource scans XDG application directories for .desktop entries.
type DesktopSource struct {
	dataDirs []string
}

func NewDesktopSource() *DesktopSource {
	var dirs []string
	if home, err := os.UserHomeDir(); err == nil {
		dirs = append(dirs, filepath.Join(home, ".local", "share", "applications"))
	}
	dirs = append(dirs, "/usr/share/applications", "/usr/local/share/applications")
	return &DesktopSource{dataDirs: dirs}
}

func (s *DesktopSource) Name() string {
	return "desktop"
}

func (s *DesktopSource) Scan() ([]model.Item, error) {
	var items []model.Item

	for _, dir := range s.dataDirs {
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, entry := range entries {
			if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".desktop") {
				continue
			}
			path := filepath.Join(dir, entry.Name())
			item, ok := parseDesktopFile(path)
			if ok {
				items = append(items, item)
			}
		}
	}

	return items, nil
}

// parseDesktopFile reads the [Desktop Entry] section of one .desktop file.
// Hidden entries and files without Name or Exec yield ok=false.
func parseDesktopFile(path string) (model.Item, bool) {
	f, err := os.Open(path)
	if err != nil {
		return model.Item{}, false
	}
	defer f.Close()

	var name, exec, icon string
	var terminal, noDisplay bool
	inDesktopEntry := false

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if strings.HasPrefix(line, "[") {
			inDesktopEntry = line == "[Desktop Entry]"
			continue
		}
		if !inDesktopEntry {
			continue
		}

		key, value, found := strings.Cut(line, "=")
		if !found {
			continue
		}
		switch strings.TrimSpace(key) {
		case "Name":
			if name == "" {
				name = strings.TrimSpace(value)
			}
		case "Exec":
			exec = stripFieldCodes(strings.TrimSpace(value))
		case "Icon":
			icon = strings.TrimSpace(value)
		case "Terminal":
			terminal = strings.EqualFold(strings.TrimSpace(value), "true")
		case "NoDisplay", "Hidden":
			if strings.EqualFold(strings.TrimSpace(value), "true") {
				noDisplay = true
			}
		}
	}

	if noDisplay || name == "" || exec == "" {
		return model.Item{}, false
	}

	displayName := name
	container := containerName(exec)
	if container != "" {
		displayName = fmt.Sprintf("%s (%s)", name, container)
	}

	item := model.NewItem(path, displayName, exec, model.KindDesktop, terminal)
	item.Icon = icon
	item.IsContainer = container != ""
	return item, true
}

// stripFieldCodes removes %u/%f style placeholders from an Exec line.
func stripFieldCodes(exec string) string {
	fields := strings.Fields(exec)
	kept := fields[:0]
	for _, f := range fields {
		if strings.HasPrefix(f, "%") {
			continue
		}
		kept = append(kept, f)
	}
	return strings.Join(kept, " ")
}

// containerName extracts the container an Exec line targets, for entries
// exported by distrobox or toolbox.
func containerName(exec string) string {
	fields := strings.Fields(exec)

	var flagNames []string
	switch {
	case strings.Contains(exec, "distrobox-enter"):
		flagNames = []string{"-n", "--name"}
	case strings.Contains(exec, "toolbox run"):
		flagNames = []string{"-c", "--container"}
	default:
		return ""
	}

	for i, f := range fields {
		for _, flag := range flagNames {
			if f == flag && i+1 < len(fields) {
				return fields[i+1]
			}
		}
	}
	return ""
}
