// Package sources discovers the selectable items a launch group asks for:
// desktop entries, PATH executables, user scripts and statically configured
// commands. Scanning is one-shot per session.
package sources

import (
	"log"

	"lumen/internal/config"
	"lumen/internal/model"
)

// Source enumerates items of one kind. Scan failures degrade to an empty
// contribution, never abort the batch.
type Source interface {
	Name() string
	Scan() ([]model.Item, error)
}

// Scan runs the group's enabled sources plus its static items and sends
// exactly one batch. Meant to run on its own goroutine; it exits after the
// send.
func Scan(group config.LaunchGroup, out chan<- []model.Item) {
	var items []model.Item

	for _, static := range group.Items {
		item := model.NewItem("custom:"+static.Name, static.Name, static.Command, model.KindCustom, static.Terminal)
		item.Icon = static.Icon
		items = append(items, item)
	}

	enabled := make(map[string]bool, len(group.Sources))
	for _, name := range group.Sources {
		enabled[name] = true
	}

	for _, src := range []Source{NewDesktopSource(), NewBinSource(), NewScriptsSource()} {
		if !enabled[src.Name()] {
			continue
		}
		found, err := src.Scan()
		if err != nil {
			log.Printf("[SOURCES] %s scan failed: %v", src.Name(), err)
			continue
		}
		log.Printf("[SOURCES] %s: found %d items", src.Name(), len(found))
		items = append(items, found...)
	}

	out <- items
}
