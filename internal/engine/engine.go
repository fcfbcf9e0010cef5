// Package engine owns the launcher catalog, the typed query, the derived
// filtered view and the selection cursor. Every mutation recomputes the view
// synchronously, so the renderer never observes a stale intermediate state.
package engine

import (
	"log"
	"regexp"
	"sort"
	"strings"

	"lumen/internal/config"
	"lumen/internal/model"
)

// UsageCounts is the slice of the history store the engine needs at rank
// time.
type UsageCounts interface {
	Count(id string) uint32
}

type zeroUsage struct{}

func (zeroUsage) Count(string) uint32 { return 0 }

// Engine holds the catalog and its derived filtered view. It is not safe
// for concurrent use; the session goroutine is its only caller.
type Engine struct {
	catalog  []model.Item
	filtered []int // indices into catalog
	cursor   int
	query    string

	usage     UsageCounts
	whitelist []string
	blacklist []*regexp.Regexp
}

// New builds an engine with the given usage counters and the whitelist and
// blacklist of the active launch group. Malformed blacklist patterns are
// skipped, never fatal. A nil usage source ranks every item with count zero.
func New(usage UsageCounts, group config.LaunchGroup) *Engine {
	if usage == nil {
		usage = zeroUsage{}
	}

	e := &Engine{
		usage:     usage,
		whitelist: group.Whitelist,
	}
	for _, pat := range group.Blacklist {
		re, err := regexp.Compile(pat)
		if err != nil {
			log.Printf("[ENGINE] Skipping malformed blacklist pattern %q: %v", pat, err)
			continue
		}
		e.blacklist = append(e.blacklist, re)
	}
	return e
}

// IngestCatalog replaces the catalog wholesale, recomputes the view and
// resets the cursor. An empty batch yields an empty view.
func (e *Engine) IngestCatalog(items []model.Item) {
	e.catalog = items
	e.recompute()
}

// SetQuery replaces the query, recomputes the view and resets the cursor.
func (e *Engine) SetQuery(query string) {
	e.query = query
	e.recompute()
}

// Query returns the current query string.
func (e *Engine) Query() string {
	return e.query
}

// Len returns the number of items in the filtered view.
func (e *Engine) Len() int {
	return len(e.filtered)
}

// Cursor returns the current selection position within the filtered view.
func (e *Engine) Cursor() int {
	return e.cursor
}

// ItemAt returns the catalog item at the given view position.
func (e *Engine) ItemAt(viewIdx int) (model.Item, bool) {
	if viewIdx < 0 || viewIdx >= len(e.filtered) {
		return model.Item{}, false
	}
	return e.catalog[e.filtered[viewIdx]], true
}

// Selected returns the item under the cursor, if any. Pure read.
func (e *Engine) Selected() (model.Item, bool) {
	return e.ItemAt(e.cursor)
}

// MoveSelection moves the cursor cyclically by delta. Negative deltas wrap
// to the tail (floored modulo). On an empty view the cursor stays 0.
func (e *Engine) MoveSelection(delta int) {
	if len(e.filtered) == 0 {
		e.cursor = 0
		return
	}
	n := len(e.filtered)
	e.cursor = ((e.cursor+delta)%n + n) % n
}

// recompute rebuilds the filtered view from (query, catalog, usage, policy)
// and resets the cursor. It runs synchronously and performs no I/O.
func (e *Engine) recompute() {
	if e.query == "" {
		indices := make([]int, len(e.catalog))
		for i := range indices {
			indices[i] = i
		}
		sort.SliceStable(indices, func(a, b int) bool {
			ia, ib := &e.catalog[indices[a]], &e.catalog[indices[b]]
			ca, cb := e.usage.Count(ia.ID), e.usage.Count(ib.ID)
			if ca != cb {
				return ca > cb
			}
			return ia.Name < ib.Name
		})
		e.filtered = indices
	} else {
		names := make([]string, len(e.catalog))
		for i := range e.catalog {
			names[i] = e.catalog[i].Name
		}
		scores := matchScores(e.query, names)

		var indices []int
		for i := range e.catalog {
			e.catalog[i].Score = scores[i]
			if scores[i] > 0 {
				e.catalog[i].Score += int64(e.usage.Count(e.catalog[i].ID)) * historyBoost
				indices = append(indices, i)
			}
		}

		// Ties fall back to original catalog order, which SliceStable
		// preserves.
		sort.SliceStable(indices, func(a, b int) bool {
			return e.catalog[indices[a]].Score > e.catalog[indices[b]].Score
		})
		e.filtered = indices
	}

	e.filtered = e.applyPolicy(e.filtered)

	log.Printf("[ENGINE] query=%q filtered_count=%d", e.query, len(e.filtered))
	e.cursor = 0
}

// applyPolicy prunes the ordered view: whitelist first, then blacklist.
// Pruning never reorders surviving items.
func (e *Engine) applyPolicy(indices []int) []int {
	if len(e.whitelist) == 0 && len(e.blacklist) == 0 {
		return indices
	}

	kept := indices[:0]
	for _, idx := range indices {
		item := &e.catalog[idx]

		if len(e.whitelist) > 0 && !e.allowedByWhitelist(item) {
			continue
		}
		if e.matchesBlacklist(item) {
			continue
		}
		kept = append(kept, idx)
	}
	return kept
}

func (e *Engine) allowedByWhitelist(item *model.Item) bool {
	for _, w := range e.whitelist {
		if strings.Contains(item.Name, w) || strings.Contains(item.ID, w) {
			return true
		}
	}
	return false
}

func (e *Engine) matchesBlacklist(item *model.Item) bool {
	for _, re := range e.blacklist {
		if re.MatchString(item.Name) || re.MatchString(item.ID) {
			return true
		}
	}
	return false
}
