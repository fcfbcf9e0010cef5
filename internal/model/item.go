package model

// ItemKind identifies where an item was discovered.
type ItemKind int

const (
	KindDesktop ItemKind = iota
	KindBinary
	KindHistory
	KindCustom
)

func (k ItemKind) String() string {
	switch k {
	case KindDesktop:
		return "desktop"
	case KindBinary:
		return "binary"
	case KindHistory:
		return "history"
	case KindCustom:
		return "custom"
	}
	return "unknown"
}

// Item is a selectable entry in the launcher catalog. Items are immutable
// once ingested except for Score, which the engine recomputes on every
// ranking pass.
type Item struct {
	ID          string // stable id, e.g. "firefox.desktop" or "bin:ls"
	Name        string // display name
	Command     string // invocation command
	Icon        string // icon name or absolute path, may be empty
	Kind        ItemKind
	IsContainer bool
	Terminal    bool  // run inside a terminal emulator
	Score       int64 // fuzzy match score, recomputed per ranking pass
}

// NewItem builds an Item with the fields every source fills in.
func NewItem(id, name, command string, kind ItemKind, terminal bool) Item {
	return Item{
		ID:       id,
		Name:     name,
		Command:  command,
		Kind:     kind,
		Terminal: terminal,
	}
}
