package mapcycle

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// Source tells where a mapcycle entry comes from.
type Source int

const (
	// SourceLocal is a map installed on the server by hand.
	SourceLocal Source = iota
	// SourceWorkshop is a map referenced by its Steam Workshop ID.
	SourceWorkshop
)

// String returns the lower-case name of the source.
func (s Source) String() string {
	switch s {
	case SourceLocal:
		return "local"
	case SourceWorkshop:
		return "workshop"
	default:
		return fmt.Sprintf("source(%d)", int(s))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s Source) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Source) UnmarshalText(text []byte) error {
	switch string(text) {
	case "local":
		*s = SourceLocal
	case "workshop":
		*s = SourceWorkshop
	default:
		return fmt.Errorf("unknown map source %q", string(text))
	}
	return nil
}

// WorkshopPrefix marks a workshop reference in a mapcycle token.
const WorkshopPrefix = "workshop/"

// CommentPrefix starts a comment line.
const CommentPrefix = "//"

// Entry is a single rotation line.
// WorkshopID is non-zero if and only if Source is SourceWorkshop.
type Entry struct {
	// Name is the map token for local maps, or the map name of a workshop map.
	// Workshop maps without a known name use their short reference ("workshop/<id>").
	Name string `json:"name"`

	// WorkshopID is the published file ID of a workshop map.
	WorkshopID uint64 `json:"workshop_id,omitempty"`

	// Source is where the entry comes from.
	Source Source `json:"source"`
}

// Local returns an entry for a map installed on the server.
func Local(name string) Entry {
	return Entry{Name: name, Source: SourceLocal}
}

// Workshop returns an entry for a workshop map.
// Names that cannot be encoded in a long workshop token fall back to the short reference.
func Workshop(name string, id uint64) Entry {
	if !isLongName(name) {
		name = ShortRef(id)
	}
	return Entry{Name: name, WorkshopID: id, Source: SourceWorkshop}
}

// ShortRef returns the short workshop reference for an ID.
func ShortRef(id uint64) string {
	return WorkshopPrefix + strconv.FormatUint(id, 10)
}

// IsWorkshop reports whether the entry references a workshop map.
func (e Entry) IsWorkshop() bool {
	return e.Source == SourceWorkshop
}

// IsShortRef reports whether a workshop entry has no map name of its own.
func (e Entry) IsShortRef() bool {
	return e.IsWorkshop() && e.Name == ShortRef(e.WorkshopID)
}

// Token renders the entry as it appears in a mapcycle file.
func (e Entry) Token() string {
	if !e.IsWorkshop() || e.IsShortRef() {
		return e.Name
	}
	return WorkshopPrefix + e.Name + ".ugc" + strconv.FormatUint(e.WorkshopID, 10)
}

// String implements fmt.Stringer.
func (e Entry) String() string {
	return e.Token()
}

// Validate reports whether the entry can be written and read back unchanged.
func (e Entry) Validate() error {
	switch e.Source {
	case SourceLocal:
		if e.WorkshopID != 0 {
			return fmt.Errorf("local map %q carries workshop id %d", e.Name, e.WorkshopID)
		}
		if e.Name == "" {
			return fmt.Errorf("local map has an empty name")
		}
		if strings.TrimSpace(e.Name) != e.Name || strings.ContainsAny(e.Name, "\r\n") {
			return fmt.Errorf("local map %q has surrounding whitespace or a line break", e.Name)
		}
		if strings.HasPrefix(e.Name, CommentPrefix) || strings.HasPrefix(e.Name, WorkshopPrefix) {
			return fmt.Errorf("local map %q is not a plain map token", e.Name)
		}
	case SourceWorkshop:
		if e.WorkshopID == 0 {
			return fmt.Errorf("workshop map %q has no workshop id", e.Name)
		}
		if !e.IsShortRef() && !isLongName(e.Name) {
			return fmt.Errorf("workshop map name %q cannot be encoded", e.Name)
		}
	default:
		return fmt.Errorf("map %q has unknown source %s", e.Name, e.Source)
	}
	return nil
}

// isLongName reports whether name can sit between "workshop/" and ".ugc<id>".
func isLongName(name string) bool {
	if name == "" || strings.HasPrefix(name, WorkshopPrefix) {
		return false
	}
	return !strings.ContainsRune(name, '/') && strings.IndexFunc(name, unicode.IsSpace) < 0
}
