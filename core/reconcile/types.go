package reconcile

import (
	"fmt"

	"mapcycle-sync/core/mapcycle"
)

// ItemType classifies a published workshop item.
type ItemType int

const (
	// ItemMap is a playable map.
	ItemMap ItemType = iota
	// ItemOther is anything else a collection may hold (items, nested collections).
	ItemOther
)

// String returns the lower-case name of the item type.
func (t ItemType) String() string {
	switch t {
	case ItemMap:
		return "map"
	case ItemOther:
		return "other"
	default:
		return fmt.Sprintf("itemtype(%d)", int(t))
	}
}

// CollectionItem is a published item of a workshop collection.
type CollectionItem struct {
	// ID is the published file ID, unique within a collection.
	ID uint64 `json:"id"`

	// Title is the display title of the item.
	Title string `json:"title"`

	// Type tells maps apart from other content.
	Type ItemType `json:"type"`

	// Tags are the workshop tags attached to the item.
	Tags []string `json:"tags"`
}

// Snapshot is the content of one collection at fetch time.
type Snapshot struct {
	// CollectionID is the published file ID of the collection.
	CollectionID uint64 `json:"collection_id"`

	// Items are the collection children in collection order.
	Items []CollectionItem `json:"items"`
}

// DuplicateGroup lists entries whose names reduce to the same comparison key.
type DuplicateGroup struct {
	// Key is the normalized name shared by the entries.
	Key string `json:"key"`

	// Entries are the distinct entries sharing Key, in mapcycle order.
	Entries []mapcycle.Entry `json:"entries"`
}

// Result is the output of a reconciliation run.
type Result struct {
	// Final is the new mapcycle: local entries followed by the workshop candidates.
	Final []mapcycle.Entry `json:"final"`

	// Added contains workshop entries that were not in the current mapcycle.
	Added []mapcycle.Entry `json:"added"`

	// Removed contains workshop entries of the current mapcycle that are gone.
	Removed []mapcycle.Entry `json:"removed"`

	// Duplicates groups entries of Final that look like copies of the same map.
	Duplicates []DuplicateGroup `json:"duplicates"`

	// Summary provides aggregate counts.
	Summary Summary `json:"summary"`
}

// Changed reports whether the run added or removed any workshop map.
func (r *Result) Changed() bool {
	return len(r.Added) > 0 || len(r.Removed) > 0
}

// Summary provides aggregate statistics for a reconciliation run.
type Summary struct {
	// Collections is the number of snapshots processed.
	Collections int `json:"collections"`

	// ItemsSeen counts collection items across all snapshots.
	ItemsSeen int `json:"items_seen"`

	// NonMaps counts items skipped because they are not maps.
	NonMaps int `json:"non_maps"`

	// Filtered counts maps rejected by the tag filter.
	Filtered int `json:"filtered"`

	// Candidates is the number of distinct workshop maps in the new mapcycle.
	Candidates int `json:"candidates"`

	// Retained is the number of local entries carried over.
	Retained int `json:"retained"`

	// Added mirrors len(Result.Added).
	Added int `json:"added"`

	// Removed mirrors len(Result.Removed).
	Removed int `json:"removed"`

	// DuplicateGroups mirrors len(Result.Duplicates).
	DuplicateGroups int `json:"duplicate_groups"`
}
