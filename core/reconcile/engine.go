package reconcile

import (
	"sort"

	"mapcycle-sync/core/mapcycle"
)

// Engine reconciles mapcycles against collection snapshots.
// The zero value uses NormalizeTitle and the default gamemode prefixes.
type Engine struct {
	// Names derives workshop map names from item titles.
	Names NameFunc

	// Keys derives duplicate comparison keys from map names.
	Keys KeyFunc
}

// NewEngine creates an engine that strips the given gamemode prefixes
// when comparing names for duplicates.
func NewEngine(gamemodePrefixes []string) *Engine {
	return &Engine{
		Names: NormalizeTitle,
		Keys:  DuplicateKeyFunc(gamemodePrefixes),
	}
}

var defaultEngine = NewEngine(DefaultGamemodePrefixes)

// Reconcile runs the default engine.
func Reconcile(current []mapcycle.Entry, snapshots []Snapshot, filter FilterSpec) (*Result, error) {
	return defaultEngine.Reconcile(current, snapshots, filter)
}

// Reconcile computes the new mapcycle, the added and removed workshop entries
// and the duplicate groups. It fails only with *InvalidFilterError, before any
// processing takes place.
func (e *Engine) Reconcile(current []mapcycle.Entry, snapshots []Snapshot, filter FilterSpec) (*Result, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	var summary Summary
	summary.Collections = len(snapshots)

	// Candidates, first occurrence of each ID wins.
	var candidates []mapcycle.Entry
	candidateIDs := make(map[uint64]struct{})
	for _, snap := range snapshots {
		for _, item := range snap.Items {
			summary.ItemsSeen++
			if item.Type != ItemMap {
				summary.NonMaps++
				continue
			}
			if !filter.Admits(item.Tags) {
				summary.Filtered++
				continue
			}
			if _, dup := candidateIDs[item.ID]; dup {
				continue
			}
			candidateIDs[item.ID] = struct{}{}
			candidates = append(candidates, mapcycle.Workshop(e.names()(item.Title), item.ID))
		}
	}

	final := make([]mapcycle.Entry, 0, len(current)+len(candidates))
	var existing []mapcycle.Entry
	existingIDs := make(map[uint64]struct{})
	for _, entry := range current {
		if !entry.IsWorkshop() {
			final = append(final, entry)
			continue
		}
		if _, dup := existingIDs[entry.WorkshopID]; dup {
			continue
		}
		existingIDs[entry.WorkshopID] = struct{}{}
		existing = append(existing, entry)
	}
	summary.Retained = len(final)
	final = append(final, candidates...)

	result := &Result{
		Final:   final,
		Added:   []mapcycle.Entry{},
		Removed: []mapcycle.Entry{},
	}
	for _, c := range candidates {
		if _, ok := existingIDs[c.WorkshopID]; !ok {
			result.Added = append(result.Added, c)
		}
	}
	for _, old := range existing {
		if _, ok := candidateIDs[old.WorkshopID]; !ok {
			result.Removed = append(result.Removed, old)
		}
	}

	result.Duplicates = e.FindDuplicates(final)

	summary.Candidates = len(candidates)
	summary.Added = len(result.Added)
	summary.Removed = len(result.Removed)
	summary.DuplicateGroups = len(result.Duplicates)
	result.Summary = summary

	return result, nil
}

// FindDuplicates groups entries whose names share a comparison key.
// Identical entries are collapsed; only groups with at least two distinct
// entries are returned, sorted by key.
func (e *Engine) FindDuplicates(entries []mapcycle.Entry) []DuplicateGroup {
	keys := e.keys()

	var groups []DuplicateGroup
	index := make(map[string]int)
	members := make(map[string]map[mapcycle.Entry]struct{})
	for _, entry := range entries {
		key := keys(entry.Name)
		if key == "" {
			continue
		}
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, DuplicateGroup{Key: key})
			members[key] = make(map[mapcycle.Entry]struct{})
		}
		if _, seen := members[key][entry]; seen {
			continue
		}
		members[key][entry] = struct{}{}
		groups[i].Entries = append(groups[i].Entries, entry)
	}

	duplicates := []DuplicateGroup{}
	for _, g := range groups {
		if len(g.Entries) >= 2 {
			duplicates = append(duplicates, g)
		}
	}

	// Sort groups by key for deterministic output
	sort.Slice(duplicates, func(i, j int) bool {
		return duplicates[i].Key < duplicates[j].Key
	})

	return duplicates
}

func (e *Engine) names() NameFunc {
	if e.Names != nil {
		return e.Names
	}
	return NormalizeTitle
}

func (e *Engine) keys() KeyFunc {
	if e.Keys != nil {
		return e.Keys
	}
	return defaultEngine.Keys
}
