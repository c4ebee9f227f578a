package reconcile

import (
	"sort"
	"strings"
)

// FilterSpec controls which collection items are admitted.
// Empty sets place no restriction.
type FilterSpec struct {
	// Include admits only items carrying at least one of these tags.
	Include []string `json:"include"`

	// Exclude rejects items carrying any of these tags.
	Exclude []string `json:"exclude"`
}

// NewFilterSpec builds a FilterSpec from raw tag lists.
// Tags are trimmed, blanks dropped, and each set is de-duplicated and sorted.
func NewFilterSpec(include, exclude []string) FilterSpec {
	return FilterSpec{
		Include: tagSet(include),
		Exclude: tagSet(exclude),
	}
}

// Validate fails with *InvalidFilterError when a tag is both included and excluded.
func (f FilterSpec) Validate() error {
	exclude := make(map[string]struct{}, len(f.Exclude))
	for _, tag := range f.Exclude {
		exclude[tag] = struct{}{}
	}

	var conflicts []string
	seen := make(map[string]struct{})
	for _, tag := range f.Include {
		if _, ok := exclude[tag]; !ok {
			continue
		}
		if _, dup := seen[tag]; dup {
			continue
		}
		seen[tag] = struct{}{}
		conflicts = append(conflicts, tag)
	}

	if len(conflicts) > 0 {
		sort.Strings(conflicts)
		return &InvalidFilterError{Tags: conflicts}
	}
	return nil
}

// Admits reports whether an item with the given tags passes the filter.
func (f FilterSpec) Admits(tags []string) bool {
	if len(f.Include) > 0 && !intersects(tags, f.Include) {
		return false
	}
	return !intersects(tags, f.Exclude)
}

// IsEmpty reports whether the filter admits every item.
func (f FilterSpec) IsEmpty() bool {
	return len(f.Include) == 0 && len(f.Exclude) == 0
}

func intersects(tags, set []string) bool {
	for _, tag := range tags {
		for _, s := range set {
			if tag == s {
				return true
			}
		}
	}
	return false
}

func tagSet(tags []string) []string {
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	sort.Strings(out)
	return out
}
