package mapcycle

import (
	"sort"
	"strings"

	mc "mapcycle-sync/core/mapcycle"
	"mapcycle-sync/core/reconcile"
)

// SharedPrefixGroups finds local maps that look like versions of one another.
//
// Names are split on underscores and compared from two sections on, so the
// gamemode prefix alone never pairs maps: pl_badwater and pl_badwater_pro share
// "pl_badwater". A name that starts with another whole name is paired with it
// too, which catches X and X_final. Workshop entries are left to the key based
// duplicate groups. Groups are sorted by prefix, members keep mapcycle order.
func SharedPrefixGroups(entries []mc.Entry) []reconcile.DuplicateGroup {
	var names []string
	seen := make(map[string]struct{})
	for _, e := range entries {
		if e.IsWorkshop() || e.Name == "" {
			continue
		}
		if _, dup := seen[e.Name]; dup {
			continue
		}
		seen[e.Name] = struct{}{}
		names = append(names, e.Name)
	}

	prefixes := make(map[string]struct{})
	maxSections := 0
	for _, name := range names {
		maxSections = max(maxSections, strings.Count(name, "_")+1)
	}
	for n := 2; n <= maxSections; n++ {
		counts := make(map[string]int)
		for _, name := range names {
			sections := strings.Split(name, "_")
			if len(sections) < n {
				continue
			}
			prefix := strings.Join(sections[:n], "_")
			counts[prefix]++
			if counts[prefix] == 2 {
				prefixes[prefix] = struct{}{}
			}
		}
	}
	for i, a := range names {
		for _, b := range names[i+1:] {
			switch {
			case strings.HasPrefix(b, a):
				prefixes[a] = struct{}{}
			case strings.HasPrefix(a, b):
				prefixes[b] = struct{}{}
			}
		}
	}

	groups := make([]reconcile.DuplicateGroup, 0, len(prefixes))
	for prefix := range prefixes {
		g := reconcile.DuplicateGroup{Key: prefix}
		for _, name := range names {
			if strings.HasPrefix(name, prefix) {
				g.Entries = append(g.Entries, mc.Local(name))
			}
		}
		groups = append(groups, g)
	}
	sort.Slice(groups, func(i, j int) bool {
		return groups[i].Key < groups[j].Key
	})
	return groups
}
