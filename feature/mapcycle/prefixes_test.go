package mapcycle

import (
	"testing"

	mc "mapcycle-sync/core/mapcycle"
	"mapcycle-sync/core/reconcile"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func locals(names ...string) []mc.Entry {
	out := make([]mc.Entry, 0, len(names))
	for _, n := range names {
		out = append(out, mc.Local(n))
	}
	return out
}

func TestSharedPrefixGroups(t *testing.T) {
	entries := append(locals(
		"pl_badwater",
		"cp_granary",
		"pl_badwater_pro",
		"koth_harvest_final",
		"koth_harvest_event",
		"cp_well",
		"cp_wellspring_rc1",
		"pl_upward",
	), mc.Workshop("pl_badwater_b2", 9))

	want := []reconcile.DuplicateGroup{
		{Key: "cp_well", Entries: locals("cp_well", "cp_wellspring_rc1")},
		{Key: "koth_harvest", Entries: locals("koth_harvest_final", "koth_harvest_event")},
		{Key: "pl_badwater", Entries: locals("pl_badwater", "pl_badwater_pro")},
	}
	if diff := cmp.Diff(want, SharedPrefixGroups(entries)); diff != "" {
		t.Errorf("SharedPrefixGroups() mismatch (-want +got):\n%s", diff)
	}
}

func TestSharedPrefixGroups_GamemodeAloneDoesNotPair(t *testing.T) {
	assert.Empty(t, SharedPrefixGroups(locals("pl_upward", "pl_goldrush", "cp_dustbowl")))
}

func TestSharedPrefixGroups_IgnoresRepeatsAndEmpty(t *testing.T) {
	assert.Empty(t, SharedPrefixGroups(locals("ctf_2fort", "ctf_2fort")))
	assert.Empty(t, SharedPrefixGroups(nil))
}

func TestSharedPrefixGroups_NameWithoutUnderscore(t *testing.T) {
	want := []reconcile.DuplicateGroup{
		{Key: "itemtest", Entries: locals("itemtest", "itemtest_final")},
	}
	if diff := cmp.Diff(want, SharedPrefixGroups(locals("itemtest", "itemtest_final"))); diff != "" {
		t.Errorf("SharedPrefixGroups() mismatch (-want +got):\n%s", diff)
	}
}
