package reconcile

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeTitle(t *testing.T) {
	tests := []struct {
		title string
		want  string
	}{
		{"Process (Final)", "process_final_"},
		{"Badwater", "badwater"},
		{"  Koth Harvest  ", "koth_harvest"},
		{"cp_gorge_event", "cp_gorge_event"},
		{"[TF2] Café Déjà Vu!", "_tf2_cafe_deja_vu_"},
		{"Upward\tRC2", "upward_rc2"},
		{"!!!", ""},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeTitle(tt.title))
			assert.Equal(t, tt.want, NormalizeTitle(tt.title), "must be stable across calls")
		})
	}
}

func TestDuplicateKeyFunc(t *testing.T) {
	key := DuplicateKeyFunc(DefaultGamemodePrefixes)

	tests := []struct {
		name string
		want string
	}{
		{"pl_badwater", "badwater"},
		{"badwater", "badwater"},
		{"cp_process_final", "process_final"},
		{"process_final_", "process_final"},
		{"koth_", "koth"},
		{"ctf", "ctf"},
		{"dm_lumberyard", "dm_lumberyard"},
		{"workshop/123", ""},
		{"???", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, key(tt.name))
		})
	}
}

func TestDuplicateKeyFunc_CustomPrefixes(t *testing.T) {
	key := DuplicateKeyFunc([]string{" DM_ ", ""})
	assert.Equal(t, "lumberyard", key("dm_lumberyard"))
	assert.Equal(t, "pl_badwater", key("pl_badwater"))
}
