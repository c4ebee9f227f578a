package reconcile

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewFilterSpec(t *testing.T) {
	f := NewFilterSpec([]string{" Payload ", "", "Arena", "Payload"}, nil)
	assert.Equal(t, []string{"Arena", "Payload"}, f.Include)
	assert.Empty(t, f.Exclude)
	assert.False(t, f.IsEmpty())
	assert.True(t, NewFilterSpec(nil, []string{" "}).IsEmpty())
}

// TestFilterSpec_Admits checks the admission rule over every combination of a
// three-tag universe.
func TestFilterSpec_Admits(t *testing.T) {
	universe := []string{"a", "b", "c"}
	subset := func(mask int) []string {
		var out []string
		for i, tag := range universe {
			if mask&(1<<i) != 0 {
				out = append(out, tag)
			}
		}
		return out
	}

	for inc := 0; inc < 8; inc++ {
		for exc := 0; exc < 8; exc++ {
			if inc&exc != 0 {
				continue
			}
			f := NewFilterSpec(subset(inc), subset(exc))
			assert.NoError(t, f.Validate())

			for tags := 0; tags < 8; tags++ {
				want := (inc == 0 || tags&inc != 0) && tags&exc == 0
				assert.Equal(t, want, f.Admits(subset(tags)), "include=%v exclude=%v tags=%v", subset(inc), subset(exc), subset(tags))
			}
		}
	}
}

func TestFilterSpec_Validate(t *testing.T) {
	assert.NoError(t, FilterSpec{}.Validate())
	assert.NoError(t, NewFilterSpec([]string{"a"}, []string{"b"}).Validate())

	err := FilterSpec{Include: []string{"z", "a", "z"}, Exclude: []string{"z", "a"}}.Validate()
	var fe *InvalidFilterError
	assert.ErrorAs(t, err, &fe)
	assert.Equal(t, []string{"a", "z"}, fe.Tags)
	assert.EqualError(t, err, "tags both included and excluded: a, z")
}
