package reconcile

import (
	"strings"
	"unicode"

	"mapcycle-sync/core/mapcycle"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// NameFunc derives a workshop map name from an item title.
type NameFunc func(title string) string

// KeyFunc derives the duplicate comparison key of a map name.
// An empty key excludes the entry from duplicate detection.
type KeyFunc func(name string) string

// DefaultGamemodePrefixes are the TF2 gamemode prefixes stripped from map names
// before they are compared for duplicates.
var DefaultGamemodePrefixes = []string{
	"arena", "cp", "ctf", "koth", "mvm", "pass", "pd", "pl", "plr",
	"rd", "sd", "tc", "tr", "vsh", "zi", "mge", "jump", "surf", "trade",
}

// NormalizeTitle turns a workshop title into a map name.
//
// Accents are folded, letters lower-cased and every run of characters outside
// [a-z0-9] collapses into a single underscore, so "Process (Final)" becomes
// "process_final_". Titles without any letter or digit yield "".
func NormalizeTitle(title string) string {
	fold := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)))
	folded, _, err := transform.String(fold, title)
	if err != nil {
		folded = title
	}
	folded = strings.ToLower(strings.TrimSpace(folded))

	var b strings.Builder
	b.Grow(len(folded))
	gap, alnum := false, false
	for _, r := range folded {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if gap {
				b.WriteByte('_')
				gap = false
			}
			b.WriteRune(r)
			alnum = true
			continue
		}
		gap = true
	}
	if !alnum {
		return ""
	}
	if gap {
		b.WriteByte('_')
	}
	return b.String()
}

// DuplicateKeyFunc returns a KeyFunc that normalizes a map name like
// NormalizeTitle, trims underscores and strips one leading gamemode prefix.
// Both "pl_badwater" and "Badwater" reduce to "badwater".
func DuplicateKeyFunc(gamemodePrefixes []string) KeyFunc {
	prefixes := make(map[string]struct{}, len(gamemodePrefixes))
	for _, p := range gamemodePrefixes {
		p = strings.Trim(strings.ToLower(strings.TrimSpace(p)), "_")
		if p != "" {
			prefixes[p] = struct{}{}
		}
	}

	return func(name string) string {
		if strings.HasPrefix(name, mapcycle.WorkshopPrefix) {
			return ""
		}
		key := strings.Trim(NormalizeTitle(name), "_")
		if i := strings.IndexByte(key, '_'); i > 0 && i < len(key)-1 {
			if _, ok := prefixes[key[:i]]; ok {
				key = key[i+1:]
			}
		}
		return key
	}
}
