package mapcycle

import (
	"regexp"
	"strconv"
	"strings"
)

// workshopToken matches "workshop/<id>" and "workshop/<name>.ugc<id>".
var workshopToken = regexp.MustCompile(`^workshop/(?:([^\s/]+)\.ugc)?([0-9]+)$`)

// Parse decodes mapcycle text into its ordered entries.
// Blank and comment lines are skipped.
func Parse(text string) ([]Entry, error) {
	doc, err := ParseDocument(text)
	if err != nil {
		return nil, err
	}
	return doc.Entries(), nil
}

// Serialize renders entries back into mapcycle text, one per line.
func Serialize(entries []Entry) string {
	var b strings.Builder
	for _, e := range entries {
		b.WriteString(e.Token())
		b.WriteByte('\n')
	}
	return b.String()
}

// ParseToken decodes a single trimmed, non-comment token.
// Only empty tokens and malformed workshop references are rejected.
func ParseToken(token string) (Entry, error) {
	if strings.HasPrefix(token, WorkshopPrefix) {
		m := workshopToken.FindStringSubmatch(token)
		if m == nil {
			return Entry{}, &ParseError{Text: token, Reason: "malformed workshop reference"}
		}
		id, err := strconv.ParseUint(m[2], 10, 64)
		if err != nil || id == 0 {
			return Entry{}, &ParseError{Text: token, Reason: "invalid workshop id"}
		}
		if m[1] == "" {
			return Entry{Name: ShortRef(id), WorkshopID: id, Source: SourceWorkshop}, nil
		}
		if !isLongName(m[1]) {
			return Entry{}, &ParseError{Text: token, Reason: "malformed workshop reference"}
		}
		return Entry{Name: m[1], WorkshopID: id, Source: SourceWorkshop}, nil
	}

	if token == "" {
		return Entry{}, &ParseError{Text: token, Reason: "empty map token"}
	}
	// Anything else on the line, including a trailing note, belongs to the map token.
	return Local(token), nil
}

// isSkipped reports whether a trimmed line carries no entry.
func isSkipped(trimmed string) bool {
	return trimmed == "" || strings.HasPrefix(trimmed, CommentPrefix)
}
