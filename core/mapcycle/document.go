package mapcycle

import (
	"errors"
	"strings"
)

// Line is one line of a mapcycle document.
// Entry is nil for blank and comment lines, which are kept verbatim in Text.
type Line struct {
	Text  string
	Entry *Entry
}

// Document is a mapcycle file with its comments and layout preserved.
type Document struct {
	Lines []Line
}

// ParseDocument decodes mapcycle text, keeping comment and blank lines.
func ParseDocument(text string) (*Document, error) {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.TrimSuffix(text, "\n")

	doc := &Document{}
	if text == "" {
		return doc, nil
	}

	for i, raw := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(raw)
		if isSkipped(trimmed) {
			doc.Lines = append(doc.Lines, Line{Text: strings.TrimRight(raw, " \t\r")})
			continue
		}

		entry, err := ParseToken(trimmed)
		if err != nil {
			var pe *ParseError
			if errors.As(err, &pe) {
				pe.Line = i + 1
			}
			return nil, err
		}
		doc.Lines = append(doc.Lines, Line{Text: entry.Token(), Entry: &entry})
	}
	return doc, nil
}

// Entries returns the entries of the document in file order.
func (d *Document) Entries() []Entry {
	entries := make([]Entry, 0, len(d.Lines))
	for _, l := range d.Lines {
		if l.Entry != nil {
			entries = append(entries, *l.Entry)
		}
	}
	return entries
}

// Apply returns a new document holding the workshop entries of final.
//
// Local entries, comments and blank lines stay where they are. Existing workshop
// lines are dropped, and the workshop block is appended at the end below a
// "// <memo>" comment. A memo block left by an earlier run is moved rather than
// duplicated. An empty memo appends no comment.
func (d *Document) Apply(final []Entry, memo string) *Document {
	memoLine := ""
	if memo != "" {
		memoLine = CommentPrefix + " " + memo
	}

	out := &Document{Lines: make([]Line, 0, len(d.Lines)+len(final)+2)}
	for _, l := range d.Lines {
		if l.Entry != nil && l.Entry.IsWorkshop() {
			continue
		}
		if memoLine != "" && l.Entry == nil && strings.TrimSpace(l.Text) == memoLine {
			out.trimTrailingBlank()
			continue
		}
		out.Lines = append(out.Lines, l)
	}

	var workshop []Entry
	for _, e := range final {
		if e.IsWorkshop() {
			workshop = append(workshop, e)
		}
	}
	if len(workshop) == 0 {
		return out
	}

	if memoLine != "" {
		out.trimTrailingBlank()
		if len(out.Lines) > 0 {
			out.Lines = append(out.Lines, Line{})
		}
		out.Lines = append(out.Lines, Line{Text: memoLine})
	}
	for _, e := range workshop {
		out.Lines = append(out.Lines, Line{Text: e.Token(), Entry: &e})
	}
	return out
}

// String renders the document with a trailing newline.
func (d *Document) String() string {
	var b strings.Builder
	for _, l := range d.Lines {
		if l.Entry != nil {
			b.WriteString(l.Entry.Token())
		} else {
			b.WriteString(strings.TrimRight(l.Text, " \t\r"))
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// trimTrailingBlank drops blank lines at the end of the document.
func (d *Document) trimTrailingBlank() {
	for len(d.Lines) > 0 {
		last := d.Lines[len(d.Lines)-1]
		if last.Entry != nil || strings.TrimSpace(last.Text) != "" {
			return
		}
		d.Lines = d.Lines[:len(d.Lines)-1]
	}
}
