package mapcycle

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	mc "mapcycle-sync/core/mapcycle"
	"mapcycle-sync/core/reconcile"
)

// ReportOptions controls what WriteReport prints.
type ReportOptions struct {
	// Quiet suppresses the "no changes" line.
	Quiet bool
	// ListDuplicates prints the duplicate groups of the new mapcycle.
	ListDuplicates bool
}

// WriteReport prints the outcome of a sync. Paths are shown by base name.
func WriteReport(w io.Writer, report *SyncReport, opts ReportOptions) error {
	res := report.Result
	name := filepath.Base(report.Path)
	var b strings.Builder

	if opts.ListDuplicates && len(res.Duplicates)+len(report.SharedPrefixes) > 0 {
		writeDuplicates(&b, res.Duplicates)
		writeDuplicates(&b, report.SharedPrefixes)
		b.WriteString("\n")
	}

	switch {
	case res.Changed() && report.DryRun:
		fmt.Fprintf(&b, "%s has not been modified due to being a dry run.  The following changes (+%d, -%d) would have been made:\n",
			name, len(res.Added), len(res.Removed))
		writeChanges(&b, res)
	case res.Changed():
		if report.BackupPath != "" {
			fmt.Fprintf(&b, "Copied mapcycle %s to backup at %s\n", name, report.BackupPath)
		}
		if report.RemoteBackup != "" {
			fmt.Fprintf(&b, "Mirrored backup to %s\n", report.RemoteBackup)
		}
		fmt.Fprintf(&b, "Made the following changes (+%d, -%d) to %s:\n", len(res.Added), len(res.Removed), name)
		writeChanges(&b, res)
	case !opts.Quiet:
		fmt.Fprintf(&b, "No changed workshop maps.  No modification has been made to %s.\n", name)
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// WriteDuplicates prints one line per duplicate group.
func WriteDuplicates(w io.Writer, groups []reconcile.DuplicateGroup) error {
	var b strings.Builder
	writeDuplicates(&b, groups)
	_, err := io.WriteString(w, b.String())
	return err
}

func writeDuplicates(b *strings.Builder, groups []reconcile.DuplicateGroup) {
	for _, g := range groups {
		fmt.Fprintf(b, "- %s has %d potential copies: %s\n", g.Key, len(g.Entries), tokenList(g.Entries))
	}
}

func writeChanges(b *strings.Builder, res *reconcile.Result) {
	if len(res.Added) > 0 {
		fmt.Fprintf(b, "+ %s\n", tokenList(res.Added))
	}
	if len(res.Removed) > 0 {
		fmt.Fprintf(b, "- %s\n", tokenList(res.Removed))
	}
}

func tokenList(entries []mc.Entry) string {
	return "[" + strings.Join(tokens(entries), ", ") + "]"
}

func tokens(entries []mc.Entry) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Token())
	}
	return out
}
