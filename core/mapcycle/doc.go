// Package mapcycle reads and writes Source dedicated server mapcycle files.
//
// A mapcycle is plain text with one map token per line. Blank lines and lines
// starting with "//" are ignored by the server. Workshop maps are referenced either
// by their short form ("workshop/454796385") or by their long form
// ("workshop/koth_octothorpe_classic_beta01.ugc454796385"); both carry the
// published file ID the server uses to download and track the map.
//
// # Entries
//
// Every map token is decoded once into an Entry tagged with its Source, so the
// rest of the system never inspects raw tokens again:
//
//	entries, err := mapcycle.Parse(text)
//	text = mapcycle.Serialize(entries)
//
// # Documents
//
// Parse drops comments. When a file is rewritten in place, use ParseDocument
// instead; it keeps comment and blank lines so Apply can swap the workshop block
// without touching anything the operator wrote by hand.
package mapcycle
