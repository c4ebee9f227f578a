// Package reconcile computes a new mapcycle from the current one plus the
// contents of one or more Steam Workshop collections.
//
// The engine is a pure function. It takes already materialized inputs and returns
// a value; fetching collections, reading and writing files and taking backups are
// left to the caller, which invokes the engine once per run.
//
// # Algorithm
//
//  1. Validate the FilterSpec; contradictory include/exclude tags fail fast.
//  2. Drop collection items that are not maps.
//  3. Admit items by tag: at least one include tag (when any are given) and no
//     exclude tag.
//  4. Turn each admitted item into a workshop entry named after its title.
//  5. Keep local entries verbatim and replace the workshop block with the
//     candidates, de-duplicated by workshop ID in snapshot order.
//  6. Report added and removed workshop IDs and groups of entries whose names
//     look like copies of the same map.
//
// # Determinism
//
// The same inputs always produce the same Result. Ordering follows the snapshot
// order supplied by the caller, never fetch completion order or map iteration.
//
// # Usage
//
//	engine := reconcile.NewEngine(reconcile.DefaultGamemodePrefixes)
//	result, err := engine.Reconcile(current, snapshots, reconcile.NewFilterSpec(include, exclude))
//	if err != nil {
//	    return err
//	}
//	if result.Changed() {
//	    // back up and rewrite the mapcycle
//	}
package reconcile
