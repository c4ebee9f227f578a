// Package steam fetches Steam Workshop collection snapshots through the Steam Web API.
//
// A collection is resolved in two steps, mirroring the ISteamRemoteStorage API:
// GetCollectionDetails lists the children and their file types, then
// GetPublishedFileDetails supplies titles and tags for the maps. Requests are
// retried on transport errors and 5xx/429 responses; authentication failures are
// returned immediately.
//
// # Usage
//
//	client, err := steam.NewClient(cfg.Steam, logger)
//	snapshots, err := client.FetchSnapshots(ctx, []uint64{454128334})
//
// FetchSnapshots fetches collections concurrently but always returns them in the
// order they were requested.
package steam
