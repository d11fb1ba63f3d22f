// Package services implements the HTTP collaborators of the player: the song catalog client and the downloader.
//
// # Catalog
//
// [CatalogService] implements [Catalog] on top of [APIService], a thin raw GET client.
//
// The catalog wraps every payload in a "data" envelope:
//
//	GET /api/songs      → {"data": {"list": [Song]}}
//	GET /api/song/{cid} → {"data": SongDetail}
//
// Song order is preserved exactly as published. A detail without a source URL is reported
// as [shared.ErrNotFound] so callers never see an empty success.
//
// # Downloader
//
// [Downloader] streams a remote audio resource into a temporary ".part" file next to the
// destination and renames it into place only after a clean end of stream. A failed transfer
// removes the temporary file, so the cache-by-path check performed by callers never mistakes a
// truncated file for a complete one.
//
// # Error Handling
//
// Services use typed errors from shared package:
//   - [shared.ErrNetwork] : catalog unreachable, non-2xx, or malformed payload
//   - [shared.ErrNotFound] : no playable source for a song
//   - [shared.ErrTransfer] : download stream or local write failure
//
// # Timeouts
//
// Both clients accept an [http.Client]; the runner configures its Timeout from
// catalog.timeout and download.timeout. A zero timeout waits indefinitely.
package services
