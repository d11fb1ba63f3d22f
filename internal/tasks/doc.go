// Package tasks runs the song selection flow with real-time progress reporting.
//
// # Selection
//
// [PlayerEngine.Select] is strictly sequential:
//
//  1. list the catalog
//  2. let the user pick a song ([Picker.PickSong])
//  3. resolve the song to its audio source
//  4. resolve the destination file
//  5. download it unless the destination already exists
//  6. persist the new player state
//  7. open the player panel with it
//
// The destination depends on the [Mode]. [ModeDownload] asks the user for a save path ([Picker.ChooseSavePath])
// with "<save_path>/<name><ext>" suggested. [ModeOnline] writes to "<cache_dir>/<name><ext>" without asking.
// The extension is ".mp3" when the source URL ends with ".mp3" and ".wav" otherwise.
//
// An existing destination file is reused as-is; a partially downloaded file never exists at the destination.
//
// # Progress Reporting
//
// Progress updates are sent on a channel without blocking. Updates are dropped when the receiver is slow.
//
// The [ProgressUpdate] struct contains phase, step counters, messages, and optional data for advanced UI rendering.
package tasks
