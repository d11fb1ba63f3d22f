// Package server hosts the browser player panel.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
//
// The [BasicRouter] implementation uses [http.ServeMux] internally with method filtering.
// [RequestLogger] is the only middleware the panel installs.
//
// # Panel Server
//
// [PanelServer] implements [player.PanelHost]. It listens on the configured address (loopback by default) and
// serves three routes:
//
//	GET /       player page for the current panel
//	GET /media  local audio file of the current panel (range requests supported, so seeking works)
//	GET /ws     websocket carrying player messages
//
// Each panel gets a random ID. The page connects with ?panel=<id>; connections for any other ID are refused, so a
// tab left over from an earlier panel cannot report state into the current one.
//
// # Close Detection
//
// A browser tab has no explicit close event that survives reloads. The panel is considered closed by the user when
// its websocket has been gone for longer than the configured grace period. A reload reconnects within the grace and
// keeps the panel Open. When a second tab connects, the first receives close code [web.ReplacedCloseCode] and stops
// reconnecting.
package server
