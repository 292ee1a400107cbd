// Package ui implements the Presentation port.
//
// # Terminal overlay
//
// [Overlay] is a bubbletea model rendering the current track, its
// lyrics in a scrollable viewport, and a status line. User actions
// (toggle, authenticate, quit) are pushed onto the same event channel
// the dispatcher already consumes — no callback wiring.
//
// # Adapter
//
// The dispatcher never touches bubbletea types. [Adapter] implements
// the port by sending messages into the running program and mirroring
// visibility/position state for synchronous queries.
//
// # Headless mode
//
// [Headless] implements the port with log output only, for running the
// agent without a terminal surface.
package ui
