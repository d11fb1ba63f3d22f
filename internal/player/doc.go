// Package player owns the lifecycle of the single player panel.
//
// # Controller
//
// [Controller] is a two-state machine, Closed and Open. While Open it holds exactly one [Surface], created through
// a [PanelHost]. Opening while already Open reveals the existing surface and posts a play message to it instead of
// creating a second one.
//
// # Messages
//
// Surfaces and the controller exchange [Message] values, encoded as JSON objects with a "type" discriminator:
//
//	play         controller → surface  {state}
//	restoreState controller → surface  {state}
//	reveal       controller → surface  {}
//	updateState  surface → controller  {state}
//	getState     surface → controller  {}
//	setVolume    surface → controller  {value}
//
// Delivery is fire-and-forget. [Surface.Post] never blocks and reports whether the message was queued.
//
// # Persistence
//
// Every state report from the surface is written verbatim to the [Store]. Volume changes go through
// [Store.SetVolume] so the slot and the default volume for future panels are updated together.
package player
