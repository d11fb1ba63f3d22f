// Package ui implements the interactive terminal prompts using bubbletea's Elm architecture.
//
//  1. [SongPicker] : Browse and filter the catalog, enter to choose
//  2. [SavePathPrompt] : Confirm or edit the suggested download path
//
// [TerminalPicker] runs each prompt as its own program and maps dismissal to shared.ErrUserCancelled.
//
// One-shot notices ([Info], [Warning], [Error]) are plain strings styled with lipgloss, printed by the commands.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, /, esc, q) with contextual help displayed via charmbracelet/bubbles/help.
package ui
