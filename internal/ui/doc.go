// Package ui renders plans, feasibility verdicts, playlists and run history for the terminal.
//
// Styling comes from a small [lipgloss] [Palette]: a title color, success, error and warning colors, and a muted help color.
// Renderers return strings and never write directly, so the cmd layer decides where output goes.
// Colors are dropped automatically when output is not a terminal.
package ui
