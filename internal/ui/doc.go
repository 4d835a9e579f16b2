// Package ui styles command line output with lipgloss.
//
// [Styles] is the shared [Palette]. Listings such as the user and note tables are rendered through
// [Palette.Table], which draws a bordered table with a highlighted header row.
package ui
