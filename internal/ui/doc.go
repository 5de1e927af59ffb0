// Package ui provides semantic text formatting for CLI output.
//
// Formatters render colorized text when the terminal supports it. When
// NO_COLOR is set or the terminal lacks color support, text decorations
// (backticks, parentheses) are used instead.
//
//	ui.Code.Sprint("frontcrypt build ./site")  // Commands and code
//	ui.Path.Sprint("site-protected/app.enc")   // File paths
//	ui.Success.Sprint("✓")                      // Success indicators
//	ui.Error.Sprint("✗")                        // Error indicators
//	ui.Info.Sprint("→")                         // Informational hints
//	ui.Muted.Sprint("text/html")               // De-emphasized text
package ui
