// Package logger provides leveled console logging for frontcrypt commands.
//
// The logger supports multiple verbosity levels controlled by command-line
// flags. Output is formatted with colored prefixes.
//
// # Verbosity Levels
//
//   - --verbose: Shows info messages
//   - --debug: Shows info and debug messages
//
// Warnings and errors are always shown.
//
// # Log Methods
//
//	Logger.Infof()          // Shown with --verbose or --debug
//	Logger.Debugf()         // Shown only with --debug
//	Logger.Warnf()          // Shown with --verbose or --debug
//	Logger.WarnfAlways()    // Always shown (critical warnings)
//	Logger.Errorf()         // Always shown
//	Logger.ErrorfAndReturn() // Logs with --debug and returns the error
//
// # Usage
//
//	log := Logger{Verbose: verbose, Debug: debug}
//	log.Infof("Archived %d files", count)
//
// Commands create the logger in the root command's PersistentPreRun.
// Passwords and derived keys must never be passed to any log method.
package logger
