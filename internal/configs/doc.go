// Package configs manages user configuration for frontcrypt.
//
// Configuration is stored in TOML at <user config dir>/frontcrypt/config.toml
// (for example ~/.config/frontcrypt/config.toml on Linux). A missing file
// means defaults; the --config flag points at a different file. By default
// nothing is excluded from builds. An example file:
//
//	[build]
//	output_suffix = "-protected"
//	exclude = [".git/**", "**/.DS_Store"]
//
//	[serve]
//	addr = "127.0.0.1:8080"
//
//	[audit]
//	enabled = true
//
// Cryptographic parameters and the archive block size are deliberately not
// configurable: they are baked into every bundle's loader and runtime.
package configs
