// Package config loads toolcat's runtime configuration.
//
// # Resolution Order
//
// Values are resolved with viper, highest precedence first:
//
//  1. Command-line flags that were explicitly set (--catalog, --watch, --debug, --log)
//  2. TOOLCAT_* environment variables (dots become underscores, so
//     catalog.source is TOOLCAT_CATALOG_SOURCE)
//  3. The TOML config file, ~/.config/toolcat/config.toml by default
//  4. Built-in defaults
//
// A missing config file is not an error; toolcat works without one.
//
// # TOML Format
//
//	[catalog]
//	source = "~/.config/toolcat/tools.yaml"   # or an http(s) API base URL
//	watch = true
//
//	[load]
//	max_attempts = 3
//	retry_delay = "1s"
//
//	[cache]
//	ttl = "5m"
//
//	[ui]
//	featured_limit = 6
//
//	[log]
//	file = "~/.local/state/toolcat/toolcat.log"
//	debug = false
//
//	[store]
//	history = 50
//
// File paths get tilde expansion and are made absolute. Remote catalog
// sources are left untouched.
//
// # Error Handling
//
// Load returns errors for unreadable or unparseable config files and for
// out-of-range values (non-positive attempts, delays, TTL or history size).
package config
