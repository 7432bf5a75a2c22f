// Package config provides configuration loading for Quill.
//
// Configuration is assembled in three steps, later steps overriding earlier
// ones:
//
//  1. Built-in defaults (Default)
//  2. A TOML or YAML file, chosen by extension
//  3. QUILL_* environment variables
//
// The result is validated before it is returned. A Watcher reloads the file
// whenever it changes and delivers the new configuration on a channel.
//
// # Triggers
//
// Each trigger defines one suggestion instance: the character that starts
// it, the data source feeding its popover and, optionally, a Lua script
// replacing the built-in character matcher:
//
//	[[triggers]]
//	name = "mention"
//	char = "@"
//	source = "users"
//	decorate = true
package config
