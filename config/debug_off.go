//go:build gdbind_release

package config

// Debug reports whether debug-only validation is compiled in.
const Debug = false
