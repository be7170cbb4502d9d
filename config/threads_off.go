//go:build !threads

package config

// Threaded reports whether shared structures are guarded for concurrent use.
const Threaded = false
