// Package config holds the build-time configuration surface and the extension
// manifest.
//
// Build-time options are selected with build tags and exposed as constants so
// the compiler removes unused paths:
//
//	double_precision   Real is float64 (engine built with precision=double)
//	threads            shared registries are guarded for concurrent access
//	gdbind_release     debug-only validation (leak detection) compiled out
//
// The options cannot change at run time. Loading engine metadata built for a
// different precision is reported as a configuration error by CheckPrecision.
//
// The Manifest describes an extension on disk and is loaded from YAML:
//
//	name: demo
//	entry_symbol: demo_library_init
//	compatibility_minimum: "4.2"
//	api: extension_api.json
//	libraries:
//	  linux.x86_64: bin/libdemo.so
//	classes:
//	  - name: Player
//	    level: scene
package config
