// Package gdbind provides a Go binding layer for game engine extensions that
// talk to the engine through its public extension ABI.
//
// The engine exposes a dynamic, reflection-capable value model (Variant) and a
// C-level ABI for calling into and out of extension code. This library makes
// that boundary usable from Go while keeping object lifetimes explicit and
// faults contained.
//
// # Architecture Overview
//
// The library is organized into several packages with distinct responsibilities:
//
//	gdbind/             Root package with shared identity types
//	├── variant/        Variant tagged union and Go <-> Variant conversions
//	├── object/         Ownership-aware handles to engine objects
//	├── instance/       Instance storage for native class payloads
//	├── classdb/        Class descriptors built from Go types, class registry
//	├── dispatch/       Inbound/outbound call dispatch and fault containment
//	├── extension/      Extension entry point tying everything together
//	├── api/            Engine API metadata (extension_api.json)
//	├── abi/            Raw ABI collaborator contract
//	│   └── native/     purego-backed ABI over engine function pointers
//	├── enginetest/     In-memory engine for tests
//	├── config/         Build-time configuration and extension manifest
//	├── errors/         Structured error types for debugging
//	├── internal/guard/ Locks that compile away without the threads tag
//	└── cmd/gdbind/     Metadata browser, table generator and manifest checker
//
// # Quick Start
//
// Register a class and let the engine drive it:
//
//	type Counter struct{ value int64 }
//
//	func (c *Counter) Add(n int64) int64 { c.value += n; return c.value }
//
//	ext := extension.New(host)
//	ext.RegisterClass(&Counter{}, config.LevelScene)
//	if err := ext.Initialize(config.LevelScene); err != nil {
//	    log.Printf("some classes failed to register: %v", err)
//	}
//
// Call into the engine from Go:
//
//	node, err := ext.Objects().New("Node")
//	if err != nil {
//	    return err
//	}
//	defer node.Free()
//
//	name, err := dispatch.Call[string](node, "get_name")
//
// # Build Configuration
//
// Precision, threading and debug validation are selected with build tags:
//
//	double_precision   vector/matrix components are float64 instead of float32
//	threads            registries and handles use locks and atomics
//	gdbind_release     disables leak detection and stricter checks
//
// # Thread Safety
//
// Without the threads tag every structure assumes single-threaded access and
// pays no synchronization cost. With it, the instance storage and the class
// registry allow concurrent readers and serialize registration.
package gdbind
