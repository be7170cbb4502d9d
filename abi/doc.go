// Package abi defines the raw engine boundary.
//
// Host is the set of engine entry points the binding layer calls. The engine
// in turn drives extension classes through InstanceCallbacks. Failures on the
// engine side are reported through CallError codes or returned errors; nothing
// crosses this boundary by panicking.
//
// Package abi/native resolves the raw entry points of a real engine process
// and lays variants out in engine memory. Package enginetest implements Host in
// memory.
package abi
