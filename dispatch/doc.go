// Package dispatch routes engine calls into native instances and native
// calls out to engine objects.
//
// Inbound, a Dispatcher implements abi.InstanceCallbacks. An engine call
// moves through four stages:
//
//	UnmarshalArgs -> LookupInstance -> Invoke -> MarshalResult
//
// Every failure is turned into a Result carrying the engine status and a
// structured error. Errors returned by a native method and panics raised in
// one are reported as native_failure; the dispatcher keeps serving calls
// afterwards.
//
// Outbound, Call converts Go arguments to variants, calls the method on the
// engine object and converts the result back:
//
//	name, err := dispatch.Call[string](node, "get_name")
package dispatch
