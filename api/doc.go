// Package api reads the engine's interface description (extension_api.json)
// and answers structural questions about engine classes: inheritance,
// virtual methods, notifications, reference counting.
//
// Only the parts of the file the binding layer consumes are decoded. Unknown
// fields are ignored so newer engine versions still load.
package api
