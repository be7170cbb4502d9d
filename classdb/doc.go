// Package classdb describes Go types as engine classes and keeps the
// registry of classes an extension has registered.
//
// A class is described from a prototype pointer to a struct. Exported
// methods of the pointer type become engine methods, named by converting
// PascalCase to snake_case:
//
//	type Foo struct{}
//
//	func (f *Foo) Add(a, b int64) int64 { return a + b }   // "add"
//	func (f *Foo) Ready()                                  // "_ready" when the parent declares it virtual
//
// Optional interfaces on the prototype refine the description: ClassNamer,
// ParentNamer, PropertyLister, SignalLister and MethodRenamer.
//
// Descriptors are validated when described and again when registered. The
// first problem found is returned; nothing is registered for that class.
// Registered descriptors are immutable and the registry only hands out
// copies.
package classdb
