package object

import "fmt"

// Ownership tells how an object's lifetime is managed.
type Ownership uint8

const (
	// RefCounted objects are destroyed when the engine reference count
	// reaches zero.
	RefCounted Ownership = iota
	// Manual objects live until explicitly freed.
	Manual
	// Weak handles borrow an object owned elsewhere. Dropping one releases
	// only the handle and Free is rejected. Cloning a weak handle yields an
	// owning handle.
	Weak
)

func (o Ownership) String() string {
	switch o {
	case RefCounted:
		return "refcounted"
	case Manual:
		return "manual"
	case Weak:
		return "weak"
	}
	return fmt.Sprintf("ownership(%d)", uint8(o))
}

// Leak records a manually managed object whose last handle was dropped
// without freeing it.
type Leak struct {
	Class string
	ID    uint64
}

func (l Leak) String() string {
	return fmt.Sprintf("%s#%d", l.Class, l.ID)
}
