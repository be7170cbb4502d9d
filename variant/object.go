package variant

import (
	"fmt"

	"github.com/wippyai/gdbind"
)

// ObjectRef identifies an engine object. It carries no ownership: holding an
// ObjectRef does not keep the object alive, and the pointer is only ever
// handed back to the engine.
type ObjectRef struct {
	ID    gdbind.InstanceID
	Ptr   gdbind.ObjectPtr
	Class string
}

// IsNull reports whether r refers to no object.
func (r ObjectRef) IsNull() bool {
	return r.ID == 0 && r.Ptr == 0
}

func (r ObjectRef) String() string {
	if r.IsNull() {
		return "<Object#null>"
	}
	class := r.Class
	if class == "" {
		class = "Object"
	}
	return fmt.Sprintf("<%s#%d>", class, uint64(r.ID))
}

// Object is implemented by Go values that stand for an engine object, such as
// owning handles. From stores their ObjectRef.
type Object interface {
	ObjectRef() ObjectRef
}
