package api

import (
	"slices"
	"strconv"
	"strings"

	"github.com/wippyai/gdbind/config"
	"github.com/wippyai/gdbind/errors"
)

const notificationPrefix = "NOTIFICATION_"

// NotificationEnum names the enum holding a class's notification constants.
// Classes without their own constants reuse the enum of their nearest base.
type NotificationEnum struct {
	Name               string
	DeclaredByOwnClass bool
}

// OwnName returns the enum name if the class declares it itself.
func (n NotificationEnum) OwnName() (string, bool) {
	if n.DeclaredByOwnClass {
		return n.Name, true
	}
	return "", false
}

// InheritanceTree maps each class to its direct base.
type InheritanceTree struct {
	derivedToBase map[string]string
}

func NewInheritanceTree() *InheritanceTree {
	return &InheritanceTree{derivedToBase: make(map[string]string)}
}

// Insert records that derived inherits base. A class has exactly one base.
func (t *InheritanceTree) Insert(derived, base string) error {
	if _, ok := t.derivedToBase[derived]; ok {
		return errors.AlreadyRegistered(errors.PhaseLoad, "inheritance of "+derived)
	}
	t.derivedToBase[derived] = base
	return nil
}

// Base returns the direct base of class.
func (t *InheritanceTree) Base(class string) (string, bool) {
	b, ok := t.derivedToBase[class]
	return b, ok
}

// Bases returns every base of class, nearest first, without class itself.
func (t *InheritanceTree) Bases(class string) []string {
	var out []string
	seen := map[string]bool{class: true}
	for {
		base, ok := t.derivedToBase[class]
		if !ok || seen[base] {
			return out
		}
		seen[base] = true
		out = append(out, base)
		class = base
	}
}

// Context indexes an API for lookups.
type Context struct {
	api               *API
	classes           map[string]*Class
	builtins          map[string]struct{}
	nativeStructures  map[string]struct{}
	singletons        map[string]struct{}
	tree              *InheritanceTree
	notifications     map[string][]Constant
	notificationEnums map[string]NotificationEnum
	order             []string
}

// ContextOption configures NewContext.
type ContextOption func(*contextOptions)

type contextOptions struct {
	excluded      map[string]bool
	skipPrecision bool
}

// WithExcluded leaves the named classes out of the context.
func WithExcluded(classes ...string) ContextOption {
	return func(o *contextOptions) {
		for _, c := range classes {
			o.excluded[c] = true
		}
	}
}

// WithoutPrecisionCheck accepts metadata built for either float precision.
// Tools that only inspect metadata use it.
func WithoutPrecisionCheck() ContextOption {
	return func(o *contextOptions) { o.skipPrecision = true }
}

// NewContext indexes a. Metadata whose precision disagrees with the build is
// rejected unless WithoutPrecisionCheck is given.
func NewContext(a *API, opts ...ContextOption) (*Context, error) {
	o := contextOptions{excluded: make(map[string]bool)}
	for _, opt := range opts {
		opt(&o)
	}
	if !o.skipPrecision {
		if err := config.CheckPrecision(a.Header.Precision); err != nil {
			return nil, err
		}
	}

	ctx := &Context{
		api:               a,
		classes:           make(map[string]*Class, len(a.Classes)),
		builtins:          map[string]struct{}{"Variant": {}},
		nativeStructures:  make(map[string]struct{}, len(a.NativeStructures)),
		singletons:        make(map[string]struct{}, len(a.Singletons)),
		tree:              NewInheritanceTree(),
		notifications:     make(map[string][]Constant),
		notificationEnums: make(map[string]NotificationEnum),
	}

	for _, s := range a.Singletons {
		ctx.singletons[s.Name] = struct{}{}
	}
	for _, b := range a.BuiltinClasses {
		ctx.builtins[b.Name] = struct{}{}
	}
	for _, n := range a.NativeStructures {
		ctx.nativeStructures[n.Name] = struct{}{}
	}

	for i := range a.Classes {
		class := &a.Classes[i]
		if o.excluded[class.Name] {
			continue
		}
		if _, dup := ctx.classes[class.Name]; dup {
			return nil, errors.AlreadyRegistered(errors.PhaseLoad, "engine class "+class.Name)
		}
		ctx.classes[class.Name] = class
		ctx.order = append(ctx.order, class.Name)

		if class.Inherits != "" {
			if err := ctx.tree.Insert(class.Name, class.Inherits); err != nil {
				return nil, err
			}
		}

		for _, c := range class.Constants {
			if !strings.HasPrefix(c.Name, notificationPrefix) {
				continue
			}
			if _, ok := ctx.notifications[class.Name]; !ok {
				ctx.notificationEnums[class.Name] = NotificationEnum{
					Name:               class.Name + "Notification",
					DeclaredByOwnClass: true,
				}
			}
			ctx.notifications[class.Name] = append(ctx.notifications[class.Name], c)
		}
	}

	// Classes without their own notifications reuse the nearest base's enum,
	// as do the bases walked on the way there.
	for _, name := range ctx.order {
		if _, ok := ctx.notificationEnums[name]; ok {
			continue
		}
		bases := ctx.tree.Bases(name)
		nearest := -1
		for i, b := range bases {
			if _, ok := ctx.notificationEnums[b]; ok {
				nearest = i
				break
			}
		}
		if nearest < 0 {
			continue
		}
		inherited := NotificationEnum{Name: ctx.notificationEnums[bases[nearest]].Name}
		for i := nearest - 1; i >= 0; i-- {
			ctx.notificationEnums[bases[i]] = inherited
		}
		ctx.notificationEnums[name] = inherited
	}

	return ctx, nil
}

// API returns the underlying description.
func (c *Context) API() *API { return c.api }

// Class returns an engine class by name.
func (c *Context) Class(name string) (*Class, bool) {
	cl, ok := c.classes[name]
	return cl, ok
}

// Classes returns engine class names in file order.
func (c *Context) Classes() []string { return slices.Clone(c.order) }

// IsBuiltin reports whether name is a builtin type. Variant counts as one;
// Object does not.
func (c *Context) IsBuiltin(name string) bool {
	_, ok := c.builtins[name]
	return ok
}

func (c *Context) IsNativeStructure(name string) bool {
	_, ok := c.nativeStructures[name]
	return ok
}

func (c *Context) IsSingleton(name string) bool {
	_, ok := c.singletons[name]
	return ok
}

// IsExportable reports whether class is Node, Resource, or derives from either.
func (c *Context) IsExportable(class string) bool {
	if class == "Node" || class == "Resource" {
		return true
	}
	for _, b := range c.tree.Bases(class) {
		if b == "Node" || b == "Resource" {
			return true
		}
	}
	return false
}

func (c *Context) Tree() *InheritanceTree { return c.tree }

// Bases returns the bases of class, nearest first.
func (c *Context) Bases(class string) []string { return c.tree.Bases(class) }

// Inherits reports whether class is base or derives from it.
func (c *Context) Inherits(class, base string) bool {
	return class == base || slices.Contains(c.tree.Bases(class), base)
}

// IsRefCounted reports whether instances of class are reference counted.
func (c *Context) IsRefCounted(class string) bool {
	if cl, ok := c.classes[class]; ok && cl.IsRefcounted {
		return true
	}
	return c.Inherits(class, "RefCounted")
}

// NotificationConstants returns the notification constants class declares
// itself.
func (c *Context) NotificationConstants(class string) []Constant {
	return c.notifications[class]
}

// NotificationEnum returns the notification enum used by class.
func (c *Context) NotificationEnum(class string) (NotificationEnum, bool) {
	n, ok := c.notificationEnums[class]
	return n, ok
}

// Virtual finds a virtual method declared by class or one of its bases and
// returns it with the declaring class.
func (c *Context) Virtual(class, name string) (*Method, string, bool) {
	for _, owner := range append([]string{class}, c.tree.Bases(class)...) {
		cl, ok := c.classes[owner]
		if !ok {
			continue
		}
		if m, ok := cl.Method(name); ok && m.IsVirtual {
			return m, owner, true
		}
	}
	return nil, "", false
}

// Method finds a method declared by class or one of its bases.
func (c *Context) Method(class, name string) (*Method, string, bool) {
	for _, owner := range append([]string{class}, c.tree.Bases(class)...) {
		cl, ok := c.classes[owner]
		if !ok {
			continue
		}
		if m, ok := cl.Method(name); ok {
			return m, owner, true
		}
	}
	return nil, "", false
}

// Version returns the engine version string.
func (c *Context) Version() string {
	h := c.api.Header
	if h.VersionFull != "" {
		return h.VersionFull
	}
	return strings.Join([]string{strconv.Itoa(h.VersionMajor), strconv.Itoa(h.VersionMinor), strconv.Itoa(h.VersionPatch)}, ".")
}
