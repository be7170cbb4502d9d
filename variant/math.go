package variant

import (
	"math"

	"github.com/wippyai/gdbind/config"
)

// Real is the component type of vectors and matrices.
type Real = config.Real

type Vector2 struct {
	X, Y Real
}

func (v Vector2) Add(o Vector2) Vector2    { return Vector2{v.X + o.X, v.Y + o.Y} }
func (v Vector2) Sub(o Vector2) Vector2    { return Vector2{v.X - o.X, v.Y - o.Y} }
func (v Vector2) Scale(s Real) Vector2     { return Vector2{v.X * s, v.Y * s} }
func (v Vector2) Dot(o Vector2) Real       { return v.X*o.X + v.Y*o.Y }
func (v Vector2) Length() Real             { return Real(math.Sqrt(float64(v.Dot(v)))) }
func (v Vector2) IsApprox(o Vector2) bool  { return approx(v.X, o.X) && approx(v.Y, o.Y) }

type Vector2i struct {
	X, Y int32
}

type Vector3 struct {
	X, Y, Z Real
}

func (v Vector3) Add(o Vector3) Vector3 { return Vector3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }
func (v Vector3) Sub(o Vector3) Vector3 { return Vector3{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }
func (v Vector3) Scale(s Real) Vector3  { return Vector3{v.X * s, v.Y * s, v.Z * s} }
func (v Vector3) Dot(o Vector3) Real    { return v.X*o.X + v.Y*o.Y + v.Z*o.Z }
func (v Vector3) Cross(o Vector3) Vector3 {
	return Vector3{v.Y*o.Z - v.Z*o.Y, v.Z*o.X - v.X*o.Z, v.X*o.Y - v.Y*o.X}
}
func (v Vector3) Length() Real { return Real(math.Sqrt(float64(v.Dot(v)))) }
func (v Vector3) IsApprox(o Vector3) bool {
	return approx(v.X, o.X) && approx(v.Y, o.Y) && approx(v.Z, o.Z)
}

type Vector3i struct {
	X, Y, Z int32
}

type Vector4 struct {
	X, Y, Z, W Real
}

type Vector4i struct {
	X, Y, Z, W int32
}

type Rect2 struct {
	Position, Size Vector2
}

// End returns the corner opposite Position.
func (r Rect2) End() Vector2 { return r.Position.Add(r.Size) }

// HasPoint reports whether p lies inside r. The far edges are exclusive.
func (r Rect2) HasPoint(p Vector2) bool {
	e := r.End()
	return p.X >= r.Position.X && p.Y >= r.Position.Y && p.X < e.X && p.Y < e.Y
}

type Rect2i struct {
	Position, Size Vector2i
}

// Transform2D is a 2D affine transform stored as two basis columns and an origin.
type Transform2D struct {
	X, Y, Origin Vector2
}

// Transform2DIdentity is the identity transform.
var Transform2DIdentity = Transform2D{X: Vector2{1, 0}, Y: Vector2{0, 1}}

// Apply transforms p.
func (t Transform2D) Apply(p Vector2) Vector2 {
	return Vector2{
		t.X.X*p.X + t.Y.X*p.Y + t.Origin.X,
		t.X.Y*p.X + t.Y.Y*p.Y + t.Origin.Y,
	}
}

type Plane struct {
	Normal Vector3
	D      Real
}

// DistanceTo returns the signed distance from the plane to p.
func (p Plane) DistanceTo(v Vector3) Real { return p.Normal.Dot(v) - p.D }

type Quaternion struct {
	X, Y, Z, W Real
}

// QuaternionIdentity is the rotation that does nothing.
var QuaternionIdentity = Quaternion{W: 1}

type AABB struct {
	Position, Size Vector3
}

// Volume returns the box volume.
func (b AABB) Volume() Real { return b.Size.X * b.Size.Y * b.Size.Z }

// Basis is a 3x3 matrix stored by rows.
type Basis struct {
	Rows [3]Vector3
}

// BasisIdentity is the identity matrix.
var BasisIdentity = Basis{Rows: [3]Vector3{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}}

// Column returns column i (0, 1 or 2).
func (b Basis) Column(i int) Vector3 {
	switch i {
	case 0:
		return Vector3{b.Rows[0].X, b.Rows[1].X, b.Rows[2].X}
	case 1:
		return Vector3{b.Rows[0].Y, b.Rows[1].Y, b.Rows[2].Y}
	}
	return Vector3{b.Rows[0].Z, b.Rows[1].Z, b.Rows[2].Z}
}

// Apply multiplies v by b.
func (b Basis) Apply(v Vector3) Vector3 {
	return Vector3{b.Rows[0].Dot(v), b.Rows[1].Dot(v), b.Rows[2].Dot(v)}
}

type Transform3D struct {
	Basis  Basis
	Origin Vector3
}

// Transform3DIdentity is the identity transform.
var Transform3DIdentity = Transform3D{Basis: BasisIdentity}

// Apply transforms p.
func (t Transform3D) Apply(p Vector3) Vector3 { return t.Basis.Apply(p).Add(t.Origin) }

// Projection is a 4x4 matrix stored by columns.
type Projection struct {
	Columns [4]Vector4
}

// ProjectionIdentity is the identity matrix.
var ProjectionIdentity = Projection{Columns: [4]Vector4{{1, 0, 0, 0}, {0, 1, 0, 0}, {0, 0, 1, 0}, {0, 0, 0, 1}}}

// Color components are always single precision.
type Color struct {
	R, G, B, A float32
}

// ColorRGB returns an opaque color.
func ColorRGB(r, g, b float32) Color { return Color{r, g, b, 1} }

// StringName is an interned engine string used for identifiers.
type StringName string

// NodePath is a path to a node or a node property.
type NodePath string

// RID is an opaque handle to a server-side resource.
type RID uint64

// IsValid reports whether r is not the null RID.
func (r RID) IsValid() bool { return r != 0 }

const approxEpsilon = 0.00001

func approx(a, b Real) bool {
	if a == b {
		return true
	}
	d := math.Abs(float64(a - b))
	tol := approxEpsilon * math.Abs(float64(a))
	if tol < approxEpsilon {
		tol = approxEpsilon
	}
	return d < tol
}
