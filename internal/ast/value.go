// Copyright (c) 2024 Michael D Henderson. All rights reserved.

package ast

import "fmt"

// Type is an LSL value type. The zero value Type("") means "no type yet",
// used only for the inner node of a typed SUBIDX before cast resolution.
type Type string

const (
	TypeNone     Type = ""
	TypeInteger  Type = "integer"
	TypeFloat    Type = "float"
	TypeString   Type = "string"
	TypeKey      Type = "key"
	TypeVector   Type = "vector"
	TypeRotation Type = "rotation"
	TypeList     Type = "list"
)

// Key is a string with a domain distinction from plain strings: implicit
// casts between string and key are allowed, but the library-aware
// optimizer treats invalid keys specially (§4.6).
type Key string

// Vector is three IEEE-754 single-precision floats.
type Vector [3]float32

// Rotation is a quaternion: four IEEE-754 single-precision floats.
type Rotation [4]float32

// Value is the compile-time representation of an LSL constant: int32,
// float32, string, Key, Vector, Rotation, or []Value (a list, which may
// not nest). A nil Value means "no constant value known".
type Value interface{}

// DefaultValue returns the zero value LSL uses for an uninitialized
// variable of the given type.
func DefaultValue(t Type) Value {
	switch t {
	case TypeInteger:
		return int32(0)
	case TypeFloat:
		return float32(0)
	case TypeString:
		return ""
	case TypeKey:
		return Key("")
	case TypeVector:
		return Vector{0, 0, 0}
	case TypeRotation:
		return Rotation{0, 0, 0, 1}
	case TypeList:
		return []Value{}
	default:
		return nil
	}
}

// TypeOf returns the LSL Type that corresponds to a compile-time Value's
// Go representation.
func TypeOf(v Value) Type {
	switch v.(type) {
	case int32:
		return TypeInteger
	case float32:
		return TypeFloat
	case string:
		return TypeString
	case Key:
		return TypeKey
	case Vector:
		return TypeVector
	case Rotation:
		return TypeRotation
	case []Value:
		return TypeList
	default:
		return TypeNone
	}
}

// Cond implements LSL's boolean-context truthiness test for a
// compile-time Value, grounded on lslfuncs.cond: integers and floats
// are truthy iff nonzero, vectors/rotations iff any of their first
// three components is nonzero (the rotation's real part is ignored,
// matching the original), strings/lists iff nonempty, and a key is
// truthy iff it is a syntactically valid, non-null UUID (an invalid or
// NULL_KEY key string is indistinguishable from "" to the simulator).
func Cond(v Value) bool {
	switch x := v.(type) {
	case int32:
		return x != 0
	case float32:
		return x != 0
	case string:
		return x != ""
	case Key:
		return isValidNonNullKey(string(x))
	case Vector:
		return x[0] != 0 || x[1] != 0 || x[2] != 0
	case Rotation:
		return x[0] != 0 || x[1] != 0 || x[2] != 0
	case []Value:
		return len(x) != 0
	default:
		return false
	}
}

func isValidNonNullKey(s string) bool {
	if len(s) != 36 {
		return false
	}
	for i := 0; i < len(s); i++ {
		switch i {
		case 8, 13, 18, 23:
			if s[i] != '-' {
				return false
			}
		default:
			c := s[i]
			if !((c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')) {
				return false
			}
		}
	}
	return s != "00000000-0000-0000-0000-000000000000"
}

func (t Type) String() string {
	if t == TypeNone {
		return "<none>"
	}
	return string(t)
}

// FormatValue renders a Value the way it would appear as an LSL literal,
// used by the emitter and by diagnostics.
func FormatValue(v Value) string {
	switch x := v.(type) {
	case int32:
		return fmt.Sprintf("%d", x)
	case float32:
		return fmt.Sprintf("%g", x)
	case string:
		return fmt.Sprintf("%q", x)
	case Key:
		return fmt.Sprintf("%q", string(x))
	case Vector:
		return fmt.Sprintf("<%g, %g, %g>", x[0], x[1], x[2])
	case Rotation:
		return fmt.Sprintf("<%g, %g, %g, %g>", x[0], x[1], x[2], x[3])
	case []Value:
		s := "["
		for i, e := range x {
			if i > 0 {
				s += ", "
			}
			s += FormatValue(e)
		}
		return s + "]"
	default:
		return "<nil>"
	}
}
