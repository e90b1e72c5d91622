// Package prop provides the typed property value union and the
// graph-scoped property-name registry.
//
// The representation is designed to make temporal lookups fast and
// predictable: no reflection and no fmt-based stringification.
package prop

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"unique"
)

// Kind identifies the concrete type stored in a Value.
type Kind uint8

const (
	// KindInvalid represents an invalid kind.
	KindInvalid Kind = iota
	// KindStr represents a string value.
	KindStr
	// KindI32 represents a signed 32-bit integer value.
	KindI32
	// KindI64 represents a signed 64-bit integer value.
	KindI64
	// KindU32 represents an unsigned 32-bit integer value.
	KindU32
	// KindU64 represents an unsigned 64-bit integer value.
	KindU64
	// KindF32 represents a 32-bit float value.
	KindF32
	// KindF64 represents a 64-bit float value.
	KindF64
	// KindBool represents a boolean value.
	KindBool
)

// Value is a small typed property value.
//
// Strings are interned so that repeated property values (labels, categories)
// share storage across the whole history.
type Value struct {
	kind Kind
	i64  int64
	u64  uint64
	f64  float64
	s    unique.Handle[string]
	b    bool
}

// Str returns a string Value.
func Str(v string) Value { return Value{kind: KindStr, s: unique.Make(v)} }

// I32 returns a signed 32-bit integer Value.
func I32(v int32) Value { return Value{kind: KindI32, i64: int64(v)} }

// I64 returns a signed 64-bit integer Value.
func I64(v int64) Value { return Value{kind: KindI64, i64: v} }

// U32 returns an unsigned 32-bit integer Value.
func U32(v uint32) Value { return Value{kind: KindU32, u64: uint64(v)} }

// U64 returns an unsigned 64-bit integer Value.
func U64(v uint64) Value { return Value{kind: KindU64, u64: v} }

// F32 returns a 32-bit float Value.
func F32(v float32) Value { return Value{kind: KindF32, f64: float64(v)} }

// F64 returns a 64-bit float Value.
func F64(v float64) Value { return Value{kind: KindF64, f64: v} }

// Bool returns a boolean Value.
func Bool(v bool) Value { return Value{kind: KindBool, b: v} }

// Kind returns the kind of the value.
func (v Value) Kind() Kind { return v.kind }

// IsValid reports whether the value holds a concrete kind.
func (v Value) IsValid() bool { return v.kind != KindInvalid }

// AsStr returns the string value if Kind is KindStr.
func (v Value) AsStr() (string, bool) {
	if v.kind != KindStr {
		return "", false
	}
	return v.s.Value(), true
}

// AsI32 returns the int32 value if Kind is KindI32.
func (v Value) AsI32() (int32, bool) {
	if v.kind != KindI32 {
		return 0, false
	}
	return int32(v.i64), true
}

// AsI64 returns the int64 value if Kind is KindI64.
func (v Value) AsI64() (int64, bool) {
	if v.kind != KindI64 {
		return 0, false
	}
	return v.i64, true
}

// AsU32 returns the uint32 value if Kind is KindU32.
func (v Value) AsU32() (uint32, bool) {
	if v.kind != KindU32 {
		return 0, false
	}
	return uint32(v.u64), true
}

// AsU64 returns the uint64 value if Kind is KindU64.
func (v Value) AsU64() (uint64, bool) {
	if v.kind != KindU64 {
		return 0, false
	}
	return v.u64, true
}

// AsF32 returns the float32 value if Kind is KindF32.
func (v Value) AsF32() (float32, bool) {
	if v.kind != KindF32 {
		return 0, false
	}
	return float32(v.f64), true
}

// AsF64 returns the float64 value if Kind is KindF64.
func (v Value) AsF64() (float64, bool) {
	if v.kind != KindF64 {
		return 0, false
	}
	return v.f64, true
}

// AsBool returns the boolean value if Kind is KindBool.
func (v Value) AsBool() (bool, bool) {
	if v.kind != KindBool {
		return false, false
	}
	return v.b, true
}

// Equal reports whether two values hold the same kind and payload.
// Interned string handles compare in O(1).
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindStr:
		return v.s == o.s
	case KindI32, KindI64:
		return v.i64 == o.i64
	case KindU32, KindU64:
		return v.u64 == o.u64
	case KindF32, KindF64:
		return math.Float64bits(v.f64) == math.Float64bits(o.f64)
	case KindBool:
		return v.b == o.b
	default:
		return true
	}
}

// String implements fmt.Stringer for debugging and log output.
func (v Value) String() string {
	switch v.kind {
	case KindStr:
		return v.s.Value()
	case KindI32, KindI64:
		return fmt.Sprintf("%d", v.i64)
	case KindU32, KindU64:
		return fmt.Sprintf("%d", v.u64)
	case KindF32, KindF64:
		return fmt.Sprintf("%g", v.f64)
	case KindBool:
		return fmt.Sprintf("%t", v.b)
	default:
		return "invalid"
	}
}

// GobEncode implements gob.GobEncoder.
//
// The interned string handle cannot be encoded directly, so the payload is
// flattened to kind + raw bytes. Keep this stable; snapshots depend on it.
func (v Value) GobEncode() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte(byte(v.kind))
	switch v.kind {
	case KindStr:
		s := v.s.Value()
		var lenBuf [binary.MaxVarintLen64]byte
		n := binary.PutUvarint(lenBuf[:], uint64(len(s)))
		buf.Write(lenBuf[:n])
		buf.WriteString(s)
	case KindI32, KindI64:
		var b [8]byte
		binary.LittleEndian.PutUint64(b[:], uint64(v.i64))
		buf.Write(b[:])
	case KindU32, KindU64:
		var b [8]byte
		binary.LittleEndian.PutUint64(b[:], v.u64)
		buf.Write(b[:])
	case KindF32, KindF64:
		var b [8]byte
		binary.LittleEndian.PutUint64(b[:], math.Float64bits(v.f64))
		buf.Write(b[:])
	case KindBool:
		if v.b {
			buf.WriteByte(1)
		} else {
			buf.WriteByte(0)
		}
	}
	return buf.Bytes(), nil
}

// GobDecode implements gob.GobDecoder.
func (v *Value) GobDecode(data []byte) error {
	if len(data) < 1 {
		return fmt.Errorf("prop: truncated value")
	}
	kind := Kind(data[0])
	rest := data[1:]
	switch kind {
	case KindInvalid:
		*v = Value{}
	case KindStr:
		n, read := binary.Uvarint(rest)
		if read <= 0 || uint64(len(rest[read:])) < n {
			return fmt.Errorf("prop: truncated string value")
		}
		*v = Str(string(rest[read : read+int(n)]))
	case KindI32, KindI64:
		if len(rest) < 8 {
			return fmt.Errorf("prop: truncated integer value")
		}
		*v = Value{kind: kind, i64: int64(binary.LittleEndian.Uint64(rest))}
	case KindU32, KindU64:
		if len(rest) < 8 {
			return fmt.Errorf("prop: truncated integer value")
		}
		*v = Value{kind: kind, u64: binary.LittleEndian.Uint64(rest)}
	case KindF32, KindF64:
		if len(rest) < 8 {
			return fmt.Errorf("prop: truncated float value")
		}
		*v = Value{kind: kind, f64: math.Float64frombits(binary.LittleEndian.Uint64(rest))}
	case KindBool:
		if len(rest) < 1 {
			return fmt.Errorf("prop: truncated bool value")
		}
		*v = Bool(rest[0] != 0)
	default:
		return fmt.Errorf("prop: unknown value kind %d", kind)
	}
	return nil
}

// Map is a set of named property values attached to a single mutation event.
type Map map[string]Value
