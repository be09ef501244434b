package value

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
)

// Kind identifies which variant a Value holds.
type Kind int

const (
	Null Kind = iota
	Bool
	Number
	String
	Array
	Object
)

// String returns the lowercase JSON name of the kind.
func (k Kind) String() string {
	switch k {
	case Null:
		return "null"
	case Bool:
		return "boolean"
	case Number:
		return "number"
	case String:
		return "string"
	case Array:
		return "array"
	case Object:
		return "object"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Member is a single object entry. Objects hold members in insertion order.
type Member struct {
	Key   string
	Value *Value
}

// Value is one node of a JSON document tree.
type Value struct {
	kind    Kind
	boolean bool
	number  string // original JSON literal text
	str     string
	elems   []*Value
	members []Member
	index   map[string]int // key -> index of first member with that key
}

// NewNull returns a null value.
func NewNull() *Value { return &Value{kind: Null} }

// NewBool returns a boolean value.
func NewBool(b bool) *Value { return &Value{kind: Bool, boolean: b} }

// NewNumber returns a number value holding the given JSON literal text.
// The literal is not validated; use NewInt or NewFloat for computed numbers.
func NewNumber(literal string) *Value { return &Value{kind: Number, number: literal} }

// NewInt returns a number value for n.
func NewInt(n int64) *Value { return NewNumber(strconv.FormatInt(n, 10)) }

// NewFloat returns a number value for f using the shortest round-trip literal.
func NewFloat(f float64) *Value { return NewNumber(strconv.FormatFloat(f, 'g', -1, 64)) }

// NewString returns a string value.
func NewString(s string) *Value { return &Value{kind: String, str: s} }

// NewArray returns an array value holding the given elements.
func NewArray(elems ...*Value) *Value { return &Value{kind: Array, elems: elems} }

// NewObject returns an empty object value.
func NewObject() *Value { return &Value{kind: Object, index: make(map[string]int)} }

// Kind returns the variant tag.
func (v *Value) Kind() Kind {
	if v == nil {
		return Null
	}
	return v.kind
}

// IsObject reports whether v is an object.
func (v *Value) IsObject() bool { return v != nil && v.kind == Object }

// IsArray reports whether v is an array.
func (v *Value) IsArray() bool { return v != nil && v.kind == Array }

// Bool returns the boolean payload. Valid only for Bool values.
func (v *Value) Bool() bool { return v.boolean }

// NumberLiteral returns the JSON literal text of a Number value.
func (v *Value) NumberLiteral() string { return v.number }

// Float64 parses a Number value as float64.
func (v *Value) Float64() (float64, error) {
	if v.kind != Number {
		return 0, fmt.Errorf("value: Float64 on %s", v.kind)
	}
	return strconv.ParseFloat(v.number, 64)
}

// Str returns the string payload. Valid only for String values.
func (v *Value) Str() string { return v.str }

// Elems returns the element slice of an Array value. The slice is owned by
// the value; callers must not retain it across mutations.
func (v *Value) Elems() []*Value { return v.elems }

// AppendElem appends an element to an Array value.
func (v *Value) AppendElem(elem *Value) {
	v.elems = append(v.elems, elem)
}

// Len returns the number of members (objects) or elements (arrays).
func (v *Value) Len() int {
	switch v.Kind() {
	case Object:
		return len(v.members)
	case Array:
		return len(v.elems)
	default:
		return 0
	}
}

// Members returns the ordered member slice of an Object value. The slice is
// owned by the value; callers must not retain it across mutations.
func (v *Value) Members() []Member { return v.members }

// Get looks up key in an Object value. For a tree that still carries
// duplicate keys it returns the first occurrence.
func (v *Value) Get(key string) (*Value, bool) {
	if v == nil || v.kind != Object {
		return nil, false
	}
	i, ok := v.index[key]
	if !ok {
		return nil, false
	}
	return v.members[i].Value, true
}

// Set stores val under key in an Object value, replacing the first existing
// member with that key or appending a new one. Panics if v is not an object;
// traversal code checks the kind before mutating.
func (v *Value) Set(key string, val *Value) {
	if v.kind != Object {
		panic("value: Set on " + v.kind.String())
	}
	if i, ok := v.index[key]; ok {
		v.members[i].Value = val
		return
	}
	v.index[key] = len(v.members)
	v.members = append(v.members, Member{Key: key, Value: val})
}

// Delete removes every member with the given key from an Object value and
// reports whether any member was removed.
func (v *Value) Delete(key string) bool {
	if v == nil || v.kind != Object {
		return false
	}
	if _, ok := v.index[key]; !ok {
		return false
	}
	kept := v.members[:0]
	for _, m := range v.members {
		if m.Key != key {
			kept = append(kept, m)
		}
	}
	v.members = kept
	v.reindex()
	return true
}

// Append adds a member without collapsing an existing key. It exists for the
// decoder, which must preserve repeated keys for later reconciliation.
// Ordinary code should use Set.
func (v *Value) Append(key string, val *Value) {
	if v.kind != Object {
		panic("value: Append on " + v.kind.String())
	}
	if _, ok := v.index[key]; !ok {
		v.index[key] = len(v.members)
	}
	v.members = append(v.members, Member{Key: key, Value: val})
}

// HasDuplicateKeys reports whether the object carries more than one member
// under some key. Only decoded, not-yet-reconciled trees can.
func (v *Value) HasDuplicateKeys() bool {
	if v == nil || v.kind != Object {
		return false
	}
	return len(v.index) != len(v.members)
}

func (v *Value) reindex() {
	v.index = make(map[string]int, len(v.members))
	for i, m := range v.members {
		if _, ok := v.index[m.Key]; !ok {
			v.index[m.Key] = i
		}
	}
}

// Clone returns a deep copy of v. The input must be acyclic.
func (v *Value) Clone() *Value {
	if v == nil {
		return nil
	}
	switch v.kind {
	case Array:
		elems := make([]*Value, len(v.elems))
		for i, e := range v.elems {
			elems[i] = e.Clone()
		}
		return NewArray(elems...)
	case Object:
		out := NewObject()
		for _, m := range v.members {
			out.Append(m.Key, m.Value.Clone())
		}
		return out
	default:
		c := *v
		return &c
	}
}

// Equal reports structural equality. Object member order is not significant
// for unique-key objects; objects still carrying duplicate keys compare
// member-by-member in order.
func Equal(a, b *Value) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case Null:
		return true
	case Bool:
		return a.boolean == b.boolean
	case Number:
		return a.number == b.number
	case String:
		return a.str == b.str
	case Array:
		if len(a.elems) != len(b.elems) {
			return false
		}
		for i := range a.elems {
			if !Equal(a.elems[i], b.elems[i]) {
				return false
			}
		}
		return true
	case Object:
		if a.HasDuplicateKeys() || b.HasDuplicateKeys() {
			if len(a.members) != len(b.members) {
				return false
			}
			for i := range a.members {
				if a.members[i].Key != b.members[i].Key {
					return false
				}
				if !Equal(a.members[i].Value, b.members[i].Value) {
					return false
				}
			}
			return true
		}
		if len(a.members) != len(b.members) {
			return false
		}
		for _, m := range a.members {
			other, ok := b.Get(m.Key)
			if !ok || !Equal(m.Value, other) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// FromAny converts a value decoded by a generic JSON unmarshal (map[string]any,
// []any, float64, json.Number, string, bool, nil) into a Value tree. Map keys
// are sorted for determinism since Go maps carry no order.
func FromAny(in any) (*Value, error) {
	switch t := in.(type) {
	case nil:
		return NewNull(), nil
	case bool:
		return NewBool(t), nil
	case string:
		return NewString(t), nil
	case float64:
		return NewFloat(t), nil
	case int:
		return NewInt(int64(t)), nil
	case int64:
		return NewInt(t), nil
	case json.Number:
		return NewNumber(t.String()), nil
	case []any:
		arr := NewArray()
		for _, e := range t {
			ev, err := FromAny(e)
			if err != nil {
				return nil, err
			}
			arr.AppendElem(ev)
		}
		return arr, nil
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		obj := NewObject()
		for _, k := range keys {
			mv, err := FromAny(t[k])
			if err != nil {
				return nil, err
			}
			obj.Set(k, mv)
		}
		return obj, nil
	default:
		return nil, fmt.Errorf("value: cannot convert %T", in)
	}
}

// Interface converts a Value tree back into generic Go values suitable for
// JSON marshalling: map[string]any, []any, json.Number, string, bool, nil.
// Duplicate keys, if any remain, collapse to the last occurrence.
func (v *Value) Interface() any {
	if v == nil {
		return nil
	}
	switch v.kind {
	case Null:
		return nil
	case Bool:
		return v.boolean
	case Number:
		return json.Number(v.number)
	case String:
		return v.str
	case Array:
		out := make([]any, len(v.elems))
		for i, e := range v.elems {
			out[i] = e.Interface()
		}
		return out
	case Object:
		out := make(map[string]any, len(v.members))
		for _, m := range v.members {
			out[m.Key] = m.Value.Interface()
		}
		return out
	default:
		return nil
	}
}
