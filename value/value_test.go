package value

import (
	"testing"
)

func TestKindString(t *testing.T) {
	tests := []struct {
		kind Kind
		want string
	}{
		{Null, "null"},
		{Bool, "boolean"},
		{Number, "number"},
		{String, "string"},
		{Array, "array"},
		{Object, "object"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("Kind(%d).String() = %q, want %q", int(tt.kind), got, tt.want)
		}
	}
}

func TestObjectSetGet(t *testing.T) {
	obj := NewObject()
	obj.Set("a", NewString("one"))
	obj.Set("b", NewInt(2))

	v, ok := obj.Get("a")
	if !ok {
		t.Fatal("expected key a")
	}
	if v.Str() != "one" {
		t.Errorf("got %q, want %q", v.Str(), "one")
	}

	if _, ok := obj.Get("missing"); ok {
		t.Error("expected missing key to report !ok")
	}

	// Overwrite keeps position and count.
	obj.Set("a", NewString("uno"))
	if obj.Len() != 2 {
		t.Errorf("Len = %d, want 2", obj.Len())
	}
	if obj.Members()[0].Key != "a" || obj.Members()[0].Value.Str() != "uno" {
		t.Error("Set did not overwrite in place")
	}
}

func TestObjectInsertionOrder(t *testing.T) {
	obj := NewObject()
	keys := []string{"zebra", "apple", "mango"}
	for _, k := range keys {
		obj.Set(k, NewNull())
	}

	members := obj.Members()
	for i, k := range keys {
		if members[i].Key != k {
			t.Errorf("member[%d].Key = %q, want %q", i, members[i].Key, k)
		}
	}
}

func TestObjectDelete(t *testing.T) {
	obj := NewObject()
	obj.Set("a", NewInt(1))
	obj.Set("b", NewInt(2))
	obj.Set("c", NewInt(3))

	if !obj.Delete("b") {
		t.Fatal("expected Delete to report true")
	}
	if obj.Len() != 2 {
		t.Errorf("Len = %d, want 2", obj.Len())
	}
	if _, ok := obj.Get("b"); ok {
		t.Error("deleted key still present")
	}
	// Index is rebuilt; remaining keys still resolve.
	if v, ok := obj.Get("c"); !ok || v.NumberLiteral() != "3" {
		t.Error("lookup after delete broken")
	}

	if obj.Delete("missing") {
		t.Error("expected Delete of missing key to report false")
	}
}

func TestObjectAppendDuplicates(t *testing.T) {
	obj := NewObject()
	obj.Append("k", NewString("first"))
	obj.Append("k", NewString("second"))
	obj.Append("other", NewInt(1))

	if !obj.HasDuplicateKeys() {
		t.Fatal("expected duplicate keys")
	}
	if obj.Len() != 3 {
		t.Errorf("Len = %d, want 3", obj.Len())
	}
	// Get resolves the first occurrence.
	if v, _ := obj.Get("k"); v.Str() != "first" {
		t.Errorf("Get returned %q, want first occurrence", v.Str())
	}

	// Delete removes every occurrence.
	obj.Delete("k")
	if obj.HasDuplicateKeys() {
		t.Error("duplicates remain after Delete")
	}
	if obj.Len() != 1 {
		t.Errorf("Len = %d, want 1", obj.Len())
	}
}

func TestEqual(t *testing.T) {
	mk := func() *Value {
		obj := NewObject()
		obj.Set("s", NewString("x"))
		obj.Set("n", NewNumber("1.5"))
		obj.Set("arr", NewArray(NewBool(true), NewNull()))
		inner := NewObject()
		inner.Set("deep", NewInt(7))
		obj.Set("o", inner)
		return obj
	}

	if !Equal(mk(), mk()) {
		t.Error("identical trees compare unequal")
	}

	// Key order is not significant for unique-key objects.
	a := NewObject()
	a.Set("x", NewInt(1))
	a.Set("y", NewInt(2))
	b := NewObject()
	b.Set("y", NewInt(2))
	b.Set("x", NewInt(1))
	if !Equal(a, b) {
		t.Error("reordered objects compare unequal")
	}

	changed := mk()
	changed.Set("s", NewString("y"))
	if Equal(mk(), changed) {
		t.Error("different trees compare equal")
	}

	if Equal(NewString("5"), NewNumber("5")) {
		t.Error("string and number compare equal")
	}
	if !Equal(nil, nil) {
		t.Error("nil values compare unequal")
	}
	if Equal(nil, NewNull()) {
		t.Error("nil and null compare equal")
	}
}

func TestEqualDuplicateKeyObjects(t *testing.T) {
	mk := func(order []string) *Value {
		obj := NewObject()
		for _, k := range order {
			obj.Append(k, NewInt(1))
		}
		return obj
	}

	if !Equal(mk([]string{"a", "a", "b"}), mk([]string{"a", "a", "b"})) {
		t.Error("identical duplicate-key objects compare unequal")
	}
	if Equal(mk([]string{"a", "a", "b"}), mk([]string{"a", "b", "a"})) {
		t.Error("differently ordered duplicate-key objects compare equal")
	}
}

func TestClone(t *testing.T) {
	obj := NewObject()
	inner := NewObject()
	inner.Set("leaf", NewString("v"))
	obj.Set("inner", inner)
	obj.Set("arr", NewArray(NewInt(1), NewInt(2)))

	clone := obj.Clone()
	if !Equal(obj, clone) {
		t.Fatal("clone differs from original")
	}

	// Mutating the clone must not affect the original.
	cloneInner, _ := clone.Get("inner")
	cloneInner.Set("leaf", NewString("changed"))
	origLeaf, _ := inner.Get("leaf")
	if origLeaf.Str() != "v" {
		t.Error("mutating clone affected original")
	}
}

func TestFloat64(t *testing.T) {
	f, err := NewNumber("2.25").Float64()
	if err != nil {
		t.Fatalf("Float64 failed: %v", err)
	}
	if f != 2.25 {
		t.Errorf("got %v, want 2.25", f)
	}

	if _, err := NewString("nope").Float64(); err == nil {
		t.Error("expected error for Float64 on string")
	}
}

func TestFromAnyRoundTrip(t *testing.T) {
	in := map[string]any{
		"s":    "text",
		"n":    float64(3),
		"b":    true,
		"null": nil,
		"arr":  []any{"a", float64(1)},
		"obj":  map[string]any{"k": "v"},
	}

	v, err := FromAny(in)
	if err != nil {
		t.Fatalf("FromAny failed: %v", err)
	}
	if v.Kind() != Object {
		t.Fatalf("kind = %v, want object", v.Kind())
	}

	out, ok := v.Interface().(map[string]any)
	if !ok {
		t.Fatalf("Interface returned %T", v.Interface())
	}
	if out["s"] != "text" || out["b"] != true {
		t.Error("scalars did not round-trip")
	}
	if out["null"] != nil {
		t.Error("null did not round-trip")
	}
	inner, ok := out["obj"].(map[string]any)
	if !ok || inner["k"] != "v" {
		t.Error("nested object did not round-trip")
	}
}

func TestFromAnyFloatFormatting(t *testing.T) {
	v, err := FromAny(float64(5))
	if err != nil {
		t.Fatalf("FromAny failed: %v", err)
	}
	// Whole floats keep an integer literal.
	if v.NumberLiteral() != "5" {
		t.Errorf("literal = %q, want %q", v.NumberLiteral(), "5")
	}
}

func TestFromAnyUnsupported(t *testing.T) {
	if _, err := FromAny(struct{}{}); err == nil {
		t.Error("expected error for unsupported type")
	}
}

func TestNilValueAccessors(t *testing.T) {
	var v *Value
	if v.Kind() != Null {
		t.Error("nil value should report Null kind")
	}
	if v.IsObject() {
		t.Error("nil value should not be an object")
	}
	if _, ok := v.Get("k"); ok {
		t.Error("Get on nil should report !ok")
	}
	if v.Delete("k") {
		t.Error("Delete on nil should report false")
	}
}
