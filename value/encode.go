package value

import (
	"bytes"
	"fmt"
	"strings"

	gojson "github.com/goccy/go-json"
)

// Encode serializes v as pretty-printed JSON with the given indent unit,
// preserving object member insertion order and number literals. A trailing
// newline is appended so encoded documents are friendly to line-based diffs.
// The input must be acyclic; encoding depth is bounded only by tree depth.
func Encode(v *Value, indent string) ([]byte, error) {
	var buf bytes.Buffer
	if err := encodeValue(&buf, v, indent, 0); err != nil {
		return nil, err
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

// EncodeCompact serializes v on a single line with no whitespace.
func EncodeCompact(v *Value) ([]byte, error) {
	var buf bytes.Buffer
	if err := encodeValue(&buf, v, "", 0); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// MarshalJSON implements json.Marshaler with compact output.
func (v *Value) MarshalJSON() ([]byte, error) {
	return EncodeCompact(v)
}

func encodeValue(buf *bytes.Buffer, v *Value, indent string, depth int) error {
	switch v.Kind() {
	case Null:
		buf.WriteString("null")
	case Bool:
		if v.boolean {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
	case Number:
		if v.number == "" {
			return fmt.Errorf("value: encode: empty number literal")
		}
		buf.WriteString(v.number)
	case String:
		return encodeString(buf, v.str)
	case Array:
		return encodeArray(buf, v, indent, depth)
	case Object:
		return encodeObject(buf, v, indent, depth)
	default:
		return fmt.Errorf("value: encode: unknown kind %v", v.Kind())
	}
	return nil
}

// encodeString delegates escaping to goccy/go-json.
func encodeString(buf *bytes.Buffer, s string) error {
	b, err := gojson.Marshal(s)
	if err != nil {
		return fmt.Errorf("value: encode string: %w", err)
	}
	buf.Write(b)
	return nil
}

func encodeArray(buf *bytes.Buffer, v *Value, indent string, depth int) error {
	if len(v.elems) == 0 {
		buf.WriteString("[]")
		return nil
	}
	buf.WriteByte('[')
	for i, e := range v.elems {
		if i > 0 {
			buf.WriteByte(',')
		}
		writeNewlineIndent(buf, indent, depth+1)
		if err := encodeValue(buf, e, indent, depth+1); err != nil {
			return err
		}
	}
	writeNewlineIndent(buf, indent, depth)
	buf.WriteByte(']')
	return nil
}

func encodeObject(buf *bytes.Buffer, v *Value, indent string, depth int) error {
	if len(v.members) == 0 {
		buf.WriteString("{}")
		return nil
	}
	buf.WriteByte('{')
	for i, m := range v.members {
		if i > 0 {
			buf.WriteByte(',')
		}
		writeNewlineIndent(buf, indent, depth+1)
		if err := encodeString(buf, m.Key); err != nil {
			return err
		}
		buf.WriteByte(':')
		if indent != "" {
			buf.WriteByte(' ')
		}
		if err := encodeValue(buf, m.Value, indent, depth+1); err != nil {
			return err
		}
	}
	writeNewlineIndent(buf, indent, depth)
	buf.WriteByte('}')
	return nil
}

func writeNewlineIndent(buf *bytes.Buffer, indent string, depth int) {
	if indent == "" {
		return
	}
	buf.WriteByte('\n')
	buf.WriteString(strings.Repeat(indent, depth))
}
