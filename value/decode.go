package value

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// ErrTrailingData is returned when input continues after the first
// top-level JSON value.
var ErrTrailingData = errors.New("value: trailing data after JSON value")

// Decode parses a single JSON value from data into a Value tree.
//
// Unlike a plain unmarshal into map[string]any, repeated keys within one
// object literal are kept as additional ordered members instead of being
// collapsed to the last occurrence. Callers that need a unique-key tree run
// the result through duplicate reconciliation.
func Decode(data []byte) (*Value, error) {
	return DecodeReader(bytes.NewReader(data))
}

// DecodeReader is Decode over an io.Reader. The reader is consumed fully.
func DecodeReader(r io.Reader) (*Value, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	v, err := decodeValue(dec)
	if err != nil {
		return nil, err
	}

	if _, err := dec.Token(); err != io.EOF {
		if err != nil {
			return nil, fmt.Errorf("value: decode: %w", err)
		}
		return nil, ErrTrailingData
	}
	return v, nil
}

// decodeValue consumes one complete value from the token stream.
func decodeValue(dec *json.Decoder) (*Value, error) {
	tok, err := dec.Token()
	if err != nil {
		if err == io.EOF {
			return nil, io.ErrUnexpectedEOF
		}
		return nil, fmt.Errorf("value: decode: %w", err)
	}
	return decodeFromToken(dec, tok)
}

func decodeFromToken(dec *json.Decoder, tok json.Token) (*Value, error) {
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			return decodeObject(dec)
		case '[':
			return decodeArray(dec)
		default:
			return nil, fmt.Errorf("value: decode: unexpected %q", t.String())
		}
	case bool:
		return NewBool(t), nil
	case json.Number:
		return NewNumber(t.String()), nil
	case string:
		return NewString(t), nil
	case nil:
		return NewNull(), nil
	default:
		return nil, fmt.Errorf("value: decode: unexpected token %v", tok)
	}
}

// decodeObject consumes members until '}'. Repeated keys are appended, not
// collapsed; this is the whole point of the custom decoder.
func decodeObject(dec *json.Decoder) (*Value, error) {
	obj := NewObject()
	for {
		tok, err := dec.Token()
		if err != nil {
			if err == io.EOF {
				return nil, io.ErrUnexpectedEOF
			}
			return nil, fmt.Errorf("value: decode: %w", err)
		}
		if d, ok := tok.(json.Delim); ok && d == '}' {
			return obj, nil
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("value: decode: object key is %v, want string", tok)
		}
		member, err := decodeValue(dec)
		if err != nil {
			return nil, err
		}
		obj.Append(key, member)
	}
}

func decodeArray(dec *json.Decoder) (*Value, error) {
	arr := NewArray()
	for {
		tok, err := dec.Token()
		if err != nil {
			if err == io.EOF {
				return nil, io.ErrUnexpectedEOF
			}
			return nil, fmt.Errorf("value: decode: %w", err)
		}
		if d, ok := tok.(json.Delim); ok && d == ']' {
			return arr, nil
		}
		elem, err := decodeFromToken(dec, tok)
		if err != nil {
			return nil, err
		}
		arr.AppendElem(elem)
	}
}
