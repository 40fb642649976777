package loader

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// value is a decoded JSON document node. Objects keep their members in
// document order; Go's map form does not, and the structure locator's
// first-match-wins traversal is defined over document order.
type value struct {
	kind    valueKind
	str     string // string content, or the number literal for kindNumber
	boolean bool
	arr     []value
	members []member
}

type valueKind int

const (
	kindNull valueKind = iota
	kindBool
	kindNumber
	kindString
	kindArray
	kindObject
)

type member struct {
	key string
	val value
}

func (v value) isObject() bool { return v.kind == kindObject }
func (v value) isArray() bool  { return v.kind == kindArray }

// field returns the first member with the given key.
func (v value) field(key string) (value, bool) {
	for _, m := range v.members {
		if m.key == key {
			return m.val, true
		}
	}
	return value{}, false
}

// toAny converts the node to the plain form raw records use. Later duplicate
// object keys win, matching ordinary JSON decoding.
func (v value) toAny() any {
	switch v.kind {
	case kindObject:
		m := make(map[string]any, len(v.members))
		for _, mem := range v.members {
			m[mem.key] = mem.val.toAny()
		}
		return m
	case kindArray:
		out := make([]any, len(v.arr))
		for i, e := range v.arr {
			out[i] = e.toAny()
		}
		return out
	case kindString:
		return v.str
	case kindNumber:
		return json.Number(v.str)
	case kindBool:
		return v.boolean
	default:
		return nil
	}
}

// parseValue decodes one complete JSON document. Trailing non-whitespace
// content is an error, so sniffing stays as strict as a full decode.
func parseValue(data []byte) (value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	tok, err := dec.Token()
	if err != nil {
		return value{}, err
	}
	v, err := valueFromToken(dec, tok)
	if err != nil {
		return value{}, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return value{}, errors.New("trailing data after JSON document")
	}
	return v, nil
}

func valueFromToken(dec *json.Decoder, tok json.Token) (value, error) {
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			v := value{kind: kindObject}
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return value{}, err
				}
				key, ok := keyTok.(string)
				if !ok {
					return value{}, fmt.Errorf("object key %v is not a string", keyTok)
				}
				valTok, err := dec.Token()
				if err != nil {
					return value{}, err
				}
				val, err := valueFromToken(dec, valTok)
				if err != nil {
					return value{}, err
				}
				v.members = append(v.members, member{key: key, val: val})
			}
			if _, err := dec.Token(); err != nil { // closing brace
				return value{}, err
			}
			return v, nil
		case '[':
			v := value{kind: kindArray}
			for dec.More() {
				elemTok, err := dec.Token()
				if err != nil {
					return value{}, err
				}
				elem, err := valueFromToken(dec, elemTok)
				if err != nil {
					return value{}, err
				}
				v.arr = append(v.arr, elem)
			}
			if _, err := dec.Token(); err != nil { // closing bracket
				return value{}, err
			}
			return v, nil
		default:
			return value{}, fmt.Errorf("unexpected delimiter %q", t)
		}
	case string:
		return value{kind: kindString, str: t}, nil
	case json.Number:
		return value{kind: kindNumber, str: string(t)}, nil
	case bool:
		return value{kind: kindBool, boolean: t}, nil
	case nil:
		return value{kind: kindNull}, nil
	default:
		return value{}, fmt.Errorf("unexpected token %v", tok)
	}
}
