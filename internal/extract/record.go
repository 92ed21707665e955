package extract

import (
	"bytes"
	"encoding/json"
)

// member is one key/value pair of a JSON object.
type member struct {
	key   string
	value json.RawMessage
}

// record is a leniently decoded JSON object.
//
// Analyzer output varies between versions, so fields are read on demand
// and a field of the wrong type reads as its zero value instead of failing
// the whole record. Keys keep their document order; a duplicated key
// resolves to its last value.
type record struct {
	members []member
	index   map[string]int
}

// parseRecord decodes raw as a JSON object. ok is false when raw is not an
// object.
func parseRecord(raw json.RawMessage) (record, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '{' {
		return record{}, false
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	if _, err := dec.Token(); err != nil {
		return record{}, false
	}

	r := record{index: make(map[string]int)}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return record{}, false
		}
		key, isString := tok.(string)
		if !isString {
			return record{}, false
		}

		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return record{}, false
		}

		if i, dup := r.index[key]; dup {
			r.members[i].value = value
			continue
		}
		r.index[key] = len(r.members)
		r.members = append(r.members, member{key: key, value: value})
	}
	if _, err := dec.Token(); err != nil {
		return record{}, false
	}
	return r, true
}

// has reports whether key is present, even with a null value.
func (r record) has(key string) bool {
	_, ok := r.index[key]
	return ok
}

// raw returns the undecoded value of key.
func (r record) raw(key string) (json.RawMessage, bool) {
	i, ok := r.index[key]
	if !ok {
		return nil, false
	}
	return r.members[i].value, true
}

// str returns key as a string, or "" when missing or not a string.
func (r record) str(key string) string {
	value, ok := r.raw(key)
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(value, &s); err != nil {
		return ""
	}
	return s
}

// number returns key as a float64. ok is false for a missing, null or
// non-numeric value.
func (r record) number(key string) (float64, bool) {
	value, ok := r.raw(key)
	if !ok {
		return 0, false
	}
	var v any
	if err := json.Unmarshal(value, &v); err != nil {
		return 0, false
	}
	f, isNumber := v.(float64)
	return f, isNumber
}

// object returns key as a record, or an empty record when missing or not an
// object.
func (r record) object(key string) record {
	value, ok := r.raw(key)
	if !ok {
		return record{}
	}
	obj, _ := parseRecord(value)
	return obj
}

// list returns the elements of key, or nil when missing or not an array.
func (r record) list(key string) []json.RawMessage {
	value, ok := r.raw(key)
	if !ok {
		return nil
	}
	return parseList(value)
}

// values returns the member values in document order.
func (r record) values() []json.RawMessage {
	out := make([]json.RawMessage, len(r.members))
	for i, m := range r.members {
		out[i] = m.value
	}
	return out
}

// parseList decodes raw as a JSON array, or returns nil when it is not one.
func parseList(raw json.RawMessage) []json.RawMessage {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '[' {
		return nil
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil
	}
	return items
}
