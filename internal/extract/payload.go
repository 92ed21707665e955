package extract

import (
	"bytes"
	"encoding/json"
)

// Shape tells how an analyzer payload was laid out.
type Shape int

const (
	// ShapeEmpty is a missing, null or otherwise unusable payload.
	ShapeEmpty Shape = iota

	// ShapeSingle is one result object.
	ShapeSingle

	// ShapeMultiple is a list of result objects.
	ShapeMultiple
)

// String returns the shape name.
func (s Shape) String() string {
	switch s {
	case ShapeEmpty:
		return "empty"
	case ShapeSingle:
		return "single"
	case ShapeMultiple:
		return "multiple"
	default:
		return "unknown"
	}
}

// Payload is a result payload normalized to a list of result objects.
// axe-core writes a single object for one page and a list when several
// pages were passed on the command line; extractors only see Results.
type Payload struct {
	Shape   Shape
	Results []json.RawMessage
}

// NormalizePayload converts raw into a Payload. Elements of a list that are
// not objects are dropped.
func NormalizePayload(raw json.RawMessage) Payload {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return Payload{Shape: ShapeEmpty}
	}

	switch raw[0] {
	case '{':
		if _, ok := parseRecord(raw); !ok {
			return Payload{Shape: ShapeEmpty}
		}
		return Payload{Shape: ShapeSingle, Results: []json.RawMessage{raw}}
	case '[':
		items := parseList(raw)
		results := make([]json.RawMessage, 0, len(items))
		for _, item := range items {
			if _, ok := parseRecord(item); ok {
				results = append(results, item)
			}
		}
		if len(results) == 0 {
			return Payload{Shape: ShapeEmpty}
		}
		return Payload{Shape: ShapeMultiple, Results: results}
	default:
		return Payload{Shape: ShapeEmpty}
	}
}
