package jsondelta

import (
	"strconv"

	json "github.com/goccy/go-json"
)

// Markers of the native delta wire format. An array delta is an object
// carrying "_t": "a"; scalar-level deltas are arrays whose length and
// trailing magic number encode the op.
const (
	arrayMarkerKey   = "_t"
	arrayMarkerValue = "a"

	magicDeleted  = 0
	magicTextDiff = 2
	magicMoved    = 3
)

// Formatter renders a Delta into an output encoding. Formatter values
// hold configuration only and keep all per-call state on the stack, so
// one value may be shared between any number of goroutines.
type Formatter interface {
	Format(d Delta) ([]byte, error)
}

// NativeFormatter renders a Delta as the nested native delta document:
//
//	added value        [new]
//	replaced value     [old, new]
//	removed value      [old, 0, 0]
//	text delta         [patch, 0, 2]
//	object delta       {"prop": <child>}
//	array delta        {"_t": "a", "2": <insert/modify>, "_3": <delete/move>}
//
// Plain numeric keys of an array delta are right-side indices,
// underscore-prefixed ones are left-side indices, and a move is
// encoded under its source index as ["", toIndex, 3]. Retained
// elements are not written.
type NativeFormatter struct {
	// Indent, when non-empty, switches to indented output using it as
	// the per-level indent string.
	Indent string
}

// Format renders d. A nil delta yields nil output.
func (f NativeFormatter) Format(d Delta) ([]byte, error) {
	if d == nil {
		return nil, nil
	}
	if f.Indent != "" {
		return json.MarshalIndent(d.encode(), "", f.Indent)
	}
	return json.Marshal(d.encode())
}

// FormatNative renders d as a compact native delta document. It is
// shorthand for NativeFormatter{}.Format(d).
func FormatNative(d Delta) ([]byte, error) {
	return NativeFormatter{}.Format(d)
}

func (d Modified) encode() any {
	return []any{d.Old, d.New}
}

func (d Added) encode() any {
	return []any{d.Value}
}

func (d Removed) encode() any {
	return []any{d.Old, magicDeleted, magicDeleted}
}

func (d TextDiff) encode() any {
	return []any{d.Patch, 0, magicTextDiff}
}

func (d ObjectDelta) encode() any {
	out := make(map[string]any, len(d.Props))
	for k, child := range d.Props {
		out[k] = child.encode()
	}
	return out
}

func (d ArrayDelta) encode() any {
	out := map[string]any{arrayMarkerKey: arrayMarkerValue}
	for _, op := range d.Ops {
		switch op.Kind {
		case OpInsert:
			out[strconv.Itoa(op.Index)] = []any{op.Value}
		case OpDelete:
			out["_"+strconv.Itoa(op.Index)] = []any{op.Value, magicDeleted, magicDeleted}
		case OpModify:
			out[strconv.Itoa(op.NewIndex)] = op.Delta.encode()
		case OpMove:
			out["_"+strconv.Itoa(op.Index)] = []any{"", op.NewIndex, magicMoved}
			if op.Delta != nil {
				out[strconv.Itoa(op.NewIndex)] = op.Delta.encode()
			}
		}
	}
	return out
}

// MarshalJSON renders the delta in the native wire format, so deltas
// embed naturally in larger JSON payloads.
func (d Modified) MarshalJSON() ([]byte, error) { return json.Marshal(d.encode()) }

// MarshalJSON renders the delta in the native wire format.
func (d Added) MarshalJSON() ([]byte, error) { return json.Marshal(d.encode()) }

// MarshalJSON renders the delta in the native wire format.
func (d Removed) MarshalJSON() ([]byte, error) { return json.Marshal(d.encode()) }

// MarshalJSON renders the delta in the native wire format.
func (d TextDiff) MarshalJSON() ([]byte, error) { return json.Marshal(d.encode()) }

// MarshalJSON renders the delta in the native wire format.
func (d ObjectDelta) MarshalJSON() ([]byte, error) { return json.Marshal(d.encode()) }

// MarshalJSON renders the delta in the native wire format.
func (d ArrayDelta) MarshalJSON() ([]byte, error) { return json.Marshal(d.encode()) }
