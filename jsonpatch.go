package jsondelta

import (
	"errors"
	"fmt"
	"sort"

	json "github.com/goccy/go-json"
)

// ErrTextDelta is returned when a delta containing a text patch is
// rendered as RFC 6902 JSON Patch. A text patch carries only the edit
// script, not the full replacement string, so no "replace" operation
// can be produced for it.
var ErrTextDelta = errors.New("jsondelta: text delta has no JSON Patch representation")

// Operation is a single RFC 6902 JSON Patch operation. Op is one of
// "add", "remove", "replace" or "move"; Path and From are RFC 6901
// JSON Pointers.
type Operation struct {
	Op    string `json:"op"`
	From  string `json:"from,omitempty"`
	Path  string `json:"path"`
	Value any    `json:"value,omitempty"`
}

// MarshalJSON writes only the members defined for the operation kind,
// so a null Value still appears for "add" and "replace" and never
// leaks into "remove" or "move".
func (o Operation) MarshalJSON() ([]byte, error) {
	switch o.Op {
	case "remove":
		return json.Marshal(struct {
			Op   string `json:"op"`
			Path string `json:"path"`
		}{o.Op, o.Path})
	case "move":
		return json.Marshal(struct {
			Op   string `json:"op"`
			From string `json:"from"`
			Path string `json:"path"`
		}{o.Op, o.From, o.Path})
	default:
		return json.Marshal(struct {
			Op    string `json:"op"`
			Path  string `json:"path"`
			Value any    `json:"value"`
		}{o.Op, o.Path, o.Value})
	}
}

// JSONPatchFormatter renders a Delta as an RFC 6902 JSON Patch
// document. Operations are emitted so that each one's Path and From
// are valid against the document state produced by the operations
// before it, which is what a sequential RFC 6902 applier expects.
//
// Text deltas cannot be rendered and yield ErrTextDelta.
type JSONPatchFormatter struct {
	// Indent, when non-empty, switches to indented output using it as
	// the per-level indent string.
	Indent string
}

// Format renders d. A nil delta yields the empty patch document "[]".
func (f JSONPatchFormatter) Format(d Delta) ([]byte, error) {
	ops, err := Operations(d)
	if err != nil {
		return nil, err
	}
	if f.Indent != "" {
		return json.MarshalIndent(ops, "", f.Indent)
	}
	return json.Marshal(ops)
}

// FormatJSONPatch renders d as a compact RFC 6902 document. It is
// shorthand for JSONPatchFormatter{}.Format(d).
func FormatJSONPatch(d Delta) ([]byte, error) {
	return JSONPatchFormatter{}.Format(d)
}

// Operations flattens d into the ordered RFC 6902 operation list that
// FormatJSONPatch serializes. A nil delta yields an empty, non-nil
// slice.
func Operations(d Delta) ([]Operation, error) {
	ops := []Operation{}
	if d == nil {
		return ops, nil
	}
	var p pathBuf
	if err := d.patchOps(&p, &ops); err != nil {
		return nil, err
	}
	return ops, nil
}

func (d Modified) patchOps(p *pathBuf, ops *[]Operation) error {
	*ops = append(*ops, Operation{Op: "replace", Path: p.String(), Value: d.New})
	return nil
}

func (d Added) patchOps(p *pathBuf, ops *[]Operation) error {
	*ops = append(*ops, Operation{Op: "add", Path: p.String(), Value: d.Value})
	return nil
}

func (d Removed) patchOps(p *pathBuf, ops *[]Operation) error {
	*ops = append(*ops, Operation{Op: "remove", Path: p.String()})
	return nil
}

func (d TextDiff) patchOps(p *pathBuf, ops *[]Operation) error {
	return fmt.Errorf("%w (at %q)", ErrTextDelta, p.String())
}

func (d ObjectDelta) patchOps(p *pathBuf, ops *[]Operation) error {
	for _, k := range sortedDeltaKeys(d.Props) {
		p.pushKey(k)
		err := d.Props[k].patchOps(p, ops)
		p.pop()
		if err != nil {
			return err
		}
	}
	return nil
}

// patchOps turns an array delta into sequential RFC 6902 operations.
// Removals run first, from the highest left index down, so each
// "remove" path is still a left-side index. Insertions and moves then
// run in ascending target order; a move's source keeps occupying the
// intermediate document until its own operation runs, so both From and
// every placement index are computed against that live state, tracked
// per pending source as operations are emitted. Element rewrites run
// last, when every index already matches the right document.
func (d ArrayDelta) patchOps(p *pathBuf, ops *[]Operation) error {
	var deletes, places []ArrayOp
	for _, op := range d.Ops {
		switch op.Kind {
		case OpDelete:
			deletes = append(deletes, op)
		case OpInsert, OpMove:
			places = append(places, op)
		}
	}

	// 1. Plain removals, right to left.
	sort.Slice(deletes, func(i, j int) bool { return deletes[i].Index > deletes[j].Index })
	for _, op := range deletes {
		p.pushIndex(op.Index)
		*ops = append(*ops, Operation{Op: "remove", Path: p.String()})
		p.pop()
	}

	// 2. Insertions and moves, left to right by target slot.
	targetOf := func(op ArrayOp) int {
		if op.Kind == OpMove {
			return op.NewIndex
		}
		return op.Index
	}
	sort.Slice(places, func(i, j int) bool { return targetOf(places[i]) < targetOf(places[j]) })

	// A move source stays in the intermediate document until its own
	// operation runs. pos is its physical index there after the
	// removals, settled counts the elements before it that already sit
	// in their final slot; both are kept current as operations land.
	type source struct {
		left    int
		pos     int
		settled int
	}
	var pending []*source
	for _, op := range places {
		if op.Kind != OpMove {
			continue
		}
		src := &source{left: op.Index, pos: op.Index, settled: op.Index}
		for _, del := range deletes {
			if del.Index < op.Index {
				src.pos--
				src.settled--
			}
		}
		for _, other := range places {
			if other.Kind == OpMove && other.Index < op.Index {
				src.settled--
			}
		}
		pending = append(pending, src)
	}

	for _, op := range places {
		target := targetOf(op)
		from := ""
		if op.Kind == OpMove {
			var fromPos int
			for i, src := range pending {
				if src.left == op.Index {
					fromPos = src.pos
					pending = append(pending[:i], pending[i+1:]...)
					break
				}
			}
			for _, src := range pending {
				if src.pos > fromPos {
					src.pos--
				}
			}
			p.pushIndex(fromPos)
			from = p.String()
			p.pop()
		}

		// The first target elements of the right document are already
		// settled; sources still waiting among them push the slot
		// further right.
		at := target
		for _, src := range pending {
			if src.settled < target {
				at++
			}
		}

		p.pushIndex(at)
		if op.Kind == OpMove {
			*ops = append(*ops, Operation{Op: "move", From: from, Path: p.String()})
		} else {
			*ops = append(*ops, Operation{Op: "add", Path: p.String(), Value: op.Value})
		}
		p.pop()

		for _, src := range pending {
			if at <= src.pos {
				src.pos++
				src.settled++
			}
		}
	}

	// 3. Element rewrites at their final indices.
	type rewrite struct {
		index int
		delta Delta
	}
	var rewrites []rewrite
	for _, op := range d.Ops {
		switch op.Kind {
		case OpModify:
			rewrites = append(rewrites, rewrite{op.NewIndex, op.Delta})
		case OpMove:
			if op.Delta != nil {
				rewrites = append(rewrites, rewrite{op.NewIndex, op.Delta})
			}
		}
	}
	sort.Slice(rewrites, func(i, j int) bool { return rewrites[i].index < rewrites[j].index })
	for _, rw := range rewrites {
		p.pushIndex(rw.index)
		err := rw.delta.patchOps(p, ops)
		p.pop()
		if err != nil {
			return err
		}
	}
	return nil
}

func sortedDeltaKeys(m map[string]Delta) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
