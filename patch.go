package jsondelta

import (
	"errors"
	"fmt"
	"sort"
)

// ErrMismatch is the sentinel wrapped by every MismatchError, so
// callers can test for any patch mismatch with errors.Is.
var ErrMismatch = errors.New("jsondelta: patch mismatch")

// MismatchError reports that a document did not look like the one a
// delta was computed from. Path is the JSON Pointer of the offending
// value.
type MismatchError struct {
	Path     string
	Expected any
	Found    any
	Reason   string
}

func (e *MismatchError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("jsondelta: patch mismatch at %q: %s", e.Path, e.Reason)
	}
	return fmt.Sprintf("jsondelta: patch mismatch at %q: expected %v, got %v", e.Path, e.Expected, e.Found)
}

func (e *MismatchError) Unwrap() error {
	return ErrMismatch
}

// Patch applies d to doc and returns the patched document. Objects are
// updated in place; arrays and scalars are replaced, so callers must
// keep the returned value. Values taken from the delta are cloned
// before insertion, which keeps d reusable and independent of later
// edits to the result.
//
// By default every operation is verified against the document and the
// first discrepancy aborts with a MismatchError. With Lenient,
// inapplicable operations are skipped instead.
//
// A nil delta returns doc unchanged.
func Patch(doc any, d Delta, opts ...PatchOption) (any, error) {
	if d == nil {
		return doc, nil
	}
	cfg := newPatchConfig(opts...)
	var p pathBuf
	return d.apply(doc, &p, cfg)
}

// Unpatch applies d backwards, turning a document shaped like the diff
// result back into the original. It is shorthand for patching with
// Reverse(d).
func Unpatch(doc any, d Delta, opts ...PatchOption) (any, error) {
	return Patch(doc, Reverse(d), opts...)
}

func (d Modified) apply(doc any, p *pathBuf, cfg *patchConfig) (any, error) {
	if cfg.strict && !Equal(doc, d.Old) {
		return nil, &MismatchError{Path: p.String(), Expected: d.Old, Found: doc}
	}
	return cloneValue(d.New), nil
}

func (d Added) apply(doc any, p *pathBuf, cfg *patchConfig) (any, error) {
	return cloneValue(d.Value), nil
}

// apply for a removal yields a nil document. Removals inside objects
// and arrays never reach this; their parents delete the entry instead.
func (d Removed) apply(doc any, p *pathBuf, cfg *patchConfig) (any, error) {
	if cfg.strict && !Equal(doc, d.Old) {
		return nil, &MismatchError{Path: p.String(), Expected: d.Old, Found: doc}
	}
	return nil, nil
}

func (d TextDiff) apply(doc any, p *pathBuf, cfg *patchConfig) (any, error) {
	s, ok := doc.(string)
	if !ok {
		return nil, &MismatchError{Path: p.String(), Found: doc, Reason: "expected a string"}
	}
	out, applied, err := applyTextPatch(d.Patch, s)
	if err != nil {
		return nil, fmt.Errorf("jsondelta: invalid text patch at %q: %w", p.String(), err)
	}
	if cfg.strict && !applied {
		return nil, &MismatchError{Path: p.String(), Found: doc, Reason: "text patch did not apply cleanly"}
	}
	return out, nil
}

func (d ObjectDelta) apply(doc any, p *pathBuf, cfg *patchConfig) (any, error) {
	obj, ok := doc.(map[string]any)
	if !ok {
		return nil, &MismatchError{Path: p.String(), Found: doc, Reason: "expected an object"}
	}
	for _, k := range sortedDeltaKeys(d.Props) {
		p.pushKey(k)
		err := applyProp(obj, k, d.Props[k], p, cfg)
		p.pop()
		if err != nil {
			return nil, err
		}
	}
	return obj, nil
}

func applyProp(obj map[string]any, key string, child Delta, p *pathBuf, cfg *patchConfig) error {
	cur, exists := obj[key]
	switch cd := child.(type) {
	case Added:
		if exists && cfg.strict {
			return &MismatchError{Path: p.String(), Found: cur, Reason: "key already exists"}
		}
		obj[key] = cloneValue(cd.Value)
	case Removed:
		if !exists {
			if cfg.strict {
				return &MismatchError{Path: p.String(), Expected: cd.Old, Reason: "key not found"}
			}
			return nil
		}
		if cfg.strict && !Equal(cur, cd.Old) {
			return &MismatchError{Path: p.String(), Expected: cd.Old, Found: cur}
		}
		delete(obj, key)
	default:
		if !exists {
			if cfg.strict {
				return &MismatchError{Path: p.String(), Reason: "key not found"}
			}
			// Best effort: a plain replacement still tells us the
			// final value. Anything deeper has nothing to recurse
			// into, so it is skipped.
			if m, ok := child.(Modified); ok {
				obj[key] = cloneValue(m.New)
			}
			return nil
		}
		next, err := child.apply(cur, p, cfg)
		if err != nil {
			return err
		}
		obj[key] = next
	}
	return nil
}

// apply reorders an array in three passes over a scratch copy.
// Removals and move sources leave first, from the highest left index
// down, so earlier indices stay valid while the values of pending
// moves are captured. Insertions and move destinations then land in
// ascending target order, each one valid against the array as built so
// far. Element rewrites run last, when every surviving element already
// sits at its final index.
func (d ArrayDelta) apply(doc any, p *pathBuf, cfg *patchConfig) (any, error) {
	arr, ok := doc.([]any)
	if !ok {
		return nil, &MismatchError{Path: p.String(), Found: doc, Reason: "expected an array"}
	}
	out := make([]any, len(arr))
	copy(out, arr)

	var removals, places, rewrites []ArrayOp
	for _, op := range d.Ops {
		switch op.Kind {
		case OpDelete:
			removals = append(removals, op)
		case OpInsert:
			places = append(places, op)
		case OpMove:
			removals = append(removals, op)
			places = append(places, op)
		case OpModify:
			rewrites = append(rewrites, op)
		}
	}

	// 1. Take out removed elements and move sources, right to left.
	sort.Slice(removals, func(i, j int) bool { return removals[i].Index > removals[j].Index })
	moved := make(map[int]any, len(removals))
	for _, op := range removals {
		if op.Index < 0 || op.Index >= len(out) {
			if cfg.strict {
				return nil, &MismatchError{Path: indexPath(p, op.Index), Reason: "index out of bounds"}
			}
			continue
		}
		cur := out[op.Index]
		if op.Kind == OpDelete {
			if cfg.strict && !Equal(cur, op.Value) {
				return nil, &MismatchError{Path: indexPath(p, op.Index), Expected: op.Value, Found: cur}
			}
		} else {
			moved[op.Index] = cur
		}
		out = append(out[:op.Index], out[op.Index+1:]...)
	}

	// 2. Put in new elements and move destinations, left to right.
	targetOf := func(op ArrayOp) int {
		if op.Kind == OpMove {
			return op.NewIndex
		}
		return op.Index
	}
	sort.Slice(places, func(i, j int) bool { return targetOf(places[i]) < targetOf(places[j]) })
	for _, op := range places {
		var val any
		if op.Kind == OpInsert {
			val = cloneValue(op.Value)
		} else {
			captured, ok := moved[op.Index]
			if !ok {
				continue
			}
			val = captured
			if op.Delta != nil {
				p.pushIndex(op.NewIndex)
				next, err := op.Delta.apply(captured, p, cfg)
				p.pop()
				if err != nil {
					return nil, err
				}
				val = next
			}
		}
		target := targetOf(op)
		if target < 0 || target > len(out) {
			if cfg.strict {
				return nil, &MismatchError{Path: indexPath(p, target), Reason: "index out of bounds"}
			}
			target = len(out)
		}
		out = append(out, nil)
		copy(out[target+1:], out[target:])
		out[target] = val
	}

	// 3. Rewrite changed elements at their final indices.
	sort.Slice(rewrites, func(i, j int) bool { return rewrites[i].NewIndex < rewrites[j].NewIndex })
	for _, op := range rewrites {
		if op.NewIndex < 0 || op.NewIndex >= len(out) {
			if cfg.strict {
				return nil, &MismatchError{Path: indexPath(p, op.NewIndex), Reason: "index out of bounds"}
			}
			continue
		}
		p.pushIndex(op.NewIndex)
		next, err := op.Delta.apply(out[op.NewIndex], p, cfg)
		p.pop()
		if err != nil {
			return nil, err
		}
		out[op.NewIndex] = next
	}
	return out, nil
}

func indexPath(p *pathBuf, i int) string {
	p.pushIndex(i)
	s := p.String()
	p.pop()
	return s
}
