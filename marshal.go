package jsondelta

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	json "github.com/goccy/go-json"
)

// ParseDelta decodes a native delta document, as produced by
// FormatNative or NativeFormatter, back into a Delta. A JSON null
// decodes to the nil no-difference delta.
//
// Retained array elements are not part of the wire format, so a parsed
// array delta carries no retain entries. The left-side indices of
// element rewrites are recovered from the surrounding removals and
// insertions, which keeps Reverse and Unpatch working on parsed
// deltas.
func ParseDelta(data []byte) (Delta, error) {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("jsondelta: parse delta: %w", err)
	}
	if raw == nil {
		return nil, nil
	}
	return parseDeltaValue(raw)
}

func parseDeltaValue(raw any) (Delta, error) {
	switch v := raw.(type) {
	case []any:
		return parseLeafDelta(v)
	case map[string]any:
		if v[arrayMarkerKey] == arrayMarkerValue {
			return parseArrayDelta(v)
		}
		return parseObjectDelta(v)
	default:
		return nil, fmt.Errorf("jsondelta: parse delta: unexpected %s value", kindOf(raw))
	}
}

func parseLeafDelta(v []any) (Delta, error) {
	switch len(v) {
	case 1:
		return Added{Value: v[0]}, nil
	case 2:
		return Modified{Old: v[0], New: v[1]}, nil
	case 3:
		magic, ok := toFloat(v[2])
		if !ok {
			return nil, fmt.Errorf("jsondelta: parse delta: marker %v is not a number", v[2])
		}
		switch int(magic) {
		case magicDeleted:
			return Removed{Old: v[0]}, nil
		case magicTextDiff:
			patch, ok := v[0].(string)
			if !ok {
				return nil, errors.New("jsondelta: parse delta: text delta payload is not a string")
			}
			return TextDiff{Patch: patch}, nil
		case magicMoved:
			return nil, errors.New("jsondelta: parse delta: move entry outside an array delta")
		default:
			return nil, fmt.Errorf("jsondelta: parse delta: unknown marker %d", int(magic))
		}
	}
	return nil, fmt.Errorf("jsondelta: parse delta: entry has %d elements", len(v))
}

func parseObjectDelta(m map[string]any) (Delta, error) {
	props := make(map[string]Delta, len(m))
	for _, k := range sortedKeys(m) {
		child, err := parseDeltaValue(m[k])
		if err != nil {
			return nil, fmt.Errorf("key %q: %w", k, err)
		}
		props[k] = child
	}
	return ObjectDelta{Props: props}, nil
}

// parseArrayDelta decodes the {"_t": "a", ...} form. Underscore keys
// hold removals and moves under left-side indices, plain keys hold
// insertions and element rewrites under right-side indices.
func parseArrayDelta(m map[string]any) (Delta, error) {
	type entry struct {
		idx   int
		under bool
		key   string
	}
	entries := make([]entry, 0, len(m))
	for k := range m {
		if k == arrayMarkerKey {
			continue
		}
		name, under := strings.CutPrefix(k, "_")
		idx, err := strconv.Atoi(name)
		if err != nil || idx < 0 {
			return nil, fmt.Errorf("jsondelta: parse delta: bad array delta key %q", k)
		}
		entries = append(entries, entry{idx, under, k})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].under != entries[j].under {
			return entries[i].under
		}
		return entries[i].idx < entries[j].idx
	})

	var ops []ArrayOp
	for _, e := range entries {
		raw := m[e.key]
		if e.under {
			leaf, ok := raw.([]any)
			if !ok || len(leaf) != 3 {
				return nil, fmt.Errorf("jsondelta: parse delta: entry %q is not a removal or move", e.key)
			}
			magic, ok := toFloat(leaf[2])
			if !ok {
				return nil, fmt.Errorf("jsondelta: parse delta: marker %v is not a number", leaf[2])
			}
			switch int(magic) {
			case magicDeleted:
				ops = append(ops, ArrayOp{Kind: OpDelete, Index: e.idx, Value: leaf[0]})
			case magicMoved:
				to, ok := toFloat(leaf[1])
				if !ok {
					return nil, fmt.Errorf("jsondelta: parse delta: move target %v is not a number", leaf[1])
				}
				ops = append(ops, ArrayOp{Kind: OpMove, Index: e.idx, NewIndex: int(to)})
			default:
				return nil, fmt.Errorf("jsondelta: parse delta: unknown marker %d under %q", int(magic), e.key)
			}
			continue
		}
		if leaf, ok := raw.([]any); ok && len(leaf) == 1 {
			ops = append(ops, ArrayOp{Kind: OpInsert, Index: e.idx, Value: leaf[0]})
			continue
		}
		child, err := parseDeltaValue(raw)
		if err != nil {
			return nil, fmt.Errorf("index %d: %w", e.idx, err)
		}
		ops = append(ops, ArrayOp{Kind: OpModify, NewIndex: e.idx, Delta: child})
	}

	ops = foldMoveRewrites(ops)

	var removals, placements []int
	for _, op := range ops {
		switch op.Kind {
		case OpDelete:
			removals = append(removals, op.Index)
		case OpMove:
			removals = append(removals, op.Index)
			placements = append(placements, op.NewIndex)
		case OpInsert:
			placements = append(placements, op.Index)
		}
	}
	for i := range ops {
		if ops[i].Kind == OpModify {
			ops[i].Index = leftIndexFor(ops[i].NewIndex, removals, placements)
		}
	}
	return ArrayDelta{Ops: ops}, nil
}

// foldMoveRewrites attaches a rewrite that targets the same final slot
// as a move to that move. The encoder splits a move of changed keyed
// content into exactly this pair, and one slot cannot both receive a
// move and keep a retained element.
func foldMoveRewrites(ops []ArrayOp) []ArrayOp {
	folded := make(map[int]bool)
	for i := range ops {
		if ops[i].Kind != OpMove {
			continue
		}
		for j := range ops {
			if ops[j].Kind == OpModify && ops[j].NewIndex == ops[i].NewIndex && !folded[j] {
				ops[i].Delta = ops[j].Delta
				folded[j] = true
				break
			}
		}
	}
	if len(folded) == 0 {
		return ops
	}
	out := ops[:0]
	for j := range ops {
		if !folded[j] {
			out = append(out, ops[j])
		}
	}
	return out
}

// leftIndexFor recovers the left-side index of the element rewritten
// at right-side index n. The element's right index is its left index,
// minus the removals at or before it, plus the insertions before it;
// solving for the left index is a fixpoint because the removal count
// depends on the answer. The count grows monotonically from the
// insertion-adjusted base, so the loop terminates.
func leftIndexFor(n int, removals, placements []int) int {
	base := n
	for _, t := range placements {
		if t < n {
			base--
		}
	}
	m := base
	for {
		d := 0
		for _, r := range removals {
			if r <= m {
				d++
			}
		}
		next := base + d
		if next == m {
			return m
		}
		m = next
	}
}
