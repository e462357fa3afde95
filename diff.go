package jsondelta

import "sort"

// Diff compares two JSON trees and returns a Delta that transforms
// left into right, or nil when the trees are structurally equal.
//
// Inputs are treated as read-only; the returned delta shares structure
// with them. Values whose kinds differ, including a container facing a
// scalar, produce a wholesale Modified with no structural recursion.
func Diff(left, right any, opts ...Option) Delta {
	cfg := newConfig(opts...)
	return diffValues(left, right, cfg)
}

// DiffFormat diffs two JSON trees and renders the result with f in one
// step. It returns nil output and a nil error when there is no
// difference.
func DiffFormat(left, right any, f Formatter, opts ...Option) ([]byte, error) {
	d := Diff(left, right, opts...)
	if d == nil {
		return nil, nil
	}
	return f.Format(d)
}

func diffValues(l, r any, cfg *config) Delta {
	if equalValues(l, r, cfg.epsilon) {
		return nil
	}

	kl, kr := kindOf(l), kindOf(r)
	if kl != kr {
		return Modified{Old: l, New: r}
	}

	switch kl {
	case KindObject:
		return diffObjects(l.(map[string]any), r.(map[string]any), cfg)
	case KindArray:
		return diffArrays(l.([]any), r.([]any), cfg)
	case KindString:
		if cfg.textDiffMinimum > 0 {
			ls, rs := l.(string), r.(string)
			if len(ls) >= cfg.textDiffMinimum && len(rs) >= cfg.textDiffMinimum {
				return TextDiff{Patch: makeTextPatch(ls, rs)}
			}
		}
		return Modified{Old: l, New: r}
	default:
		return Modified{Old: l, New: r}
	}
}

func diffObjects(l, r map[string]any, cfg *config) Delta {
	props := make(map[string]Delta)

	for _, k := range sortedKeys(l) {
		lv := l[k]
		rv, ok := r[k]
		if !ok {
			props[k] = Removed{Old: lv}
			continue
		}
		if child := diffValues(lv, rv, cfg); child != nil {
			props[k] = child
		}
	}

	for _, k := range sortedKeys(r) {
		if _, ok := l[k]; !ok {
			props[k] = Added{Value: r[k]}
		}
	}

	if len(props) == 0 {
		return nil
	}

	return ObjectDelta{Props: props}
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
