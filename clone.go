package jsondelta

import (
	"errors"
	"fmt"

	"github.com/huandu/go-clone"
)

// ErrInvalidValue reports a value outside the JSON document model.
var ErrInvalidValue = errors.New("jsondelta: value outside the JSON document model")

// Clone returns a deep copy of a JSON document. v must stay within the
// document model: nil, bool, string, a numeric type, map[string]any or
// []any, nested arbitrarily. Anything else yields an error wrapping
// ErrInvalidValue and naming the offending path.
func Clone[T any](v T) (T, error) {
	if err := validateValue(any(v)); err != nil {
		var zero T
		return zero, err
	}
	if any(v) == nil {
		return v, nil
	}
	cloned := clone.Clone(any(v))
	out, ok := cloned.(T)
	if !ok {
		var zero T
		return zero, fmt.Errorf("jsondelta: clone: cannot assign %T back to input type", cloned)
	}
	return out, nil
}

// MustClone is Clone for documents known to be valid. It panics on
// error.
func MustClone[T any](v T) T {
	out, err := Clone(v)
	if err != nil {
		panic(err)
	}
	return out
}

// cloneValue deep-copies a value taken from a delta before it is
// placed into a patched document.
func cloneValue(v any) any {
	if v == nil {
		return nil
	}
	return clone.Clone(v)
}

func validateValue(v any) error {
	var p pathBuf
	return validateAt(&p, v)
}

func validateAt(p *pathBuf, v any) error {
	switch kindOf(v) {
	case KindInvalid:
		return fmt.Errorf("%w: %T at %q", ErrInvalidValue, v, p.String())
	case KindObject:
		m := v.(map[string]any)
		for _, k := range sortedKeys(m) {
			p.pushKey(k)
			err := validateAt(p, m[k])
			p.pop()
			if err != nil {
				return err
			}
		}
	case KindArray:
		for i, elem := range v.([]any) {
			p.pushIndex(i)
			err := validateAt(p, elem)
			p.pop()
			if err != nil {
				return err
			}
		}
	}
	return nil
}
