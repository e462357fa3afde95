package jsondelta

import (
	"math"
	"reflect"
)

// Equal performs a deep structural equality check between two JSON
// trees. Numbers compare by value regardless of their Go type, so
// int(1) equals float64(1). Values outside the JSON data model fall
// back to reflect.DeepEqual.
func Equal(a, b any) bool {
	return equalValues(a, b, 0)
}

// equalValues is the comparator behind Equal and Diff. A positive eps
// makes numbers within eps of each other compare equal. A kind
// mismatch is never an error, just inequality.
func equalValues(a, b any, eps float64) bool {
	ka, kb := kindOf(a), kindOf(b)
	if ka != kb {
		return false
	}

	switch ka {
	case KindNull:
		return true
	case KindBool:
		return a.(bool) == b.(bool)
	case KindString:
		return a.(string) == b.(string)
	case KindNumber:
		fa, _ := toFloat(a)
		fb, _ := toFloat(b)
		if eps > 0 {
			return math.Abs(fa-fb) <= eps
		}
		// NaN never equals anything, itself included.
		return fa == fb
	case KindObject:
		ma := a.(map[string]any)
		mb := b.(map[string]any)
		if len(ma) != len(mb) {
			return false
		}
		for k, va := range ma {
			vb, ok := mb[k]
			if !ok || !equalValues(va, vb, eps) {
				return false
			}
		}
		return true
	case KindArray:
		sa := a.([]any)
		sb := b.([]any)
		if len(sa) != len(sb) {
			return false
		}
		for i := range sa {
			if !equalValues(sa[i], sb[i], eps) {
				return false
			}
		}
		return true
	default:
		return reflect.DeepEqual(a, b)
	}
}
