package jsondelta

// Delta describes the structural difference between two JSON trees.
// It is a closed set of shapes: Modified, Added, Removed, TextDiff,
// ObjectDelta and ArrayDelta. A nil Delta means "no difference".
//
// Deltas are created by Diff or ParseDelta, consumed read-only by the
// formatters and by Patch, and share structure with the documents they
// were computed from.
type Delta interface {
	// reverse returns the delta that undoes this one.
	reverse() Delta

	// encode renders the delta in the native wire shape.
	encode() any

	// apply replays the delta onto doc and returns the result.
	apply(doc any, p *pathBuf, cfg *patchConfig) (any, error)

	// patchOps appends the RFC 6902 operations for this delta.
	patchOps(p *pathBuf, ops *[]Operation) error

	// walk visits this delta and its children in document order.
	walk(p *pathBuf, fn WalkFunc) bool

	// tally accumulates change counts.
	tally(s *Stats)
}

// Modified is a wholesale replacement of one value by another. It
// covers scalar changes and kind mismatches such as an object becoming
// an array.
type Modified struct {
	Old any
	New any
}

// Added is a value present only on the right side.
type Added struct {
	Value any
}

// Removed is a value present only on the left side.
type Removed struct {
	Old any
}

// TextDiff is a compact text delta between two long strings, encoded
// in the diff-match-patch patch format. Produced only when Diff runs
// with WithTextDiff.
type TextDiff struct {
	Patch string
}

// ObjectDelta holds per-property child deltas. Unchanged properties
// are absent.
type ObjectDelta struct {
	Props map[string]Delta
}

// ArrayDelta is an ordered edit script over an array. Every element of
// both sides is covered by exactly one op: retains and deletes walk
// the left side, inserts walk the right side, moves and modifies
// reference both.
type ArrayDelta struct {
	Ops []ArrayOp
}

// ArrayOpKind discriminates array edit operations.
type ArrayOpKind int

const (
	// OpRetain keeps an element untouched.
	OpRetain ArrayOpKind = iota
	// OpInsert adds an element at a right-side index.
	OpInsert
	// OpDelete drops the element at a left-side index.
	OpDelete
	// OpMove transfers an element from a left-side index to a
	// right-side index.
	OpMove
	// OpModify rewrites the element's content in place.
	OpModify
)

// String returns the lowercase name of the op kind.
func (k ArrayOpKind) String() string {
	switch k {
	case OpRetain:
		return "retain"
	case OpInsert:
		return "insert"
	case OpDelete:
		return "delete"
	case OpMove:
		return "move"
	case OpModify:
		return "modify"
	default:
		return "unknown"
	}
}

// ArrayOp is a single step of an array edit script. All indices are
// positions in the original, untrimmed arrays: Index is a left-side
// position for retain, delete, modify and the source of a move, and a
// right-side position for insert. NewIndex is the right-side position
// for retain, modify and the destination of a move.
type ArrayOp struct {
	Kind     ArrayOpKind
	Index    int
	NewIndex int

	// Value is the inserted value for insert ops and the removed value
	// for delete ops.
	Value any

	// Delta carries the nested change for modify ops, and for move ops
	// whose element also changed content.
	Delta Delta
}

func (op ArrayOp) reverse() ArrayOp {
	rev := ArrayOp{Kind: op.Kind}
	switch op.Kind {
	case OpRetain:
		rev.Index, rev.NewIndex = op.NewIndex, op.Index
	case OpInsert:
		rev.Kind = OpDelete
		rev.Index = op.Index
		rev.Value = op.Value
	case OpDelete:
		rev.Kind = OpInsert
		rev.Index = op.Index
		rev.Value = op.Value
	case OpMove:
		rev.Index, rev.NewIndex = op.NewIndex, op.Index
		if op.Delta != nil {
			rev.Delta = op.Delta.reverse()
		}
	case OpModify:
		rev.Index, rev.NewIndex = op.NewIndex, op.Index
		rev.Delta = op.Delta.reverse()
	}
	return rev
}

// Reverse returns the delta that transforms the right document back
// into the left one. Reverse(nil) is nil.
func Reverse(d Delta) Delta {
	if d == nil {
		return nil
	}
	return d.reverse()
}

func (d Modified) reverse() Delta {
	return Modified{Old: d.New, New: d.Old}
}

func (d Added) reverse() Delta {
	return Removed{Old: d.Value}
}

func (d Removed) reverse() Delta {
	return Added{Value: d.Old}
}

func (d TextDiff) reverse() Delta {
	return TextDiff{Patch: reverseTextPatch(d.Patch)}
}

func (d ObjectDelta) reverse() Delta {
	props := make(map[string]Delta, len(d.Props))
	for k, child := range d.Props {
		props[k] = child.reverse()
	}
	return ObjectDelta{Props: props}
}

func (d ArrayDelta) reverse() Delta {
	ops := make([]ArrayOp, len(d.Ops))
	for i, op := range d.Ops {
		ops[i] = op.reverse()
	}
	return ArrayDelta{Ops: ops}
}
