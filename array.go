package jsondelta

// itemKey is the identity of one array element during reconciliation.
// Keyed elements match by key, everything else matches by deep value
// equality.
type itemKey struct {
	key   string
	keyed bool
}

// arrayReconciler carries the per-call state of one array comparison:
// both sides plus their identity keys, resolved once up front so the
// trim and LCS stages never re-invoke the key finder.
type arrayReconciler struct {
	left, right []any
	lk, rk      []itemKey
	cfg         *config
}

func diffArrays(l, r []any, cfg *config) Delta {
	a := &arrayReconciler{
		left:  l,
		right: r,
		lk:    computeKeys(l, cfg),
		rk:    computeKeys(r, cfg),
		cfg:   cfg,
	}

	ops := a.run()
	if cfg.detectMoves {
		ops = a.pairMoves(ops)
	}

	return ArrayDelta{Ops: ops}
}

func computeKeys(items []any, cfg *config) []itemKey {
	keys := make([]itemKey, len(items))
	if cfg.keyFinder == nil {
		return keys
	}
	for i, v := range items {
		if kindOf(v) != KindObject {
			continue
		}
		if k, ok := cfg.keyFinder(v, i); ok {
			keys[i] = itemKey{key: k, keyed: true}
		}
	}
	return keys
}

// match reports whether left[i] and right[j] share an identity: equal
// keys when both sides are keyed, deep value equality otherwise.
func (a *arrayReconciler) match(i, j int) bool {
	if a.lk[i].keyed != a.rk[j].keyed {
		return false
	}
	if a.lk[i].keyed {
		return a.lk[i].key == a.rk[j].key
	}
	return equalValues(a.left[i], a.right[j], a.cfg.epsilon)
}

// pair emits the op for an identity-matched element pair: a retain
// when the contents are equal, a modify with a nested delta otherwise.
func (a *arrayReconciler) pair(li, ri int) ArrayOp {
	if equalValues(a.left[li], a.right[ri], a.cfg.epsilon) {
		return ArrayOp{Kind: OpRetain, Index: li, NewIndex: ri}
	}
	return ArrayOp{
		Kind:     OpModify,
		Index:    li,
		NewIndex: ri,
		Delta:    diffValues(a.left[li], a.right[ri], a.cfg),
	}
}

// run produces the edit script. All emitted indices are positions in
// the original arrays: the common head length is added back exactly
// once, at emission time.
func (a *arrayReconciler) run() []ArrayOp {
	lenL, lenR := len(a.left), len(a.right)

	// 1. Trim the common head.
	head := 0
	for head < lenL && head < lenR && a.match(head, head) {
		head++
	}

	// 2. Trim the common tail, stopping before the head.
	tail := 0
	for tail < lenL-head && tail < lenR-head && a.match(lenL-1-tail, lenR-1-tail) {
		tail++
	}

	ops := make([]ArrayOp, 0, lenL+lenR-head-tail)
	for i := 0; i < head; i++ {
		ops = append(ops, a.pair(i, i))
	}

	n := lenL - head - tail
	m := lenR - head - tail

	switch {
	case n == 0 && m > 0:
		// Fast path: pure insertion.
		for j := 0; j < m; j++ {
			ops = append(ops, ArrayOp{Kind: OpInsert, Index: head + j, Value: a.right[head+j]})
		}
	case m == 0 && n > 0:
		// Fast path: pure removal.
		for i := 0; i < n; i++ {
			ops = append(ops, ArrayOp{Kind: OpDelete, Index: head + i, Value: a.left[head+i]})
		}
	case n > 0 && m > 0:
		ops = a.middle(ops, head, n, m)
	}

	for k := tail; k >= 1; k-- {
		ops = append(ops, a.pair(lenL-k, lenR-k))
	}

	return ops
}

// middle runs LCS by identity over the trimmed window and emits the
// interleaved edit script for it.
func (a *arrayReconciler) middle(ops []ArrayOp, head, n, m int) []ArrayOp {
	// 3. Suffix LCS table: lcs[i][j] is the longest common subsequence
	// of the window remainders starting at i and j.
	lcs := make([][]int, n+1)
	for i := range lcs {
		lcs[i] = make([]int, m+1)
	}
	for i := n - 1; i >= 0; i-- {
		for j := m - 1; j >= 0; j-- {
			best := lcs[i+1][j]
			if lcs[i][j+1] > best {
				best = lcs[i][j+1]
			}
			if a.match(head+i, head+j) && lcs[i+1][j+1]+1 > best {
				best = lcs[i+1][j+1] + 1
			}
			lcs[i][j] = best
		}
	}

	// 4. Forward walk. Taking a match whenever it preserves the LCS
	// length, and advancing the right cursor on ties, pairs every left
	// element at its earliest opportunity, so equal-length scripts
	// always resolve the same way.
	i, j := 0, 0
	for i < n || j < m {
		switch {
		case i < n && j < m && a.match(head+i, head+j) && lcs[i][j] == lcs[i+1][j+1]+1:
			ops = append(ops, a.pair(head+i, head+j))
			i++
			j++
		case j < m && (i == n || lcs[i][j+1] >= lcs[i+1][j]):
			ops = append(ops, ArrayOp{Kind: OpInsert, Index: head + j, Value: a.right[head+j]})
			j++
		default:
			ops = append(ops, ArrayOp{Kind: OpDelete, Index: head + i, Value: a.left[head+i]})
			i++
		}
	}

	return ops
}

// pairMoves folds delete/insert pairs that share an identity into a
// single move op at the insert's slot. Deletes are considered in left
// order and claim the earliest unclaimed insert with their identity.
func (a *arrayReconciler) pairMoves(ops []ArrayOp) []ArrayOp {
	var inserts []int
	for idx, op := range ops {
		if op.Kind == OpInsert {
			inserts = append(inserts, idx)
		}
	}
	if len(inserts) == 0 {
		return ops
	}

	taken := make([]bool, len(inserts))
	folded := make(map[int]bool)

	for di, op := range ops {
		if op.Kind != OpDelete {
			continue
		}
		for ci, insIdx := range inserts {
			if taken[ci] || !a.match(op.Index, ops[insIdx].Index) {
				continue
			}
			mv := ArrayOp{Kind: OpMove, Index: op.Index, NewIndex: ops[insIdx].Index}
			if a.lk[op.Index].keyed && !equalValues(a.left[op.Index], a.right[mv.NewIndex], a.cfg.epsilon) {
				mv.Delta = diffValues(a.left[op.Index], a.right[mv.NewIndex], a.cfg)
			}
			ops[insIdx] = mv
			folded[di] = true
			taken[ci] = true
			break
		}
	}

	if len(folded) == 0 {
		return ops
	}

	out := make([]ArrayOp, 0, len(ops)-len(folded))
	for idx, op := range ops {
		if !folded[idx] {
			out = append(out, op)
		}
	}
	return out
}
