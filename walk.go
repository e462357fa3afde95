package jsondelta

// WalkFunc visits one delta node. path is the RFC 6901 pointer of the
// value the node applies to; for the root node it is "". Returning
// false stops the walk.
type WalkFunc func(path string, d Delta) bool

// Walk visits every node of d top-down in deterministic order: a
// container first, then its children, object children by key and array
// children left to right at their right-side indices. A nil delta is
// not visited.
func Walk(d Delta, fn WalkFunc) {
	if d == nil {
		return
	}
	var p pathBuf
	d.walk(&p, fn)
}

func (d Modified) walk(p *pathBuf, fn WalkFunc) bool {
	return fn(p.String(), d)
}

func (d Added) walk(p *pathBuf, fn WalkFunc) bool {
	return fn(p.String(), d)
}

func (d Removed) walk(p *pathBuf, fn WalkFunc) bool {
	return fn(p.String(), d)
}

func (d TextDiff) walk(p *pathBuf, fn WalkFunc) bool {
	return fn(p.String(), d)
}

func (d ObjectDelta) walk(p *pathBuf, fn WalkFunc) bool {
	if !fn(p.String(), d) {
		return false
	}
	for _, k := range sortedDeltaKeys(d.Props) {
		p.pushKey(k)
		ok := d.Props[k].walk(p, fn)
		p.pop()
		if !ok {
			return false
		}
	}
	return true
}

func (d ArrayDelta) walk(p *pathBuf, fn WalkFunc) bool {
	if !fn(p.String(), d) {
		return false
	}
	for _, op := range d.Ops {
		if op.Delta == nil {
			continue
		}
		p.pushIndex(op.NewIndex)
		ok := op.Delta.walk(p, fn)
		p.pop()
		if !ok {
			return false
		}
	}
	return true
}
