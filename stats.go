package jsondelta

// Stats counts the changes a delta carries. Containers do not count
// themselves; they contribute the leaf changes inside them. Retains
// count the array elements a delta leaves in place.
type Stats struct {
	Adds      int
	Removes   int
	Edits     int
	TextEdits int
	Moves     int
	Retains   int
}

// Total is the number of changes, retains excluded.
func (s Stats) Total() int {
	return s.Adds + s.Removes + s.Edits + s.TextEdits + s.Moves
}

// Stat tallies d. A nil delta yields zero Stats.
func Stat(d Delta) Stats {
	var s Stats
	if d != nil {
		d.tally(&s)
	}
	return s
}

func (d Modified) tally(s *Stats) {
	s.Edits++
}

func (d Added) tally(s *Stats) {
	s.Adds++
}

func (d Removed) tally(s *Stats) {
	s.Removes++
}

func (d TextDiff) tally(s *Stats) {
	s.TextEdits++
}

func (d ObjectDelta) tally(s *Stats) {
	for _, child := range d.Props {
		child.tally(s)
	}
}

func (d ArrayDelta) tally(s *Stats) {
	for _, op := range d.Ops {
		switch op.Kind {
		case OpRetain:
			s.Retains++
		case OpInsert:
			s.Adds++
		case OpDelete:
			s.Removes++
		case OpMove:
			s.Moves++
			if op.Delta != nil {
				op.Delta.tally(s)
			}
		case OpModify:
			op.Delta.tally(s)
		}
	}
}
