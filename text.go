package jsondelta

import (
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// newTextDiffer builds a diff-match-patch instance per call. The
// timeout is disabled so the same inputs always produce the same
// delta.
func newTextDiffer() *diffmatchpatch.DiffMatchPatch {
	dmp := diffmatchpatch.New()
	dmp.DiffTimeout = 0
	return dmp
}

func makeTextPatch(old, new string) string {
	dmp := newTextDiffer()
	return dmp.PatchToText(dmp.PatchMake(old, new))
}

// applyTextPatch applies a text delta to doc. The bool reports whether
// every hunk applied cleanly.
func applyTextPatch(patch, doc string) (string, bool, error) {
	dmp := newTextDiffer()
	patches, err := dmp.PatchFromText(patch)
	if err != nil {
		return "", false, err
	}
	result, applied := dmp.PatchApply(patches, doc)
	for _, ok := range applied {
		if !ok {
			return result, false, nil
		}
	}
	return result, true, nil
}

// reverseTextPatch inverts a text delta by swapping the two sides of
// every hunk: header coordinates trade places and added lines become
// removed ones. The patch text format is line-oriented, so this is a
// plain textual transform.
func reverseTextPatch(patch string) string {
	lines := strings.Split(patch, "\n")
	for i, line := range lines {
		if line == "" {
			continue
		}
		switch line[0] {
		case '@':
			// "@@ -old +new @@"
			parts := strings.Split(line, " ")
			if len(parts) == 4 && strings.HasPrefix(parts[1], "-") && strings.HasPrefix(parts[2], "+") {
				parts[1], parts[2] = "-"+parts[2][1:], "+"+parts[1][1:]
				lines[i] = strings.Join(parts, " ")
			}
		case '+':
			lines[i] = "-" + line[1:]
		case '-':
			lines[i] = "+" + line[1:]
		}
	}
	return strings.Join(lines, "\n")
}
