package jsondelta

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	json "github.com/goccy/go-json"
)

// PrettyFormatter renders a Delta as a change listing for humans, one
// line per change:
//
//	+ /path: value          added
//	- /path: value          removed
//	~ /path: old => new     replaced
//	> /from => /to          moved
//	@ /path: text change    text-patched
//
// With Color enabled the change markers carry ANSI colors. The output
// is for eyes, not machines; use NativeFormatter or
// JSONPatchFormatter for anything that needs parsing back.
type PrettyFormatter struct {
	Color bool
}

type consoleTheme struct {
	add, del, mod, mov, txt func(a ...any) string
}

func newConsoleTheme(enabled bool) consoleTheme {
	if !enabled {
		return consoleTheme{
			add: fmt.Sprint,
			del: fmt.Sprint,
			mod: fmt.Sprint,
			mov: fmt.Sprint,
			txt: fmt.Sprint,
		}
	}
	return consoleTheme{
		add: color.New(color.FgGreen).SprintFunc(),
		del: color.New(color.FgRed).SprintFunc(),
		mod: color.New(color.FgYellow).SprintFunc(),
		mov: color.New(color.FgCyan).SprintFunc(),
		txt: color.New(color.FgMagenta).SprintFunc(),
	}
}

// Format renders d. A nil delta yields nil output.
func (f PrettyFormatter) Format(d Delta) ([]byte, error) {
	if d == nil {
		return nil, nil
	}
	th := newConsoleTheme(f.Color)
	var b strings.Builder
	var p pathBuf
	renderDelta(&b, th, &p, d)
	return []byte(b.String()), nil
}

// FormatPretty renders d as an uncolored change listing. It is
// shorthand for PrettyFormatter{}.Format(d).
func FormatPretty(d Delta) ([]byte, error) {
	return PrettyFormatter{}.Format(d)
}

func renderDelta(b *strings.Builder, th consoleTheme, p *pathBuf, d Delta) {
	switch dd := d.(type) {
	case Added:
		fmt.Fprintf(b, "%s %s: %s\n", th.add("+"), displayPath(p), renderValue(dd.Value))
	case Removed:
		fmt.Fprintf(b, "%s %s: %s\n", th.del("-"), displayPath(p), renderValue(dd.Old))
	case Modified:
		fmt.Fprintf(b, "%s %s: %s => %s\n", th.mod("~"), displayPath(p), renderValue(dd.Old), renderValue(dd.New))
	case TextDiff:
		fmt.Fprintf(b, "%s %s: text change, %d hunks\n", th.txt("@"), displayPath(p), countHunks(dd.Patch))
	case ObjectDelta:
		for _, k := range sortedDeltaKeys(dd.Props) {
			p.pushKey(k)
			renderDelta(b, th, p, dd.Props[k])
			p.pop()
		}
	case ArrayDelta:
		for _, op := range dd.Ops {
			switch op.Kind {
			case OpInsert:
				fmt.Fprintf(b, "%s %s: %s\n", th.add("+"), indexPath(p, op.Index), renderValue(op.Value))
			case OpDelete:
				fmt.Fprintf(b, "%s %s: %s\n", th.del("-"), indexPath(p, op.Index), renderValue(op.Value))
			case OpMove:
				fmt.Fprintf(b, "%s %s => %s\n", th.mov(">"), indexPath(p, op.Index), indexPath(p, op.NewIndex))
				if op.Delta != nil {
					p.pushIndex(op.NewIndex)
					renderDelta(b, th, p, op.Delta)
					p.pop()
				}
			case OpModify:
				p.pushIndex(op.NewIndex)
				renderDelta(b, th, p, op.Delta)
				p.pop()
			}
		}
	}
}

func displayPath(p *pathBuf) string {
	if s := p.String(); s != "" {
		return s
	}
	return "/"
}

func renderValue(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(data)
}

func countHunks(patch string) int {
	n := 0
	for _, line := range strings.Split(patch, "\n") {
		if strings.HasPrefix(line, "@@") {
			n++
		}
	}
	return n
}
