package jsondelta

import (
	"strings"
	"testing"

	"github.com/fatih/color"
)

var (
	_ Formatter = NativeFormatter{}
	_ Formatter = JSONPatchFormatter{}
	_ Formatter = PrettyFormatter{}
)

func TestFormatPretty_Listing(t *testing.T) {
	l := mustParseJSON(t, `{"a":1,"list":[1,2,3],"gone":true}`)
	r := mustParseJSON(t, `{"a":2,"list":[3,1,2],"new":"x"}`)

	data, err := FormatPretty(Diff(l, r))
	if err != nil {
		t.Fatalf("FormatPretty failed: %v", err)
	}
	want := "~ /a: 1 => 2\n" +
		"- /gone: true\n" +
		"> /list/2 => /list/0\n" +
		"+ /new: \"x\"\n"
	if string(data) != want {
		t.Errorf("Listing mismatch:\nwant:\n%sgot:\n%s", want, data)
	}
}

func TestFormatPretty_RootScalar(t *testing.T) {
	data, err := FormatPretty(Diff(float64(1), float64(2)))
	if err != nil {
		t.Fatalf("FormatPretty failed: %v", err)
	}
	if want := "~ /: 1 => 2\n"; string(data) != want {
		t.Errorf("Expected %q, got %q", want, data)
	}
}

func TestFormatPretty_NilDelta(t *testing.T) {
	data, err := FormatPretty(nil)
	if err != nil {
		t.Fatalf("FormatPretty failed: %v", err)
	}
	if data != nil {
		t.Errorf("Expected nil output for a nil delta, got %q", data)
	}
}

func TestFormatPretty_TextChange(t *testing.T) {
	data, err := FormatPretty(diffVerses())
	if err != nil {
		t.Fatalf("FormatPretty failed: %v", err)
	}
	out := string(data)
	if !strings.HasPrefix(out, "@ /: text change, ") {
		t.Errorf("Expected a text change line, got %q", out)
	}
}

func TestFormatPretty_MoveWithInnerDelta(t *testing.T) {
	l := mustParseJSON(t, `[{"id":"a","v":1},{"id":"b","v":2}]`)
	r := mustParseJSON(t, `[{"id":"b","v":3},{"id":"a","v":1}]`)

	data, err := FormatPretty(Diff(l, r, WithKeyFinder(KeyByProperty("id"))))
	if err != nil {
		t.Fatalf("FormatPretty failed: %v", err)
	}
	want := "> /1 => /0\n~ /0/v: 2 => 3\n"
	if string(data) != want {
		t.Errorf("Expected %q, got %q", want, data)
	}
}

func TestFormatPretty_Color(t *testing.T) {
	noColor := color.NoColor
	color.NoColor = false
	defer func() { color.NoColor = noColor }()

	l := mustParseJSON(t, `{}`)
	r := mustParseJSON(t, `{"a":1}`)
	data, err := PrettyFormatter{Color: true}.Format(Diff(l, r))
	if err != nil {
		t.Fatalf("Format failed: %v", err)
	}
	if !strings.Contains(string(data), "\x1b[") {
		t.Errorf("Expected ANSI sequences in colored output, got %q", data)
	}

	plain, err := PrettyFormatter{}.Format(Diff(l, r))
	if err != nil {
		t.Fatalf("Format failed: %v", err)
	}
	if strings.Contains(string(plain), "\x1b[") {
		t.Errorf("Expected no ANSI sequences in plain output, got %q", plain)
	}
}
