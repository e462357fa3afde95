package jsondelta

import (
	"errors"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/google/go-cmp/cmp"
)

func quoteJSON(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}

func TestPatch_RoundTrips(t *testing.T) {
	longA := "The quick brown fox jumps over the lazy dog while the band plays on the veranda."
	longB := "The quick brown fox leaps over the lazy dog while the band plays on the veranda."

	tests := []struct {
		name  string
		left  string
		right string
		opts  []Option
	}{
		{name: "Scalar", left: `1`, right: `2`},
		{name: "NullToObject", left: `null`, right: `{"a":1}`},
		{name: "NestedObjects", left: `{"a":{"b":1},"c":true}`, right: `{"a":{"b":2},"d":null}`},
		{name: "ArrayInsertDelete", left: `[1,2,3]`, right: `[0,1,3]`},
		{name: "ArrayRotate", left: `[1,2,3]`, right: `[3,1,2]`},
		{
			name:  "LongText",
			left:  `{"s":` + quoteJSON(longA) + `}`,
			right: `{"s":` + quoteJSON(longB) + `}`,
			opts:  []Option{WithTextDiff(DefaultTextDiffMinLength)},
		},
		{
			name:  "KeyedObjects",
			left:  productsBefore,
			right: productsAfter,
			opts:  []Option{WithKeyFinder(KeyByProperty("id"))},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := mustParseJSON(t, tt.left)
			r := mustParseJSON(t, tt.right)
			d := Diff(l, r, tt.opts...)

			patched, err := Patch(MustClone(l), d)
			if err != nil {
				t.Fatalf("Patch failed: %v", err)
			}
			if diff := cmp.Diff(r, patched); diff != "" {
				t.Errorf("Patch result mismatch (-want +got):\n%s", diff)
			}

			back, err := Unpatch(MustClone(r), d)
			if err != nil {
				t.Fatalf("Unpatch failed: %v", err)
			}
			if diff := cmp.Diff(l, back); diff != "" {
				t.Errorf("Unpatch result mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestPatch_NilDelta(t *testing.T) {
	doc := mustParseJSON(t, `{"a":1}`)
	got, err := Patch(doc, nil)
	if err != nil {
		t.Fatalf("Patch failed: %v", err)
	}
	if diff := cmp.Diff(doc, got); diff != "" {
		t.Errorf("Document changed under a nil delta (-want +got):\n%s", diff)
	}
}

func TestPatch_MutatesObjectInPlace(t *testing.T) {
	doc := mustParseJSON(t, `{"a":1}`)
	d := ObjectDelta{Props: map[string]Delta{"a": Modified{Old: float64(1), New: float64(2)}}}

	if _, err := Patch(doc, d); err != nil {
		t.Fatalf("Patch failed: %v", err)
	}
	if got := doc.(map[string]any)["a"]; got != float64(2) {
		t.Errorf("Expected the input object to be updated in place, got a=%v", got)
	}
}

func TestPatch_StrictMismatch(t *testing.T) {
	tests := []struct {
		name     string
		doc      string
		delta    Delta
		wantPath string
	}{
		{
			name:     "ValueChanged",
			doc:      `{"a":1}`,
			delta:    ObjectDelta{Props: map[string]Delta{"a": Modified{Old: float64(2), New: float64(3)}}},
			wantPath: "/a",
		},
		{
			name:     "AddExistingKey",
			doc:      `{"a":1}`,
			delta:    ObjectDelta{Props: map[string]Delta{"a": Added{Value: float64(5)}}},
			wantPath: "/a",
		},
		{
			name:     "RemoveMissingKey",
			doc:      `{}`,
			delta:    ObjectDelta{Props: map[string]Delta{"a": Removed{Old: float64(1)}}},
			wantPath: "/a",
		},
		{
			name:     "RemoveChangedValue",
			doc:      `{"a":2}`,
			delta:    ObjectDelta{Props: map[string]Delta{"a": Removed{Old: float64(1)}}},
			wantPath: "/a",
		},
		{
			name:     "ModifyMissingKey",
			doc:      `{}`,
			delta:    ObjectDelta{Props: map[string]Delta{"a": Modified{Old: float64(1), New: float64(2)}}},
			wantPath: "/a",
		},
		{
			name:     "ArrayDeleteChangedValue",
			doc:      `[1,2]`,
			delta:    ArrayDelta{Ops: []ArrayOp{{Kind: OpDelete, Index: 1, Value: float64(9)}}},
			wantPath: "/1",
		},
		{
			name:     "ArrayIndexOutOfBounds",
			doc:      `[1]`,
			delta:    ArrayDelta{Ops: []ArrayOp{{Kind: OpDelete, Index: 5, Value: float64(1)}}},
			wantPath: "/5",
		},
		{
			name:     "ObjectDeltaOnArray",
			doc:      `[1]`,
			delta:    ObjectDelta{Props: map[string]Delta{"a": Added{Value: float64(1)}}},
			wantPath: "",
		},
		{
			name:     "ArrayDeltaOnObject",
			doc:      `{"a":1}`,
			delta:    ArrayDelta{Ops: []ArrayOp{{Kind: OpInsert, Index: 0, Value: float64(1)}}},
			wantPath: "",
		},
		{
			name:     "TextDeltaOnNumber",
			doc:      `5`,
			delta:    TextDiff{Patch: "@@ -1,3 +1,3 @@\n-abc\n+abd\n"},
			wantPath: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := mustParseJSON(t, tt.doc)
			_, err := Patch(doc, tt.delta)
			if err == nil {
				t.Fatal("Expected a mismatch error, got nil")
			}
			if !errors.Is(err, ErrMismatch) {
				t.Errorf("Expected errors.Is(err, ErrMismatch), got %v", err)
			}
			var me *MismatchError
			if !errors.As(err, &me) {
				t.Fatalf("Expected a *MismatchError, got %T", err)
			}
			if me.Path != tt.wantPath {
				t.Errorf("Expected mismatch at %q, got %q", tt.wantPath, me.Path)
			}
		})
	}
}

func TestPatch_Lenient(t *testing.T) {
	tests := []struct {
		name  string
		doc   string
		delta Delta
		want  string
	}{
		{
			name:  "ReplaceIgnoresOldValue",
			doc:   `{"a":1}`,
			delta: ObjectDelta{Props: map[string]Delta{"a": Modified{Old: float64(7), New: float64(3)}}},
			want:  `{"a":3}`,
		},
		{
			name:  "ReplaceOnMissingKeySetsNewValue",
			doc:   `{}`,
			delta: ObjectDelta{Props: map[string]Delta{"a": Modified{Old: float64(1), New: float64(2)}}},
			want:  `{"a":2}`,
		},
		{
			name: "NestedDeltaOnMissingKeySkipped",
			doc:  `{}`,
			delta: ObjectDelta{Props: map[string]Delta{
				"a": ObjectDelta{Props: map[string]Delta{"b": Modified{Old: float64(1), New: float64(2)}}},
			}},
			want: `{}`,
		},
		{
			name:  "RemoveMissingKeySkipped",
			doc:   `{"b":1}`,
			delta: ObjectDelta{Props: map[string]Delta{"a": Removed{Old: float64(1)}}},
			want:  `{"b":1}`,
		},
		{
			name:  "AddExistingKeyOverwrites",
			doc:   `{"a":1}`,
			delta: ObjectDelta{Props: map[string]Delta{"a": Added{Value: float64(5)}}},
			want:  `{"a":5}`,
		},
		{
			name:  "ArrayDeleteOutOfBoundsSkipped",
			doc:   `[1]`,
			delta: ArrayDelta{Ops: []ArrayOp{{Kind: OpDelete, Index: 5, Value: float64(1)}}},
			want:  `[1]`,
		},
		{
			name:  "ArrayInsertTargetClamped",
			doc:   `[1]`,
			delta: ArrayDelta{Ops: []ArrayOp{{Kind: OpInsert, Index: 9, Value: float64(9)}}},
			want:  `[1,9]`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := mustParseJSON(t, tt.doc)
			got, err := Patch(doc, tt.delta, Lenient())
			if err != nil {
				t.Fatalf("Patch failed: %v", err)
			}
			if diff := cmp.Diff(mustParseJSON(t, tt.want), got); diff != "" {
				t.Errorf("Lenient patch result mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestPatch_RootRemovedAndAdded(t *testing.T) {
	doc := mustParseJSON(t, `{"a":1}`)
	got, err := Patch(doc, Removed{Old: mustParseJSON(t, `{"a":1}`)})
	if err != nil {
		t.Fatalf("Patch failed: %v", err)
	}
	if got != nil {
		t.Errorf("Expected a removed root to patch to nil, got %v", got)
	}

	got, err = Patch(nil, Added{Value: float64(5)})
	if err != nil {
		t.Fatalf("Patch failed: %v", err)
	}
	if got != float64(5) {
		t.Errorf("Expected 5, got %v", got)
	}
}

func TestPatch_DoesNotAliasDelta(t *testing.T) {
	l := mustParseJSON(t, `{"list":[1,2]}`)
	r := mustParseJSON(t, `{"list":[1,2,{"x":1}]}`)
	d := Diff(l, r)
	before := mustFormatNative(t, d)

	first, err := Patch(MustClone(l), d)
	if err != nil {
		t.Fatalf("Patch failed: %v", err)
	}
	// Mutate the patched document where the inserted value landed.
	first.(map[string]any)["list"].([]any)[2].(map[string]any)["x"] = float64(99)

	if after := mustFormatNative(t, d); after != before {
		t.Errorf("Delta changed after mutating a patch result:\nbefore %s\nafter  %s", before, after)
	}

	second, err := Patch(MustClone(l), d)
	if err != nil {
		t.Fatalf("Patch failed: %v", err)
	}
	if diff := cmp.Diff(r, second); diff != "" {
		t.Errorf("Second patch result mismatch (-want +got):\n%s", diff)
	}
}
