package jsondelta

import (
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestWalk_Object(t *testing.T) {
	l := mustParseJSON(t, `{"a":1,"b":{"c":2}}`)
	r := mustParseJSON(t, `{"a":2,"b":{"c":3}}`)

	var paths []string
	Walk(Diff(l, r), func(path string, d Delta) bool {
		paths = append(paths, path)
		return true
	})

	want := []string{"", "/a", "/b", "/b/c"}
	if diff := cmp.Diff(want, paths); diff != "" {
		t.Errorf("Visit order mismatch (-want +got):\n%s", diff)
	}
}

func TestWalk_VisitsNestedArrayDeltas(t *testing.T) {
	l := mustParseJSON(t, productsBefore)
	r := mustParseJSON(t, productsAfter)

	kinds := make(map[string]string)
	Walk(Diff(l, r, WithKeyFinder(KeyByProperty("id"))), func(path string, d Delta) bool {
		kinds[path] = fmt.Sprintf("%T", d)
		return true
	})

	want := map[string]string{
		"":         "jsondelta.ArrayDelta",
		"/2":       "jsondelta.ObjectDelta",
		"/2/label": "jsondelta.Modified",
		"/3":       "jsondelta.ObjectDelta",
		"/3/label": "jsondelta.Modified",
	}
	if diff := cmp.Diff(want, kinds); diff != "" {
		t.Errorf("Visited deltas mismatch (-want +got):\n%s", diff)
	}
}

func TestWalk_MoveInnerDelta(t *testing.T) {
	l := mustParseJSON(t, `[{"id":"a","v":1},{"id":"b","v":2}]`)
	r := mustParseJSON(t, `[{"id":"b","v":3},{"id":"a","v":1}]`)

	var paths []string
	Walk(Diff(l, r, WithKeyFinder(KeyByProperty("id"))), func(path string, d Delta) bool {
		paths = append(paths, path)
		return true
	})

	want := []string{"", "/0", "/0/v"}
	if diff := cmp.Diff(want, paths); diff != "" {
		t.Errorf("Visit order mismatch (-want +got):\n%s", diff)
	}
}

func TestWalk_EarlyStop(t *testing.T) {
	l := mustParseJSON(t, `{"a":1,"b":2}`)
	r := mustParseJSON(t, `{"a":10,"b":20}`)

	count := 0
	Walk(Diff(l, r), func(path string, d Delta) bool {
		count++
		return false
	})

	if count != 1 {
		t.Errorf("Expected the walk to stop after 1 visit, got %d", count)
	}
}

func TestWalk_NilDelta(t *testing.T) {
	called := false
	Walk(nil, func(path string, d Delta) bool {
		called = true
		return true
	})
	if called {
		t.Error("Expected no visits for a nil delta")
	}
}
