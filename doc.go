// Package jsondelta computes structural differences between JSON
// documents and applies them back.
//
// Documents are the generic trees produced by decoding JSON into any:
// map[string]any, []any, string, float64, bool and nil. Diff compares
// two such trees and returns a Delta describing the change, or nil when
// the documents are equal:
//
//	delta := jsondelta.Diff(left, right)
//	if delta == nil {
//		// documents are identical
//	}
//
// A Delta can be rendered as a compact nested delta document
// (FormatNative, the jsondiffpatch wire format), as an RFC 6902 JSON
// Patch (FormatJSONPatch), or as human-readable change lines
// (PrettyFormatter). ParseDelta decodes a native delta document back
// into a Delta. Patch replays a Delta onto a document:
//
//	patched, err := jsondelta.Patch(jsondelta.MustClone(left), delta)
//
// Array elements are matched positionally by default. For arrays of
// objects, WithKeyFinder supplies an identity key so repositioned
// elements diff as moves instead of delete/insert pairs.
//
// Deltas share structure with the input documents and hold no other
// state. Diff, Patch and the formatters keep all per-call bookkeeping
// on the stack, so one configuration or formatter value may be used
// from any number of goroutines at once.
package jsondelta
