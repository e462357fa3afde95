package jsondelta

import "fmt"

// DefaultTextDiffMinLength is the conventional threshold below which
// string changes are kept as whole-value replacements instead of text
// deltas.
const DefaultTextDiffMinLength = 60

// KeyFinder returns a stable identity key for an array element, or
// ok=false to match the element positionally. Diff consults it only
// for object elements. It must be deterministic and side-effect free;
// a finder that answers differently for the same element across calls
// may yield a non-minimal (though still correct) edit script.
type KeyFinder func(elem any, index int) (key string, ok bool)

// KeyByProperty returns a KeyFinder that identifies object elements by
// the scalar value of the named property. Elements without the
// property, or with a non-scalar value under it, match positionally.
func KeyByProperty(name string) KeyFinder {
	return func(elem any, _ int) (string, bool) {
		obj, ok := elem.(map[string]any)
		if !ok {
			return "", false
		}
		v, ok := obj[name]
		if !ok {
			return "", false
		}
		switch kindOf(v) {
		case KindString:
			return v.(string), true
		case KindNumber, KindBool:
			return fmt.Sprintf("%v", v), true
		}
		return "", false
	}
}

// Option configures Diff.
type Option interface {
	applyDiff(*config)
}

type optionFunc func(*config)

func (f optionFunc) applyDiff(c *config) {
	f(c)
}

type config struct {
	keyFinder       KeyFinder
	detectMoves     bool
	textDiffMinimum int
	epsilon         float64
}

func newConfig(opts ...Option) *config {
	c := &config{
		detectMoves: true,
	}
	for _, opt := range opts {
		opt.applyDiff(c)
	}
	return c
}

// WithKeyFinder returns an option that tells Diff to match array
// elements by the identity keys f yields instead of by position.
func WithKeyFinder(f KeyFinder) Option {
	return optionFunc(func(c *config) {
		c.keyFinder = f
	})
}

// WithMoveDetection returns an option that controls whether an array
// element that disappears from one position and reappears at another
// is reported as a single move. When disabled it is reported as a
// delete plus an insert. Enabled by default.
func WithMoveDetection(enabled bool) Option {
	return optionFunc(func(c *config) {
		c.detectMoves = enabled
	})
}

// WithTextDiff returns an option that makes Diff represent changes
// between two strings of at least minLength bytes as a compact text
// delta instead of a whole-value replacement. A minLength of zero or
// less disables text deltas, which is the default.
func WithTextDiff(minLength int) Option {
	return optionFunc(func(c *config) {
		c.textDiffMinimum = minLength
	})
}

// WithNumericEpsilon returns an option that makes numbers within eps
// of each other compare as equal during a diff. The default is exact
// comparison.
func WithNumericEpsilon(eps float64) Option {
	return optionFunc(func(c *config) {
		c.epsilon = eps
	})
}

// PatchOption configures Patch and Unpatch.
type PatchOption interface {
	applyPatch(*patchConfig)
}

type patchOptionFunc func(*patchConfig)

func (f patchOptionFunc) applyPatch(c *patchConfig) {
	f(c)
}

type patchConfig struct {
	strict bool
}

func newPatchConfig(opts ...PatchOption) *patchConfig {
	c := &patchConfig{
		strict: true,
	}
	for _, opt := range opts {
		opt.applyPatch(c)
	}
	return c
}

// Lenient returns an option that makes Patch apply a delta best-effort
// instead of failing with a MismatchError when the document does not
// look like the one the delta was computed from. Inapplicable
// operations are skipped.
func Lenient() PatchOption {
	return patchOptionFunc(func(c *patchConfig) {
		c.strict = false
	})
}
