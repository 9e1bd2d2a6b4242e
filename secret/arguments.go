package secret

import "strings"

// Arguments is an ordered sequence of command-line fragments, each
// either a Plain string or a secret String.
type Arguments []Fragment

// NewArguments builds an argument sequence from the given fragments,
// preserving order.
func NewArguments(fragments ...Fragment) Arguments {
	return Arguments(fragments)
}

// Private joins every fragment's real value with single spaces. An
// empty sequence reports ok=false: no arguments were supplied, which
// is distinct from an empty argument string.
func (a Arguments) Private() (string, bool) {
	return a.join(Fragment.PrivateValue)
}

// Public joins the display-safe values: secret fragments contribute
// the redaction marker, plain fragments are unaffected.
func (a Arguments) Public() (string, bool) {
	return a.join(Fragment.PublicValue)
}

// ContainsSecret reports whether any fragment is redacted, i.e.
// whether Private and Public would differ.
func (a Arguments) ContainsSecret() bool {
	for _, f := range a {
		if f.PrivateValue() != f.PublicValue() {
			return true
		}
	}
	return false
}

func (a Arguments) join(value func(Fragment) string) (string, bool) {
	if len(a) == 0 {
		return "", false
	}

	var b strings.Builder
	for i, f := range a {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(value(f))
	}
	return b.String(), true
}
