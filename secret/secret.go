// Package secret provides value types that keep sensitive command-line
// fragments out of logs, diagnostics, and default string conversions.
//
// A secret.String reveals its real value only through the explicit
// PrivateValue call site; every other conversion path (fmt verbs, JSON
// marshaling, PublicValue) yields the fixed redaction marker.
package secret

// Marker is the fixed placeholder emitted by every public
// representation of a secret value.
const Marker = "<hidden>"

// Fragment is a single command-line fragment. Plain fragments expose
// the same value on both accessors; secret fragments redact the public
// one.
type Fragment interface {
	// PrivateValue returns the real value. Call sites using this are
	// deliberate and should never feed display or logging paths.
	PrivateValue() string

	// PublicValue returns the display-safe representation.
	PublicValue() string
}

// String holds a secret string. Immutable once constructed.
type String struct {
	value string
}

// New wraps a sensitive value in a String.
func New(value string) String {
	return String{value: value}
}

// PrivateValue returns the exact stored value.
func (s String) PrivateValue() string {
	return s.value
}

// PublicValue returns the redaction marker, never the stored value.
func (s String) PublicValue() string {
	return Marker
}

// String implements fmt.Stringer so %v and %s print the marker.
func (s String) String() string {
	return Marker
}

// GoString keeps %#v from leaking the stored value.
func (s String) GoString() string {
	return "secret.String(" + Marker + ")"
}

// MarshalJSON emits the marker so encoded structures stay safe.
func (s String) MarshalJSON() ([]byte, error) {
	return []byte(`"` + Marker + `"`), nil
}

// Plain is a non-sensitive fragment; public and private values match.
type Plain string

// PrivateValue returns the fragment text.
func (p Plain) PrivateValue() string {
	return string(p)
}

// PublicValue returns the fragment text unchanged.
func (p Plain) PublicValue() string {
	return string(p)
}
