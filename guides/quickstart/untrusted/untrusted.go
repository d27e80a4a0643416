// Package untrusted is a minimal copy of the wrapper convention the
// analyzer recognizes out of the box.
package untrusted

// Value marks a string as untrusted until explicitly sanitized.
type Value struct {
	value string
}

// Wrap marks a raw value as untrusted.
func Wrap(s string) Value {
	return Value{value: s}
}

// Expose returns the raw value. Callers take responsibility for it.
func (v Value) Expose() string {
	return v.value
}
