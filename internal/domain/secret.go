package domain

import "go.uber.org/zap/zapcore"

const redacted = "**********"

// Secret holds a credential and keeps it out of logs and printed output.
type Secret struct {
	value string
}

// NewSecret wraps value.
func NewSecret(value string) Secret {
	return Secret{value: value}
}

// Reveal returns the raw value.
func (s Secret) Reveal() string {
	return s.value
}

// IsEmpty reports whether the secret holds no value.
func (s Secret) IsEmpty() bool {
	return s.value == ""
}

func (s Secret) String() string   { return redacted }
func (s Secret) GoString() string { return redacted }

// MarshalText keeps encoders (yaml, json) from writing the raw value.
func (s Secret) MarshalText() ([]byte, error) {
	return []byte(redacted), nil
}

// MarshalLogObject implements zapcore.ObjectMarshaler.
func (s Secret) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddString("value", redacted)
	return nil
}
