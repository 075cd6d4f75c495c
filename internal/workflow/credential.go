package workflow

import "log/slog"

const redacted = "[REDACTED]"

// Credential is the completion-service key supplied at intake. It formats and
// logs as a redaction marker; only Reveal returns the secret.
type Credential string

// Reveal returns the raw secret for the outbound completion request.
func (c Credential) Reveal() string {
	return string(c)
}

// IsSet reports whether a credential is held.
func (c Credential) IsSet() bool {
	return c != ""
}

func (c Credential) String() string {
	if c == "" {
		return ""
	}
	return redacted
}

// GoString keeps %#v from printing the secret.
func (c Credential) GoString() string {
	return c.String()
}

// LogValue implements slog.LogValuer.
func (c Credential) LogValue() slog.Value {
	return slog.StringValue(c.String())
}

// MarshalText implements encoding.TextMarshaler.
func (c Credential) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}
