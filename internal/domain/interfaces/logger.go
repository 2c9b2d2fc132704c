// Package interfaces defines core domain contracts.
//
//nolint:revive // Package name 'interfaces' is intentional for domain layer
package interfaces

// Logger is the structured logger used by the pipeline stages
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)

	// With returns a logger that adds fields to every entry
	With(fields ...Field) Logger
}

// Field is a structured log field
type Field struct {
	Key   string
	Value any
}

// F creates a new Field
func F(key string, value any) Field {
	return Field{Key: key, Value: value}
}

// NoOpLogger discards everything; used in tests
type NoOpLogger struct{}

// Debug discards the entry
func (n *NoOpLogger) Debug(_ string, _ ...Field) {}

// Info discards the entry
func (n *NoOpLogger) Info(_ string, _ ...Field) {}

// Warn discards the entry
func (n *NoOpLogger) Warn(_ string, _ ...Field) {}

// Error discards the entry
func (n *NoOpLogger) Error(_ string, _ ...Field) {}

// With returns the same no-op logger
func (n *NoOpLogger) With(_ ...Field) Logger { return n }
