package logging

import "time"

// Common field constructors
func String(key, value string) Field  { return Field{Key: key, Value: value} }
func Int(key string, value int) Field { return Field{Key: key, Value: value} }
func Bool(key string, value bool) Field {
	return Field{Key: key, Value: value}
}
func Duration(key string, value time.Duration) Field {
	return Field{Key: key, Value: value.String()}
}
func Any(key string, value any) Field { return Field{Key: key, Value: value} }

func Error(err error) Field {
	if err == nil {
		return Field{Key: "error", Value: nil}
	}
	return Field{Key: "error", Value: err.Error()}
}

// Component field helpers for this codebase's common keys
func Component(name string) Field { return String("component", name) }
func Transform(id string) Field   { return String("transform", id) }
func Provider(name string) Field  { return String("provider", name) }
func NodeID(id string) Field      { return String("node_id", id) }
func Latency(d time.Duration) Field {
	return Duration("latency", d)
}
func Count(n int) Field { return Int("count", n) }
