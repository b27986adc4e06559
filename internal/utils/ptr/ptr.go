// Package ptr builds pointers for the optional fields of a story.
package ptr

// String returns a pointer to s.
func String(s string) *string {
	return &s
}

// Float64 returns a pointer to f.
func Float64(f float64) *float64 {
	return &f
}
