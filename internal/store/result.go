package store

import "fmt"

// Result tracks counts and errors from a storage run.
type Result struct {
	RowsUpserted int
	Errors       []string
}

// Add merges another Result into this one.
func (r *Result) Add(other Result) {
	r.RowsUpserted += other.RowsUpserted
	r.Errors = append(r.Errors, other.Errors...)
}

// AddError records an error message.
func (r *Result) AddError(msg string) {
	r.Errors = append(r.Errors, msg)
}

// AddErrorf records a formatted error message.
func (r *Result) AddErrorf(format string, args ...interface{}) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

// Summary returns a human-readable summary of the storage run.
func (r *Result) Summary() string {
	return fmt.Sprintf("rows=%d errors=%d", r.RowsUpserted, len(r.Errors))
}
