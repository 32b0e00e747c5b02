// Package lint runs bradleyjkemp/sigma-go's own parser over a rule as an
// independent structural sanity check, separate from this module's
// from-scratch IR/backend pipeline: a second opinion on "is this
// well-formed Sigma", not a replacement for sigmaparse.Parse.
package lint

import (
	"fmt"

	sigmago "github.com/bradleyjkemp/sigma-go"
)

// Result reports whether a rule parses under sigma-go's grammar, plus the
// reason when it doesn't.
type Result struct {
	Path  string
	Valid bool
	Error string
}

// Lint parses raw Sigma YAML with sigma-go and reports structural validity.
// It never returns a Go error itself — a parse failure is reported inside
// Result so a batch lint run can continue past one bad file.
func Lint(path string, raw []byte) Result {
	if _, err := sigmago.ParseRule(raw); err != nil {
		return Result{Path: path, Valid: false, Error: err.Error()}
	}
	return Result{Path: path, Valid: true}
}

// LintAll runs Lint over every (path, contents) pair, preserving order.
func LintAll(files map[string][]byte, order []string) []Result {
	results := make([]Result, 0, len(order))
	for _, path := range order {
		results = append(results, Lint(path, files[path]))
	}
	return results
}

// Summary renders one CLI-friendly line counting the valid and invalid
// results.
func Summary(results []Result) string {
	ok, bad := 0, 0
	for _, r := range results {
		if r.Valid {
			ok++
		} else {
			bad++
		}
	}
	return fmt.Sprintf("%d valid, %d invalid", ok, bad)
}
