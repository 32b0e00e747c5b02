// Package backend renders a lowered sigma.SiemRule into one of the
// nineteen supported target query languages. Every emitter shares the
// same two-phase structure: Phase A renders each sub-rule's predicates
// into one parenthesised boolean expression, and Phase B composes those
// expressions per the rule's linearised condition. A LeafSyntax supplies the
// vendor-specific syntax table; render.go owns the phases themselves so
// the difference lives in exactly one place instead of being
// re-implemented per backend.
package backend

import (
	"fmt"
	"sort"
	"strings"

	"sigmac/pkg/sigma"
)

// Options carries the user-facing knobs every backend may consult: an
// optional field-name override map, and the ElastAlert-only
// post-processing directives.
type Options struct {
	FieldMap       map[string]string
	AddAlerting    []string
	AddFields      map[string]string
	ReplaceFields  map[string]string
	KeepFields     []string
	StrictCondition bool
}

// Backend renders one SiemRule into a target-specific query/document.
type Backend interface {
	Name() string
	ConvertRule(rule *sigma.SiemRule, opts Options) (string, *sigma.Error)
}

var registry = map[string]Backend{}

func register(b Backend) {
	registry[strings.ToLower(b.Name())] = b
}

// registerAlias makes an already-registered backend reachable under an
// additional name, for targets with more than one common spelling.
func registerAlias(alias string, b Backend) {
	registry[strings.ToLower(alias)] = b
}

// Lookup resolves a target name case-insensitively; aliases such as
// "humio"/"humioalert" both select the Humio backend.
func Lookup(target string) (Backend, *sigma.Error) {
	b, ok := registry[strings.ToLower(strings.TrimSpace(target))]
	if !ok {
		return nil, sigma.NewError(sigma.ErrInvalidDestination, "unknown destination %q", target)
	}
	return b, nil
}

// Targets returns every distinct backend name, sorted, for CLI/HTTP
// discovery endpoints. Aliases (e.g. "humioalert") resolve to the same
// Backend.Name() and are not listed twice.
func Targets() []string {
	seen := make(map[string]struct{}, len(registry))
	names := make([]string, 0, len(registry))
	for _, b := range registry {
		if _, ok := seen[b.Name()]; ok {
			continue
		}
		seen[b.Name()] = struct{}{}
		names = append(names, b.Name())
	}
	sort.Strings(names)
	return names
}

// FieldResolver implements a two-tier field-name lookup: a user-supplied
// override map takes precedence over the backend's own built-in table,
// which itself falls back to a default naming scheme.
type FieldResolver struct {
	Override map[string]string
	Builtin  map[string]string
	Fallback func(field string) string
}

func (r FieldResolver) Resolve(field string) string {
	if r.Override != nil {
		if v, ok := r.Override[field]; ok {
			return v
		}
	}
	if r.Builtin != nil {
		if v, ok := r.Builtin[field]; ok {
			return v
		}
	}
	if r.Fallback != nil {
		return r.Fallback(field)
	}
	return field
}

func escapeBackslash(s string) string {
	return strings.ReplaceAll(s, `\`, `\\`)
}

func slugTitle(title string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(title)), " ", "_")
}

func joinNonEmpty(parts []string, sep string) string {
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, sep)
}

func fmtErr(backend string, err error) *sigma.Error {
	return sigma.WrapError(sigma.ErrInvalidPredicate, fmt.Sprintf("%s: could not render rule", backend), err)
}
