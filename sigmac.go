// Package sigmac converts Sigma detection rules into queries for nineteen
// SIEM/log-analytics backends. FromSigma is the single entry point; every
// other exported package (pkg/sigma, internal/sigmaparse, internal/backend)
// exists to support it.
package sigmac

import (
	"sigmac/internal/backend"
	"sigmac/internal/sigmaparse"
	"sigmac/pkg/sigma"
)

// Options mirrors internal/backend.Options: a field-name override map plus
// the ElastAlert-only post-processing directives, and the opt-in strict
// condition grammar.
type Options struct {
	FieldMap        map[string]string
	AddAlerting     []string
	AddFields       map[string]string
	ReplaceFields   map[string]string
	KeepFields      []string
	StrictCondition bool
	SkipSanitize    bool
}

func (o Options) toBackend() backend.Options {
	return backend.Options{
		FieldMap:        o.FieldMap,
		AddAlerting:     o.AddAlerting,
		AddFields:       o.AddFields,
		ReplaceFields:   o.ReplaceFields,
		KeepFields:      o.KeepFields,
		StrictCondition: o.StrictCondition,
	}
}

// FromSigma parses yamlText, lowers it into the intermediate
// representation, and renders it for target (case-insensitive, matched
// against the closed vocabulary of Targets()). An unknown target returns
// ErrInvalidDestination.
func FromSigma(yamlText []byte, target string, opts Options) (string, *sigma.Error) {
	b, err := backend.Lookup(target)
	if err != nil {
		return "", err
	}
	rule, err := sigmaparse.Parse(yamlText, opts.SkipSanitize)
	if err != nil {
		return "", err
	}
	return b.ConvertRule(rule, opts.toBackend())
}

// Targets returns every supported destination name, sorted.
func Targets() []string { return backend.Targets() }
