// Package options parses the CLI/HTTP-facing text formats into the
// structures internal/backend consumes: field-map files and the
// comma-separated add/replace/keep directives.
package options

import "strings"

// ParseFieldMap inverts the field-map file format `destination : source1,
// source2, ...` (one per line) into `source -> destination` entries, the
// single lookup direction the hot path needs.
func ParseFieldMap(text string) map[string]string {
	result := map[string]string{}
	for _, line := range strings.Split(strings.TrimSpace(text), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		idx := strings.Index(line, ":")
		if idx < 0 {
			continue
		}
		dest := strings.TrimSpace(line[:idx])
		sources := strings.Split(line[idx+1:], ",")
		for _, src := range sources {
			src = strings.TrimSpace(src)
			if src != "" {
				result[src] = dest
			}
		}
	}
	return result
}

// ParseKeyValuePairs parses the add-fields/replace-fields comma-separated
// `key:value` syntax. Malformed entries (missing the colon) are skipped;
// callers report the returned warnings through their own logger rather
// than failing the whole request.
func ParseKeyValuePairs(text string) (map[string]string, []string) {
	result := map[string]string{}
	var warnings []string
	if strings.TrimSpace(text) == "" {
		return result, warnings
	}
	for _, pair := range strings.Split(text, ",") {
		parts := strings.SplitN(pair, ":", 2)
		if len(parts) != 2 {
			warnings = append(warnings, "malformed key:value pair: "+pair)
			continue
		}
		result[strings.TrimSpace(parts[0])] = strings.TrimSpace(parts[1])
	}
	return result, warnings
}

// ParseCommaList splits a comma-separated list (add-alerting/keep-fields),
// trimming whitespace and dropping empty entries.
func ParseCommaList(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	var out []string
	for _, s := range strings.Split(text, ",") {
		s = strings.TrimSpace(s)
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}
