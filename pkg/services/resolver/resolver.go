// Package resolver maps study variable names onto the columns a wave export
// actually has. Wave schemas differ between exports, so nothing outside this
// package assumes a column exists.
package resolver

import (
	"sort"
	"strings"
)

// Variable names a study variable and the columns that may carry it, tried
// in declaration order. Column matching is exact and case-sensitive.
type Variable struct {
	Name    string
	Columns []string
}

// Rule pools columns by substring match. A column matches when it contains
// every RequireAll token and, if AnyOf is non-empty, at least one AnyOf
// token. Matching is case-insensitive.
type Rule struct {
	Name       string
	RequireAll []string
	AnyOf      []string
}

// Resolution is the outcome of resolving one variable against a wave schema.
// Found false means no column carries the variable; its metric must be
// reported as unavailable, never as zero.
type Resolution struct {
	Fields []string
	Found  bool
}

// Resolve returns the first declared column present in the schema.
func Resolve(columns []string, v Variable) Resolution {
	for _, want := range v.Columns {
		for _, col := range columns {
			if col == want {
				return Resolution{Fields: []string{col}, Found: true}
			}
		}
	}
	return Resolution{}
}

// ResolveRules applies every rule in table order against the schema. Matched
// fields come back sorted, and a field claimed by an earlier rule is never
// pooled again by a later one, so rule outputs never overlap.
func ResolveRules(columns []string, rules []Rule) map[string]Resolution {
	claimed := make(map[string]bool)
	out := make(map[string]Resolution, len(rules))
	for _, rule := range rules {
		var fields []string
		for _, col := range columns {
			if claimed[col] || !rule.matches(col) {
				continue
			}
			claimed[col] = true
			fields = append(fields, col)
		}
		sort.Strings(fields)
		out[rule.Name] = Resolution{Fields: fields, Found: len(fields) > 0}
	}
	return out
}

func (r Rule) matches(column string) bool {
	lc := strings.ToLower(column)
	for _, tok := range r.RequireAll {
		if !strings.Contains(lc, tok) {
			return false
		}
	}
	if len(r.AnyOf) == 0 {
		return true
	}
	for _, tok := range r.AnyOf {
		if strings.Contains(lc, tok) {
			return true
		}
	}
	return false
}

// ClassifyColumns buckets schema columns for scan diagnostics: opioid-use
// variables and MOUD treatment variables, in schema order.
func ClassifyColumns(columns []string) (opioid []string, treatment []string) {
	for _, col := range columns {
		lc := strings.ToLower(col)
		if strings.Contains(lc, "opuse") || strings.Contains(lc, "opioid") {
			opioid = append(opioid, col)
		}
		if strings.Contains(lc, "bup") || strings.Contains(lc, "mmt") ||
			strings.Contains(lc, "ntx") || strings.Contains(lc, "methadone") ||
			strings.Contains(lc, "naltrexone") {
			treatment = append(treatment, col)
		}
	}
	return opioid, treatment
}
