// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package filters

import (
	"os"
	"strings"

	"github.com/apex/log"
)

// Filter is a single parsed --where expression.
type Filter struct {
	Key   string `yaml:"key" json:"Key"`
	Value string `yaml:"value" json:"Value"`
}

// Predicate decides whether a split row is kept.
type Predicate interface {
	Match(fields []string) (bool, error)
}

// ColumnPredicate matches fields at resolved positions. Indices and Queries
// are consumed in lock-step; callers keep them the same length.
type ColumnPredicate struct {
	Indices []int
	Queries []string
}

// AnyPredicate matches query values at any position.
type AnyPredicate struct {
	Queries []string
}

// BuildFilters parses a filter specification string into a slice of Filter.
// Entries without an "=" or with an empty key are skipped.
func BuildFilters(spec string) []Filter {
	//nolint:prealloc
	var filters []Filter

	// If there are no filters specified, go home early.
	if spec == "" {
		return filters
	}

	delim := ","
	if d, ok := os.LookupEnv("CSVFILTER_FILTER_DELIM"); ok && d != "" {
		delim = d
	}

	for _, filterSpec := range strings.Split(spec, delim) {
		filterSpec = strings.TrimSpace(filterSpec)
		if filterSpec == "" {
			continue
		}

		key, value, found := strings.Cut(filterSpec, "=")
		if !found {
			log.Error("invalid filter: missing '=' in " + filterSpec)
			continue
		}

		key = strings.TrimSpace(key)
		if key == "" {
			log.Error("invalid filter: empty key in " + filterSpec)
			continue
		}

		filters = append(filters, Filter{Key: key, Value: value})
	}

	return filters
}

// Pairs unzips filters into parallel column and query slices.
func Pairs(filters []Filter) (columns, queries []string) {
	for _, f := range filters {
		columns = append(columns, f.Key)
		queries = append(queries, f.Value)
	}
	return
}

// Split breaks a line into fields on delim. It does not honor quoting.
func Split(line string, delim rune) []string {
	return strings.Split(line, string(delim))
}

// Resolve maps names to their positions in header. The result has the same
// length and order as names.
func Resolve(header string, names []string, delim rune) ([]int, error) {
	fields := Split(header, delim)
	for i := range fields {
		fields[i] = strings.TrimSpace(fields[i])
	}

	indices := make([]int, 0, len(names))
	for _, name := range names {
		idx := -1
		for i, field := range fields {
			if field == name {
				idx = i
				break
			}
		}
		if idx < 0 {
			return nil, &ColumnNotFoundError{Name: name}
		}
		indices = append(indices, idx)
	}

	log.Debugf("resolved columns: names=%v indices=%v", names, indices)
	return indices, nil
}

// Match returns true if every resolved field equals its query after
// trimming. A row too short for the largest resolved index is a
// RowShapeError whether or not an earlier pair would have mismatched.
func (p ColumnPredicate) Match(fields []string) (bool, error) {
	if idx := maxIndex(p.Indices); idx >= len(fields) {
		return false, &RowShapeError{Index: idx, Fields: len(fields)}
	}

	for i, idx := range p.Indices {
		if strings.TrimSpace(fields[idx]) != p.Queries[i] {
			return false, nil
		}
	}
	return true, nil
}

// Match returns true if each query equals some trimmed field in the row.
func (p AnyPredicate) Match(fields []string) (bool, error) {
	for _, query := range p.Queries {
		found := false
		for _, field := range fields {
			if strings.TrimSpace(field) == query {
				found = true
				break
			}
		}
		if !found {
			return false, nil
		}
	}
	return true, nil
}

func maxIndex(indices []int) int {
	m := -1
	for _, idx := range indices {
		if idx > m {
			m = idx
		}
	}
	return m
}
