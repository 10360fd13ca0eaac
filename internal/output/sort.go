// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package output

import (
	"sort"
	"strconv"
	"strings"
)

// SortRows reorders order, a permutation of row indexes, by the columns named
// in spec. spec is a comma-separated list of column names; a leading "-"
// sorts descending and a leading "!" compares case-sensitively. Values that
// both parse as numbers compare numerically. Unknown columns are ignored and
// the sort is stable.
func SortRows(order []int, rows [][]string, columns []string, spec string) {
	type key struct {
		idx           int
		ascending     bool
		caseSensitive bool
	}

	var keys []key
	for _, field := range strings.Split(spec, ",") {
		field = strings.TrimSpace(field)
		k := key{ascending: true}
		if strings.HasPrefix(field, "-") {
			field = strings.TrimPrefix(field, "-")
			k.ascending = false
		}
		if strings.HasPrefix(field, "!") {
			field = strings.TrimPrefix(field, "!")
			k.caseSensitive = true
		}

		k.idx = -1
		for i, c := range columns {
			if c == field {
				k.idx = i
				break
			}
		}
		if k.idx >= 0 {
			keys = append(keys, k)
		}
	}

	cell := func(row []string, idx int) string {
		if idx < len(row) {
			return strings.TrimSpace(row[idx])
		}
		return ""
	}

	sort.SliceStable(order, func(one, two int) bool {
		for _, k := range keys {
			oneStr := cell(rows[order[one]], k.idx)
			twoStr := cell(rows[order[two]], k.idx)

			oneNum, oneErr := strconv.ParseFloat(oneStr, 64)
			twoNum, twoErr := strconv.ParseFloat(twoStr, 64)
			if oneErr == nil && twoErr == nil {
				if oneNum != twoNum {
					if k.ascending {
						return oneNum < twoNum
					}
					return oneNum > twoNum
				}
				continue
			}

			if !k.caseSensitive {
				oneStr = strings.ToLower(oneStr)
				twoStr = strings.ToLower(twoStr)
			}

			if oneStr != twoStr {
				if k.ascending {
					return oneStr < twoStr
				}
				return oneStr > twoStr
			}
		}
		return false
	})
}
