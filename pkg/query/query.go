// Copyright (c) 2026 Unimart. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package query parses list-style URL query parameters.
package query

import "strings"

// StringSlice parses a single comma-separated query string
// into a trimmed slice of strings.
func StringSlice(val string) []string {
	if val == "" {
		return nil
	}
	var res []string
	for _, v := range strings.Split(val, ",") {
		clean := strings.TrimSpace(v)
		if clean != "" {
			res = append(res, clean)
		}
	}
	return res
}

// UpperSlice is [StringSlice] with every entry upper-cased, for enum filters
// such as ?category=books,electronics.
func UpperSlice(val string) []string {
	values := StringSlice(val)
	for i, v := range values {
		values[i] = strings.ToUpper(v)
	}
	return values
}

// Text trims a free-text search parameter and caps its length in runes.
func Text(val string, maxRunes int) string {
	val = strings.TrimSpace(val)
	if runes := []rune(val); len(runes) > maxRunes {
		val = string(runes[:maxRunes])
	}
	return val
}
