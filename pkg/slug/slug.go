// Copyright (c) 2026 Unimart. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package slug generates ASCII URL slugs from arbitrary Unicode strings.
//
// # Usage
//
// Listing URLs carry a slug derived from the title (e.g., "giai-tich-1-textbook").
// This package handles normalization, accent removal, and character sanitization.
package slug

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// MaxLength caps the slug body before any suffix is appended.
const MaxLength = 80

var (
	// nonAlphanumeric matches any sequence of non-alphanumeric characters.
	nonAlphanumeric = regexp.MustCompile(`[^a-z0-9]+`)

	// stripMarks decomposes accented characters and drops the combining marks.
	stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

	// specialLetters are letters NFD cannot decompose into an ASCII base.
	specialLetters = strings.NewReplacer("đ", "d", "Đ", "d", "ø", "o", "Ø", "o", "ß", "ss", "æ", "ae", "Æ", "ae")
)

// From converts an arbitrary Unicode string into a URL-safe ASCII slug.
//
// # Transformation Pipeline
//
// 1. Maps letters without a decomposition (đ → d, ß → ss).
// 2. Normalizes to NFD and removes combining marks (é → e).
// 3. Converts to lowercase.
// 4. Replaces every run of other characters with a single hyphen.
// 5. Truncates to [MaxLength] on a word boundary and trims hyphens.
func From(s string) string {
	result, _, err := transform.String(stripMarks, specialLetters.Replace(s))
	if err != nil {
		result = s
	}

	result = strings.ToLower(result)
	result = nonAlphanumeric.ReplaceAllString(result, "-")
	result = strings.Trim(result, "-")

	if len(result) > MaxLength {
		result = result[:MaxLength]
		if cut := strings.LastIndex(result, "-"); cut > MaxLength/2 {
			result = result[:cut]
		}
		result = strings.Trim(result, "-")
	}

	return result
}

// WithSuffix builds a slug from s and appends suffix, so equal titles stay distinct.
// A title with no usable characters yields just the suffix.
func WithSuffix(s, suffix string) string {
	base := From(s)
	suffix = From(suffix)

	switch {
	case base == "":
		return suffix
	case suffix == "":
		return base
	default:
		return base + "-" + suffix
	}
}
