// Copyright (c) 2025-2026 Aurevra Jewelry
// SPDX-License-Identifier: GPL-3.0-or-later

// Package util provides general-purpose helpers: search text folding,
// URL slug generation, and client network identification.
package util

import (
	"strings"

	"github.com/mozillazg/go-unidecode"
)

// Fold normalizes text for matching: accents are transliterated to their
// ASCII equivalents and the result is lowercased. "Collier Doré" and
// "collier dore" fold to the same string.
func Fold(s string) string {
	return strings.ToLower(unidecode.Unidecode(s))
}

// FoldContains reports whether haystack contains needle after both are
// folded. An empty needle never matches.
func FoldContains(haystack, needle string) bool {
	if needle == "" {
		return false
	}
	return strings.Contains(Fold(haystack), Fold(needle))
}
