package catalog

import (
	"errors"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Backfill decides which value survives when two sources describe the same
// course field.
type Backfill int

const (
	// FirstNonEmpty keeps the first value seen unless it is empty and a later
	// source supplies a non-empty one.
	FirstNonEmpty Backfill = iota
	// Overwrite lets every later non-empty value replace the current one.
	Overwrite
)

// ParseBackfill turns a config value like "first-non-empty" into a policy.
func ParseBackfill(s string) (Backfill, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "first-non-empty", "first":
		return FirstNonEmpty, nil
	case "overwrite", "always-overwrite":
		return Overwrite, nil
	default:
		return FirstNonEmpty, errors.New(s + " is not a valid backfill policy")
	}
}

func (b Backfill) String() string {
	if b == Overwrite {
		return "overwrite"
	}
	return "first-non-empty"
}

func (b Backfill) pickInt(cur, next int) int {
	if next == 0 {
		return cur
	}
	if cur == 0 || b == Overwrite {
		return next
	}
	return cur
}

func (b Backfill) pickText(cur, next string) string {
	if strings.TrimSpace(next) == "" {
		return cur
	}
	if strings.TrimSpace(cur) == "" || b == Overwrite {
		return next
	}
	return cur
}

func (b Backfill) pickList(cur, next []string) []string {
	if len(next) == 0 {
		return cur
	}
	if len(cur) == 0 || b == Overwrite {
		return append([]string{}, next...)
	}
	return cur
}

// FoldName upper-cases a course or program name with Spanish casing rules
// and collapses runs of whitespace, so "Cálculo  i" and "CÁLCULO I" compare
// equal.
func FoldName(name string) string {
	return cases.Upper(language.Spanish).String(strings.Join(strings.Fields(name), " "))
}

// NormalizeSKU trims the code. Codes are compared as strings, never as
// numbers, so leading zeros are significant.
func NormalizeSKU(sku string) string {
	return strings.TrimSpace(sku)
}
