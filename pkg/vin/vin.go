// Package vin classifies raw vehicle identifiers and validates VIN check
// digits per ISO 3779.
package vin

import (
	"strings"
	"unicode"
)

// Kind is the classification of a normalized identifier.
type Kind string

const (
	KindVIN     Kind = "vin"
	KindPlate   Kind = "plate"
	KindUnknown Kind = "unknown"
)

// NormalizedInput is the cleaned, classified form of a raw identifier.
// ChecksumOK is only meaningful when Kind is KindVIN.
type NormalizedInput struct {
	Kind       Kind   `json:"kind"`
	Value      string `json:"value"`
	ChecksumOK bool   `json:"checksum_ok"`
}

const (
	plateMinLen = 5
	plateMaxLen = 10
)

// Normalize trims, uppercases and strips the raw input, then classifies it.
// A 17-character string over the VIN alphabet is a VIN regardless of its
// check digit; the checksum result is carried separately in ChecksumOK.
// A 5-10 character alphanumeric string (Latin or Cyrillic, to cover
// Ukrainian-style plates) is a plate. Everything else, including empty
// input, is unknown. Never fails.
func Normalize(raw string) NormalizedInput {
	value := clean(raw)
	switch {
	case isVINShaped(value):
		return NormalizedInput{Kind: KindVIN, Value: value, ChecksumOK: IsValidChecksum(value)}
	case isPlateShaped(value):
		return NormalizedInput{Kind: KindPlate, Value: value}
	default:
		return NormalizedInput{Kind: KindUnknown, Value: value}
	}
}

// clean uppercases and drops every rune outside the Latin/Cyrillic
// alphanumeric set. Hyphens and spaces common in copied VINs disappear here.
func clean(raw string) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(raw) {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r >= 'A' && r <= 'Z':
			b.WriteRune(r)
		case r >= 'a' && r <= 'z':
			b.WriteRune(r - 'a' + 'A')
		case unicode.Is(unicode.Cyrillic, r):
			b.WriteRune(unicode.ToUpper(r))
		}
	}
	return b.String()
}

// isVINShaped reports whether value is 17 characters drawn from the VIN
// alphabet (I, O and Q never appear in a VIN).
func isVINShaped(value string) bool {
	if len(value) != vinLength {
		return false
	}
	for i := 0; i < vinLength; i++ {
		if !isVINChar(value[i]) {
			return false
		}
	}
	return true
}

func isVINChar(c byte) bool {
	switch {
	case c >= '0' && c <= '9':
		return true
	case c == 'I' || c == 'O' || c == 'Q':
		return false
	case c >= 'A' && c <= 'Z':
		return true
	}
	return false
}

func isPlateShaped(value string) bool {
	runes := []rune(value)
	if len(runes) < plateMinLen || len(runes) > plateMaxLen {
		return false
	}
	for _, r := range runes {
		latin := (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
		if !latin && !unicode.Is(unicode.Cyrillic, r) {
			return false
		}
	}
	return true
}
