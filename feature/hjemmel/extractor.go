package hjemmel

import (
	"regexp"
	"strconv"
	"strings"
)

// hjemmelPattern matches a "section-subsection" citation like "8-35".
var hjemmelPattern = regexp.MustCompile(`\d{1,2}-\d{1,2}`)

// Extractor derives legal-reference codes (hjemler) from free text.
// It is stateless and safe for concurrent use.
type Extractor struct {
	valid map[string]struct{}
}

// NewExtractor creates an extractor validating against the given whitelist.
// An empty whitelist falls back to DefaultCodes.
func NewExtractor(codes []string) *Extractor {
	if len(codes) == 0 {
		codes = DefaultCodes()
	}

	valid := make(map[string]struct{}, len(codes))
	for _, c := range codes {
		valid[strings.TrimSpace(c)] = struct{}{}
	}

	return &Extractor{valid: valid}
}

// Extract scans text for legal-reference codes and returns the valid ones
// in order of first occurrence. Matches outside the whitelist are silently
// discarded. An empty result means "no reference determinable", never an
// error.
func (e *Extractor) Extract(text string) []string {
	found := []string{}

	for _, match := range hjemmelPattern.FindAllString(text, -1) {
		// A leading section marker never survives the digit-only pattern,
		// but trimming keeps the validation input canonical.
		candidate := strings.TrimSpace(strings.TrimPrefix(match, "§"))
		if _, ok := e.valid[candidate]; ok {
			found = append(found, candidate)
		}
	}

	return found
}

// DefaultCodes returns the built-in whitelist of legally meaningful codes.
// Domain data: chapter 8 sections 1-55 plus the handful of procedural
// sections from chapters 21 and 22.
func DefaultCodes() []string {
	codes := make([]string, 0, 60)
	for i := 1; i <= 55; i++ {
		codes = append(codes, "8-"+strconv.Itoa(i))
	}
	codes = append(codes, "21-7", "21-12", "22-3", "22-13", "22-15")
	return codes
}
