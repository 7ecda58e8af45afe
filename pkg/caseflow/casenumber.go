package caseflow

import (
	"fmt"
	"regexp"
	"strconv"
)

var caseNumberRe = regexp.MustCompile(`^ST-(\d{4})-(\d{6})$`)

// FormatCaseNumber builds the public case identifier, e.g. ST-2026-001234.
// The sequence restarts every year.
func FormatCaseNumber(year, sequence int) string {
	return fmt.Sprintf("ST-%d-%06d", year, sequence)
}

// ParseCaseNumber extracts year and sequence from a case identifier.
func ParseCaseNumber(id string) (year, sequence int, ok bool) {
	m := caseNumberRe.FindStringSubmatch(id)
	if m == nil {
		return 0, 0, false
	}
	year, _ = strconv.Atoi(m[1])
	sequence, _ = strconv.Atoi(m[2])
	return year, sequence, true
}
