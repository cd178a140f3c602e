package catalog

import "strings"

// Difficulty buckets.
const (
	DiffTrek = "Trek"
	DiffF    = "F"
	DiffPD   = "PD"
	DiffAD   = "AD"
	DiffD    = "D"
)

// NormalizeDiff maps a raw alpine grade to its bucket. Prefix order matters:
// "AD" and "PD" are checked before "D". Grades that match no bucket and do not
// mention "Trek" are returned unchanged.
func NormalizeDiff(raw string) string {
	switch {
	case raw == "":
		return DiffTrek
	case strings.HasPrefix(raw, "AD"):
		return DiffAD
	case strings.HasPrefix(raw, "PD"):
		return DiffPD
	case strings.HasPrefix(raw, "D"):
		return DiffD
	case strings.HasPrefix(raw, "F"):
		return DiffF
	case strings.Contains(raw, "Trek"):
		return DiffTrek
	}
	return raw
}
