package catalog

import "strings"

const (
	Winter = "Invierno"
	Spring = "Primavera"
	Summer = "Verano"
	Autumn = "Otoño"
)

// AllSeasons is the calendar order used for "todo el año" ranges.
var AllSeasons = []string{Winter, Spring, Summer, Autumn}

var monthNumbers = map[string]int{
	"Jan": 1, "Feb": 2, "Mar": 3, "Apr": 4, "May": 5, "Jun": 6,
	"Jul": 7, "Aug": 8, "Sep": 9, "Oct": 10, "Nov": 11, "Dec": 12,
}

func seasonOf(month int) string {
	switch month {
	case 12, 1, 2:
		return Winter
	case 3, 4, 5:
		return Spring
	case 6, 7, 8:
		return Summer
	default:
		return Autumn
	}
}

// MonthsToSeasons turns a range such as "Nov–Mar" into the seasons it
// touches, in the order they are first reached walking from the start month.
// Unparseable input yields an empty slice.
func MonthsToSeasons(raw string) []string {
	if raw == "" {
		return []string{}
	}
	if strings.Contains(strings.ToLower(raw), "todo") {
		return append([]string(nil), AllSeasons...)
	}

	parts := strings.Split(strings.ReplaceAll(raw, "–", "-"), "-")
	if len(parts) != 2 {
		return []string{}
	}
	start, ok1 := monthNumbers[prefix3(strings.TrimSpace(parts[0]))]
	end, ok2 := monthNumbers[prefix3(strings.TrimSpace(parts[1]))]
	if !ok1 || !ok2 {
		return []string{}
	}

	out := make([]string, 0, 4)
	seen := make(map[string]struct{}, 4)
	for m := start; ; m = m%12 + 1 {
		s := seasonOf(m)
		if _, dup := seen[s]; !dup {
			seen[s] = struct{}{}
			out = append(out, s)
		}
		if m == end {
			break
		}
	}
	return out
}

// prefix3 returns the first three characters (not bytes) of s.
func prefix3(s string) string {
	r := []rune(s)
	if len(r) > 3 {
		r = r[:3]
	}
	return string(r)
}
