package storage

import (
	"net/url"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"github.com/google/uuid"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/gountain/catalog/internal/domain"
)

// NewEntry is a destination name to add to the catalog.
type NewEntry struct {
	Name      string `json:"nombre"`
	Continent string `json:"continente"`
}

var (
	nonSlug  = regexp.MustCompile(`[^a-z0-9]+`)
	peakWord = regexp.MustCompile(`(?i)\b(mount|peak)\b`)
)

// FoldName lowercases name, collapses whitespace and strips diacritics, so
// "Tonquín Valley" and "tonquin valley " compare equal.
func FoldName(name string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, name)
	if err != nil {
		folded = name
	}
	return strings.Join(strings.Fields(strings.ToLower(folded)), " ")
}

// Slug builds a url-safe id from a destination name.
func Slug(name string) string {
	return strings.Trim(nonSlug.ReplaceAllString(FoldName(name), "-"), "-")
}

// MergeNames appends additions whose folded name is not already present in
// existing. New records get a slug id, the next catalog order and a search
// link; everything else stays empty until curated. The merged list is sorted
// by catalog order and returned with the number of records added.
func MergeNames(existing []domain.Destination, additions []NewEntry) ([]domain.Destination, int) {
	out := make([]domain.Destination, len(existing), len(existing)+len(additions))
	copy(out, existing)

	seen := make(map[string]struct{}, len(existing)+len(additions))
	ids := make(map[string]struct{}, len(existing)+len(additions))
	maxOrder := 0
	for _, d := range existing {
		seen[FoldName(d.Name)] = struct{}{}
		ids[d.ID] = struct{}{}
		maxOrder = max(maxOrder, d.Order)
	}

	added := 0
	for _, e := range additions {
		key := FoldName(e.Name)
		if key == "" {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		maxOrder++
		added++

		typ := "Travesía"
		if peakWord.MatchString(e.Name) {
			typ = "Pico"
		}
		id := uniqueID(Slug(e.Name), ids)
		ids[id] = struct{}{}
		out = append(out, domain.Destination{
			ID:           id,
			Name:         e.Name,
			Continent:    e.Continent,
			Type:         typ,
			Order:        maxOrder,
			GoogleSearch: "https://www.google.com/search?q=" + url.QueryEscape(e.Name),
		})
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out, added
}

// uniqueID returns slug, or slug-2, slug-3... when taken. Names without any
// latin letters or digits slug to "" and get a random id.
func uniqueID(slug string, taken map[string]struct{}) string {
	if slug == "" {
		return uuid.NewString()
	}
	id := slug
	for n := 2; ; n++ {
		if _, dup := taken[id]; !dup {
			return id
		}
		id = slug + "-" + strconv.Itoa(n)
	}
}
