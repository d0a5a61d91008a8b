package catalog

import (
	"strconv"
	"strings"

	"github.com/KrushanthAmalanathan/SkillShareCyberFrondend/models"
	"github.com/KrushanthAmalanathan/SkillShareCyberFrondend/util"
)

const (
	CatalogPageSize = 8
	DefaultRows     = 10
)

// RowsOptions are the page sizes offered on the own-courses table.
var RowsOptions = []int{5, 10, 20, 50}

// Filter is the catalog query: name match, then status, then one page.
type Filter struct {
	NameQuery string
	Status    models.StatusFilter
	Page      int
	PageSize  int
}

func ParseFilter(query, status, page string) Filter {
	return Filter{
		NameQuery: strings.TrimSpace(query),
		Status:    models.ParseStatusFilter(status),
		Page:      atoiDefault(page, 1),
		PageSize:  CatalogPageSize,
	}
}

func (f Filter) MatchesName(c models.Course) bool {
	return NameMatches(c.Name, f.NameQuery)
}

// NameMatches is a case-insensitive substring test; an empty query matches all.
func NameMatches(name, query string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return true
	}
	return strings.Contains(strings.ToLower(name), q)
}

type Entry struct {
	Course models.Course
	Status models.Status
}

// Apply narrows entries by name, then by status, then slices out f.Page.
func Apply(entries []Entry, f Filter) util.Page[Entry] {
	return util.Paginate(FilterEntries(entries, f), f.Page, f.PageSize)
}

func FilterEntries(entries []Entry, f Filter) []Entry {
	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if f.MatchesName(e.Course) && f.Status.Matches(e.Status) {
			out = append(out, e)
		}
	}
	return out
}

// ParseRows accepts only the offered page sizes.
func ParseRows(raw string) int {
	n := atoiDefault(raw, DefaultRows)
	for _, opt := range RowsOptions {
		if n == opt {
			return n
		}
	}
	return DefaultRows
}

func atoiDefault(raw string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return def
	}
	return n
}
