package activity

import (
	"strconv"
	"strings"
	"time"

	"github.com/KrushanthAmalanathan/SkillShareCyberFrondend/models"
)

const dateLayout = "2006-01-02"

// PageSizes are the sizes offered by the log table.
var PageSizes = []int{10, 20, 50, 100}

type Category string

const (
	CategoryAll      Category = "all"
	CategoryTemplate Category = "template"
	CategoryProduct  Category = "product"
)

func ParseCategoryFilter(raw string) Category {
	switch Category(strings.ToLower(strings.TrimSpace(raw))) {
	case CategoryTemplate:
		return CategoryTemplate
	case CategoryProduct:
		return CategoryProduct
	default:
		return CategoryAll
	}
}

func (c Category) Matches(e models.Entity) bool {
	return c == CategoryAll || string(c) == e.String()
}

// Filter narrows the activity list. Zero From/To leave that side open; To
// covers its whole day.
type Filter struct {
	From     time.Time
	To       time.Time
	Category Category
	User     string
	Query    string
	Page     int
	PageSize int
}

func (f Filter) Match(a models.Activity) bool {
	if !f.From.IsZero() && a.CreatedAt.Before(f.From) {
		return false
	}
	if !f.To.IsZero() && a.CreatedAt.After(EndOfDay(f.To)) {
		return false
	}
	if !f.Category.Matches(a.Kind().Entity) {
		return false
	}
	if f.User != "" && f.User != "all" && a.UserEmail != f.User {
		return false
	}
	return strings.Contains(strings.ToLower(a.Description), strings.ToLower(strings.TrimSpace(f.Query)))
}

func Apply(list []models.Activity, f Filter) []models.Activity {
	out := make([]models.Activity, 0, len(list))
	for _, a := range list {
		if f.Match(a) {
			out = append(out, a)
		}
	}
	return out
}

// Active reports whether anything beyond paging is set.
func (f Filter) Active() bool {
	return strings.TrimSpace(f.Query) != "" || f.Category != CategoryAll ||
		(f.User != "" && f.User != "all") || !f.From.IsZero() || !f.To.IsZero()
}

// EndOfDay is the last nanosecond of t's calendar day in t's location.
func EndOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, int(time.Second-time.Nanosecond), t.Location())
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

type Preset string

const (
	PresetToday     Preset = "today"
	PresetLast7     Preset = "last7"
	PresetThisMonth Preset = "thisMonth"
	PresetLast30    Preset = "last30"
	PresetClear     Preset = "clear"
)

var Presets = []Preset{PresetToday, PresetLast7, PresetThisMonth, PresetLast30, PresetClear}

// Range turns a preset into a date range relative to now. ok is false for
// an unknown preset; clear yields two zero times.
func (p Preset) Range(now time.Time) (from, to time.Time, ok bool) {
	today := startOfDay(now)
	switch p {
	case PresetToday:
		return today, now, true
	case PresetLast7:
		return today.AddDate(0, 0, -6), now, true
	case PresetThisMonth:
		return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()), now, true
	case PresetLast30:
		return today.AddDate(0, 0, -29), now, true
	case PresetClear:
		return time.Time{}, time.Time{}, true
	}
	return time.Time{}, time.Time{}, false
}

// Params is the raw query of the log page.
type Params struct {
	From     string
	To       string
	Preset   string
	Category string
	User     string
	Query    string
	Page     string
	PageSize string
}

// ParseFilter builds a Filter from query values. A known preset wins over
// explicit dates. Dates are calendar days in loc.
func ParseFilter(p Params, now time.Time, loc *time.Location) Filter {
	if loc == nil {
		loc = time.Local
	}
	now = now.In(loc)
	f := Filter{
		Category: ParseCategoryFilter(p.Category),
		User:     strings.TrimSpace(p.User),
		Query:    strings.TrimSpace(p.Query),
		Page:     atoiDefault(p.Page, 1),
		PageSize: parsePageSize(p.PageSize),
	}
	if from, to, ok := Preset(p.Preset).Range(now); ok {
		f.From, f.To = from, to
		return f
	}
	if d, err := time.ParseInLocation(dateLayout, strings.TrimSpace(p.From), loc); err == nil {
		f.From = d
	}
	if d, err := time.ParseInLocation(dateLayout, strings.TrimSpace(p.To), loc); err == nil {
		f.To = d
	}
	return f
}

// Users lists the distinct emails in first-seen order.
func Users(list []models.Activity) []string {
	seen := make(map[string]struct{}, len(list))
	out := make([]string, 0)
	for _, a := range list {
		if _, ok := seen[a.UserEmail]; ok {
			continue
		}
		seen[a.UserEmail] = struct{}{}
		out = append(out, a.UserEmail)
	}
	return out
}

func parsePageSize(raw string) int {
	n := atoiDefault(raw, PageSizes[0])
	for _, s := range PageSizes {
		if n == s {
			return n
		}
	}
	return PageSizes[0]
}

func atoiDefault(raw string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return def
	}
	return n
}
