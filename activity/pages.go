package activity

import "strconv"

// PageItem is one entry of the pager: a page number or a gap.
type PageItem struct {
	Page     int
	Ellipsis bool
}

func (p PageItem) MarshalJSON() ([]byte, error) {
	if p.Ellipsis {
		return []byte(`"..."`), nil
	}
	return []byte(strconv.Itoa(p.Page)), nil
}

func (p PageItem) String() string {
	if p.Ellipsis {
		return "..."
	}
	return strconv.Itoa(p.Page)
}

// PageWindow lists every page up to five; past that it keeps the first and
// last page and a small window around current.
func PageWindow(current, total int) []PageItem {
	if total < 1 {
		total = 1
	}
	if total <= 5 {
		out := make([]PageItem, total)
		for i := range out {
			out[i] = PageItem{Page: i + 1}
		}
		return out
	}
	gap := PageItem{Ellipsis: true}
	pages := func(ns ...int) []PageItem {
		out := make([]PageItem, len(ns))
		for i, n := range ns {
			out[i] = PageItem{Page: n}
		}
		return out
	}
	switch {
	case current <= 3:
		return append(pages(1, 2, 3), gap, PageItem{Page: total})
	case current >= total-2:
		return append([]PageItem{{Page: 1}, gap}, pages(total-2, total-1, total)...)
	default:
		out := []PageItem{{Page: 1}, gap}
		out = append(out, pages(current-1, current, current+1)...)
		return append(out, gap, PageItem{Page: total})
	}
}
