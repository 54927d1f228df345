package catalog

import (
	"sort"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/vitrinedecor/catalogo/internal/domain"
)

type SortKey string

const (
	SortRecent    SortKey = "recent"
	SortPriceAsc  SortKey = "price-asc"
	SortPriceDesc SortKey = "price-desc"
)

// Filters narrows and orders a product listing. Zero values mean "no filter".
type Filters struct {
	AvailableOnly bool
	Class         string
	Search        string
	Sort          SortKey
}

// Apply filters and sorts the product list. It is a pure function: the input
// slice is never reordered or mutated, and equal sort keys keep their incoming
// relative order (stable sort).
func Apply(products []domain.Product, f Filters) []domain.Product {
	list := make([]domain.Product, 0, len(products))
	q := strings.ToLower(strings.TrimSpace(f.Search))
	for _, p := range products {
		if f.AvailableOnly && !p.Available {
			continue
		}
		if f.Class != "" && p.Class != f.Class {
			continue
		}
		if q != "" && !matches(p, q) {
			continue
		}
		list = append(list, p)
	}

	switch f.Sort {
	case SortPriceAsc:
		sort.SliceStable(list, func(i, j int) bool { return list[i].Price < list[j].Price })
	case SortPriceDesc:
		sort.SliceStable(list, func(i, j int) bool { return list[i].Price > list[j].Price })
	default:
		// recent: newest first, records without a parseable date sink to the end
		sort.SliceStable(list, func(i, j int) bool {
			return createdTime(list[i]).After(createdTime(list[j]))
		})
	}
	return list
}

func matches(p domain.Product, q string) bool {
	return strings.Contains(strings.ToLower(p.Name), q) ||
		strings.Contains(strings.ToLower(p.Label), q) ||
		strings.Contains(strings.ToLower(strings.Join(p.Tags, " ")), q)
}

// createdTime parses CreatedAt leniently; anything unparseable counts as epoch.
func createdTime(p domain.Product) time.Time {
	if p.CreatedAt == "" {
		return time.Unix(0, 0)
	}
	t, err := dateparse.ParseAny(p.CreatedAt)
	if err != nil {
		return time.Unix(0, 0)
	}
	return t
}
