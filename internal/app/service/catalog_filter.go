package service

import (
	"sort"
	"strings"

	"learnhub/internal/domain/model"
)

// Price buckets for catalog filtering.
const (
	PriceAll     = "all"
	PriceFree    = "free"
	PricePaid    = "paid"
	PriceUnder25 = "under25"
	PriceUnder50 = "under50"
	PriceOver50  = "over50"
)

// Sort keys for the filtered list.
const (
	SortDefault   = "default"
	SortPriceLow  = "price-low"
	SortPriceHigh = "price-high"
	SortTitleAsc  = "title-asc"
	SortTitleDesc = "title-desc"
)

// FilterQuery is a pure view transform over the in-memory course list;
// nothing about it is persisted. Zero values mean "no constraint".
type FilterQuery struct {
	Search string // case-insensitive match against title and description
	Level  string // exact level match
	Price  string // one of the Price* buckets
	Sort   string // one of the Sort* keys
}

// Filter applies the query to the current course list and returns a new
// slice; combined constraints intersect.
func (s *CatalogService) Filter(query FilterQuery) []model.Course {
	courses := s.Courses()
	search := strings.ToLower(query.Search)

	filtered := []model.Course{}
	for _, course := range courses {
		if search != "" &&
			!strings.Contains(strings.ToLower(course.Title), search) &&
			!strings.Contains(strings.ToLower(course.Description), search) {
			continue
		}
		if query.Level != "" && query.Level != "all" && course.Level != query.Level {
			continue
		}
		if !matchesPriceBucket(course.Price, query.Price) {
			continue
		}
		filtered = append(filtered, course)
	}

	switch query.Sort {
	case SortPriceLow:
		sort.SliceStable(filtered, func(i, j int) bool { return filtered[i].Price < filtered[j].Price })
	case SortPriceHigh:
		sort.SliceStable(filtered, func(i, j int) bool { return filtered[i].Price > filtered[j].Price })
	case SortTitleAsc:
		sort.SliceStable(filtered, func(i, j int) bool { return filtered[i].Title < filtered[j].Title })
	case SortTitleDesc:
		sort.SliceStable(filtered, func(i, j int) bool { return filtered[i].Title > filtered[j].Title })
	}

	return filtered
}

func matchesPriceBucket(price float64, bucket string) bool {
	switch bucket {
	case "", PriceAll:
		return true
	case PriceFree:
		return price == 0
	case PricePaid:
		return price > 0
	case PriceUnder25:
		return price < 25
	case PriceUnder50:
		return price < 50
	case PriceOver50:
		return price >= 50
	default:
		return true
	}
}
