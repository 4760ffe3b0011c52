package report

import (
	"sort"

	"github.com/openswoop/pensum/pkg/catalog"
)

// ScrapeItem is one course the external scraper should visit.
type ScrapeItem struct {
	SKU      string `csv:"sku" json:"sku"`
	Name     string `csv:"name" json:"name"`
	Programs int    `csv:"programs" json:"programs"`
	Shared   bool   `csv:"shared" json:"shared"`
}

// ScrapeList orders the pensum for scraping: shared courses first, the ones
// offered by most programs at the top, then every other course in the order
// it was first seen.
func ScrapeList(pensum *catalog.PensumMap) []ScrapeItem {
	var shared, single []ScrapeItem
	for _, code := range pensum.Codes() {
		entry, _ := pensum.Get(code)
		item := ScrapeItem{
			SKU:      entry.Code,
			Name:     entry.Name,
			Programs: len(entry.Programs),
			Shared:   len(entry.Programs) > 1,
		}
		if item.Shared {
			shared = append(shared, item)
		} else {
			single = append(single, item)
		}
	}
	sort.SliceStable(shared, func(i, j int) bool {
		return shared[i].Programs > shared[j].Programs
	})
	return append(shared, single...)
}

// ScrapeSKUs returns just the codes of the list, in order.
func ScrapeSKUs(items []ScrapeItem) []string {
	skus := make([]string, 0, len(items))
	for _, item := range items {
		skus = append(skus, item.SKU)
	}
	return skus
}
