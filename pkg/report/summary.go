package report

import (
	"sort"

	"github.com/openswoop/pensum/pkg/catalog"
)

// Summary is the statistics block printed after a merge.
type Summary struct {
	Total            int `json:"total"`
	Shared           int `json:"shared"`
	Unique           int `json:"unique"`
	WithCredits      int `json:"withCredits"`
	WithRequirements int `json:"withRequirements"`
	WithGroups       int `json:"withGroups"`
	TotalGroups      int `json:"totalGroups"`
	// Distribution maps a number of programs to how many courses are offered
	// by exactly that many.
	Distribution map[int]int `json:"programDistribution"`
}

// Summarize computes the statistics of a merged catalog without modifying it.
func Summarize(records []catalog.CourseRecord) Summary {
	s := Summary{Total: len(records), Distribution: make(map[int]int)}
	for _, rec := range records {
		n := len(rec.Programs)
		s.Distribution[n]++
		if n > 1 {
			s.Shared++
		} else {
			s.Unique++
		}
		if rec.Credits > 0 {
			s.WithCredits++
		}
		if len(rec.Requirements) > 0 {
			s.WithRequirements++
		}
		if len(rec.Groups) > 0 {
			s.WithGroups++
		}
		s.TotalGroups += len(rec.Groups)
	}
	return s
}

// ProgramCounts returns the keys of the distribution in ascending order.
func (s Summary) ProgramCounts() []int {
	counts := make([]int, 0, len(s.Distribution))
	for n := range s.Distribution {
		counts = append(counts, n)
	}
	sort.Ints(counts)
	return counts
}

// TopShared returns up to n shared courses, most programs first, SKU order
// breaking ties. The input is left untouched.
func TopShared(records []catalog.CourseRecord, n int) []catalog.CourseRecord {
	shared := catalog.Records(records).Apply(catalog.SharedOnly())
	sort.SliceStable(shared, func(i, j int) bool {
		if len(shared[i].Programs) != len(shared[j].Programs) {
			return len(shared[i].Programs) > len(shared[j].Programs)
		}
		return shared[i].SKU < shared[j].SKU
	})
	if n < 0 {
		n = 0
	}
	if len(shared) > n {
		shared = shared[:n]
	}
	return shared
}
