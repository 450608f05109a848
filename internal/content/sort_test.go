package content

import (
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/require"
)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestSortByDateDesc(t *testing.T) {
	docs := []*Document{
		{Stem: "a", Date: day("2024-01-01")},
		{Stem: "b", Date: day("2023-06-01")},
		{Stem: "c", Date: day("2024-06-01")},
	}

	sorted := SortByDateDesc(docs)

	var dates []string
	for _, d := range sorted {
		dates = append(dates, d.Date.Format("2006-01-02"))
	}
	require.Equal(t, []string{"2024-06-01", "2024-01-01", "2023-06-01"}, dates)
	require.Equal(t, "a", docs[0].Stem, "input must not be reordered")
}

func TestSortByDateDesc_TiesKeepInputOrder(t *testing.T) {
	docs := []*Document{
		{Stem: "first", Date: day("2024-01-01")},
		{Stem: "second", Date: day("2024-01-01")},
		{Stem: "newer", Date: day("2024-02-01")},
	}
	sorted := SortByDateDesc(docs)
	require.Equal(t, "newer", sorted[0].Stem)
	require.Equal(t, "first", sorted[1].Stem)
	require.Equal(t, "second", sorted[2].Stem)
}

func TestCollectionSorted(t *testing.T) {
	c := Collection{Name: "projects", Documents: []*Document{
		{Stem: "old", Date: day("2020-01-01")},
		{Stem: "new", Date: day("2021-01-01")},
	}}
	s := c.Sorted()
	require.Equal(t, "projects", s.Name)
	require.Equal(t, "new", s.Documents[0].Stem)
	require.Equal(t, "old", c.Documents[0].Stem)
}

func TestSortByDateDesc_Properties(t *testing.T) {
	properties := gopter.NewProperties(nil)

	toDocs := func(offsets []int) []*Document {
		base := day("2000-01-01")
		docs := make([]*Document, len(offsets))
		for i, o := range offsets {
			docs[i] = &Document{Date: base.AddDate(0, 0, o)}
		}
		return docs
	}

	properties.Property("output is non-increasing by date", prop.ForAll(
		func(offsets []int) bool {
			sorted := SortByDateDesc(toDocs(offsets))
			for i := 1; i < len(sorted); i++ {
				if sorted[i].Date.After(sorted[i-1].Date) {
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.IntRange(0, 9000)),
	))

	properties.Property("output is a permutation of the input", prop.ForAll(
		func(offsets []int) bool {
			docs := toDocs(offsets)
			sorted := SortByDateDesc(docs)
			if len(sorted) != len(docs) {
				return false
			}
			seen := map[*Document]int{}
			for _, d := range docs {
				seen[d]++
			}
			for _, d := range sorted {
				seen[d]--
			}
			for _, n := range seen {
				if n != 0 {
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.IntRange(0, 9000)),
	))

	properties.TestingRun(t)
}
