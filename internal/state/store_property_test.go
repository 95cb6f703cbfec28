package state

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/five82/toolcat/internal/catalog"
)

// Property: fields present in an update are reflected, absent ones keep their
// previous values.
func TestSetState_PropertyMergeNotReplace(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("set fields reflected, unset fields retained", prop.ForAll(
		func(mask uint8, query, filterType string, loading bool) bool {
			store := NewStore(Options{})
			store.SetState(Update{
				SearchQuery: Set("seed"),
				Filters:     FiltersUpdate{Type: Set("seed-type")},
				Sort:        Set(catalog.SortName),
				Loading:     Set(true),
			}, "seed")
			before := store.GetState()

			var u Update
			if mask&1 != 0 {
				u.SearchQuery = Set(query)
			}
			if mask&2 != 0 {
				u.Filters.Type = Set(filterType)
			}
			if mask&4 != 0 {
				u.Loading = Set(loading)
			}
			if mask&8 != 0 {
				u.Sort = Set(catalog.SortUsers)
			}
			store.SetState(u, "prop")
			after := store.GetState()

			check := func(set bool, got, want, old any) bool {
				if set {
					return got == want
				}
				return got == old
			}
			return check(mask&1 != 0, after.SearchQuery, query, before.SearchQuery) &&
				check(mask&2 != 0, after.Filters.Type, filterType, before.Filters.Type) &&
				check(mask&4 != 0, after.Loading, loading, before.Loading) &&
				check(mask&8 != 0, after.Sort, catalog.SortUsers, before.Sort) &&
				after.Filters.Price == before.Filters.Price &&
				after.CurrentView == before.CurrentView
		},
		gen.UInt8Range(0, 15),
		gen.AlphaString(),
		gen.AlphaString(),
		gen.Bool(),
	))

	properties.Property("mutating a snapshot never leaks into the store", prop.ForAll(
		func(names []string) bool {
			tools := make([]catalog.Tool, len(names))
			for i, name := range names {
				tools[i] = catalog.Tool{ID: name + string(rune('a'+i%26)), Name: name, Platforms: []string{name}}
			}
			store := NewStore(Options{})
			store.SetState(Update{Tools: Set(tools)}, "load")

			snap := store.GetState()
			for i := range snap.Tools {
				snap.Tools[i].Name = "x"
				snap.Tools[i].Platforms[0] = "x"
			}
			again := store.GetState()
			for i := range again.Tools {
				if again.Tools[i].Name != names[i] || again.Tools[i].Platforms[0] != names[i] {
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.Identifier()),
	))

	properties.TestingRun(t)
}
