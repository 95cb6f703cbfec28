package state

import (
	mapset "github.com/deckarep/golang-set/v2"

	"github.com/five82/toolcat/internal/catalog"
)

// Value is an optional field of an Update. The zero Value is unset and leaves
// the corresponding state field untouched.
type Value[T any] struct {
	v  T
	ok bool
}

// Set wraps v as a present Value.
func Set[T any](v T) Value[T] {
	return Value[T]{v: v, ok: true}
}

// Get returns the wrapped value and whether it is present.
func (o Value[T]) Get() (T, bool) {
	return o.v, o.ok
}

// IsSet reports whether the value is present.
func (o Value[T]) IsSet() bool {
	return o.ok
}

func (o Value[T]) or(current T) T {
	if o.ok {
		return o.v
	}
	return current
}

func latest[T any](a, b Value[T]) Value[T] {
	if b.ok {
		return b
	}
	return a
}

// FiltersUpdate merges field by field into Filters.
type FiltersUpdate struct {
	Type     Value[string]
	Price    Value[string]
	Category Value[string]
}

// ModalUpdate merges field by field into Modal.
type ModalUpdate struct {
	Open    Value[bool]
	Type    Value[ModalType]
	ToolIDs Value[[]string]
}

// Update is a partial state change. Scalars replace, Filters and Modal merge
// per field, and collections (tools, selection, ids, statistics) are replaced
// wholesale.
type Update struct {
	Tools         Value[[]catalog.Tool]
	FilteredTools Value[[]catalog.Tool]
	SelectedTools Value[mapset.Set[string]]
	Filters       FiltersUpdate
	Sort          Value[catalog.SortKey]
	SearchQuery   Value[string]
	Loading       Value[bool]
	Error         Value[*ErrorInfo]
	CompareMode   Value[bool]
	CurrentView   Value[View]
	Modal         ModalUpdate
	Statistics    Value[catalog.Statistics]
}

// Replace builds an Update that sets every field from s.
func Replace(s State) Update {
	return Update{
		Tools:         Set(s.Tools),
		FilteredTools: Set(s.FilteredTools),
		SelectedTools: Set(s.SelectedTools),
		Filters: FiltersUpdate{
			Type:     Set(s.Filters.Type),
			Price:    Set(s.Filters.Price),
			Category: Set(s.Filters.Category),
		},
		Sort:        Set(s.Sort),
		SearchQuery: Set(s.SearchQuery),
		Loading:     Set(s.Loading),
		Error:       Set(s.Error),
		CompareMode: Set(s.CompareMode),
		CurrentView: Set(s.CurrentView),
		Modal: ModalUpdate{
			Open:    Set(s.Modal.Open),
			Type:    Set(s.Modal.Type),
			ToolIDs: Set(s.Modal.ToolIDs),
		},
		Statistics: Set(s.Statistics),
	}
}

// Merge combines u with a later update next; fields set in next win.
func (u Update) Merge(next Update) Update {
	return Update{
		Tools:         latest(u.Tools, next.Tools),
		FilteredTools: latest(u.FilteredTools, next.FilteredTools),
		SelectedTools: latest(u.SelectedTools, next.SelectedTools),
		Filters: FiltersUpdate{
			Type:     latest(u.Filters.Type, next.Filters.Type),
			Price:    latest(u.Filters.Price, next.Filters.Price),
			Category: latest(u.Filters.Category, next.Filters.Category),
		},
		Sort:        latest(u.Sort, next.Sort),
		SearchQuery: latest(u.SearchQuery, next.SearchQuery),
		Loading:     latest(u.Loading, next.Loading),
		Error:       latest(u.Error, next.Error),
		CompareMode: latest(u.CompareMode, next.CompareMode),
		CurrentView: latest(u.CurrentView, next.CurrentView),
		Modal: ModalUpdate{
			Open:    latest(u.Modal.Open, next.Modal.Open),
			Type:    latest(u.Modal.Type, next.Modal.Type),
			ToolIDs: latest(u.Modal.ToolIDs, next.Modal.ToolIDs),
		},
		Statistics: latest(u.Statistics, next.Statistics),
	}
}

// Fields lists the names of the fields present in u.
func (u Update) Fields() []string {
	var fields []string
	add := func(name string, ok bool) {
		if ok {
			fields = append(fields, name)
		}
	}
	add("tools", u.Tools.ok)
	add("filteredTools", u.FilteredTools.ok)
	add("selectedTools", u.SelectedTools.ok)
	add("filters.type", u.Filters.Type.ok)
	add("filters.price", u.Filters.Price.ok)
	add("filters.category", u.Filters.Category.ok)
	add("sort", u.Sort.ok)
	add("searchQuery", u.SearchQuery.ok)
	add("loading", u.Loading.ok)
	add("error", u.Error.ok)
	add("compareMode", u.CompareMode.ok)
	add("currentView", u.CurrentView.ok)
	add("modal.open", u.Modal.Open.ok)
	add("modal.type", u.Modal.Type.ok)
	add("modal.toolIds", u.Modal.ToolIDs.ok)
	add("statistics", u.Statistics.ok)
	return fields
}

// IsEmpty reports whether no field is set.
func (u Update) IsEmpty() bool {
	return len(u.Fields()) == 0
}

// clone deep-copies the collection payloads so a recorded update cannot alias
// caller memory.
func (u Update) clone() Update {
	dup := u
	if v, ok := u.Tools.Get(); ok {
		dup.Tools = Set(catalog.CloneTools(v))
	}
	if v, ok := u.FilteredTools.Get(); ok {
		dup.FilteredTools = Set(catalog.CloneTools(v))
	}
	if v, ok := u.SelectedTools.Get(); ok {
		dup.SelectedTools = Set(cloneSet(v))
	}
	if v, ok := u.Modal.ToolIDs.Get(); ok {
		dup.Modal.ToolIDs = Set(cloneIDs(v))
	}
	if v, ok := u.Statistics.Get(); ok {
		dup.Statistics = Set(v.Clone())
	}
	if v, ok := u.Error.Get(); ok && v != nil {
		errInfo := *v
		dup.Error = Set(&errInfo)
	}
	return dup
}

// apply merges u into s. Incoming collections are copied so the caller keeps
// no alias into the state tree.
func (s *State) apply(u Update) {
	u = u.clone()

	s.Tools = u.Tools.or(s.Tools)
	s.FilteredTools = u.FilteredTools.or(s.FilteredTools)
	s.SelectedTools = u.SelectedTools.or(s.SelectedTools)
	s.Filters.Type = u.Filters.Type.or(s.Filters.Type)
	s.Filters.Price = u.Filters.Price.or(s.Filters.Price)
	s.Filters.Category = u.Filters.Category.or(s.Filters.Category)
	s.Sort = u.Sort.or(s.Sort)
	s.SearchQuery = u.SearchQuery.or(s.SearchQuery)
	s.Loading = u.Loading.or(s.Loading)
	s.Error = u.Error.or(s.Error)
	s.CompareMode = u.CompareMode.or(s.CompareMode)
	s.CurrentView = u.CurrentView.or(s.CurrentView)
	s.Modal.Open = u.Modal.Open.or(s.Modal.Open)
	s.Modal.Type = u.Modal.Type.or(s.Modal.Type)
	s.Modal.ToolIDs = u.Modal.ToolIDs.or(s.Modal.ToolIDs)
	s.Statistics = u.Statistics.or(s.Statistics)

	if s.Tools == nil {
		s.Tools = []catalog.Tool{}
	}
	if s.FilteredTools == nil {
		s.FilteredTools = []catalog.Tool{}
	}
	if s.SelectedTools == nil {
		s.SelectedTools = mapset.NewThreadUnsafeSet[string]()
	}
	if u.Tools.ok || u.FilteredTools.ok || u.SelectedTools.ok {
		s.restrictToCatalog()
	}
}

// restrictToCatalog keeps FilteredTools and SelectedTools within the ids of Tools.
func (s *State) restrictToCatalog() {
	known := mapset.NewThreadUnsafeSet(catalog.IDs(s.Tools)...)

	filtered := s.FilteredTools[:0:0]
	for _, tool := range s.FilteredTools {
		if known.Contains(tool.ID) {
			filtered = append(filtered, tool)
		}
	}
	s.FilteredTools = filtered

	for _, id := range s.SelectedTools.ToSlice() {
		if !known.Contains(id) {
			s.SelectedTools.Remove(id)
		}
	}
}
