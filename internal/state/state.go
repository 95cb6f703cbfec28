package state

import (
	"slices"
	"time"

	mapset "github.com/deckarep/golang-set/v2"

	"github.com/five82/toolcat/internal/catalog"
)

// FilterAll is the sentinel filter value meaning "no constraint".
const FilterAll = "all"

// View is the catalog display mode.
type View string

const (
	ViewGrid    View = "grid"
	ViewList    View = "list"
	ViewCompare View = "compare"
)

// ModalType identifies what an open modal shows.
type ModalType string

const (
	ModalNone    ModalType = ""
	ModalDetails ModalType = "details"
	ModalCompare ModalType = "compare"
)

// Filters holds the exact-match catalog filters.
type Filters struct {
	Type     string
	Price    string
	Category string
}

// DefaultFilters returns filters with every field set to FilterAll.
func DefaultFilters() Filters {
	return Filters{Type: FilterAll, Price: FilterAll, Category: FilterAll}
}

// Modal describes the modal overlay. ToolIDs is the payload.
type Modal struct {
	Open    bool
	Type    ModalType
	ToolIDs []string
}

// ErrorInfo is the structured error recorded when loading fails.
type ErrorInfo struct {
	Message   string
	Details   string
	Timestamp time.Time
}

// State is the application state tree.
type State struct {
	Tools         []catalog.Tool
	FilteredTools []catalog.Tool
	SelectedTools mapset.Set[string]
	Filters       Filters
	Sort          catalog.SortKey
	SearchQuery   string
	Loading       bool
	Error         *ErrorInfo
	CompareMode   bool
	CurrentView   View
	Modal         Modal
	Statistics    catalog.Statistics
}

// InitialState returns the default, fully populated state.
func InitialState() State {
	return State{
		Tools:         []catalog.Tool{},
		FilteredTools: []catalog.Tool{},
		SelectedTools: mapset.NewThreadUnsafeSet[string](),
		Filters:       DefaultFilters(),
		Sort:          catalog.SortPopularity,
		Loading:       true,
		CurrentView:   ViewGrid,
		Modal:         Modal{ToolIDs: []string{}},
		Statistics:    catalog.EmptyStatistics(),
	}
}

// Clone returns a deep copy that shares no memory with s.
func (s State) Clone() State {
	dup := s
	dup.Tools = catalog.CloneTools(s.Tools)
	dup.FilteredTools = catalog.CloneTools(s.FilteredTools)
	dup.SelectedTools = cloneSet(s.SelectedTools)
	dup.Modal.ToolIDs = cloneIDs(s.Modal.ToolIDs)
	dup.Statistics = s.Statistics.Clone()
	if s.Error != nil {
		errInfo := *s.Error
		dup.Error = &errInfo
	}
	return dup
}

// IsSelected reports whether id is part of the comparison selection.
func (s State) IsSelected(id string) bool {
	return s.SelectedTools != nil && s.SelectedTools.Contains(id)
}

// SelectedIDs returns the selection in catalog order.
func (s State) SelectedIDs() []string {
	ids := make([]string, 0)
	if s.SelectedTools == nil {
		return ids
	}
	for _, tool := range s.Tools {
		if s.SelectedTools.Contains(tool.ID) {
			ids = append(ids, tool.ID)
		}
	}
	return ids
}

func cloneSet(set mapset.Set[string]) mapset.Set[string] {
	if set == nil {
		return mapset.NewThreadUnsafeSet[string]()
	}
	dup := mapset.NewThreadUnsafeSet[string]()
	set.Each(func(id string) bool {
		dup.Add(id)
		return false
	})
	return dup
}

func cloneIDs(ids []string) []string {
	if ids == nil {
		return []string{}
	}
	return slices.Clone(ids)
}
