package toolservice

import (
	mapset "github.com/deckarep/golang-set/v2"

	"github.com/five82/toolcat/internal/catalog"
	"github.com/five82/toolcat/internal/state"
)

// ApplyView filters and sorts the catalog and commits the criteria together
// with the result in a single store notification.
func (s *Service) ApplyView(filters Filters, key catalog.SortKey) []catalog.Tool {
	result := s.SortTools(s.FilterTools(filters), key)

	s.store.Batch(func(set func(state.Update)) {
		set(state.Update{Filters: state.FiltersUpdate{
			Type:     state.Set(orAll(filters.Type)),
			Price:    state.Set(orAll(filters.Price)),
			Category: state.Set(orAll(filters.Category)),
		}})
		set(state.Update{
			SearchQuery: state.Set(filters.Search),
			Sort:        state.Set(key),
		})
		set(state.Update{FilteredTools: state.Set(result)})
	}, "view/apply")

	return result
}

// RefreshView re-applies the criteria already recorded in the store, for
// example after the catalog was reloaded.
func (s *Service) RefreshView() []catalog.Tool {
	current := s.store.GetState()
	return s.ApplyView(Filters{
		Search:   current.SearchQuery,
		Type:     current.Filters.Type,
		Price:    current.Filters.Price,
		Category: current.Filters.Category,
	}, current.Sort)
}

func orAll(value string) string {
	if value == "" {
		return state.FilterAll
	}
	return value
}

// ToggleSelection adds id to or removes it from the comparison selection and
// reports whether it is now selected. Unknown ids are ignored.
func (s *Service) ToggleSelection(id string) bool {
	current := s.store.GetState()
	if _, ok := catalog.Find(current.Tools, id); !ok {
		return false
	}
	selected := current.SelectedTools
	now := !selected.Contains(id)
	if now {
		selected.Add(id)
	} else {
		selected.Remove(id)
	}
	s.store.SetState(state.Update{SelectedTools: state.Set(selected)}, "selection/toggle")
	return now
}

// ClearSelection empties the comparison selection.
func (s *Service) ClearSelection() {
	s.store.SetState(state.Update{
		SelectedTools: state.Set(mapset.NewThreadUnsafeSet[string]()),
	}, "selection/clear")
}

// SetCompareMode switches comparison mode and the matching view.
func (s *Service) SetCompareMode(on bool) {
	view := state.ViewGrid
	if on {
		view = state.ViewCompare
	}
	s.store.SetState(state.Update{
		CompareMode: state.Set(on),
		CurrentView: state.Set(view),
	}, "view/compare")
}

// OpenDetails opens the details modal for id and reports whether the tool
// exists.
func (s *Service) OpenDetails(id string) bool {
	if _, ok := catalog.Find(s.store.GetState().Tools, id); !ok {
		return false
	}
	s.store.SetState(state.Update{Modal: state.ModalUpdate{
		Open:    state.Set(true),
		Type:    state.Set(state.ModalDetails),
		ToolIDs: state.Set([]string{id}),
	}}, "modal/details")
	return true
}

// OpenCompare opens the compare modal over the current selection. It does
// nothing while fewer than two tools are selected.
func (s *Service) OpenCompare() bool {
	ids := s.store.GetState().SelectedIDs()
	if len(ids) < 2 {
		return false
	}
	s.store.SetState(state.Update{Modal: state.ModalUpdate{
		Open:    state.Set(true),
		Type:    state.Set(state.ModalCompare),
		ToolIDs: state.Set(ids),
	}}, "modal/compare")
	return true
}

// CloseModal closes any open modal.
func (s *Service) CloseModal() {
	s.store.SetState(state.Update{Modal: state.ModalUpdate{
		Open:    state.Set(false),
		Type:    state.Set(state.ModalNone),
		ToolIDs: state.Set([]string{}),
	}}, "modal/close")
}

// SetView switches between grid and list. Compare mode is left through
// SetCompareMode.
func (s *Service) SetView(view state.View) {
	if view != state.ViewGrid && view != state.ViewList {
		return
	}
	s.store.SetState(state.Update{
		CurrentView: state.Set(view),
		CompareMode: state.Set(false),
	}, "view/set")
}
