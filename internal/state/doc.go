// Package state holds the single application state tree for toolcat.
//
// # Overview
//
// The Store is the source of truth the UI renders from. The tool service
// writes loaded and derived catalog data into it; components read snapshots
// and subscribe to changes.
//
//	ToolService ──SetState/Batch──> Store ──Change──> listeners (UI, shell)
//	                                  │
//	                                  └──GetState()──> deep copy
//
// # Updates
//
// State changes are expressed as a typed Update. Every field is an optional
// Value; unset fields keep their current value. Merge rules are fixed per
// field type:
//
//   - scalars (Sort, SearchQuery, Loading, Error, CompareMode, CurrentView) replace
//   - records (Filters, Modal) merge field by field
//   - collections (Tools, FilteredTools, SelectedTools, Modal.ToolIDs, Statistics)
//     are replaced wholesale, never merged by index
//
// Replacing Tools prunes FilteredTools and SelectedTools to ids still in the
// catalog.
//
// # Notification
//
// SetState notifies every listener synchronously, in registration order, with
// the new state, the update, the previous state and an action label. A
// listener that panics is logged and skipped; the rest still run.
//
// Updates issued from inside a listener are queued and processed after the
// current notification cycle, so listeners never observe interleaved cycles.
//
// Batch produces exactly one notification carrying the combined update. Its
// partial updates apply immediately, except when the batch is issued from a
// listener: then they are buffered and the combined update is queued like a
// SetState.
//
// # Copies
//
// GetState and every Change carry deep copies. Mutating them never affects
// the store.
//
// # History
//
// With Options.Debug set the store keeps the last 50 changes (prev, update,
// next) in a ring buffer for inspection.
package state
