package state

import "time"

// HistoryEntry records one committed change for debugging.
type HistoryEntry struct {
	Time   time.Time
	Action string
	Prev   State
	Update Update
	Next   State
}

// history is a fixed-capacity ring buffer; the oldest entry is dropped first.
type history struct {
	buf   []HistoryEntry
	start int
	size  int
}

func newHistory(limit int) *history {
	return &history{buf: make([]HistoryEntry, limit)}
}

func (h *history) add(entry HistoryEntry) {
	if len(h.buf) == 0 {
		return
	}
	idx := (h.start + h.size) % len(h.buf)
	h.buf[idx] = entry
	if h.size < len(h.buf) {
		h.size++
		return
	}
	h.start = (h.start + 1) % len(h.buf)
}

func (h *history) entries() []HistoryEntry {
	out := make([]HistoryEntry, 0, h.size)
	for i := 0; i < h.size; i++ {
		out = append(out, h.buf[(h.start+i)%len(h.buf)])
	}
	return out
}

func (h *history) clear() {
	clear(h.buf)
	h.start = 0
	h.size = 0
}
