package legacydef

import (
	"io"
	"sort"
)

// Handler is the flat legacy-definition table: a two-level map keyed by
// id then subid, plus a separate table for town-kind entries. Load is
// all-or-nothing; the maps stay empty when the source is unreadable.
type Handler struct {
	gobjs   map[int32]map[int32]*DefInfo
	castles map[int32]*DefInfo
}

// NewHandler creates an empty legacy-definition table
func NewHandler() *Handler {
	return &Handler{
		gobjs:   make(map[int32]map[int32]*DefInfo),
		castles: make(map[int32]*DefInfo),
	}
}

// Load parses the legacy table from r and populates both maps. On any
// failure the handler is left untouched and the error is surfaced to the
// caller.
func (h *Handler) Load(r io.Reader) error {
	entries, err := ParseEntries(r)
	if err != nil {
		return err
	}

	gobjs := make(map[int32]map[int32]*DefInfo)
	castles := make(map[int32]*DefInfo)
	for _, entry := range entries {
		byID, ok := gobjs[entry.ID]
		if !ok {
			byID = make(map[int32]*DefInfo)
			gobjs[entry.ID] = byID
		}
		byID[entry.SubID] = entry

		if entry.Kind == KindTown {
			castles[entry.SubID] = entry
		}
	}

	h.gobjs = gobjs
	h.castles = castles
	return nil
}

// Get returns the definition registered under (id, subid)
func (h *Handler) Get(id, subid int32) (*DefInfo, bool) {
	byID, ok := h.gobjs[id]
	if !ok {
		return nil, false
	}
	d, ok := byID[subid]
	return d, ok
}

// Castle returns the town-kind definition for the given faction subid
func (h *Handler) Castle(subid int32) (*DefInfo, bool) {
	d, ok := h.castles[subid]
	return d, ok
}

// All returns every definition ordered by (id, subid)
func (h *Handler) All() []*DefInfo {
	var out []*DefInfo
	for _, byID := range h.gobjs {
		for _, d := range byID {
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Less(out[j]) })
	return out
}

// Len returns the number of loaded definitions
func (h *Handler) Len() int {
	n := 0
	for _, byID := range h.gobjs {
		n += len(byID)
	}
	return n
}
