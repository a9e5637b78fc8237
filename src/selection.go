package skim

import (
	"sort"

	"github.com/shuntaka9576/skim/src/util"
)

// Selection holds the rank-sorted, user-visible results plus a cursor
// and a multi-select marked set.
type Selection struct {
	items  []MatchedItem
	cursor int
	marked map[ItemID]bool
	multi  bool

	// injected holds items synthesized by ActSelectItem that aren't
	// reproducible from the Matcher's output (they never went through a
	// Reader). ReplaceResults re-merges these on every call so a pending
	// Matcher drain can never silently drop them; once the pool is
	// rescanned and the Matcher's own output carries the same ItemID, that
	// genuinely-scored entry takes precedence over the pinned one.
	injected map[ItemID]MatchedItem
}

// NewSelection returns an empty Selection. multi enables act_select_all /
// toggle-mark semantics; when false, ToggleMark and SelectAll are
// no-ops, but ActSelectItem still marks the items it inserts.
func NewSelection(multi bool) *Selection {
	return &Selection{marked: make(map[ItemID]bool), injected: make(map[ItemID]MatchedItem), multi: multi}
}

// Clear drops everything: results, cursor, marks, and pinned injected
// items. Called by onCmdQueryChange when the command changes; the Clear
// clear_strategy (a match-query change) goes through ReplaceResults
// instead and keeps marks.
func (s *Selection) Clear() {
	s.items = nil
	s.cursor = 0
	s.marked = make(map[ItemID]bool)
	s.injected = make(map[ItemID]MatchedItem)
}

// AppendSortedItems merges newSorted (already Rank-sorted ascending)
// into the existing sorted list in order-preserving fashion ("Matcher
// output appended to a Selection never reorders items already
// present").
func (s *Selection) AppendSortedItems(newSorted []MatchedItem) {
	if len(newSorted) == 0 {
		return
	}
	if len(s.items) == 0 {
		s.items = append(s.items, newSorted...)
		return
	}
	merged := make([]MatchedItem, 0, len(s.items)+len(newSorted))
	i, j := 0, 0
	for i < len(s.items) && j < len(newSorted) {
		if s.items[i].Rank.Less(newSorted[j].Rank) {
			merged = append(merged, s.items[i])
			i++
		} else {
			merged = append(merged, newSorted[j])
			j++
		}
	}
	merged = append(merged, s.items[i:]...)
	merged = append(merged, newSorted[j:]...)
	s.items = merged
}

// ReplaceResults swaps in items (assumed Rank-sorted ascending) as the
// entire visible list, clamping the cursor back into range. Used by the
// heartbeat drain to publish a Matcher's current cumulative result set,
// which already represents "everything matched so far this run" rather
// than an incremental delta. Any still-pinned injected item whose
// ItemID isn't already present in items is re-merged so it can never be
// silently dropped by a Matcher run that doesn't know about it.
func (s *Selection) ReplaceResults(items []MatchedItem) {
	if len(s.injected) > 0 {
		present := make(map[ItemID]bool, len(items))
		for _, mi := range items {
			present[mi.Item.ItemID] = true
		}
		merged := items
		for id, mi := range s.injected {
			if present[id] {
				delete(s.injected, id)
				continue
			}
			merged = append(merged, mi)
		}
		sort.Slice(merged, func(i, j int) bool { return merged[i].Rank.Less(merged[j].Rank) })
		items = merged
	}
	s.items = items
	s.cursor = util.Constrain(s.cursor, 0, util.Max(len(s.items)-1, 0))
}

// ActSelectItem directly inserts a user-synthesized item (the
// "append-and-select" action) into the sorted list via
// AppendSortedItems, marking it selected immediately and pinning it so
// ReplaceResults can't drop it before the Matcher has had a chance to
// rescore it under its own ItemID.
func (s *Selection) ActSelectItem(item *Item) {
	mi := MatchedItem{Item: item, Rank: AcceptAllRank(item.ItemID)}
	s.AppendSortedItems([]MatchedItem{mi})
	s.marked[item.ItemID] = true
	s.injected[item.ItemID] = mi
}

// Len returns the number of currently visible results.
func (s *Selection) Len() int { return len(s.items) }

// GetCurrentItem returns the item under the cursor, or nil if the
// Selection is empty.
func (s *Selection) GetCurrentItem() *Item {
	if s.cursor < 0 || s.cursor >= len(s.items) {
		return nil
	}
	return s.items[s.cursor].Item
}

// GetCurrentItemIdx returns the cursor position.
func (s *Selection) GetCurrentItemIdx() int { return s.cursor }

// IsMultiSelection reports whether this Selection allows more than one
// marked item.
func (s *Selection) IsMultiSelection() bool { return s.multi }

// ToggleMark flips the marked state of item, when multi-select is
// enabled.
func (s *Selection) ToggleMark(item *Item) {
	if !s.multi || item == nil {
		return
	}
	if s.marked[item.ItemID] {
		delete(s.marked, item.ItemID)
	} else {
		s.marked[item.ItemID] = true
	}
}

// SelectAll marks every currently visible item, when multi-select is
// enabled.
func (s *Selection) SelectAll() {
	if !s.multi {
		return
	}
	for _, mi := range s.items {
		s.marked[mi.Item.ItemID] = true
	}
}

// DeselectAll clears the marked set.
func (s *Selection) DeselectAll() {
	s.marked = make(map[ItemID]bool)
}

// GetNumSelected returns how many items are currently marked.
func (s *Selection) GetNumSelected() int { return len(s.marked) }

// GetSelectedItems returns the marked items that are in the visible
// list, in rank order (a marked item the current query filters out is
// not included), falling
// back to the current item alone when nothing is marked (matching fzf's
// "accept with no explicit marks selects the item under the cursor").
func (s *Selection) GetSelectedItems() []*Item {
	if len(s.marked) == 0 {
		if cur := s.GetCurrentItem(); cur != nil {
			return []*Item{cur}
		}
		return nil
	}
	out := make([]*Item, 0, len(s.marked))
	for _, mi := range s.items {
		if s.marked[mi.Item.ItemID] {
			out = append(out, mi.Item)
		}
	}
	return out
}

// MoveCursor shifts the cursor by delta, clamped to the visible range.
func (s *Selection) MoveCursor(delta int) {
	if len(s.items) == 0 {
		s.cursor = 0
		return
	}
	s.cursor = util.Constrain(s.cursor+delta, 0, len(s.items)-1)
}

// PageMove shifts the cursor by a full page (pageSize items).
func (s *Selection) PageMove(pageSize int, down bool) {
	if down {
		s.MoveCursor(pageSize)
	} else {
		s.MoveCursor(-pageSize)
	}
}
