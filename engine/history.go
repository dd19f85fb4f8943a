package engine

import "github.com/google/uuid"

// historyNode is one entry in the bounded doubly linked snapshot sequence
// described in spec.md §4.7 and §9 ("History as doubly linked snapshots").
type historyNode struct {
	state      *State
	id         uuid.UUID
	prev, next *historyNode
}

// History is a bounded doubly linked sequence of State snapshots with a
// moving cursor. The node the cursor points at is always the engine's live,
// in-place-mutated state — Snapshot does not copy-on-write the live state,
// it freezes the current node by appending a fresh copy and advancing the
// cursor onto it, exactly mirroring original_source/stateList.cpp's
// push_copy/stepBack/stepForward.
type History struct {
	head, current *historyNode
	maxSize        int
	size           int
}

// newHistory creates a History whose only entry is initial (which becomes
// both head and current).
func newHistory(maxSize int, initial *State) *History {
	n := &historyNode{state: initial, id: uuid.New()}
	return &History{head: n, current: n, maxSize: maxSize, size: 1}
}

// Current returns the live state — the node the cursor currently points at.
func (h *History) Current() *State { return h.current.state }

// Snapshot deep-copies the live state into a new node, discards any forward
// (redo) history hanging off the current node, advances the cursor onto the
// new node, and evicts from the front if the bound is exceeded. Returns the
// new node's id for caller-side correlation (SPEC_FULL.md §4.7).
func (h *History) Snapshot() uuid.UUID {
	for n := h.current.next; n != nil; {
		next := n.next
		n.prev, n.next = nil, nil
		h.size--
		n = next
	}
	h.current.next = nil

	node := &historyNode{state: h.current.state.deepCopy(), prev: h.current}
	node.id = uuid.New()
	h.current.next = node
	h.current = node
	h.size++

	for h.size > h.maxSize {
		h.head = h.head.next
		h.head.prev = nil
		h.size--
	}
	return node.id
}

// Undo moves the cursor to the previous snapshot, if any. Returns false and
// leaves the cursor unchanged if already at the oldest retained snapshot.
func (h *History) Undo() bool {
	if h.current.prev == nil {
		return false
	}
	h.current = h.current.prev
	return true
}

// Redo moves the cursor to the next snapshot, if any. Returns false and
// leaves the cursor unchanged if already at the newest snapshot.
func (h *History) Redo() bool {
	if h.current.next == nil {
		return false
	}
	h.current = h.current.next
	return true
}
