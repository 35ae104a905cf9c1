package emv

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidList is returned when a list fails its front/back pairing
	// invariant. Mutating operations refuse to touch such a list.
	ErrInvalidList = errors.New("emv: candidate list front/back out of sync")

	// ErrNilCandidate is returned when a nil candidate is handed to a
	// list operation.
	ErrNilCandidate = errors.New("emv: nil candidate")

	// ErrBadPosition is returned by insertAfter for a position record
	// that is not actually linked into the list.
	ErrBadPosition = errors.New("emv: insert position is not a list member")
)

// CandidateList is a singly linked list of candidates in discovery order.
// The zero value is an empty list ready to use. The list owns its
// members: a linked candidate cannot be released until it is popped or
// removed.
type CandidateList struct {
	front *Candidate
	back  *Candidate
}

// valid checks the front/back pairing invariant: both set or both empty.
func (l *CandidateList) valid() bool {
	return l != nil && (l.front == nil) == (l.back == nil)
}

// IsEmpty reports whether the list has no members. A corrupt list is
// reported as empty rather than inspected further.
func (l *CandidateList) IsEmpty() bool {
	return !l.valid() || l.front == nil
}

// Len walks the list and returns the number of members.
func (l *CandidateList) Len() int {
	if !l.valid() {
		return 0
	}
	n := 0
	for c := l.front; c != nil; c = c.next {
		n++
	}
	return n
}

// Push appends the candidate to the back of the list.
func (l *CandidateList) Push(c *Candidate) error {
	if !l.valid() {
		return ErrInvalidList
	}
	if c == nil {
		return ErrNilCandidate
	}

	c.next = nil
	c.linked = true
	if l.back == nil {
		l.front, l.back = c, c
		return nil
	}
	l.back.next = c
	l.back = c
	return nil
}

// Pop unlinks and returns the front candidate, or nil when the list is
// empty. Ownership transfers to the caller: the returned candidate may be
// released or pushed onto another list.
func (l *CandidateList) Pop() *Candidate {
	if !l.valid() || l.front == nil {
		return nil
	}

	c := l.front
	l.front = c.next
	if l.front == nil {
		l.back = nil
	}
	c.next = nil
	c.linked = false
	return c
}

// RemoveAt unlinks and returns the candidate at the zero-based position,
// or nil when the position is out of range.
func (l *CandidateList) RemoveAt(pos int) *Candidate {
	if !l.valid() || pos < 0 {
		return nil
	}
	if pos == 0 {
		return l.Pop()
	}

	prev := l.front
	for i := 1; prev != nil && i < pos; i++ {
		prev = prev.next
	}
	if prev == nil || prev.next == nil {
		return nil
	}

	c := prev.next
	prev.next = c.next
	if l.back == c {
		l.back = prev
	}
	c.next = nil
	c.linked = false
	return c
}

// Clear pops and releases every member. A popped member that still
// reports itself linked means the unlink logic is broken; there is no
// sane way to continue from that.
func (l *CandidateList) Clear() {
	if !l.valid() {
		return
	}
	for {
		c := l.Pop()
		if c == nil {
			return
		}
		if err := c.Release(); err != nil {
			panic(fmt.Sprintf("emv: popped candidate not releasable: %v", err))
		}
	}
}

// pushFront prepends the candidate. Only the priority sort uses it.
func (l *CandidateList) pushFront(c *Candidate) {
	c.next = l.front
	l.front = c
	if l.back == nil {
		l.back = c
	}
	c.linked = true
}

// insertAfter links c directly behind pos, which must be a member of this
// list. A position with no successor that is not the back signals
// corruption and is rejected.
func (l *CandidateList) insertAfter(pos, c *Candidate) error {
	if pos == nil || c == nil {
		return ErrNilCandidate
	}
	if pos.next == nil && pos != l.back {
		return ErrBadPosition
	}

	c.next = pos.next
	pos.next = c
	if pos == l.back {
		l.back = c
	}
	c.linked = true
	return nil
}

// SortByPriority reorders the list by the Application Priority Indicator:
// candidates with a priority first, ascending (1 outranks 15), candidates
// without one after them, and both groups keep their discovery order.
// Book 1 does not say where unranked applications go relative to ranked
// ones; placing them last is this package's policy.
//
// Candidate lists are small, so a simple insertion sort is used. On
// failure the list is left partially drained and must be discarded.
func (l *CandidateList) SortByPriority() error {
	if !l.valid() {
		return ErrInvalidList
	}

	var sorted CandidateList
	for {
		c := l.Pop()
		if c == nil {
			break
		}

		// Walk to the last sorted candidate that keeps precedence over c.
		var after *Candidate
		for cur := sorted.front; cur != nil; cur = cur.next {
			if c.priority != 0 && (cur.priority == 0 || c.priority < cur.priority) {
				break
			}
			after = cur
		}

		if after == nil {
			sorted.pushFront(c)
			continue
		}
		if err := sorted.insertAfter(after, c); err != nil {
			sorted.Clear()
			return err
		}
	}

	*l = sorted
	return nil
}

// SelectionRequired reports whether cardholder confirmation is mandatory
// for this candidate list: it is when any candidate demands confirmation,
// or when there is more than one candidate. Evaluate it against the
// initial list, before any filtering, and remember the result: removing
// candidates later does not waive a requirement already established.
func (l *CandidateList) SelectionRequired() bool {
	if !l.valid() {
		return false
	}
	n := 0
	for c := l.front; c != nil; c = c.next {
		if c.confirm {
			return true
		}
		n++
	}
	return n > 1
}

// FilterSupported removes and releases every candidate that matches no
// entry of the terminal's supported-AID table, and reports how many were
// dropped.
func (l *CandidateList) FilterSupported(supported []SupportedApplication) int {
	if !l.valid() {
		return 0
	}

	dropped := 0
	var kept CandidateList
	for {
		c := l.Pop()
		if c == nil {
			break
		}
		if c.IsSupported(supported) {
			_ = kept.Push(c)
			continue
		}
		_ = c.Release()
		dropped++
	}
	*l = kept
	return dropped
}
