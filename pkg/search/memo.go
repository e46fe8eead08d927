package search

import "github.com/matzehuels/ventgraph/pkg/network"

// Key identifies a search state: minutes left, current node and the set of
// nodes already activated.
type Key struct {
	Time int
	Node int // registry position
	Mask network.Mask
}

// Memo maps search states to the best value reachable from them. One Memo
// belongs to one optimization run; entries are never invalidated while the
// run lasts.
//
// Memo is not safe for concurrent use.
type Memo struct {
	entries map[Key]int
	hits    int
	misses  int
}

// MemoStats summarizes memo usage for logging and reports.
type MemoStats struct {
	Entries int `json:"entries"`
	Hits    int `json:"hits"`
	Misses  int `json:"misses"`
}

// NewMemo returns an empty memo.
func NewMemo() *Memo {
	return &Memo{entries: make(map[Key]int)}
}

// Len returns the number of stored states.
func (m *Memo) Len() int { return len(m.entries) }

// Get returns the stored value for k.
func (m *Memo) Get(k Key) (int, bool) {
	v, ok := m.entries[k]
	return v, ok
}

// Stats returns entry and hit counters.
func (m *Memo) Stats() MemoStats {
	return MemoStats{Entries: len(m.entries), Hits: m.hits, Misses: m.misses}
}

func (m *Memo) lookup(k Key) (int, bool) {
	v, ok := m.entries[k]
	if ok {
		m.hits++
	} else {
		m.misses++
	}
	return v, ok
}

func (m *Memo) store(k Key, v int) { m.entries[k] = v }
