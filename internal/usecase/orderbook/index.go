package orderbook

import (
	"container/heap"

	orderbookv1 "github.com/BryanOwens012/order-book/internal/domain/orderbook/v1"
)

// indexEntry is one (key, level) pair of a best-price index.
// key is Sign(direction) * price so the best price always has the smallest key.
type indexEntry struct {
	key   float64
	seq   uint64 // insertion sequence, breaks ties between equal keys
	level *orderbookv1.PriceLevel
}

// entryHeap implements heap.Interface as a min-heap on key.
// Use container/heap to manipulate it (Init, Push, Pop).
type entryHeap []indexEntry

func (h entryHeap) Len() int { return len(h) }
func (h entryHeap) Less(i, j int) bool {
	if h[i].key != h[j].key {
		return h[i].key < h[j].key
	}
	return h[i].seq < h[j].seq
}
func (h entryHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *entryHeap) Push(x interface{}) {
	*h = append(*h, x.(indexEntry))
}

func (h *entryHeap) Pop() interface{} {
	old := *h
	n := len(old)
	x := old[n-1]
	old[n-1] = indexEntry{}
	*h = old[0 : n-1]
	return x
}

// priceIndex is the best-price view of one side of the book. It may reference
// levels that were emptied or replaced since they were pushed; callers
// validate every popped entry against the authoritative level map.
type priceIndex struct {
	entries entryHeap
	seq     uint64
}

func newPriceIndex() *priceIndex {
	return &priceIndex{entries: make(entryHeap, 0)}
}

func priorityKey(direction orderbookv1.Direction, price float64) float64 {
	return direction.Sign() * price
}

func (x *priceIndex) Len() int {
	return x.entries.Len()
}

func (x *priceIndex) push(key float64, level *orderbookv1.PriceLevel) {
	x.seq++
	heap.Push(&x.entries, indexEntry{key: key, seq: x.seq, level: level})
}

// restore puts back a previously popped entry, keeping its sequence.
func (x *priceIndex) restore(entry indexEntry) {
	heap.Push(&x.entries, entry)
}

func (x *priceIndex) pop() (indexEntry, bool) {
	if x.entries.Len() == 0 {
		return indexEntry{}, false
	}
	return heap.Pop(&x.entries).(indexEntry), true
}

func (x *priceIndex) peek() (indexEntry, bool) {
	if x.entries.Len() == 0 {
		return indexEntry{}, false
	}
	return x.entries[0], true
}

// sorted returns every entry best first without touching the index.
func (x *priceIndex) sorted() []indexEntry {
	cp := make(entryHeap, len(x.entries))
	copy(cp, x.entries)

	out := make([]indexEntry, 0, len(cp))
	for cp.Len() > 0 {
		out = append(out, heap.Pop(&cp).(indexEntry))
	}
	return out
}
