package ledger

import "container/heap"

// numberPool hands out the smallest positive booking number not in use.
// Released numbers sit in a min-heap; entries are removed lazily, so a
// popped number that was claimed in the meantime is skipped.  Numbers at
// or above next that were claimed directly are only recorded in inUse and
// skipped when next reaches them.
type numberPool struct {
	inUse map[int]struct{}
	free  minHeap
	next  int
}

func newNumberPool() *numberPool {
	return &numberPool{inUse: make(map[int]struct{}), next: 1}
}

func (p *numberPool) take() int {
	for p.free.Len() > 0 && p.used(p.free[0]) {
		heap.Pop(&p.free)
	}
	for p.used(p.next) {
		p.next++
	}
	if p.free.Len() > 0 && p.free[0] < p.next {
		n := heap.Pop(&p.free).(int)
		p.inUse[n] = struct{}{}
		return n
	}
	n := p.next
	p.next++
	p.inUse[n] = struct{}{}
	return n
}

// claim marks n in use even if it was never handed out by take.  Numbers
// between next and n stay available.
func (p *numberPool) claim(n int) {
	p.inUse[n] = struct{}{}
}

func (p *numberPool) release(n int) bool {
	if _, ok := p.inUse[n]; !ok {
		return false
	}
	delete(p.inUse, n)
	if n < p.next {
		heap.Push(&p.free, n)
	}
	return true
}

func (p *numberPool) used(n int) bool {
	_, ok := p.inUse[n]
	return ok
}

type minHeap []int

func (h minHeap) Len() int           { return len(h) }
func (h minHeap) Less(i, j int) bool { return h[i] < h[j] }
func (h minHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *minHeap) Push(x any)        { *h = append(*h, x.(int)) }
func (h *minHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}
