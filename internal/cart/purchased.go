package cart

import (
	"sort"
	"sync"
)

// PurchasedSet remembers every item id bought during the session. It only grows.
type PurchasedSet struct {
	mu  sync.RWMutex
	ids map[int]struct{}
}

func NewPurchasedSet() *PurchasedSet {
	return &PurchasedSet{ids: make(map[int]struct{})}
}

func (p *PurchasedSet) Merge(ids ...int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, id := range ids {
		p.ids[id] = struct{}{}
	}
}

func (p *PurchasedSet) Contains(id int) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	_, ok := p.ids[id]
	return ok
}

// IDs returns the purchased ids in ascending order.
func (p *PurchasedSet) IDs() []int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]int, 0, len(p.ids))
	for id := range p.ids {
		out = append(out, id)
	}
	sort.Ints(out)
	return out
}
