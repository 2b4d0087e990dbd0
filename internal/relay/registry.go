package relay

// registry - ordered set of joined peers.
// It is owned by the event loop goroutine, so there is no locking inside.
type registry struct {
	order []Peer
	index map[Peer]int
}

func newRegistry() *registry {
	return &registry{
		index: make(map[Peer]int),
	}
}

func (r *registry) len() int {
	return len(r.order)
}

func (r *registry) has(p Peer) bool {
	_, ok := r.index[p]
	return ok
}

// add - appends peer, returns false if peer is registered already.
func (r *registry) add(p Peer) bool {
	if _, ok := r.index[p]; ok {
		return false
	}
	r.index[p] = len(r.order)
	r.order = append(r.order, p)
	return true
}

// delete - removes peer keeping join order of the rest, returns false if peer is unknown.
func (r *registry) delete(p Peer) bool {
	i, ok := r.index[p]
	if !ok {
		return false
	}
	delete(r.index, p)
	copy(r.order[i:], r.order[i+1:])
	r.order[len(r.order)-1] = nil
	r.order = r.order[:len(r.order)-1]
	for j := i; j < len(r.order); j++ {
		r.index[r.order[j]] = j
	}
	return true
}

// scan - calls f for every peer in join order.
// The f must not modify registry.
func (r *registry) scan(f func(Peer)) {
	for _, p := range r.order {
		f(p)
	}
}
