package document

import "sync"

// keyedLocks hands out a per-key mutex, serialising concurrent writers to
// the same document id while letting writes to different documents
// proceed in parallel.
type keyedLocks struct {
	m sync.Map // id -> *sync.Mutex
}

func (k *keyedLocks) lock(id string) func() {
	v, _ := k.m.LoadOrStore(id, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}
