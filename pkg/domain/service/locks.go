package service

import (
	"sync"

	"github.com/google/uuid"
)

// keyedMutex serializes read-modify-write cycles on one aggregate while
// leaving other aggregates free to proceed.
type keyedMutex struct {
	locks sync.Map
}

// Lock blocks until the aggregate is free and returns its unlock func.
func (k *keyedMutex) Lock(id uuid.UUID) func() {
	value, _ := k.locks.LoadOrStore(id, &sync.Mutex{})
	mu := value.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}
