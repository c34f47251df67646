package persistence

import (
	"sync"

	"github.com/google/uuid"

	"github.com/crowdfox/oci-srm-server-mock/internal/domain/punchout"
)

// MemoryProcessRegistry is the in-memory implementation of
// punchout.ProcessRegistry. A single mutex serializes all access; every
// value handed out is a deep copy so callers can never reach the stored
// state directly. Nothing is persisted across restarts and nothing is ever
// evicted.
type MemoryProcessRegistry struct {
	mu        sync.Mutex
	processes map[string]*punchout.Process
}

// NewMemoryProcessRegistry creates an empty registry.
func NewMemoryProcessRegistry() *MemoryProcessRegistry {
	return &MemoryProcessRegistry{
		processes: make(map[string]*punchout.Process),
	}
}

// Create inserts a new empty process under a fresh uuid and returns a copy.
func (r *MemoryProcessRegistry) Create() *punchout.Process {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := uuid.NewString()
	for {
		if _, exists := r.processes[id]; !exists {
			break
		}
		id = uuid.NewString()
	}

	process := &punchout.Process{ID: id}
	r.processes[id] = process
	return process.Clone()
}

// Get returns a copy of the process, or a NOT_FOUND domain error.
func (r *MemoryProcessRegistry) Get(id string) (*punchout.Process, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	process, ok := r.processes[id]
	if !ok {
		return nil, punchout.NewProcessNotFoundError(id)
	}
	return process.Clone(), nil
}

// Update applies mutate to the stored process while holding the registry
// lock, so no two mutations of the same process interleave.
func (r *MemoryProcessRegistry) Update(id string, mutate func(*punchout.Process)) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	process, ok := r.processes[id]
	if !ok {
		return punchout.NewProcessNotFoundError(id)
	}
	mutate(process)
	// The id is immutable; a careless mutation must not rekey the map.
	process.ID = id
	return nil
}

// Snapshot returns copies of all processes keyed by id.
func (r *MemoryProcessRegistry) Snapshot() map[string]*punchout.Process {
	r.mu.Lock()
	defer r.mu.Unlock()

	snapshot := make(map[string]*punchout.Process, len(r.processes))
	for id, process := range r.processes {
		snapshot[id] = process.Clone()
	}
	return snapshot
}

// Len returns the number of registered processes.
func (r *MemoryProcessRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.processes)
}
