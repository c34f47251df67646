package persistence

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crowdfox/oci-srm-server-mock/internal/domain/punchout"
	"github.com/crowdfox/oci-srm-server-mock/internal/domain/shared"
)

func TestMemoryProcessRegistry_CreateAssignsUniqueIDs(t *testing.T) {
	registry := NewMemoryProcessRegistry()

	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		process := registry.Create()
		require.NotEmpty(t, process.ID)
		assert.False(t, seen[process.ID], "id %s issued twice", process.ID)
		seen[process.ID] = true
	}
	assert.Equal(t, 100, registry.Len())
}

func TestMemoryProcessRegistry_GetUnknownID(t *testing.T) {
	registry := NewMemoryProcessRegistry()

	_, err := registry.Get("no-such-process")
	require.Error(t, err)

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, shared.ErrNotFound.Code, domainErr.Code)
	assert.Contains(t, domainErr.Message, "no-such-process")
}

func TestMemoryProcessRegistry_UpdateUnknownIDLeavesRegistryUnchanged(t *testing.T) {
	registry := NewMemoryProcessRegistry()
	existing := registry.Create()

	err := registry.Update("no-such-process", func(p *punchout.Process) {
		p.OrderRequestDocument = "should never happen"
	})
	require.Error(t, err)

	assert.Equal(t, 1, registry.Len())
	got, err := registry.Get(existing.ID)
	require.NoError(t, err)
	assert.Empty(t, got.OrderRequestDocument)
}

func TestMemoryProcessRegistry_UpdateMutatesStoredProcess(t *testing.T) {
	registry := NewMemoryProcessRegistry()
	process := registry.Create()

	err := registry.Update(process.ID, func(p *punchout.Process) {
		p.CallUpPayload = map[string]any{"NEW_ITEM-PRICE[1]": "1.00"}
	})
	require.NoError(t, err)

	got, err := registry.Get(process.ID)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"NEW_ITEM-PRICE[1]": "1.00"}, got.CallUpPayload)
}

// Handed-out copies must be isolated from the stored state in both
// directions.
func TestMemoryProcessRegistry_CopiesAreIsolated(t *testing.T) {
	registry := NewMemoryProcessRegistry()
	process := registry.Create()

	require.NoError(t, registry.Update(process.ID, func(p *punchout.Process) {
		p.CallUpPayload = map[string]any{"key": "original"}
	}))

	got, err := registry.Get(process.ID)
	require.NoError(t, err)
	got.CallUpPayload["key"] = "tampered"
	got.OrderRequestDocument = "tampered"

	fresh, err := registry.Get(process.ID)
	require.NoError(t, err)
	assert.Equal(t, "original", fresh.CallUpPayload["key"])
	assert.Empty(t, fresh.OrderRequestDocument)

	snapshot := registry.Snapshot()
	snapshot[process.ID].CallUpPayload["key"] = "tampered again"
	fresh, err = registry.Get(process.ID)
	require.NoError(t, err)
	assert.Equal(t, "original", fresh.CallUpPayload["key"])
}

func TestMemoryProcessRegistry_UpdateCannotRekey(t *testing.T) {
	registry := NewMemoryProcessRegistry()
	process := registry.Create()

	require.NoError(t, registry.Update(process.ID, func(p *punchout.Process) {
		p.ID = "hijacked"
	}))

	got, err := registry.Get(process.ID)
	require.NoError(t, err)
	assert.Equal(t, process.ID, got.ID)
}

func TestMemoryProcessRegistry_ConcurrentAccess(t *testing.T) {
	registry := NewMemoryProcessRegistry()
	process := registry.Create()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			registry.Create()
		}()
		go func() {
			defer wg.Done()
			_ = registry.Update(process.ID, func(p *punchout.Process) {
				p.CallUpPayload = map[string]any{"k": "v"}
			})
		}()
	}
	wg.Wait()

	assert.Equal(t, 51, registry.Len())
}
