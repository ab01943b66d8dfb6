package registrations

import (
	"fmt"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aura-events/backend/internal/models"
)

func slot(title string, capacity int, active bool) models.RegisterSlot {
	return models.RegisterSlot{ID: uuid.New(), Title: title, AvailableSlots: capacity, IsActive: active}
}

func TestPickSlotFirstFit(t *testing.T) {
	a := slot("Group A", 2, true)
	b := slot("Group B", 2, true)

	chosen, ok := PickSlot([]SlotState{{Slot: a, Active: 1}, {Slot: b, Active: 0}})
	require.True(t, ok)
	assert.Equal(t, a.ID, chosen.ID, "first slot with room wins")

	chosen, ok = PickSlot([]SlotState{{Slot: a, Active: 2}, {Slot: b, Active: 0}})
	require.True(t, ok)
	assert.Equal(t, b.ID, chosen.ID, "full slot is skipped")
}

func TestPickSlotSkipsInactive(t *testing.T) {
	a := slot("Group A", 5, false)
	b := slot("Group B", 1, true)

	chosen, ok := PickSlot([]SlotState{{Slot: a, Active: 0}, {Slot: b, Active: 0}})
	require.True(t, ok)
	assert.Equal(t, b.ID, chosen.ID)
}

func TestPickSlotNoCapacity(t *testing.T) {
	a := slot("Group A", 1, true)

	_, ok := PickSlot([]SlotState{{Slot: a, Active: 1}})
	assert.False(t, ok)

	_, ok = PickSlot(nil)
	assert.False(t, ok)
}

// memoryLedger mirrors the allocation transaction: the mutex stands in for
// the row lock that serializes concurrent attempts at one time window.
type memoryLedger struct {
	mu     sync.Mutex
	closed bool // time window missing or inactive
	slots  []models.RegisterSlot
	counts map[uuid.UUID]int
	byUser map[string]bool
}

func newMemoryLedger(slots ...models.RegisterSlot) *memoryLedger {
	return &memoryLedger{
		slots:  slots,
		counts: make(map[uuid.UUID]int),
		byUser: make(map[string]bool),
	}
}

func (l *memoryLedger) allocate(ident Identity) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.byUser[ident.UserID] {
		return ErrAlreadyRegistered
	}
	if l.closed {
		return ErrTimeUnavailable
	}
	states := make([]SlotState, 0, len(l.slots))
	for _, s := range l.slots {
		states = append(states, SlotState{Slot: s, Active: l.counts[s.ID]})
	}
	chosen, ok := PickSlot(states)
	if !ok {
		return ErrNoCapacity
	}
	l.counts[chosen.ID]++
	l.byUser[ident.UserID] = true
	return nil
}

func TestConcurrentAllocationNeverOverbooks(t *testing.T) {
	const capacity = 3
	const attempts = 20
	ledger := newMemoryLedger(slot("Group A", capacity, true))

	idents := make([]Identity, attempts)
	for i := range idents {
		ident, err := RegularIdentity(fmt.Sprintf("user-%d", i), "User", "", "")
		require.NoError(t, err)
		idents[i] = ident
	}

	var wg sync.WaitGroup
	errs := make([]error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = ledger.allocate(idents[i])
		}(i)
	}
	wg.Wait()

	success, full := 0, 0
	for _, err := range errs {
		switch err {
		case nil:
			success++
		case ErrNoCapacity:
			full++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, capacity, success, "exactly capacity registrations succeed")
	assert.Equal(t, attempts-capacity, full)
	for _, s := range ledger.slots {
		assert.LessOrEqual(t, ledger.counts[s.ID], s.AvailableSlots)
	}
}

func TestAllocationSpillsToNextSlot(t *testing.T) {
	a := slot("Group A", 1, true)
	b := slot("Group B", 1, true)
	ledger := newMemoryLedger(a, b)

	for i := 0; i < 2; i++ {
		ident, err := RegularIdentity(fmt.Sprintf("user-%d", i), "User", "", "")
		require.NoError(t, err)
		require.NoError(t, ledger.allocate(ident))
	}
	assert.Equal(t, 1, ledger.counts[a.ID])
	assert.Equal(t, 1, ledger.counts[b.ID])

	ident, err := RegularIdentity("user-2", "User", "", "")
	require.NoError(t, err)
	assert.ErrorIs(t, ledger.allocate(ident), ErrNoCapacity)
}

func TestAllocationRejectsSecondRegistration(t *testing.T) {
	ledger := newMemoryLedger(slot("Group A", 5, true))

	ident, err := RegularIdentity("e12345", "Kim Min-ji", "", "")
	require.NoError(t, err)
	require.NoError(t, ledger.allocate(ident))

	// Same user, regardless of requested window, is rejected.
	assert.ErrorIs(t, ledger.allocate(ident), ErrAlreadyRegistered)
}

func TestDuplicateCheckedBeforeWindowAvailability(t *testing.T) {
	ledger := newMemoryLedger(slot("Group A", 5, true))

	ident, err := RegularIdentity("e12345", "Kim Min-ji", "", "")
	require.NoError(t, err)
	require.NoError(t, ledger.allocate(ident))

	// Once the window closes, a registered user still hears "already
	// registered", not "time unavailable".
	ledger.closed = true
	assert.ErrorIs(t, ledger.allocate(ident), ErrAlreadyRegistered)

	fresh, err := RegularIdentity("e67890", "Park Ji-ho", "", "")
	require.NoError(t, err)
	assert.ErrorIs(t, ledger.allocate(fresh), ErrTimeUnavailable)
}

func TestOutsourceRetryHitsAlreadyRegistered(t *testing.T) {
	ledger := newMemoryLedger(slot("Group A", 5, true))

	first, err := OutsourceIdentity("Lee Jun-ho", "Facilities")
	require.NoError(t, err)
	require.NoError(t, ledger.allocate(first))

	retry, err := OutsourceIdentity("Lee Jun-ho", "Facilities")
	require.NoError(t, err)
	assert.ErrorIs(t, ledger.allocate(retry), ErrAlreadyRegistered)
}
