package availability

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/aura-events/backend/internal/models"
)

func day(s string) time.Time {
	d, _ := time.Parse("2006-01-02", s)
	return d
}

func buildSnapshot() (Snapshot, uuid.UUID, uuid.UUID) {
	dateID := uuid.New()
	timeID := uuid.New()
	slotID := uuid.New()
	snap := Snapshot{
		Dates: []models.RegisterDate{{ID: dateID, EventDate: day("2026-10-01"), IsActive: true}},
		Times: []models.RegisterTime{{ID: timeID, DateID: dateID, StartTime: "09:00", EndTime: "09:30", IsActive: true}},
		Slots: []models.RegisterSlot{{ID: slotID, TimeID: timeID, Title: "Group A", AvailableSlots: 1, IsActive: true}},
		ActiveSelections: map[uuid.UUID]int{},
	}
	return snap, timeID, slotID
}

func TestComputeSingleSlotLifecycle(t *testing.T) {
	snap, timeID, slotID := buildSnapshot()

	out := Compute(snap)
	require.Len(t, out, 1)
	require.Len(t, out[0].Times, 1)
	assert.Equal(t, timeID, out[0].Times[0].ID)
	assert.Equal(t, 1, out[0].Times[0].Remaining)

	snap.ActiveSelections[slotID] = 1
	out = Compute(snap)
	assert.Equal(t, 0, out[0].Times[0].Remaining)

	// A count above capacity must still clamp at zero.
	snap.ActiveSelections[slotID] = 2
	out = Compute(snap)
	assert.Equal(t, 0, out[0].Times[0].Remaining)
}

func TestComputeDeactivatedSlotStillHoldsRegistrants(t *testing.T) {
	dateID := uuid.New()
	timeID := uuid.New()
	slotA := uuid.New()
	slotB := uuid.New()
	snap := Snapshot{
		Dates: []models.RegisterDate{{ID: dateID, EventDate: day("2026-10-01"), IsActive: true}},
		Times: []models.RegisterTime{{ID: timeID, DateID: dateID, StartTime: "09:00", IsActive: true}},
		Slots: []models.RegisterSlot{
			{ID: slotA, TimeID: timeID, Title: "Group A", AvailableSlots: 5, IsActive: false},
			{ID: slotB, TimeID: timeID, Title: "Group B", AvailableSlots: 5, IsActive: true},
		},
		ActiveSelections: map[uuid.UUID]int{slotA: 3},
	}

	out := Compute(snap)
	require.Len(t, out, 1)
	// Capacity counts only the active slot (5), but the deactivated slot's
	// 3 registrants still subtract.
	assert.Equal(t, 2, out[0].Times[0].Remaining)
}

func TestComputeSkipsInactiveDatesAndTimes(t *testing.T) {
	activeDate := uuid.New()
	inactiveDate := uuid.New()
	activeTime := uuid.New()
	inactiveTime := uuid.New()
	snap := Snapshot{
		Dates: []models.RegisterDate{
			{ID: inactiveDate, EventDate: day("2026-10-01"), IsActive: false},
			{ID: activeDate, EventDate: day("2026-10-02"), IsActive: true},
		},
		Times: []models.RegisterTime{
			{ID: activeTime, DateID: activeDate, StartTime: "10:00", IsActive: true},
			{ID: inactiveTime, DateID: activeDate, StartTime: "11:00", IsActive: false},
		},
		ActiveSelections: map[uuid.UUID]int{},
	}

	out := Compute(snap)
	require.Len(t, out, 1)
	assert.Equal(t, activeDate, out[0].ID)
	require.Len(t, out[0].Times, 1)
	assert.Equal(t, activeTime, out[0].Times[0].ID)
}

func TestComputeOrdering(t *testing.T) {
	d1 := uuid.New()
	d2 := uuid.New()
	t1 := uuid.New()
	t2 := uuid.New()
	snap := Snapshot{
		Dates: []models.RegisterDate{
			{ID: d2, EventDate: day("2026-10-02"), IsActive: true},
			{ID: d1, EventDate: day("2026-10-01"), IsActive: true},
		},
		Times: []models.RegisterTime{
			{ID: t2, DateID: d1, StartTime: "14:00", IsActive: true},
			{ID: t1, DateID: d1, StartTime: "09:00", IsActive: true},
		},
		ActiveSelections: map[uuid.UUID]int{},
	}

	out := Compute(snap)
	require.Len(t, out, 2)
	assert.Equal(t, d1, out[0].ID)
	assert.Equal(t, d2, out[1].ID)
	require.Len(t, out[0].Times, 2)
	assert.Equal(t, "09:00", out[0].Times[0].StartTime)
	assert.Equal(t, "14:00", out[0].Times[1].StartTime)
}

func TestComputeRemainingArithmetic(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		dateID := uuid.New()
		timeID := uuid.New()
		nSlots := rapid.IntRange(0, 6).Draw(rt, "nSlots")

		snap := Snapshot{
			Dates:            []models.RegisterDate{{ID: dateID, EventDate: day("2026-10-01"), IsActive: true}},
			Times:            []models.RegisterTime{{ID: timeID, DateID: dateID, StartTime: "09:00", IsActive: true}},
			ActiveSelections: map[uuid.UUID]int{},
		}

		capacity := 0
		taken := 0
		for i := 0; i < nSlots; i++ {
			id := uuid.New()
			slotCap := rapid.IntRange(0, 10).Draw(rt, "cap")
			active := rapid.Bool().Draw(rt, "active")
			count := rapid.IntRange(0, 12).Draw(rt, "count")
			snap.Slots = append(snap.Slots, models.RegisterSlot{
				ID: id, TimeID: timeID, AvailableSlots: slotCap, IsActive: active,
			})
			snap.ActiveSelections[id] = count
			if active {
				capacity += slotCap
			}
			taken += count
		}

		out := Compute(snap)
		require.Len(rt, out, 1)
		require.Len(rt, out[0].Times, 1)

		want := capacity - taken
		if want < 0 {
			want = 0
		}
		assert.Equal(rt, want, out[0].Times[0].Remaining)
	})
}
