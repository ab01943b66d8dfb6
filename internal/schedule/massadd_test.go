package schedule

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aura-events/backend/internal/models"
	"github.com/aura-events/backend/pkg/response"
)

func postMassAdd(t *testing.T, body map[string]interface{}) (*httptest.ResponseRecorder, response.Body) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router := gin.New()
	h := NewHandler(nil, nil, nil)
	router.POST("/slots/mass-add", h.MassAddSlot)

	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/slots/mass-add", bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var envelope response.Body
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	return rec, envelope
}

func TestMassAddRejectsMalformedTimeID(t *testing.T) {
	rec, envelope := postMassAdd(t, map[string]interface{}{
		"title":           "Group A",
		"available_slots": 5,
		"time_ids":        []string{uuid.NewString(), "not-a-uuid"},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, response.CodeValidation, envelope.Code)
}

func TestMassAddRequiresTitle(t *testing.T) {
	rec, envelope := postMassAdd(t, map[string]interface{}{
		"available_slots": 5,
		"time_ids":        []string{uuid.NewString()},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, response.CodeValidation, envelope.Code)
}

func TestMassAddRequiresAtLeastOneTime(t *testing.T) {
	rec, envelope := postMassAdd(t, map[string]interface{}{
		"title":           "Group A",
		"available_slots": 5,
		"time_ids":        []string{},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, response.CodeValidation, envelope.Code)
}

// memorySchedule mirrors the mass-add transaction loop: one existence check
// and one independent slot insert per listed time window.
type memorySchedule struct {
	times map[uuid.UUID]bool
	slots map[uuid.UUID][]models.RegisterSlot
}

func newMemorySchedule(timeIDs ...uuid.UUID) *memorySchedule {
	m := &memorySchedule{
		times: make(map[uuid.UUID]bool),
		slots: make(map[uuid.UUID][]models.RegisterSlot),
	}
	for _, id := range timeIDs {
		m.times[id] = true
	}
	return m
}

func (m *memorySchedule) massAdd(title string, availableSlots int, timeIDs []uuid.UUID) []MassAddResult {
	results := make([]MassAddResult, 0, len(timeIDs))
	for _, timeID := range timeIDs {
		res := MassAddResult{TimeID: timeID}
		if !m.times[timeID] {
			res.Error = "time not found"
			results = append(results, res)
			continue
		}
		slotID := uuid.New()
		m.slots[timeID] = append(m.slots[timeID], models.RegisterSlot{
			ID:             slotID,
			TimeID:         timeID,
			Title:          title,
			AvailableSlots: availableSlots,
			IsActive:       true,
		})
		res.SlotID = &slotID
		results = append(results, res)
	}
	return results
}

func TestMassAddCreatesOneIndependentSlotPerTime(t *testing.T) {
	timeIDs := make([]uuid.UUID, 4)
	for i := range timeIDs {
		timeIDs[i] = uuid.New()
	}
	sched := newMemorySchedule(timeIDs...)

	results := sched.massAdd("Group A", 5, timeIDs)
	require.Len(t, results, 4)

	seen := make(map[uuid.UUID]bool)
	for i, res := range results {
		assert.Equal(t, timeIDs[i], res.TimeID, "results follow request order")
		assert.Empty(t, res.Error)
		require.NotNil(t, res.SlotID)
		assert.False(t, seen[*res.SlotID], "each time gets its own slot row")
		seen[*res.SlotID] = true
	}
	for _, timeID := range timeIDs {
		slots := sched.slots[timeID]
		require.Len(t, slots, 1)
		assert.Equal(t, "Group A", slots[0].Title)
		assert.Equal(t, 5, slots[0].AvailableSlots, fmt.Sprintf("capacity under time %s is its own", timeID))
	}
}

func TestMassAddRecordsMissingTimesAndKeepsGoing(t *testing.T) {
	known := uuid.New()
	unknown := uuid.New()
	sched := newMemorySchedule(known)

	results := sched.massAdd("Group B", 3, []uuid.UUID{unknown, known})
	require.Len(t, results, 2)

	assert.Equal(t, "time not found", results[0].Error)
	assert.Nil(t, results[0].SlotID)

	assert.Empty(t, results[1].Error)
	require.NotNil(t, results[1].SlotID)
	assert.Len(t, sched.slots[known], 1)
}