package registrations

import "github.com/aura-events/backend/internal/models"

// SlotState pairs a slot with its current active selection count.
type SlotState struct {
	Slot   models.RegisterSlot
	Active int
}

// PickSlot chooses the first active slot with remaining capacity. Slots must
// already be in stable creation order; the caller holds them locked so the
// counts cannot move under us.
func PickSlot(slots []SlotState) (models.RegisterSlot, bool) {
	for _, s := range slots {
		if !s.Slot.IsActive {
			continue
		}
		if s.Active < s.Slot.AvailableSlots {
			return s.Slot, true
		}
	}
	return models.RegisterSlot{}, false
}
