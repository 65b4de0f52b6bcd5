package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlots_DefaultGrid(t *testing.T) {
	slots := DefaultSlots()

	assert.Len(t, slots, 7)
	assert.Equal(t, "10:00", slots[0].Value)
	assert.Equal(t, "10:00 AM", slots[0].Label)
	assert.Equal(t, "16:00", slots[len(slots)-1].Value)
	assert.Equal(t, "4:00 PM", slots[len(slots)-1].Label)

	for _, s := range slots {
		assert.False(t, s.Disabled)
		assert.Equal(t, ReasonNone, s.Reason)
	}
}

func TestSlots_Idempotent(t *testing.T) {
	assert.Equal(t, Slots(9, 18, 60), Slots(9, 18, 60))
	assert.Equal(t, DefaultSlots(), DefaultSlots())
}

func TestSlots_RespectsStep(t *testing.T) {
	slots := Slots(10, 13, 30)

	values := make([]string, 0, len(slots))
	for _, s := range slots {
		values = append(values, s.Value)
	}
	assert.Equal(t, []string{"10:00", "10:30", "11:00"}, values)
}
