package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func evalRequest(date string, duration int) Request {
	return Request{
		Date:          date,
		DurationHours: duration,
		Now:           time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC),
		CloseHour:     CloseHour,
	}
}

func slotByValue(t *testing.T, slots []Slot, value string) Slot {
	t.Helper()
	for _, s := range slots {
		if s.Value == value {
			return s
		}
	}
	t.Fatalf("no slot %s in result", value)
	return Slot{}
}

func TestEvaluate_NoDateSelected(t *testing.T) {
	slots, err := Evaluate(evalRequest("", 2), DefaultSlots(), nil)

	require.NoError(t, err)
	require.Len(t, slots, len(DefaultSlots()))
	for _, s := range slots {
		assert.True(t, s.Disabled)
		assert.Equal(t, ReasonNoDate, s.Reason)
		assert.Contains(t, s.Label, "Select a date")
	}
}

func TestEvaluate_InvalidDuration(t *testing.T) {
	for _, d := range []int{0, 1, 5, -2} {
		_, err := Evaluate(evalRequest("2026-09-02", d), DefaultSlots(), nil)
		assert.ErrorIs(t, err, ErrInvalidDuration)
	}
}

func TestEvaluate_EndsAfterClosing(t *testing.T) {
	// 3h session: 16:00 ends 19:00, past the 18:00 close. 15:00 ends
	// exactly at close and stays open.
	slots, err := Evaluate(evalRequest("2026-09-02", 3), DefaultSlots(), nil)
	require.NoError(t, err)

	late := slotByValue(t, slots, "16:00")
	assert.True(t, late.Disabled)
	assert.Equal(t, ReasonEndsAfterClosing, late.Reason)
	assert.Contains(t, late.Label, "Ends past 6:00 PM")

	boundary := slotByValue(t, slots, "15:00")
	assert.False(t, boundary.Disabled)
	assert.Equal(t, ReasonNone, boundary.Reason)
}

func TestEvaluate_OverlapMarksBooked(t *testing.T) {
	existing := []ExistingBooking{
		{ID: 1, Date: "2026-09-02", Time: "10:00", DurationHours: 2, TimeZone: "UTC"},
	}

	slots, err := Evaluate(evalRequest("2026-09-02", 2), DefaultSlots(), existing)
	require.NoError(t, err)

	// [11,13) overlaps [10,12).
	hit := slotByValue(t, slots, "11:00")
	assert.True(t, hit.Disabled)
	assert.Equal(t, ReasonBooked, hit.Reason)
	assert.Contains(t, hit.Label, "Booked")

	// [12,14) touches [10,12) at 12:00: adjacency is not a conflict.
	touching := slotByValue(t, slots, "12:00")
	assert.False(t, touching.Disabled)
}

func TestEvaluate_PastTimeRule(t *testing.T) {
	req := evalRequest("2026-09-01", 2)
	req.Now = time.Date(2026, 9, 1, 10, 30, 0, 0, time.UTC)

	slots, err := Evaluate(req, DefaultSlots(), nil)
	require.NoError(t, err)

	past := slotByValue(t, slots, "10:00")
	assert.True(t, past.Disabled)
	assert.Equal(t, ReasonPast, past.Reason)

	upcoming := slotByValue(t, slots, "11:00")
	assert.False(t, upcoming.Disabled)

	// A different date never trips the past rule even with an earlier clock.
	future, err := Evaluate(evalRequest("2026-09-02", 2), DefaultSlots(), nil)
	require.NoError(t, err)
	assert.False(t, slotByValue(t, future, "10:00").Disabled)
}

func TestEvaluate_PastWinsOverOtherReasons(t *testing.T) {
	// 16:00 on a 4h session is both past and would end after close; the
	// rules run in fixed order, so past is the reported reason.
	req := evalRequest("2026-09-01", 4)
	req.Now = time.Date(2026, 9, 1, 17, 0, 0, 0, time.UTC)

	slots, err := Evaluate(req, DefaultSlots(), []ExistingBooking{
		{ID: 7, Date: "2026-09-01", Time: "16:00", DurationHours: 2, TimeZone: "UTC"},
	})
	require.NoError(t, err)

	s := slotByValue(t, slots, "16:00")
	assert.Equal(t, ReasonPast, s.Reason)
}

func TestEvaluate_SelfExclusionWhenEditing(t *testing.T) {
	existing := []ExistingBooking{
		{ID: 42, Date: "2026-09-02", Time: "10:00", DurationHours: 2, TimeZone: "UTC"},
		{ID: 43, Date: "2026-09-02", Time: "14:00", DurationHours: 2, TimeZone: "UTC"},
	}

	// Editing booking 42: re-picking its own 10:00 slot, even extended to
	// 3h, must not self-conflict. 14:00 still belongs to someone else.
	req := evalRequest("2026-09-02", 3)
	req.ExcludeBookingID = 42

	slots, err := Evaluate(req, DefaultSlots(), existing)
	require.NoError(t, err)

	assert.False(t, slotByValue(t, slots, "10:00").Disabled)
	assert.Equal(t, ReasonBooked, slotByValue(t, slots, "13:00").Reason)
	assert.Equal(t, ReasonBooked, slotByValue(t, slots, "14:00").Reason)
}

func TestEvaluate_CrossZoneConflict(t *testing.T) {
	// Booked 14:00 UTC+8 occupies 06:00-08:00 UTC; a naive wall-clock
	// comparison would call 06:00 free.
	existing := []ExistingBooking{
		{ID: 9, Date: "2026-09-02", Time: "14:00", DurationHours: 2, TimeZone: "Asia/Singapore"},
	}

	slots, err := Evaluate(evalRequest("2026-09-02", 2), Slots(6, 18, 60), existing)
	require.NoError(t, err)

	assert.Equal(t, ReasonBooked, slotByValue(t, slots, "06:00").Reason)
	assert.Equal(t, ReasonBooked, slotByValue(t, slots, "07:00").Reason)
	assert.False(t, slotByValue(t, slots, "08:00").Disabled)
}

func TestEvaluate_BadSnapshotFailsLoudly(t *testing.T) {
	existing := []ExistingBooking{
		{ID: 5, Date: "2026-09-02", Time: "not-a-time", DurationHours: 2},
	}

	_, err := Evaluate(evalRequest("2026-09-02", 2), DefaultSlots(), existing)
	assert.Error(t, err)
}

func TestEvaluate_Deterministic(t *testing.T) {
	existing := []ExistingBooking{
		{ID: 1, Date: "2026-09-02", Time: "10:00", DurationHours: 2, TimeZone: "UTC"},
		{ID: 2, Date: "2026-09-02", Time: "15:00", DurationHours: 3, TimeZone: "Asia/Jakarta"},
	}
	req := evalRequest("2026-09-02", 2)

	first, err := Evaluate(req, DefaultSlots(), existing)
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		again, err := Evaluate(req, DefaultSlots(), existing)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestEvaluate_DoesNotMutateInputs(t *testing.T) {
	candidates := DefaultSlots()
	existing := []ExistingBooking{
		{ID: 1, Date: "2026-09-02", Time: "10:00", DurationHours: 2, TimeZone: "UTC"},
	}
	wantCandidates := DefaultSlots()
	wantExisting := append([]ExistingBooking(nil), existing...)

	_, err := Evaluate(evalRequest("2026-09-02", 2), candidates, existing)
	require.NoError(t, err)

	assert.Equal(t, wantCandidates, candidates)
	assert.Equal(t, wantExisting, existing)
}

func TestEvaluate_PreservesGridOrder(t *testing.T) {
	slots, err := Evaluate(evalRequest("2026-09-02", 2), DefaultSlots(), nil)
	require.NoError(t, err)

	values := make([]string, 0, len(slots))
	for _, s := range slots {
		values = append(values, s.Value)
	}
	want := make([]string, 0, len(slots))
	for _, s := range DefaultSlots() {
		want = append(want, s.Value)
	}
	assert.Equal(t, want, values)
}
