package accident

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatus_CanApply(t *testing.T) {
	cases := []struct {
		status Status
		event  Event
		want   bool
	}{
		{StatusAwaitingConfirmation, EventCancel, true},
		{StatusReported, EventCancel, true},
		{StatusActive, EventCancel, false},
		{StatusAccepted, EventCancel, false},
		{StatusAwaitingConfirmation, EventTrigger, true},
		{StatusReported, EventTrigger, true},
		{StatusCancelled, EventTrigger, false},
		{StatusActive, EventTrigger, false},
		{StatusActive, EventAccept, true},
		{StatusAwaitingConfirmation, EventAccept, false},
		{StatusAccepted, EventAccept, false},
		{StatusCancelled, EventAccept, false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, tc.status.CanApply(tc.event), "%s on %s", tc.event, tc.status)
	}
}

func TestStatus_Predicates(t *testing.T) {
	assert.True(t, StatusReported.IsPending())
	assert.False(t, StatusCancelled.IsPending())
	assert.True(t, StatusAccepted.IsDispatched())
	assert.False(t, StatusAwaitingConfirmation.IsDispatched())

	tr := transitionFor(EventAccept)
	assert.Equal(t, StatusAccepted, tr.To)
	assert.Equal(t, []Status{StatusActive}, tr.From)
}
