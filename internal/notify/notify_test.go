package notify

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestUrgencyWireValues(t *testing.T) {
	assert.Equal(t, Urgency(0), UrgencyLow)
	assert.Equal(t, Urgency(1), UrgencyNormal)
	assert.Equal(t, Urgency(2), UrgencyCritical)
}

func TestExpireMillis(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want int32
	}{
		{0, -1},
		{-time.Second, -1},
		{1500 * time.Millisecond, 1500},
		{4 * time.Second, 4000},
	}
	for _, tt := range tests {
		t.Run(tt.in.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, expireMillis(tt.in))
		})
	}
}

func TestDiscard(t *testing.T) {
	var n Notifier = discard{}
	id, err := n.Notify(Notification{Summary: "x"})
	assert.NoError(t, err)
	assert.Zero(t, id)
	assert.NoError(t, n.Dismiss(7))
}
