package cli

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/iudanet/zapsync/internal/client/events"
)

func TestFormatEvent(t *testing.T) {
	at := time.Date(2026, 3, 4, 15, 4, 5, 0, time.UTC)

	tests := []struct {
		name     string
		event    events.Event
		expected string
	}{
		{
			name:     "online",
			event:    events.Event{Time: at, Payload: events.OnlineChanged{Online: true}},
			expected: "15:04:05 ● online",
		},
		{
			name:     "offline",
			event:    events.Event{Time: at, Payload: events.OnlineChanged{Online: false}},
			expected: "15:04:05 ● offline",
		},
		{
			name:     "cache changed",
			event:    events.Event{Time: at, Payload: events.CacheChanged{Reason: "cleanup", Queries: 7}},
			expected: "15:04:05 cache cleanup (7 queries)",
		},
		{
			name:     "document synced",
			event:    events.Event{Time: at, Payload: events.DocumentSync{Type: "contacts", ID: "c1"}},
			expected: "15:04:05 ✓ contacts/c1 synced",
		},
		{
			name:     "document sync failed",
			event:    events.Event{Time: at, Payload: events.DocumentSync{Type: "contacts", ID: "c1", Err: errors.New("timeout")}},
			expected: "15:04:05 ✗ contacts/c1 sync failed: timeout",
		},
		{
			name:     "sync requested",
			event:    events.Event{Time: at, Name: events.EventSyncRequested},
			expected: "15:04:05 replaying offline mutations",
		},
		{
			name:     "unknown event",
			event:    events.Event{Time: at, Name: events.Name("custom")},
			expected: "15:04:05 custom",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatEvent(tt.event))
		})
	}
}

func TestCli_PrintEvent(t *testing.T) {
	mockIO, out := newOutputIO()
	cli := New(Deps{IO: mockIO})

	cli.PrintEvent(events.Event{Time: time.Date(2026, 1, 1, 8, 0, 0, 0, time.UTC), Name: events.EventSyncRequested})
	assert.Equal(t, "08:00:00 replaying offline mutations", out.String())
}
