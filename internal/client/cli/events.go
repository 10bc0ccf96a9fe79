package cli

import (
	"fmt"
	"time"

	"github.com/iudanet/zapsync/internal/client/events"
)

// FormatEvent форматирует событие шины для команды watch
func FormatEvent(e events.Event) string {
	ts := e.Time.Format(time.TimeOnly)

	switch p := e.Payload.(type) {
	case events.OnlineChanged:
		if p.Online {
			return fmt.Sprintf("%s %s online", ts, okMark("●"))
		}
		return fmt.Sprintf("%s %s offline", ts, warnMark("●"))
	case events.CacheChanged:
		return fmt.Sprintf("%s cache %s (%d queries)", ts, p.Reason, p.Queries)
	case events.DocumentSync:
		if p.Err != nil {
			return fmt.Sprintf("%s %s %s/%s sync failed: %v", ts, failMark("✗"), p.Type, p.ID, p.Err)
		}
		return fmt.Sprintf("%s %s %s/%s synced", ts, okMark("✓"), p.Type, p.ID)
	}

	if e.Name == events.EventSyncRequested {
		return fmt.Sprintf("%s replaying offline mutations", ts)
	}
	return fmt.Sprintf("%s %s", ts, e.Name)
}

// PrintEvent выводит событие шины
func (c *Cli) PrintEvent(e events.Event) {
	c.io.Println(FormatEvent(e))
}
