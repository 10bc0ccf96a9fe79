package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// RunQueueAdd ставит мутацию в офлайн-очередь: queue add <kind> [json-payload]
func (c *Cli) RunQueueAdd(ctx context.Context, args []string) error {
	if len(args) < 1 || len(args) > 2 {
		return fmt.Errorf("usage: queue add <kind> [json-payload]")
	}

	var payload json.RawMessage
	if len(args) == 2 {
		payload = json.RawMessage(args[1])
	}

	m, err := c.syncService.Enqueue(ctx, args[0], payload)
	if err != nil {
		return err
	}

	c.success("Queued %s (id %s)", m.Kind, m.ID)
	return nil
}

// RunQueueList выводит очередь мутаций в порядке воспроизведения
func (c *Cli) RunQueueList(ctx context.Context) error {
	pending, err := c.queue.Pending(ctx, 0)
	if err != nil {
		return fmt.Errorf("failed to list pending mutations: %w", err)
	}

	if len(pending) == 0 {
		c.io.Println("Queue is empty")
		return nil
	}

	c.title(fmt.Sprintf("Pending mutations (%d)", len(pending)))
	for _, m := range pending {
		c.io.Printf("%4d  %-36s  %-24s  %s\n", m.Seq, m.ID, m.Kind, m.CreatedAt.Format(time.RFC3339))
		if m.Attempts > 0 {
			c.io.Printf("      %s\n", warnMark(fmt.Sprintf("attempts: %d, last error: %s", m.Attempts, m.LastError)))
		}
	}
	return nil
}

// RunQueueReplay воспроизводит очередь немедленно
func (c *Cli) RunQueueReplay(ctx context.Context) error {
	if !c.isOnline() {
		c.warning("Offline: replay skipped")
		return nil
	}

	result, err := c.syncService.Replay(ctx)
	if err != nil {
		if result != nil {
			c.failure("Replay stopped at %s, %d mutation(s) remaining", result.FailedID, result.Remaining)
		}
		return err
	}

	c.success("Replayed %d mutation(s)", result.Replayed)
	if result.Duplicate > 0 {
		c.io.Printf("Already applied on server: %d\n", result.Duplicate)
	}
	if result.Flushed > 0 {
		c.io.Printf("Documents flushed: %d\n", result.Flushed)
	}
	return nil
}
