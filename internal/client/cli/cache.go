package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// RunCachePut кэширует ответ запроса и сохраняет снимок:
// cache put <domain> [key...] <json>
func (c *Cli) RunCachePut(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: cache put <domain> [key...] <json>")
	}

	key := args[:len(args)-1]
	data := json.RawMessage(args[len(args)-1])
	if !json.Valid(data) {
		return fmt.Errorf("data must be valid JSON")
	}

	if err := c.cache.Put(key, data, c.now()); err != nil {
		return fmt.Errorf("failed to cache query: %w", err)
	}
	if err := c.cache.Persist(ctx); err != nil {
		return err
	}

	c.success("Cached %s", strings.Join(key, "/"))
	return nil
}

// RunCacheGet выводит закэшированные данные запроса: cache get <domain> [key...]
func (c *Cli) RunCacheGet(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: cache get <domain> [key...]")
	}

	record, ok := c.cache.Get(args)
	if !ok {
		return fmt.Errorf("query %s is not cached", strings.Join(args, "/"))
	}

	c.io.Printf("Updated: %s (%s ago)\n",
		record.UpdatedAt().Format(time.RFC3339), record.Age(c.now()).Round(time.Second))

	var value any
	if err := json.Unmarshal(record.State.Data, &value); err != nil {
		return fmt.Errorf("failed to decode cached data: %w", err)
	}
	out, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode cached data: %w", err)
	}
	_, _ = c.io.Write(append(out, '\n'))
	return nil
}
