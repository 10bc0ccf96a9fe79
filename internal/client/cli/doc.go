package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/iudanet/zapsync/internal/client/document"
)

// RunDocGet выводит документ целиком или одно поле в JSON.
// При наличии сети сначала подтягивает серверное состояние.
func (c *Cli) RunDocGet(ctx context.Context, args []string) error {
	if len(args) < 2 || len(args) > 3 {
		return fmt.Errorf("usage: doc get <type> <id> [field]")
	}

	doc, err := c.docs.Open(ctx, args[0], args[1])
	if err != nil {
		return fmt.Errorf("failed to open document: %w", err)
	}
	defer func() {
		_ = doc.Destroy()
	}()

	if c.isOnline() {
		if err := doc.Pull(ctx); err != nil && !errors.Is(err, document.ErrOffline) {
			c.warning("Showing local copy, server is unavailable: %v", err)
		}
	}

	var value any = doc.Data()
	if len(args) == 3 {
		v, ok := doc.Get(args[2])
		if !ok {
			return fmt.Errorf("field %q not found", args[2])
		}
		value = v
	}

	out, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode document: %w", err)
	}
	_, _ = c.io.Write(append(out, '\n'))
	return nil
}

// RunDocSet записывает поля документа: doc set <type> <id> key=value...
// Значение разбирается как JSON, иначе сохраняется строкой.
// Пустое значение (key=) удаляет поле.
func (c *Cli) RunDocSet(ctx context.Context, args []string) error {
	if len(args) < 3 {
		return fmt.Errorf("usage: doc set <type> <id> <key=value>...")
	}

	update, deletes, err := parseAssignments(args[2:])
	if err != nil {
		return err
	}

	doc, err := c.docs.Open(ctx, args[0], args[1])
	if err != nil {
		return fmt.Errorf("failed to open document: %w", err)
	}
	defer func() {
		_ = doc.Destroy()
	}()

	// Одно локальное изменение, отправка только через Push ниже
	if err := doc.Stage(update, deletes); err != nil {
		return fmt.Errorf("failed to update document: %w", err)
	}

	c.success("Saved %s/%s locally", doc.Type(), doc.ID())

	// Локальное изменение уже сохранено, ошибка отправки не фатальна
	switch err := doc.Push(ctx); {
	case err == nil:
		c.success("Synced with server")
	case errors.Is(err, document.ErrOffline):
		c.warning("Offline: the change will be sent when the network is back")
	default:
		c.warning("Not synced yet: %v", err)
	}
	return nil
}

func parseAssignments(args []string) (map[string]any, []string, error) {
	update := make(map[string]any, len(args))
	var deletes []string

	for _, arg := range args {
		key, raw, ok := strings.Cut(arg, "=")
		if !ok || key == "" {
			return nil, nil, fmt.Errorf("invalid assignment %q, expected key=value", arg)
		}
		if raw == "" {
			deletes = append(deletes, key)
			continue
		}

		var value any
		if err := json.Unmarshal([]byte(raw), &value); err != nil {
			value = raw
		}
		update[key] = value
	}
	return update, deletes, nil
}
