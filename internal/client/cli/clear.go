package cli

import (
	"context"
	"fmt"
	"strings"
)

// RunClear завершает сессию и удаляет все локальные данные
// (снимок кэша, офлайн-очередь, реплики документов)
func (c *Cli) RunClear(ctx context.Context, force bool) error {
	if !force {
		answer, err := c.io.ReadInput("This removes the session and all local data. Continue? [y/N]: ")
		if err != nil {
			return fmt.Errorf("failed to read confirmation: %w", err)
		}
		if !strings.EqualFold(answer, "y") && !strings.EqualFold(answer, "yes") {
			c.io.Println("Aborted")
			return nil
		}
	}

	if err := c.authService.SignOut(ctx); err != nil {
		c.failure("Some local data could not be removed")
		return fmt.Errorf("failed to clear local data: %w", err)
	}

	c.success("Signed out, local data removed")
	return nil
}
