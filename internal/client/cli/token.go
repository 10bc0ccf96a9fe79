package cli

import (
	"context"
	"fmt"
	"time"
)

// RunToken сохраняет bearer токен backend как текущую сессию
func (c *Cli) RunToken(ctx context.Context, sources TokenSources) error {
	token, err := c.getToken(sources)
	if err != nil {
		return err
	}

	session, err := c.authService.SignIn(ctx, token)
	if err != nil {
		return fmt.Errorf("failed to sign in: %w", err)
	}

	c.success("Session saved")
	if session.UserID != "" {
		c.io.Printf("User: %s\n", session.UserID)
	}
	if session.ExpiresAt.IsZero() {
		c.io.Println("Token expires: unknown")
	} else {
		c.io.Printf("Token expires: %s\n", session.ExpiresAt.Format(time.RFC3339))
	}
	return nil
}
