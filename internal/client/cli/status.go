package cli

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/iudanet/zapsync/internal/client/auth"
)

// RunStatus выводит состояние сессии, сети, офлайн-очереди и кэша
func (c *Cli) RunStatus(ctx context.Context) error {
	c.title("Session")

	session, err := c.authService.Current(ctx)
	switch {
	case err == nil:
		c.io.Println("Status: Authenticated")
		if session.UserID != "" {
			c.io.Printf("User: %s\n", session.UserID)
		}
		if !session.ExpiresAt.IsZero() {
			c.io.Printf("Token expires: %s\n", session.ExpiresAt.Format(time.RFC3339))
			c.io.Printf("Time remaining: %s\n", time.Until(session.ExpiresAt).Round(time.Second))
		}
	case errors.Is(err, auth.ErrSessionExpired):
		c.warning("Token has expired. Run 'zapsync token' to sign in again.")
	case errors.Is(err, auth.ErrNotSignedIn):
		c.io.Println("Status: Not authenticated")
		c.io.Println("Run 'zapsync token' to authenticate.")
	default:
		return fmt.Errorf("failed to check authentication: %w", err)
	}

	c.io.Println()
	c.title("Sync")

	if c.isOnline() {
		c.success("Online")
	} else {
		c.warning("Offline: changes are kept locally")
	}

	pendingCount, err := c.syncService.GetPendingCount(ctx)
	if err != nil {
		// Не прерываем выполнение, только предупреждаем
		c.warning("Failed to get pending mutation count: %v", err)
	} else if pendingCount > 0 {
		c.warning("Pending: %d mutation(s) waiting to be replayed", pendingCount)
		c.io.Println("Run 'zapsync queue replay' to replay them now.")
	} else {
		c.success("All mutations replayed")
	}

	if c.metadata != nil {
		if ts, err := c.metadata.GetLastSyncTimestamp(ctx); err == nil {
			c.io.Printf("Last replay: %s\n", formatTimestamp(ts))
		}
		if ts, err := c.metadata.GetLastCleanupTimestamp(ctx); err == nil {
			c.io.Printf("Last cleanup: %s\n", formatTimestamp(ts))
		}
	}

	if c.cache == nil {
		return nil
	}

	c.io.Println()
	c.title("Cache")

	snapshot := c.cache.Snapshot()
	if snapshot == nil || snapshot.IsEmpty() {
		c.io.Println("Cache is empty")
		return nil
	}

	perDomain := make(map[string]int)
	for _, q := range snapshot.ClientState.Queries {
		perDomain[q.Domain()]++
	}
	domains := make([]string, 0, len(perDomain))
	for d := range perDomain {
		domains = append(domains, d)
	}
	sort.Strings(domains)

	c.io.Printf("Queries: %d\n", len(snapshot.ClientState.Queries))
	for _, d := range domains {
		name := d
		if name == "" {
			name = "(no domain)"
		}
		c.io.Printf("  %-15s %d\n", name, perDomain[d])
	}
	return nil
}
