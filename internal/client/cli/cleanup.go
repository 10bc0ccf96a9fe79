package cli

import (
	"context"
	"fmt"
	"sort"

	"github.com/iudanet/zapsync/internal/cache/policy"
)

// RunCleanup выполняет один проход очистки кэша и выводит отчет
func (c *Cli) RunCleanup(ctx context.Context) error {
	report, err := c.cleaner.RunOnce(ctx)
	if err != nil {
		return fmt.Errorf("cleanup failed: %w", err)
	}

	if report.RemovedTotal() == 0 {
		c.success("Nothing to clean up")
		return nil
	}

	domains := make([]policy.Domain, 0, len(report.Removed))
	for d, n := range report.Removed {
		if n > 0 {
			domains = append(domains, d)
		}
	}
	sort.Slice(domains, func(i, j int) bool { return domains[i] < domains[j] })

	c.success("Removed %d of %d cached queries", report.RemovedTotal(), report.Before)
	for _, d := range domains {
		c.io.Printf("  %-15s %d\n", d, report.Removed[d])
	}
	return nil
}
