package cli

import (
	"fmt"
	"time"

	"github.com/fatih/color"
)

var (
	okMark   = color.New(color.FgGreen).SprintFunc()
	warnMark = color.New(color.FgYellow).SprintFunc()
	failMark = color.New(color.FgRed).SprintFunc()
	heading  = color.New(color.Bold).SprintFunc()
)

func (c *Cli) success(format string, a ...any) {
	c.io.Println(okMark("✓"), fmt.Sprintf(format, a...))
}

func (c *Cli) warning(format string, a ...any) {
	c.io.Println(warnMark("⚠️ "), fmt.Sprintf(format, a...))
}

func (c *Cli) failure(format string, a ...any) {
	c.io.Println(failMark("✗"), fmt.Sprintf(format, a...))
}

func (c *Cli) title(text string) {
	c.io.Println(heading("=== " + text + " ==="))
	c.io.Println()
}

// formatTimestamp форматирует unix ms; 0 означает "никогда"
func formatTimestamp(ms int64) string {
	if ms == 0 {
		return "never"
	}
	return time.UnixMilli(ms).Format(time.RFC3339)
}
