package core

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/josephlewis42/smallsh/core/config"
	"github.com/mattn/go-isatty"
)

var (
	ColorBoldRed    = color.New(color.FgRed, color.Bold)
	ColorBoldYellow = color.New(color.FgYellow, color.Bold)
)

// ColorPrinter decides whether diagnostics written to a stream are colored.
type ColorPrinter struct {
	value string
	out   io.Writer
}

// NewColorPrinter creates a printer for the given color setting
// (always|auto|never).
func NewColorPrinter(value string, out io.Writer) *ColorPrinter {
	return &ColorPrinter{value: value, out: out}
}

func (c *ColorPrinter) ShouldColor() bool {
	switch c.value {
	case config.ColorNever:
		return false
	case config.ColorAlways:
		return true
	default:
		fd, ok := c.out.(interface{ Fd() uintptr })
		return ok && isatty.IsTerminal(fd.Fd()) && os.Getenv("TERM") != "dumb"
	}
}

func (c *ColorPrinter) Sprintf(clr *color.Color, format string, a ...interface{}) string {
	if c.ShouldColor() {
		// The color package disables itself when stdout isn't a terminal,
		// the decision here is made for the target stream instead.
		clr.EnableColor()
		return clr.Sprintf(format, a...)
	}
	return fmt.Sprintf(format, a...)
}
