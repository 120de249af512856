// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package status

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"
)

// ProgressTracker handles progress reporting and UX
type ProgressTracker struct {
	writer io.Writer
	isTTY  bool
}

// NewProgressTracker creates a new progress tracker
func NewProgressTracker(writer io.Writer) *ProgressTracker {
	return &ProgressTracker{
		writer: writer,
		isTTY:  isTerminal(writer),
	}
}

// isTerminal checks if the writer is a terminal
func isTerminal(w io.Writer) bool {
	if f, ok := w.(*os.File); ok {
		return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	return false
}

// CreateProgressBar creates a progress bar for a specific task. A total
// of -1 gives a spinner with a running count. Returns nil when the
// writer is not a terminal; callers must check.
func (pt *ProgressTracker) CreateProgressBar(task string, total int) *progressbar.ProgressBar {
	if !pt.isTTY {
		return nil
	}

	return progressbar.NewOptions(
		total,
		progressbar.OptionSetWriter(pt.writer),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetWidth(15),
		progressbar.OptionSetDescription(fmt.Sprintf("[[cyan]]%s[[reset]]", task)),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "=",
			SaucerHead:    ">",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
	)
}

// FinishProgressBar closes the bar and moves to a fresh line.
func (pt *ProgressTracker) FinishProgressBar(bar *progressbar.ProgressBar) {
	if bar == nil {
		return
	}
	_ = bar.Finish()
	_, _ = fmt.Fprintln(pt.writer)
}
