package main

import (
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"

	"dmirror/internal/model"
)

//consoleReporter prints the progress of a synchronization pass for the user.
type consoleReporter struct {
	out    io.Writer
	failed *color.Color
	done   *color.Color
}

func newConsoleReporter(out io.Writer) *consoleReporter {
	return &consoleReporter{
		out:    out,
		failed: color.New(color.FgHiRed),
		done:   color.New(color.FgHiGreen, color.Bold),
	}
}

func (r *consoleReporter) Progress(p model.Progress) {
	fmt.Fprintf(r.out, "Progress: %s -> %s", p.Source, p.Replica)
	if p.Outcome == model.OutcomeFailed {
		r.failed.Fprintf(r.out, " (failed: %v)", p.Err)
	}
	fmt.Fprintln(r.out)
}

func (r *consoleReporter) Completed(stats model.Stats) {
	r.done.Fprintln(r.out, "Synchronization completed.")
	fmt.Fprintf(r.out, "%d files: %d copied (%s), %d up to date, %d failed in %s\n",
		stats.Processed, stats.Copied, humanize.Bytes(uint64(stats.BytesCopied)), stats.Skipped, stats.Failed,
		stats.Duration.Round(time.Millisecond))
}
