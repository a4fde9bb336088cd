package main

import (
	"fmt"
	"io"
)

// consoleReporter writes orchestrator progress to the terminal. It satisfies
// dedup.Reporter; progress lines are overwritten in place on a TTY and
// printed plainly otherwise.
type consoleReporter struct {
	out io.Writer
	tty bool
}

func newConsoleReporter(out io.Writer) *consoleReporter {
	return &consoleReporter{out: out, tty: stdoutIsTerminal()}
}

func (r *consoleReporter) Status(message string) {
	fmt.Fprintln(r.out, message)
}

func (r *consoleReporter) Progress(current, total int) {
	if r.tty {
		fmt.Fprintf(r.out, "\rmerging group %d/%d", current, total)
		if current == total {
			fmt.Fprintln(r.out)
		}
		return
	}
	fmt.Fprintf(r.out, "merging group %d/%d\n", current, total)
}

func (r *consoleReporter) Error(message string) {
	fmt.Fprintln(r.out, "error: "+message)
}
