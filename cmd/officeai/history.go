package main

import (
	"fmt"
	"io"

	"github.com/fwojciec/officeai"
)

// Run executes the history command.
func (c *HistoryCmd) Run(deps *Dependencies) error {
	entries, err := deps.Knowledge.FindHistory(deps.Ctx, c.Limit)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", officeai.ErrorMessage(err))
		return err
	}
	printHistory(deps.Stdout, entries)
	return nil
}

func printHistory(w io.Writer, entries []*officeai.HistoryEntry) {
	if len(entries) == 0 {
		fmt.Fprintln(w, "No interactions yet.")
		return
	}

	for _, e := range entries {
		verdict := ""
		if e.WasCorrect != nil {
			if *e.WasCorrect {
				verdict = " [correct]"
			} else {
				verdict = " [wrong]"
			}
		}
		fmt.Fprintf(w, "%s  %-19s %s%s\n", e.Timestamp.Local().Format("2006-01-02 15:04"), e.Source, e.Question, verdict)
		if e.Answer != "" {
			fmt.Fprintf(w, "    %s\n", clip(e.Answer, 100))
		}
	}
}

func clip(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
