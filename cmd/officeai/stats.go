package main

import (
	"fmt"
	"io"

	"github.com/fwojciec/officeai"
)

// Run executes the stats command.
func (c *StatsCmd) Run(deps *Dependencies) error {
	stats, err := deps.Knowledge.Stats(deps.Ctx)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", officeai.ErrorMessage(err))
		return err
	}
	printStats(deps.Stdout, stats)
	return nil
}

func printStats(w io.Writer, s *officeai.Stats) {
	fmt.Fprintf(w, "Facts learned:    %d\n", s.TotalKnowledge)
	fmt.Fprintf(w, "Topics:           %d\n", s.TotalTopics)
	fmt.Fprintf(w, "Interactions:     %d\n", s.TotalInteractions)
	fmt.Fprintf(w, "Cached searches:  %d\n", s.CachedSearches)
}
