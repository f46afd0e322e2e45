package main

import (
	"fmt"

	"github.com/fwojciec/officeai"
)

// Run executes the learn command.
func (c *LearnCmd) Run(deps *Dependencies) error {
	if !deps.Learner.LearnFromURL(deps.Ctx, c.Question, c.URL) {
		fmt.Fprintf(deps.Stderr, "error: could not learn from %s\n", c.URL)
		return officeai.Errorf(officeai.EUNAVAILABLE, "could not learn from %s", c.URL)
	}
	fmt.Fprintf(deps.Stdout, "Learned an answer to %q from %s\n", c.Question, c.URL)
	return nil
}
