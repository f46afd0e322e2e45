package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/fwojciec/officeai"
	"github.com/fwojciec/officeai/assistant"
)

// NoAnswer is printed when neither the knowledge base nor the web has an answer.
const NoAnswer = "I don't know the answer to that yet. Type 1001 in chat to teach me."

// Run executes the ask command.
func (c *AskCmd) Run(deps *Dependencies) error {
	question := strings.TrimSpace(strings.Join(c.Question, " "))
	if question == "" {
		fmt.Fprintln(deps.Stderr, "error: question required")
		return officeai.Errorf(officeai.EINVALID, "question required")
	}

	r := deps.Resolver
	res := r.ProcessQuestion(deps.Ctx, question)

	switch res.Source {
	case assistant.SourceLocalMulti:
		fmt.Fprintln(deps.Stdout, res.Candidates[0].Answer)
		if len(res.Candidates) > 1 {
			fmt.Fprintln(deps.Stdout)
			fmt.Fprintln(deps.Stdout, "Other answers I know:")
			printCandidates(deps.Stdout, res.Candidates[1:], 2)
		}
	case assistant.SourceUnknown:
		if !r.CanSearchWeb() {
			fmt.Fprintln(deps.Stdout, NoAnswer)
			return nil
		}
		answer, sources, ok := r.SearchWeb(deps.Ctx, question)
		if !ok {
			fmt.Fprintln(deps.Stderr, "error: web search failed")
			return officeai.Errorf(officeai.EUNAVAILABLE, "web search failed")
		}
		fmt.Fprintln(deps.Stdout, answer)
		printSources(deps.Stdout, sources)
	default:
		fmt.Fprintln(deps.Stdout, res.Text)
	}

	return nil
}

// printCandidates lists answers numbered from start.
func printCandidates(w io.Writer, candidates []*officeai.ScoredAnswer, start int) {
	for i, c := range candidates {
		fmt.Fprintf(w, "  %d. %s (score %.1f)\n", start+i, c.Answer, c.Score)
	}
}

// maxShownSources caps the citation list.
const maxShownSources = 3

func printSources(w io.Writer, sources []string) {
	if len(sources) == 0 {
		return
	}
	if len(sources) > maxShownSources {
		sources = sources[:maxShownSources]
	}
	fmt.Fprintln(w, "Sources:")
	for _, s := range sources {
		fmt.Fprintf(w, "  - %s\n", s)
	}
}
