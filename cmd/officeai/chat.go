package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/fwojciec/officeai"
	"github.com/fwojciec/officeai/assistant"
)

// CorrectionCode triggers the correction flow for the last question.
const CorrectionCode = "1001"

// correctionCues are normalized phrases that also trigger a correction.
var correctionCues = []string{
	"thats wrong", "that is wrong", "wrong answer", "incorrect",
	"eso esta mal", "esta mal", "incorrecto", "respuesta incorrecta",
}

// Run executes the chat command.
func (c *ChatCmd) Run(deps *Dependencies) error {
	chat := &Chat{
		Resolver:  deps.Resolver,
		Learner:   deps.Learner,
		Knowledge: deps.Knowledge,
		In:        deps.Stdin,
		Out:       deps.Stdout,
		ExportDir: deps.DataDir,
		Logger:    deps.Logger,
	}
	return chat.Run(deps.Ctx)
}

// Chat is the interactive question loop.
type Chat struct {
	Resolver  *assistant.Resolver
	Learner   *assistant.Learner
	Knowledge officeai.KnowledgeService
	In        io.Reader
	Out       io.Writer
	ExportDir string
	Logger    *slog.Logger

	// Now is used to name export files.
	Now func() time.Time

	scanner *bufio.Scanner
}

// Run reads questions until the user quits, the input ends or ctx is done.
func (c *Chat) Run(ctx context.Context) error {
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
	if c.Now == nil {
		c.Now = time.Now
	}
	c.scanner = bufio.NewScanner(c.In)

	fmt.Fprintln(c.Out, "Office assistant. Ask me anything about Microsoft Office.")
	fmt.Fprintf(c.Out, "Commands: history, stats, export, context, exit. Type %s to correct my last answer.\n", CorrectionCode)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		line, ok := c.prompt("\nYou: ")
		if !ok {
			fmt.Fprintln(c.Out)
			return nil
		}
		if line == "" {
			continue
		}
		if c.turn(ctx, line) {
			return nil
		}
	}
}

// prompt prints label and reads one trimmed line.
func (c *Chat) prompt(label string) (string, bool) {
	fmt.Fprint(c.Out, label)
	if !c.scanner.Scan() {
		return "", false
	}
	return strings.TrimSpace(c.scanner.Text()), true
}

// turn handles one line of input and reports whether to quit. A panic in
// the turn is logged and the loop continues.
func (c *Chat) turn(ctx context.Context, line string) (quit bool) {
	defer func() {
		if r := recover(); r != nil {
			c.Logger.Error("turn failed", "input", line, "panic", r)
			fmt.Fprintln(c.Out, "Assistant: Something went wrong. Please try again.")
			quit = false
		}
	}()

	switch strings.ToLower(line) {
	case "salir", "exit", "quit":
		fmt.Fprintln(c.Out, "Assistant: Goodbye!")
		return true
	case "historial", "history":
		c.history(ctx)
		return false
	case "stats":
		c.stats(ctx)
		return false
	case "export":
		c.export(ctx)
		return false
	case "contexto", "context":
		c.showContext()
		return false
	}

	if c.isCorrection(line) {
		c.correct(ctx)
		return false
	}

	c.answer(ctx, line)
	return false
}

func (c *Chat) isCorrection(line string) bool {
	if line == CorrectionCode {
		return true
	}
	if c.Resolver.Session().LastQuestion == "" {
		return false
	}
	n := officeai.Normalize(line)
	for _, cue := range correctionCues {
		if n == cue || strings.HasPrefix(n, cue+" ") {
			return true
		}
	}
	return false
}

func (c *Chat) answer(ctx context.Context, question string) {
	r := c.Resolver
	res := r.ProcessQuestion(ctx, question)

	switch res.Source {
	case assistant.SourceMeta:
		c.say(res.Text)
	case assistant.SourceConversational:
		c.say(res.Text)
		r.AddToContext(question, res.Text)
	case assistant.SourceLocal:
		c.say(res.Text)
		r.AddToContext(question, res.Text)
		if r.ShouldAskFeedback(question) {
			c.feedback(ctx, question, res.Text)
		}
	case assistant.SourceLocalMulti:
		c.disambiguate(ctx, question, res.Candidates)
	default:
		c.web(ctx, question)
	}
}

func (c *Chat) feedback(ctx context.Context, question, answer string) {
	choice, _ := c.prompt("Was that right? [y] yes  [n] no, correct it  [a] add another answer  [s] stop asking  (Enter to skip): ")
	r := c.Resolver

	switch strings.ToLower(choice) {
	case "y", "sí", "si":
		r.ConfirmAnswer(ctx, question, answer)
		c.say("Thanks, noted.")
	case "n":
		correct, _ := c.prompt("Correct answer: ")
		if correct == "" {
			return
		}
		if r.HandleUserCorrection(ctx, correct, question) {
			c.say("Thanks, I've learned the correct answer.")
		}
	case "a":
		alt, _ := c.prompt("Other answer: ")
		if alt == "" {
			return
		}
		r.AddAlternativeAnswer(ctx, question, alt)
		c.say("Thanks, I'll keep both answers.")
	case "s":
		r.SkipFeedback(question)
	}
}

func (c *Chat) disambiguate(ctx context.Context, question string, candidates []*officeai.ScoredAnswer) {
	r := c.Resolver

	if !r.ShouldAskFeedback(question) {
		c.say(candidates[0].Answer)
		r.AddToContext(question, candidates[0].Answer)
		return
	}

	c.say("I know several answers to that:")
	printCandidates(c.Out, candidates, 1)
	choice, _ := c.prompt(fmt.Sprintf("Which one is right? [1-%d], 0 if none, s to stop asking: ", len(candidates)))

	switch choice {
	case "":
		r.AddToContext(question, candidates[0].Answer)
		return
	case "s":
		r.SkipFeedback(question)
		r.AddToContext(question, candidates[0].Answer)
		return
	case "0":
		correct, _ := c.prompt("Correct answer: ")
		if correct == "" {
			return
		}
		if r.HandleUserCorrection(ctx, correct, question) {
			r.AddToContext(question, correct)
			c.say("Thanks, I've learned the correct answer.")
		}
		return
	}

	i, err := strconv.Atoi(choice)
	if err != nil || i < 1 || i > len(candidates) {
		c.say("I didn't understand that choice.")
		return
	}

	chosen := candidates[i-1].Answer
	r.HandleAnswerSelection(ctx, question, chosen, true)
	r.AddToContext(question, chosen)
	c.say("Thanks, noted.")
}

func (c *Chat) web(ctx context.Context, question string) {
	r := c.Resolver
	if !r.CanSearchWeb() {
		c.say(NoAnswer)
		return
	}

	fmt.Fprintln(c.Out, "Searching the web...")
	answer, sources, ok := r.SearchWeb(ctx, question)
	if !ok {
		c.say("I couldn't find an answer online right now. Type " + CorrectionCode + " to teach me.")
		return
	}

	c.say(answer)
	printSources(c.Out, sources)
	r.AddToContext(question, answer)
}

// correct forgets the last learned answer and offers a replacement. When
// nothing was learned there is nothing to correct.
func (c *Chat) correct(ctx context.Context) {
	r := c.Resolver
	question := r.Session().LastQuestion

	outcome, msg := r.ForgetLastInteraction(ctx)
	c.say(msg)
	if outcome == assistant.ForgetNothing || question == "" {
		return
	}

	fmt.Fprintf(c.Out, "Correcting: %q\n", question)
	choice, _ := c.prompt("[1] type the answer  [2] learn it from a web page  [3] just forget it: ")

	switch choice {
	case "1":
		correct, _ := c.prompt("Correct answer: ")
		if correct == "" {
			return
		}
		if r.HandleUserCorrection(ctx, correct, question) {
			c.say("Thanks, I've learned the correct answer.")
		}
	case "2":
		url, _ := c.prompt("URL: ")
		if url == "" {
			return
		}
		if c.Learner == nil {
			c.say("Learning from web pages is not available.")
			return
		}
		fmt.Fprintln(c.Out, "Reading the page...")
		if c.Learner.LearnFromURL(ctx, question, url) {
			c.say("Done, I've learned from that page.")
		} else {
			c.say("I couldn't learn anything useful from that page.")
		}
	case "3":
		c.say("Understood, the interaction has been deleted.")
	default:
		c.say("That is not a valid option.")
	}
}

func (c *Chat) history(ctx context.Context) {
	entries, err := c.Knowledge.FindHistory(ctx, 10)
	if err != nil {
		c.Logger.Warn("history lookup failed", "err", err)
		c.say("I couldn't read the history.")
		return
	}
	printHistory(c.Out, entries)
}

func (c *Chat) stats(ctx context.Context) {
	stats, err := c.Knowledge.Stats(ctx)
	if err != nil {
		c.Logger.Warn("stats failed", "err", err)
		c.say("I couldn't read the statistics.")
		return
	}
	printStats(c.Out, stats)
}

func (c *Chat) export(ctx context.Context) {
	path := backupPath(c.ExportDir, c.Now())
	if err := exportFile(ctx, c.Knowledge, path); err != nil {
		c.Logger.Warn("export failed", "path", path, "err", err)
		c.say("Export failed: " + officeai.ErrorMessage(err))
		return
	}
	c.say("Knowledge base exported to " + path)
}

func (c *Chat) showContext() {
	summary := c.Resolver.ContextSummary()
	if summary == "" {
		c.say("We haven't talked about anything yet.")
		return
	}
	c.say("Recent conversation: " + summary)
}

func (c *Chat) say(text string) {
	fmt.Fprintf(c.Out, "Assistant: %s\n", text)
}
