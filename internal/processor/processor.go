package processor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"go.uber.org/zap"

	"codeberg.org/snonux/lingoflow/internal/backend"
	"codeberg.org/snonux/lingoflow/internal/batch"
	"codeberg.org/snonux/lingoflow/internal/cli"
	"codeberg.org/snonux/lingoflow/internal/direction"
	"codeberg.org/snonux/lingoflow/internal/gui"
	"codeberg.org/snonux/lingoflow/internal/notify"
	"codeberg.org/snonux/lingoflow/internal/orchestrator"
	"codeberg.org/snonux/lingoflow/internal/sentiment"
)

// barWidth is the width of a full sentiment bar in characters.
const barWidth = 30

// Processor handles the command-line workflows
type Processor struct {
	flags  *cli.Flags
	client backend.Client
	orch   *orchestrator.Orchestrator
	logger *zap.SugaredLogger
	out    io.Writer
}

// NewProcessor creates a new processor printing to stdout and stderr
func NewProcessor(flags *cli.Flags, client backend.Client, logger *zap.SugaredLogger) *Processor {
	return newProcessor(flags, client, logger, os.Stdout, os.Stderr)
}

func newProcessor(flags *cli.Flags, client backend.Client, logger *zap.SugaredLogger, out, errOut io.Writer) *Processor {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}

	textTimeout, audioTimeout := cli.Timeouts()
	if textTimeout == 0 {
		textTimeout = flags.TextTimeout
	}
	if audioTimeout == 0 {
		audioTimeout = flags.AudioTimeout
	}

	dir := direction.Forward
	if flags.Reverse {
		dir = direction.Reverse
	}

	orch := orchestrator.New(client, &notify.Console{Out: out, Err: errOut},
		orchestrator.WithLogger(logger),
		orchestrator.WithTimeouts(textTimeout, audioTimeout),
		orchestrator.WithDirection(dir),
	)

	return &Processor{
		flags:  flags,
		client: client,
		orch:   orch,
		logger: logger,
		out:    out,
	}
}

// ProcessText runs the text workflows selected by the flags. Plain
// translation runs when no other workflow was selected.
func (p *Processor) ProcessText(ctx context.Context, text string) error {
	var workflows []string
	if p.flags.POS {
		workflows = append(workflows, batch.WorkflowPOS)
	}
	if p.flags.Keywords {
		workflows = append(workflows, batch.WorkflowKeywords)
	}
	if p.flags.Analyze {
		workflows = append(workflows, batch.WorkflowAnalyze)
	}
	if !p.flags.HasTextWorkflow() {
		workflows = append(workflows, batch.WorkflowTranslate)
	}

	var errs []error
	for _, workflow := range workflows {
		if err := p.runWorkflow(ctx, workflow, text); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (p *Processor) runWorkflow(ctx context.Context, workflow, text string) error {
	switch workflow {
	case batch.WorkflowPOS:
		tags, err := p.orch.SubmitPOS(ctx, text)
		if err != nil {
			return err
		}
		p.printPOS(tags)
	case batch.WorkflowKeywords:
		keywords, err := p.orch.SubmitKeywordTranslate(ctx, text)
		if err != nil {
			return err
		}
		p.printKeywords(keywords)
	case batch.WorkflowAnalyze:
		analysis, err := p.orch.SubmitTextAnalysis(ctx, text)
		if err != nil {
			return err
		}
		p.printAnalysis(analysis)
	default:
		translated, err := p.orch.SubmitTranslate(ctx, text)
		if err != nil {
			return err
		}
		fmt.Fprintf(p.out, "  Telugu: %s\n", translated)
	}
	return nil
}

// ProcessAudio transcribes and analyses an audio file, then translates the
// transcript and summary when --translate-results is set
func (p *Processor) ProcessAudio(ctx context.Context, path string) error {
	job, err := backend.LoadAudioJob(path)
	if err != nil {
		return err
	}

	fmt.Fprintf(p.out, "\nProcessing audio: %s (%d bytes)\n", job.Name, len(job.Data))
	transcript, err := p.orch.SubmitAudio(ctx, job)
	if err != nil {
		return err
	}
	p.printTranscript(transcript)

	if !p.flags.TranslateResults {
		return nil
	}

	fmt.Fprintf(p.out, "\nTranslating results (%s)...\n", p.orch.Direction())
	multi, err := p.orch.SubmitTranslateMultiple(ctx)
	if errors.Is(err, orchestrator.ErrNoTranscript) {
		fmt.Fprintf(p.out, "  Nothing to translate: transcript or summary is missing\n")
		return nil
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(p.out, "  %s: %s\n", multi.TranscriptLabel(), multi.TranslatedText1)
	fmt.Fprintf(p.out, "  %s: %s\n", multi.SummaryLabel(), multi.TranslatedText2)
	return nil
}

// ProcessBatch processes every text of the batch file in order
func (p *Processor) ProcessBatch(ctx context.Context) error {
	entries, err := batch.ReadBatchFile(p.flags.BatchFile)
	if err != nil {
		return err
	}

	// Track statistics
	processedCount := 0
	errorCount := 0

	for i, entry := range entries {
		fmt.Fprintf(p.out, "\nProcessing %d/%d: %s\n", i+1, len(entries), entry.Text)

		if entry.Workflow == batch.WorkflowDefault {
			err = p.ProcessText(ctx, entry.Text)
		} else {
			err = p.runWorkflow(ctx, entry.Workflow, entry.Text)
		}
		if err != nil {
			p.logger.Warnw("batch entry failed", "line", entry.Line, "error", err)
			errorCount++
			// Continue with next text
			continue
		}
		processedCount++
	}

	// Print summary
	fmt.Fprintf(p.out, "\n=== Batch Processing Summary ===\n")
	fmt.Fprintf(p.out, "Total texts: %d\n", len(entries))
	fmt.Fprintf(p.out, "Processed: %d\n", processedCount)
	if errorCount > 0 {
		fmt.Fprintf(p.out, "Errors: %d\n", errorCount)
	}
	fmt.Fprintf(p.out, "================================\n")

	if errorCount > 0 {
		return fmt.Errorf("%d of %d batch texts failed", errorCount, len(entries))
	}
	return nil
}

// RunGUIMode launches the GUI application
func (p *Processor) RunGUIMode() error {
	textTimeout, audioTimeout := cli.Timeouts()
	guiConfig := &gui.Config{
		Client:       p.client,
		Logger:       p.logger,
		TextTimeout:  textTimeout,
		AudioTimeout: audioTimeout,
		Reverse:      p.flags.Reverse,
	}

	// Create and run GUI application
	app := gui.New(guiConfig)
	app.Run()

	return nil
}

func (p *Processor) printPOS(tags []backend.POSTag) {
	w := tabwriter.NewWriter(p.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "  TOKEN\tPOS")
	for _, tag := range tags {
		fmt.Fprintf(w, "  %s\t%s\n", tag.Token, tag.POS)
	}
	w.Flush()
}

func (p *Processor) printKeywords(keywords []backend.Keyword) {
	w := tabwriter.NewWriter(p.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "  KEYWORD\tTELUGU\tSCORE")
	for _, k := range keywords {
		fmt.Fprintf(w, "  %s\t%s\t%.2f\n", k.Keyword, k.TranslatedKeyword, k.Score)
	}
	w.Flush()
}

func (p *Processor) printAnalysis(a orchestrator.Analysis) {
	fmt.Fprintf(p.out, "  Telugu: %s\n", a.TranslatedText)
	if a.Summary != "" {
		fmt.Fprintf(p.out, "  Summary: %s\n", a.Summary)
	}
	p.printSentiment(a.Vector, a.OverallSentiment)
}

func (p *Processor) printTranscript(t orchestrator.Transcript) {
	if t.Transcript == "" {
		fmt.Fprintf(p.out, "  No speech recognised\n")
		return
	}
	fmt.Fprintf(p.out, "  Transcript: %s\n", t.Transcript)
	if t.Summary != "" {
		fmt.Fprintf(p.out, "  Summary: %s\n", t.Summary)
	}
	p.printSentiment(t.Vector, t.OverallSentiment)
}

func (p *Processor) printSentiment(v sentiment.Vector, overall string) {
	if overall == "" {
		overall = sentiment.Overall(v)
	}
	fmt.Fprintf(p.out, "  Overall sentiment: %s\n", overall)
	if label, ok := sentiment.Dominant(v); ok {
		fmt.Fprintf(p.out, "  Dominant emotion: %s\n", label)
	}
	for _, s := range sentiment.Slices(v) {
		fmt.Fprintf(p.out, "  %-9s %-*s %5.1f%%\n", s.Label, barWidth, strings.Repeat("█", int(s.Share*barWidth+0.5)), s.Share*100)
	}
}
