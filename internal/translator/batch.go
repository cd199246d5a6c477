package translator

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"go.uber.org/zap"

	"github.com/paulocilasjr/translate-file-docx/pkg/progress"
)

// Result pairs a job with its outcome.
type Result struct {
	Job Job
	Err error
}

// Summary is what a batch run leaves behind. Failed counts jobs that were
// logged and skipped; they are never retried.
type Summary struct {
	Done    int
	Failed  int
	Results []Result
}

// Total returns the number of jobs the batch attempted.
func (s Summary) Total() int {
	return s.Done + s.Failed
}

// Render writes the end-of-batch report: a colored total line and, when
// anything failed, a table naming each skipped file and the reason.
func (s Summary) Render(w io.Writer) {
	fmt.Fprintln(w)
	okLine := color.New(color.FgGreen, color.Bold)
	okLine.Fprintf(w, "translated %d of %d documents\n", s.Done, s.Total())

	if s.Failed == 0 {
		return
	}
	color.New(color.FgRed).Fprintf(w, "%d skipped\n", s.Failed)

	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.AppendHeader(table.Row{"#", "File", "Reason"})
	n := 0
	for _, res := range s.Results {
		if res.Err == nil {
			continue
		}
		n++
		tw.AppendRow(table.Row{n, res.Job.InputPath, res.Err.Error()})
	}
	tw.SetStyle(table.StyleLight)
	tw.Render()
}

// Runner drives a batch of jobs through the dispatcher, strictly one at a
// time and in the order given. No job's outcome depends on another's.
type Runner struct {
	dispatcher *Dispatcher
	logger     *zap.Logger
	out        io.Writer
}

// NewRunner creates a batch runner rendering progress to stderr.
func NewRunner(d *Dispatcher, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{dispatcher: d, logger: logger, out: os.Stderr}
}

// SetOutput redirects progress rendering, mainly for tests.
func (r *Runner) SetOutput(w io.Writer) {
	r.out = w
}

// Run processes jobs sequentially. A failing job is logged with its path and
// reason and the batch moves to the next one. Cancelling the context stops
// the batch between jobs, never inside one.
func (r *Runner) Run(ctx context.Context, jobs []Job) Summary {
	var summary Summary
	if len(jobs) == 0 {
		r.logger.Info("no documents to translate")
		return summary
	}

	tracker := progress.NewTracker(int64(len(jobs)),
		progress.WithWriter(r.out),
		progress.WithUnit("documents", "docs"),
		progress.WithMessage("translating"),
	)
	tracker.Start()

	stopped := false
	for _, job := range jobs {
		if err := ctx.Err(); err != nil {
			r.logger.Warn("stopping batch early", zap.Error(err))
			stopped = true
			break
		}

		tracker.SetMessage(filepath.Base(job.InputPath))
		err := r.dispatcher.Process(ctx, job)
		if err != nil {
			summary.Failed++
			r.logger.Warn("failed to translate, skipping",
				zap.String("path", job.InputPath),
				zap.Error(err))
		} else {
			summary.Done++
			r.logger.Info("translated document",
				zap.String("path", job.InputPath),
				zap.String("output", job.OutputPath))
		}
		summary.Results = append(summary.Results, Result{Job: job, Err: err})
		tracker.Increment(1)
	}

	if stopped {
		tracker.Stop()
	} else {
		tracker.Done()
	}
	return summary
}
