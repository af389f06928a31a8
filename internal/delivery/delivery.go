/*
Package delivery drives the merge-and-deliver loop: validate each roster
row, render the templates, build the message, send it, and record the
outcome.
*/
package delivery

import (
	"context"
	"fmt"

	"github.com/oarkflow/mailmerge/internal/credentials"
	"github.com/oarkflow/mailmerge/internal/message"
	"github.com/oarkflow/mailmerge/internal/render"
	"github.com/oarkflow/mailmerge/internal/roster"
)

// RunConfig describes one delivery run. It is constructed once and never
// mutated while the run is in flight.
type RunConfig struct {
	Subject string // subject template
	Body    string // body template
	CC      string // optional single CC address, empty to disable
}

// Result is the outcome of one roster row. Err is nil when the row was
// sent; otherwise it carries the validation or transport failure.
type Result struct {
	Row    int // 1-based roster position
	Record roster.Record
	Err    error
}

// Summary reports the completed run.
type Summary struct {
	Sent       int
	Failed     int
	FailedPath string // failure artifact path, empty when every row was sent
}

// FailureSink materializes the failed rows at end of run and returns the
// artifact path.
type FailureSink func(records []roster.Record) (string, error)

// Engine owns the transport session for exactly one run and processes rows
// strictly in roster order. Row outcomes stream over Results so the
// invoking side can display them while the run is still sending.
type Engine struct {
	cfg      RunConfig
	provider credentials.Provider
	sink     FailureSink
	results  chan Result
}

// New creates an engine for a single run.
func New(cfg RunConfig, provider credentials.Provider, sink FailureSink) *Engine {
	return &Engine{
		cfg:      cfg,
		provider: provider,
		sink:     sink,
		results:  make(chan Result),
	}
}

// Results returns the per-row outcome stream. The channel is closed when
// Run returns, which is the run's "finished" signal.
func (e *Engine) Results() <-chan Result {
	return e.results
}

// Run processes every roster row over a single authenticated session.
//
// Fatal conditions (a CC address that does not validate, a template
// referencing an unknown field, or a session that cannot be opened or
// authenticated) abort before any row is attempted and produce no partial
// results or failure artifact. Per-row failures are never fatal: the row is
// reported, kept for the failure set, and the loop moves on.
func (e *Engine) Run(ctx context.Context, records []roster.Record) (*Summary, error) {
	defer close(e.results)

	if e.cfg.CC != "" {
		if err := roster.ValidateAddress(e.cfg.CC); err != nil {
			return nil, fmt.Errorf("cc address: %w", err)
		}
	}
	// A template/roster mismatch affects every row identically, so it is
	// surfaced once, before the session is opened.
	if err := render.Check(e.cfg.Subject); err != nil {
		return nil, fmt.Errorf("subject template: %w", err)
	}
	if err := render.Check(e.cfg.Body); err != nil {
		return nil, fmt.Errorf("body template: %w", err)
	}

	sess, sender, err := e.provider.Open(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to open mail session: %w", err)
	}
	defer sess.Close()

	var (
		sent   int
		failed []roster.Record
	)
	for i, rec := range records {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		row := i + 1
		if err := roster.ValidateRecord(rec); err != nil {
			failed = append(failed, rec)
			e.emit(ctx, Result{Row: row, Record: rec, Err: err})
			continue
		}

		subject, err := render.Render(e.cfg.Subject, rec)
		if err != nil {
			return nil, err
		}
		body, err := render.Render(e.cfg.Body, rec)
		if err != nil {
			return nil, err
		}

		to := []string{rec.MentorEmail, rec.MenteeEmail}
		rcpts := to
		if e.cfg.CC != "" {
			rcpts = append(rcpts, e.cfg.CC)
		}
		msg := message.Build(sender, to, e.cfg.CC, subject, body)

		if err := sess.Send(sender, rcpts, msg); err != nil {
			failed = append(failed, rec)
			e.emit(ctx, Result{Row: row, Record: rec, Err: err})
			continue
		}

		sent++
		e.emit(ctx, Result{Row: row, Record: rec})
	}

	summary := &Summary{Sent: sent, Failed: len(failed)}
	if len(failed) > 0 && e.sink != nil {
		path, err := e.sink(failed)
		if err != nil {
			return summary, fmt.Errorf("failed to save failure set: %w", err)
		}
		summary.FailedPath = path
	}
	return summary, nil
}

func (e *Engine) emit(ctx context.Context, r Result) {
	select {
	case e.results <- r:
	case <-ctx.Done():
	}
}
