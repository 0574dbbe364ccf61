// Package demo runs the end-to-end smoke demonstration: start the mock OPERA
// server, wait for it to become ready, exercise the booking lifecycle,
// validate the endpoint mapping, and print the docs URL for manual
// exploration.
//
// Unlike the fire-and-forget shell sequencing it replaces, the sequencer owns
// the server lifecycle (the server is shut down on every exit path), replaces
// the fixed startup sleep with a readiness probe, and halts at the first
// failing step.
package demo

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/fatih/color"

	"github.com/operamock/operamock/pkg/config"
	"github.com/operamock/operamock/pkg/logging"
	"github.com/operamock/operamock/pkg/opera"
	"github.com/operamock/operamock/pkg/recording"
	"github.com/operamock/operamock/pkg/validate"
)

// StepResult records the outcome of one sequence step.
type StepResult struct {
	Name     string        `json:"name"`
	Err      error         `json:"-"`
	Error    string        `json:"error,omitempty"`
	Skipped  bool          `json:"skipped,omitempty"`
	Duration time.Duration `json:"duration"`
}

// Result is the outcome of a full demo run.
type Result struct {
	Steps   []StepResult `json:"steps"`
	DocsURL string       `json:"docsUrl"`
}

// Failed reports whether any step failed.
func (r Result) Failed() bool {
	for _, s := range r.Steps {
		if s.Err != nil {
			return true
		}
	}
	return false
}

// Sequencer orchestrates the demo steps.
type Sequencer struct {
	cfg *config.Config
	log *slog.Logger
	out io.Writer

	startServer      bool
	readinessTimeout time.Duration

	// set while the server is running
	srv *opera.Server
}

// Option configures a Sequencer.
type Option func(*Sequencer)

// WithLogger sets the sequencer logger.
func WithLogger(log *slog.Logger) Option {
	return func(s *Sequencer) { s.log = log }
}

// WithOutput sets where step progress is printed. Defaults to os.Stdout.
func WithOutput(out io.Writer) Option {
	return func(s *Sequencer) { s.out = out }
}

// WithReadinessTimeout bounds how long the readiness probe waits for the
// server. Defaults to 10 seconds.
func WithReadinessTimeout(d time.Duration) Option {
	return func(s *Sequencer) { s.readinessTimeout = d }
}

// WithoutServer skips the server launch. The readiness probe then runs
// against whatever (if anything) listens on the configured address, which is
// how a deliberately non-responsive server is simulated.
func WithoutServer() Option {
	return func(s *Sequencer) { s.startServer = false }
}

// New creates a Sequencer for the given configuration.
func New(cfg *config.Config, opts ...Option) *Sequencer {
	s := &Sequencer{
		cfg:              cfg,
		out:              os.Stdout,
		startServer:      true,
		readinessTimeout: 10 * time.Second,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.log == nil {
		s.log = logging.Nop()
	}
	return s
}

var (
	stepOK      = color.New(color.FgGreen).SprintFunc()
	stepFailed  = color.New(color.FgRed).SprintFunc()
	stepSkipped = color.New(color.FgYellow).SprintFunc()
)

// Run executes the demo sequence. The first failing step halts the sequence;
// the remaining steps are reported as skipped. The launched server is shut
// down before Run returns, on success and failure alike.
func (s *Sequencer) Run(ctx context.Context) Result {
	defer s.stopServer()

	rec := recording.New(s.cfg.ValidationOutput)
	baseURL := s.cfg.BaseURL()

	steps := []struct {
		name string
		run  func(context.Context) error
	}{
		{"start server", func(ctx context.Context) error {
			if !s.startServer {
				s.log.Info("server launch disabled, probing configured address")
				return nil
			}
			url, err := s.launchServer(rec)
			if err != nil {
				return err
			}
			baseURL = url
			return nil
		}},
		{"wait for readiness", func(ctx context.Context) error {
			return s.waitReady(ctx, baseURL)
		}},
		{"run booking flow", func(ctx context.Context) error {
			return validate.RunFlow(ctx, validate.NewClient(baseURL), rec, s.log)
		}},
		{"validate endpoint mapping", func(ctx context.Context) error {
			if err := validate.CheckMapping(); err != nil {
				return err
			}
			return validate.CheckServed(ctx, baseURL)
		}},
	}

	var result Result
	failed := false
	for i, step := range steps {
		prefix := fmt.Sprintf("[%d/%d] %-26s", i+1, len(steps), step.name)

		if failed {
			result.Steps = append(result.Steps, StepResult{Name: step.name, Skipped: true})
			fmt.Fprintf(s.out, "%s %s\n", prefix, stepSkipped("skipped"))
			continue
		}

		start := time.Now()
		err := step.run(ctx)
		elapsed := time.Since(start)

		sr := StepResult{Name: step.name, Err: err, Duration: elapsed}
		if err != nil {
			sr.Error = err.Error()
			failed = true
			fmt.Fprintf(s.out, "%s %s  %v\n", prefix, stepFailed("failed"), err)
			s.log.Error("demo step failed", "step", step.name, "error", err)
		} else {
			fmt.Fprintf(s.out, "%s %s  (%s)\n", prefix, stepOK("ok"), elapsed.Round(time.Millisecond))
		}
		result.Steps = append(result.Steps, sr)
	}

	// baseURL is final here: the launch step rewrites it once the listener
	// reports its bound address.
	result.DocsURL = baseURL + "/docs"
	if !failed {
		fmt.Fprintf(s.out, "\nDemo complete. Explore the API at %s\n", result.DocsURL)
	}
	return result
}

// launchServer starts the mock server on its own goroutine and returns the
// base URL it is reachable at. The recorder is shared with the flow so the
// server and the validator append to one validation log instead of
// clobbering each other's writes.
func (s *Sequencer) launchServer(rec *recording.Recorder) (string, error) {
	srv, err := opera.New(s.cfg, opera.WithLogger(s.log), opera.WithRecorder(rec))
	if err != nil {
		return "", err
	}
	if err := srv.Listen(); err != nil {
		return "", err
	}
	s.srv = srv

	go func() {
		if err := srv.Serve(); err != nil {
			s.log.Error("server stopped unexpectedly", "error", err)
		}
	}()
	return "http://" + srv.Addr(), nil
}

// stopServer shuts the launched server down. Safe to call when no server was
// started.
func (s *Sequencer) stopServer() {
	if s.srv == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.srv.Shutdown(ctx); err != nil {
		s.log.Warn("server shutdown failed", "error", err)
	}
	s.srv = nil
}

// waitReady polls the health endpoint with exponential backoff until the
// server answers or the readiness timeout elapses.
func (s *Sequencer) waitReady(ctx context.Context, baseURL string) error {
	client := validate.NewClient(baseURL)

	ctx, cancel := context.WithTimeout(ctx, s.readinessTimeout)
	defer cancel()

	backoff := 100 * time.Millisecond
	const maxBackoff = 2 * time.Second

	var lastErr error
	for attempt := 1; ; attempt++ {
		lastErr = client.Health(ctx)
		if lastErr == nil {
			s.log.Debug("server ready", "attempts", attempt)
			return nil
		}

		select {
		case <-ctx.Done():
			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				return fmt.Errorf("server not ready after %s (%d attempts): %w", s.readinessTimeout, attempt, lastErr)
			}
			return ctx.Err()
		case <-time.After(backoff):
		}

		backoff *= 2
		if backoff > maxBackoff {
			backoff = maxBackoff
		}
	}
}
