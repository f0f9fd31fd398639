package analysis

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/JaimeStill/redline/internal/uploads"
	"github.com/JaimeStill/redline/pkg/inference"
)

const pdfMIMEType = "application/pdf"

type invoker struct {
	model   inference.Model
	slots   *semaphore.Weighted
	timeout time.Duration
	logger  *slog.Logger
}

// New creates an analysis System. At most maxConcurrent model calls run at
// once and each call, including time spent waiting for a slot, is bounded
// by timeout.
func New(model inference.Model, timeout time.Duration, maxConcurrent int, logger *slog.Logger) System {
	return &invoker{
		model:   model,
		slots:   semaphore.NewWeighted(int64(max(maxConcurrent, 1))),
		timeout: timeout,
		logger:  logger.With("system", "analysis"),
	}
}

func (s *invoker) Handler(up uploads.System) *Handler {
	return NewHandler(s, up, s.logger)
}

func (s *invoker) Analyze(ctx context.Context, batch *uploads.Batch) (*Envelope, error) {
	start := time.Now()

	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if err := s.slots.Acquire(callCtx, 1); err != nil {
		return nil, s.contextError(ctx)
	}
	defer s.slots.Release(1)

	master, candidate, err := readPair(callCtx, batch)
	if err != nil {
		if callCtx.Err() != nil {
			return nil, s.contextError(ctx)
		}
		return nil, err
	}

	content, err := s.model.Generate(callCtx, inference.Request{
		System: systemInstruction,
		Parts: []inference.Part{
			inference.Text(taskInstruction),
			inference.Text(masterLabel),
			inference.Blob(master, pdfMIMEType),
			inference.Text(candidateLabel),
			inference.Blob(candidate, pdfMIMEType),
		},
		ResponseMIMEType: "application/json",
	})
	if err != nil {
		if callCtx.Err() != nil {
			return nil, s.contextError(ctx)
		}
		s.logger.Error("model call failed", "error", err)
		return nil, fmt.Errorf("%w: %w", ErrModelInvocation, err)
	}

	result, err := ParseResult(content)
	if err != nil {
		s.logger.Error("model response rejected", "error", err)
		return nil, err
	}

	env := &Envelope{
		ID:      uuid.New(),
		Message: SuccessMessage,
		Files: Files{
			Master:    batch.Master.StoredName,
			Candidate: batch.Candidate.StoredName,
		},
		MockAnalysis: *result,
	}

	s.logger.Info(
		"analysis complete",
		"id", env.ID,
		"risk_score", result.RiskScore,
		"conflicts", len(result.Conflicts),
		"duration", time.Since(start),
	)

	return env, nil
}

// contextError reports a caller that went away as a plain invocation
// failure and anything else as the call deadline expiring.
func (s *invoker) contextError(parent context.Context) error {
	if err := parent.Err(); err != nil {
		return fmt.Errorf("%w: %w", ErrModelInvocation, err)
	}
	s.logger.Error("model call timed out", "timeout", s.timeout)
	return fmt.Errorf("%w after %s", ErrModelTimeout, s.timeout)
}

func readPair(ctx context.Context, batch *uploads.Batch) (master, candidate []byte, err error) {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		data, err := batch.Read(gctx, batch.Master)
		master = data
		return err
	})
	g.Go(func() error {
		data, err := batch.Read(gctx, batch.Candidate)
		candidate = data
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return master, candidate, nil
}
