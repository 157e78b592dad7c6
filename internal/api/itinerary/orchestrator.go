package itinerary

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/go-travel-itinerary/app/observability/metrics"
	generativeAI "github.com/FACorreiaa/go-travel-itinerary/internal/api/generative_ai"
	"github.com/FACorreiaa/go-travel-itinerary/internal/types"
)

// chainStage is the orchestrator's explicit state. The chain only moves
// forward; Aborted is terminal and reachable from any stage on retry
// exhaustion.
type chainStage int

const (
	stageAnalysis chainStage = iota
	stageStrategy
	stageDetail
	stageDone
	stageAborted
)

func (s chainStage) String() string {
	switch s {
	case stageAnalysis:
		return "analysis"
	case stageStrategy:
		return "strategy"
	case stageDetail:
		return "detail"
	case stageDone:
		return "done"
	default:
		return "aborted"
	}
}

// Per-stage sampling temperatures. The strategy stage is allowed to be more
// creative than the two structured stages.
const (
	analysisTemperature float32 = 0.3
	strategyTemperature float32 = 0.5
	detailTemperature   float32 = 0.3
)

// RetryPolicy bounds the per-stage retry loop. There is no cross-stage
// retry: a failed strategy stage never re-runs analysis.
type RetryPolicy struct {
	MaxAttempts     uint64
	InitialInterval time.Duration
	MaxInterval     time.Duration
}

func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts:     3,
		InitialInterval: 1 * time.Second,
		MaxInterval:     10 * time.Second,
	}
}

// ChainResult is the successful outcome of the three-stage chain.
type ChainResult struct {
	Plan        *detailedPlan
	ModelUsed   string
	TotalTokens int
}

// Orchestrator runs the chain-of-thought pipeline: analysis, then strategy,
// then the detailed plan, each call consuming the previous stage's JSON. Any
// stage that exhausts its retries aborts the whole chain; a partial plan is
// never returned. The orchestrator holds no mutable state across requests.
type Orchestrator struct {
	logger *slog.Logger
	client generativeAI.Client
	retry  RetryPolicy
}

func NewOrchestrator(client generativeAI.Client, retry RetryPolicy, logger *slog.Logger) *Orchestrator {
	if retry.MaxAttempts == 0 {
		// MaxAttempts-1 feeds backoff.WithMaxRetries; a zero would
		// underflow the uint64 into an unbounded retry loop.
		retry.MaxAttempts = 1
	}
	return &Orchestrator{
		logger: logger,
		client: client,
		retry:  retry,
	}
}

func (o *Orchestrator) Run(
	ctx context.Context,
	req types.ItineraryRequest,
	persona types.UserPersona,
	tctx types.TravelContext,
	categorized types.CategorizedPlaces,
	tier generativeAI.ModelTier,
) (*ChainResult, error) {
	ctx, span := otel.Tracer("ItineraryOrchestrator").Start(ctx, "Run", trace.WithAttributes(
		attribute.String("model.tier", string(tier)),
		attribute.Int("request.days", req.Days),
	))
	defer span.End()

	var (
		analysis json.RawMessage
		strategy json.RawMessage
		plan     detailedPlan
		result   ChainResult
		stageErr error
	)

	state := stageAnalysis
	for state != stageDone && state != stageAborted {
		switch state {
		case stageAnalysis:
			prompt := buildAnalysisPrompt(req, persona, tctx)
			stageErr = o.runStage(ctx, state, prompt, tier, analysisTemperature, &analysis, &result)
		case stageStrategy:
			prompt := buildStrategyPrompt(req.Days, analysis, categorized)
			stageErr = o.runStage(ctx, state, prompt, tier, strategyTemperature, &strategy, &result)
		case stageDetail:
			prompt := buildDetailPrompt(strategy)
			stageErr = o.runStage(ctx, state, prompt, tier, detailTemperature, &plan, &result)
		}

		if stageErr != nil {
			failedAt := state
			state = stageAborted
			span.RecordError(stageErr)
			span.SetStatus(codes.Error, "Chain aborted")
			o.logger.ErrorContext(ctx, "Chain-of-thought aborted",
				slog.String("stage", failedAt.String()),
				slog.Any("error", stageErr))
			return nil, fmt.Errorf("chain aborted at %s stage: %w", failedAt, stageErr)
		}
		state++
	}

	result.Plan = &plan
	span.SetAttributes(
		attribute.Int("chain.total_tokens", result.TotalTokens),
		attribute.String("chain.model", result.ModelUsed),
	)
	span.SetStatus(codes.Ok, "Chain completed")
	o.logger.InfoContext(ctx, "Chain-of-thought completed",
		slog.Int("total_tokens", result.TotalTokens),
		slog.String("model", result.ModelUsed))
	return &result, nil
}

// runStage executes one generative call with bounded exponential backoff.
// Malformed responses count as retryable failures exactly like transport
// errors; both escalate to an abort once attempts are exhausted.
func (o *Orchestrator) runStage(
	ctx context.Context,
	stage chainStage,
	prompt string,
	tier generativeAI.ModelTier,
	temperature float32,
	out any,
	result *ChainResult,
) error {
	ctx, span := otel.Tracer("ItineraryOrchestrator").Start(ctx, "Stage", trace.WithAttributes(
		attribute.String("stage", stage.String()),
		attribute.Int("prompt.length", len(prompt)),
	))
	defer span.End()

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = o.retry.InitialInterval
	bo.MaxInterval = o.retry.MaxInterval

	attempts := 0
	operation := func() error {
		attempts++
		completion, err := o.client.Complete(ctx, prompt, tier, temperature)
		if err != nil {
			o.logger.WarnContext(ctx, "Stage attempt failed",
				slog.String("stage", stage.String()),
				slog.Int("attempt", attempts),
				slog.Any("error", err))
			return fmt.Errorf("%w: %s", types.ErrUpstreamModel, err)
		}
		if err := decodeStageJSON(completion.Text, out); err != nil {
			o.logger.WarnContext(ctx, "Stage returned malformed JSON",
				slog.String("stage", stage.String()),
				slog.Int("attempt", attempts),
				slog.Any("error", err))
			return err
		}
		result.TotalTokens += completion.TotalTokens
		result.ModelUsed = completion.ModelUsed
		return nil
	}

	err := backoff.Retry(operation,
		backoff.WithMaxRetries(backoff.WithContext(bo, ctx), o.retry.MaxAttempts-1))

	span.SetAttributes(attribute.Int("stage.attempts", attempts))
	if attempts > 1 {
		if m := metrics.Get(); m != nil {
			m.StageRetriesTotal.Add(ctx, int64(attempts-1),
				metric.WithAttributes(attribute.String("stage", stage.String())))
		}
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Stage exhausted retries")
		if !errors.Is(err, types.ErrUpstreamModel) && !errors.Is(err, types.ErrSerialization) {
			err = fmt.Errorf("%w: %s", types.ErrUpstreamModel, err)
		}
		return err
	}
	span.SetStatus(codes.Ok, "Stage completed")
	return nil
}
