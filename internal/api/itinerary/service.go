package itinerary

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/FACorreiaa/go-travel-itinerary/app/observability/metrics"
	"github.com/FACorreiaa/go-travel-itinerary/internal/api/behavior"
	generativeAI "github.com/FACorreiaa/go-travel-itinerary/internal/api/generative_ai"
	"github.com/FACorreiaa/go-travel-itinerary/internal/api/itinerarycache"
	"github.com/FACorreiaa/go-travel-itinerary/internal/api/persona"
	"github.com/FACorreiaa/go-travel-itinerary/internal/api/place"
	"github.com/FACorreiaa/go-travel-itinerary/internal/api/travelctx"
	"github.com/FACorreiaa/go-travel-itinerary/internal/types"
)

// Ensure implementation satisfies the interface
var _ Service = (*ServiceImpl)(nil)

// Service is the single boundary the HTTP layer consumes. It either returns
// a usable itinerary (cached, generated or fallback) or fails with
// types.ErrDataNotFound; upstream model failures never surface to callers.
type Service interface {
	GenerateItinerary(ctx context.Context, req types.ItineraryRequest) (*types.Itinerary, error)
}

// ServiceImpl wires the pipeline: persona analysis and context gathering in
// parallel, cache gate, tier selection, the three-stage chain, and
// materialization, with the deterministic fallback behind all of it.
type ServiceImpl struct {
	logger       *slog.Logger
	placeRepo    place.Repository
	behaviorRepo behavior.Repository
	analyzer     persona.Analyzer
	gatherer     travelctx.Gatherer
	cache        itinerarycache.Store
	orchestrator *Orchestrator
	materializer *Materializer
	fallback     *FallbackPlanner

	// generativeTimeout bounds the whole generative path end to end; on
	// expiry the request degrades to the fallback planner.
	generativeTimeout time.Duration
}

func NewService(
	placeRepo place.Repository,
	behaviorRepo behavior.Repository,
	analyzer persona.Analyzer,
	gatherer travelctx.Gatherer,
	cache itinerarycache.Store,
	orchestrator *Orchestrator,
	materializer *Materializer,
	fallback *FallbackPlanner,
	generativeTimeout time.Duration,
	logger *slog.Logger,
) *ServiceImpl {
	return &ServiceImpl{
		logger:            logger,
		placeRepo:         placeRepo,
		behaviorRepo:      behaviorRepo,
		analyzer:          analyzer,
		gatherer:          gatherer,
		cache:             cache,
		orchestrator:      orchestrator,
		materializer:      materializer,
		fallback:          fallback,
		generativeTimeout: generativeTimeout,
	}
}

func (s *ServiceImpl) GenerateItinerary(ctx context.Context, req types.ItineraryRequest) (*types.Itinerary, error) {
	ctx, span := otel.Tracer("ItineraryService").Start(ctx, "GenerateItinerary", trace.WithAttributes(
		attribute.String("user.id", req.UserID.String()),
		attribute.String("region", req.Region),
		attribute.Int("days", req.Days),
	))
	defer span.End()
	start := time.Now()

	places, err := s.placeRepo.GetPlaces(ctx, req.Region)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Catalog lookup failed")
		return nil, fmt.Errorf("failed to load catalog for region %s: %w", req.Region, err)
	}
	if len(places) == 0 {
		span.SetStatus(codes.Error, "No places for region")
		return nil, fmt.Errorf("region %s: %w", req.Region, types.ErrDataNotFound)
	}

	// Persona analysis and context gathering have no data dependency; run
	// them concurrently. Neither can fail.
	var (
		userPersona types.UserPersona
		tctx        types.TravelContext
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		history, histErr := s.behaviorRepo.GetHistory(gctx, req.UserID)
		if histErr != nil {
			s.logger.WarnContext(gctx, "Behavior history unavailable, using defaults",
				slog.Any("error", histErr))
		}
		userPersona = s.analyzer.Analyze(gctx, req, history)
		return nil
	})
	g.Go(func() error {
		tctx = s.gatherer.Gather(gctx, req)
		return nil
	})
	_ = g.Wait()

	cacheKey := itinerarycache.Fingerprint(req, userPersona)
	if cached, cacheErr := s.cache.Get(ctx, cacheKey); cacheErr == nil {
		span.SetAttributes(attribute.String("result.source", string(types.SourceCache)))
		s.recordResult(ctx, types.SourceCache, 0, start)
		s.logger.InfoContext(ctx, "Serving cached itinerary", slog.String("key", cacheKey))
		hit := *cached
		hit.Metadata.Source = types.SourceCache
		return &hit, nil
	} else if !errors.Is(cacheErr, types.ErrCacheMiss) {
		// Infrastructure failure on read is just a miss.
		s.logger.WarnContext(ctx, "Cache read failed, regenerating",
			slog.String("key", cacheKey), slog.Any("error", cacheErr))
	}

	categorized := place.Categorize(places)
	tier := generativeAI.SelectTier(req, userPersona)
	span.SetAttributes(attribute.String("model.tier", string(tier)))

	itinerary, genErr := s.generate(ctx, req, userPersona, tctx, places, categorized, tier, cacheKey)
	if genErr != nil {
		s.logger.WarnContext(ctx, "Generative path failed, using fallback planner",
			slog.Any("error", genErr))
		span.RecordError(genErr)
		itinerary = s.fallback.Plan(ctx, req, categorized, tctx)
	}

	span.SetAttributes(attribute.String("result.source", string(itinerary.Metadata.Source)))
	span.SetStatus(codes.Ok, "Itinerary generated")
	s.recordResult(ctx, itinerary.Metadata.Source, itinerary.Metadata.TotalTokens, start)
	return itinerary, nil
}

// generate runs the generative path under its own deadline. Cancellation of
// the parent request propagates down and aborts any in-flight model call.
func (s *ServiceImpl) generate(
	ctx context.Context,
	req types.ItineraryRequest,
	userPersona types.UserPersona,
	tctx types.TravelContext,
	places []types.Place,
	categorized types.CategorizedPlaces,
	tier generativeAI.ModelTier,
	cacheKey string,
) (*types.Itinerary, error) {
	genCtx, cancel := context.WithTimeout(ctx, s.generativeTimeout)
	defer cancel()

	chain, err := s.orchestrator.Run(genCtx, req, userPersona, tctx, categorized, tier)
	if err != nil {
		return nil, err
	}
	return s.materializer.Materialize(genCtx, chain, places, req, userPersona, tctx, cacheKey)
}

func (s *ServiceImpl) recordResult(ctx context.Context, source types.ItinerarySource, tokens int, start time.Time) {
	m := metrics.Get()
	if m == nil {
		return
	}
	m.ItineraryRequestsTotal.Add(ctx, 1,
		metric.WithAttributes(attribute.String("source", string(source))))
	m.GenerationDurationSeconds.Record(ctx, time.Since(start).Seconds(),
		metric.WithAttributes(attribute.String("source", string(source))))
	if tokens > 0 {
		m.ModelTokensTotal.Add(ctx, int64(tokens))
	}
}
