package itinerary

import (
	"errors"
	"log/slog"
	"net/http"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/FACorreiaa/go-travel-itinerary/internal/api"
	"github.com/FACorreiaa/go-travel-itinerary/internal/types"
)

var _ Handler = (*HandlerImpl)(nil)

type Handler interface {
	GenerateItineraryHandler(w http.ResponseWriter, r *http.Request)
}

type HandlerImpl struct {
	logger  *slog.Logger
	service Service
}

func NewHandler(service Service, logger *slog.Logger) *HandlerImpl {
	return &HandlerImpl{
		logger:  logger,
		service: service,
	}
}

// GenerateItineraryHandler handles POST /api/v1/itineraries.
func (h *HandlerImpl) GenerateItineraryHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("ItineraryHandler").Start(r.Context(), "GenerateItinerary")
	defer span.End()
	l := h.logger.With(slog.String("handler", "GenerateItineraryHandler"))

	var req types.ItineraryRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		l.WarnContext(ctx, "Failed to decode request body", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Bad request")
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	if msg := validateRequest(&req); msg != "" {
		l.WarnContext(ctx, "Invalid itinerary request", slog.String("reason", msg))
		span.SetStatus(codes.Error, "Validation failed")
		api.ErrorResponse(w, r, http.StatusBadRequest, msg)
		return
	}
	span.SetAttributes(
		attribute.String("user.id", req.UserID.String()),
		attribute.String("region", req.Region),
		attribute.Int("days", req.Days),
	)

	l.InfoContext(ctx, "Generating itinerary",
		slog.String("region", req.Region),
		slog.Int("days", req.Days),
		slog.String("schedule", string(req.Schedule)))

	itinerary, err := h.service.GenerateItinerary(ctx, req)
	if err != nil {
		span.RecordError(err)
		if errors.Is(err, types.ErrDataNotFound) {
			l.WarnContext(ctx, "No catalog data for region", slog.String("region", req.Region))
			span.SetStatus(codes.Error, "Region has no places")
			api.ErrorResponse(w, r, http.StatusNotFound, "no places found for region "+req.Region)
			return
		}
		l.ErrorContext(ctx, "Failed to generate itinerary", slog.Any("error", err))
		span.SetStatus(codes.Error, "Service operation failed")
		api.ErrorResponse(w, r, http.StatusInternalServerError, "failed to generate itinerary")
		return
	}

	l.InfoContext(ctx, "Itinerary generated",
		slog.String("source", string(itinerary.Metadata.Source)),
		slog.Int("total_tokens", itinerary.Metadata.TotalTokens))
	span.SetAttributes(attribute.String("result.source", string(itinerary.Metadata.Source)))
	span.SetStatus(codes.Ok, "Itinerary generated")
	api.WriteJSONResponse(w, r, http.StatusOK, itinerary)
}

func validateRequest(req *types.ItineraryRequest) string {
	if req.Region == "" {
		return "region is required"
	}
	if req.Days < 1 {
		return "days must be at least 1"
	}
	if req.Days > 14 {
		return "days must not exceed 14"
	}
	if req.Schedule == "" {
		req.Schedule = types.PaceRelaxed
	}
	if req.Schedule != types.PaceRelaxed && req.Schedule != types.PacePacked {
		return "schedule must be 'relaxed' or 'packed'"
	}
	return ""
}
