package audit

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/de-tools/invoice-atlas/pkg/adapters"
	"github.com/de-tools/invoice-atlas/pkg/models/api"
	"github.com/de-tools/invoice-atlas/pkg/models/domain"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// Auditor runs one discrepancy analysis over a batch.
type Auditor interface {
	Analyze(ctx context.Context, labor []domain.LaborEntry, materials []domain.MaterialEntry) (domain.DiscrepancyReport, error)
}

// ChunkService partitions extracted content into bounded chunks.
type ChunkService interface {
	Chunk(content domain.ExtractedContent) []domain.Chunk
}

// RateService resolves rate standards for the read-only lookup endpoint.
type RateService interface {
	Resolve(ctx context.Context, classification domain.Classification, location string) (domain.RateStandard, error)
}

// Archiver persists a finished report; optional.
type Archiver interface {
	Put(ctx context.Context, report api.DiscrepancyReport) (string, error)
}

type Handler struct {
	auditor Auditor
	chunker ChunkService
	rates   RateService
	archive Archiver // nil disables archiving
}

func NewHandler(auditor Auditor, chunker ChunkService, rates RateService, archive Archiver) *Handler {
	return &Handler{
		auditor: auditor,
		chunker: chunker,
		rates:   rates,
		archive: archive,
	}
}

func (h *Handler) RunAudit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := zerolog.Ctx(ctx)

	var req api.AuditRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid audit request body", http.StatusBadRequest)
		return
	}

	labor := make([]domain.LaborEntry, 0, len(req.Labor))
	for _, e := range req.Labor {
		labor = append(labor, adapters.MapLaborEntryApiToDomain(e))
	}
	materials := make([]domain.MaterialEntry, 0, len(req.Materials))
	for _, e := range req.Materials {
		materials = append(materials, adapters.MapMaterialEntryApiToDomain(e))
	}

	report, err := h.auditor.Analyze(ctx, labor, materials)
	if err != nil {
		logger.Error().Err(err).Int("labor", len(labor)).Int("materials", len(materials)).
			Msg("audit failed")
		http.Error(w, "audit failed", http.StatusInternalServerError)
		return
	}

	response := adapters.MapReportDomainToApi(report)

	if h.archive != nil {
		key, err := h.archive.Put(ctx, response)
		if err != nil {
			// The report still goes back to the caller; archiving is best effort.
			logger.Error().Err(err).Str("audit_id", response.AuditID).Msg("failed to archive report")
		} else {
			logger.Info().Str("audit_id", response.AuditID).Str("key", key).Msg("report archived")
		}
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		logger.Error().Err(err).Msg("failed to encode audit report")
	}
}

func (h *Handler) ChunkContent(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := zerolog.Ctx(ctx)

	var req api.ChunkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid chunk request body", http.StatusBadRequest)
		return
	}

	chunks := h.chunker.Chunk(adapters.MapChunkRequestApiToDomain(req))

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(adapters.MapChunksDomainToApi(chunks)); err != nil {
		logger.Error().Err(err).Msg("failed to encode chunks")
	}
}

func (h *Handler) GetRateStandard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := zerolog.Ctx(ctx)
	classification := chi.URLParam(r, "classification")
	location := r.URL.Query().Get("location")

	std, err := h.rates.Resolve(ctx, domain.Classification(classification), location)
	if err != nil {
		logger.Warn().Err(err).Str("classification", classification).Msg("rate standard not found")
		http.Error(w, "rate standard not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	err = json.NewEncoder(w).Encode(map[string]any{
		"classification":     string(std.Classification),
		"location":           std.Location,
		"hourly_rate":        std.HourlyRate,
		"overtime_threshold": std.OvertimeThreshold,
		"description":        std.Description,
	})
	if err != nil {
		logger.Error().Err(err).Str("classification", classification).Msg("failed to encode rate standard")
	}
}
