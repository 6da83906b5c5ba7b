package digest_http

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"digest-orchestrator/internal/domain"
	"digest-orchestrator/internal/usecase"
)

type Handler struct {
	ingestUsecase usecase.IngestUsecase
	digestUsecase usecase.DigestUsecase
	index         domain.ChunkIndex
}

func NewHandler(
	ingestUsecase usecase.IngestUsecase,
	digestUsecase usecase.DigestUsecase,
	index domain.ChunkIndex,
) *Handler {
	return &Handler{
		ingestUsecase: ingestUsecase,
		digestUsecase: digestUsecase,
		index:         index,
	}
}

// Register wires the handler's routes onto the echo instance.
func (h *Handler) Register(e *echo.Echo) {
	e.GET("/v1/health", h.Health)
	e.GET("/v1/stats", h.Stats)
	e.POST("/v1/ingest", h.Ingest)
	e.POST("/v1/digest", h.Digest)
	e.POST("/v1/rank", h.Rank)
}

// Health reports liveness.
// (GET /v1/health)
func (h *Handler) Health(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// Stats reports how many chunks the index holds.
// (GET /v1/stats)
func (h *Handler) Stats(ctx echo.Context) error {
	count, err := h.index.Count(ctx.Request().Context())
	if err != nil {
		return ctx.JSON(http.StatusServiceUnavailable, map[string]string{"error": "index unavailable"})
	}
	return ctx.JSON(http.StatusOK, map[string]int64{"total_chunks": count})
}

type ingestRequest struct {
	Articles []domain.Article `json:"articles"`
}

// Ingest chunks, embeds and stores the submitted articles.
// (POST /v1/ingest)
func (h *Handler) Ingest(ctx echo.Context) error {
	var req ingestRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request"})
	}
	if len(req.Articles) == 0 {
		return ctx.JSON(http.StatusBadRequest, map[string]string{"error": "articles is required"})
	}

	report, err := h.ingestUsecase.Ingest(ctx.Request().Context(), req.Articles)
	if err != nil {
		return ctx.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	return ctx.JSON(http.StatusOK, report)
}

type digestRequest struct {
	Preferences []string `json:"preferences"`
	TopK        int      `json:"top_k"`
	WindowHours int      `json:"window_hours"`
}

func (r digestRequest) toInput() usecase.DigestInput {
	return usecase.DigestInput{
		Preferences: r.Preferences,
		TopK:        r.TopK,
		Window:      time.Duration(r.WindowHours) * time.Hour,
	}
}

// Digest builds a ranked-by-preference digest.
// (POST /v1/digest)
func (h *Handler) Digest(ctx echo.Context) error {
	var req digestRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request"})
	}
	if len(req.Preferences) == 0 {
		return ctx.JSON(http.StatusBadRequest, map[string]string{"error": "preferences is required"})
	}

	output, err := h.digestUsecase.Build(ctx.Request().Context(), req.toInput())
	if err != nil {
		return ctx.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	return ctx.JSON(http.StatusOK, output)
}

// Rank returns all matching articles in one global preference order.
// (POST /v1/rank)
func (h *Handler) Rank(ctx echo.Context) error {
	var req digestRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request"})
	}
	if len(req.Preferences) == 0 {
		return ctx.JSON(http.StatusBadRequest, map[string]string{"error": "preferences is required"})
	}

	output, err := h.digestUsecase.Rank(ctx.Request().Context(), req.toInput())
	if err != nil {
		return ctx.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	return ctx.JSON(http.StatusOK, output)
}
