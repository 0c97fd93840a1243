// Package statusapi provides a minimal read-only REST surface (§11.4) for
// observing a running dnstun-receiver: liveness, a point-in-time host
// snapshot, and recent transfer history. There are no mutation endpoints,
// so unlike the teacher's management API this surface carries no
// authentication middleware.
package statusapi

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dnstun/dnstun/internal/history"
	"github.com/dnstun/dnstun/internal/hostinfo"
)

// Handler contains dependencies for the status endpoints.
type Handler struct {
	logger    *slog.Logger
	startTime time.Time
	history   *history.Store // nil when history recording is disabled
}

// NewHandler builds a Handler. history may be nil.
func NewHandler(logger *slog.Logger, store *history.Store) *Handler {
	return &Handler{logger: logger, startTime: time.Now(), history: store}
}

// Health godoc
// @Summary Liveness check
// @Produce json
// @Success 200 {object} StatusResponse
// @Router /health [get]
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, StatusResponse{Status: "ok"})
}

// Status godoc
// @Summary Host resource snapshot
// @Produce json
// @Success 200 {object} hostinfo.Snapshot
// @Router /status [get]
func (h *Handler) Status(c *gin.Context) {
	snap, err := hostinfo.Take()
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, snap)
}

// History godoc
// @Summary Recent transfer history
// @Produce json
// @Success 200 {object} HistoryResponse
// @Router /history [get]
func (h *Handler) History(c *gin.Context) {
	if h.history == nil {
		c.JSON(http.StatusOK, HistoryResponse{Transfers: []TransferResponse{}})
		return
	}

	records, err := h.history.List(50)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}

	resp := HistoryResponse{Transfers: make([]TransferResponse, 0, len(records))}
	for _, r := range records {
		resp.Transfers = append(resp.Transfers, TransferResponse{
			ID:          r.ID,
			Path:        r.Path,
			PeerAddr:    r.PeerAddr,
			SizeBytes:   r.SizeBytes,
			CompletedAt: r.CompletedAt,
		})
	}
	c.JSON(http.StatusOK, resp)
}
