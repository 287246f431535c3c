package api

import (
	"time"

	models "MarketPulse/internal/domain/models"
	"MarketPulse/internal/usecase"
	pkgcache "MarketPulse/pkg/cache"
	xhttp "MarketPulse/pkg/http"
	xlogger "MarketPulse/pkg/logger"

	"github.com/labstack/echo/v4"
)

// MarketEchoHandler implements Echo-based HTTP handlers following Clean Architecture.
type MarketEchoHandler struct {
	logger      *xlogger.Logger
	assembler   *usecase.MarketStateAssembler
	signals     *usecase.SignalCache
	trends      *usecase.PreviousMetricsStore
	respCache   pkgcache.Service
	snapshotTTL time.Duration
}

func NewMarketEchoHandler(
	logger *xlogger.Logger,
	assembler *usecase.MarketStateAssembler,
	signals *usecase.SignalCache,
	trends *usecase.PreviousMetricsStore,
	respCache pkgcache.Service,
	snapshotTTL time.Duration,
) *MarketEchoHandler {
	if snapshotTTL <= 0 {
		snapshotTTL = time.Minute
	}
	return &MarketEchoHandler{
		logger:      logger,
		assembler:   assembler,
		signals:     signals,
		trends:      trends,
		respCache:   respCache,
		snapshotTTL: snapshotTTL,
	}
}

func (h *MarketEchoHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.GET("/market/snapshot", h.Snapshot)
	g.GET("/etf/flows", h.ETFFlows)
	g.GET("/signals", h.Signals)
}

// snapshotResponse is the snapshot payload plus per-consumer trends and
// the completeness verdict.
type snapshotResponse struct {
	Snapshot   *models.MarketSnapshot    `json:"snapshot"`
	Trends     models.SnapshotTrends     `json:"trends"`
	Validation models.SnapshotValidation `json:"validation"`
}

func (h *MarketEchoHandler) Snapshot(c echo.Context) error {
	req := &models.SnapshotRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	snap := h.cachedSnapshot(c, req.Refresh)
	res := &snapshotResponse{
		Snapshot:   snap,
		Trends:     h.trends.TrendsFor(req.ConsumerID, snap),
		Validation: h.assembler.Validate(snap),
	}
	if !res.Validation.Valid {
		h.logger.Warn("serving degraded snapshot",
			xlogger.Float64("confidence", res.Validation.Confidence),
			xlogger.Strings("missing", res.Validation.Missing),
		)
	}
	return xhttp.SuccessResponse(c, res)
}

// cachedSnapshot serves the assembled snapshot through the short-TTL
// response cache so a burst of consumers does not fan out upstream.
func (h *MarketEchoHandler) cachedSnapshot(c echo.Context, refresh bool) *models.MarketSnapshot {
	ctx := c.Request().Context()
	key := pkgcache.GenerateKey("snapshot", "latest")

	if !refresh && h.respCache != nil {
		var cached models.MarketSnapshot
		if err := h.respCache.Get(ctx, key, &cached); err == nil {
			return &cached
		}
	}

	snap := h.assembler.Snapshot(ctx)
	if h.respCache != nil {
		if err := h.respCache.Set(ctx, key, snap, h.snapshotTTL); err != nil {
			h.logger.Warn("snapshot cache write failed", xlogger.Error(err))
		}
	}
	return snap
}

// flowsResponse lists the resolved per-asset ETF flows with the blended
// confidence over their statuses.
type flowsResponse struct {
	Flows      []models.ResolvedFlow `json:"flows"`
	Confidence float64               `json:"confidence"`
}

func (h *MarketEchoHandler) ETFFlows(c echo.Context) error {
	flows, confidence := h.assembler.ETFFlows(c.Request().Context())
	return xhttp.SuccessResponse(c, &flowsResponse{Flows: flows, Confidence: confidence})
}

// signalsResponse reports the latest published scan for one cross type
// together with a human-readable staleness notice.
type signalsResponse struct {
	Type      models.CrossType     `json:"type"`
	Signals   []models.CrossSignal `json:"signals"`
	Staleness string               `json:"staleness"`
}

func (h *MarketEchoHandler) Signals(c echo.Context) error {
	req := &models.SignalsRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	crossType := models.CrossType(req.Type)
	signals, staleness := h.signals.Read(crossType)
	return xhttp.SuccessResponse(c, &signalsResponse{
		Type:      crossType,
		Signals:   signals,
		Staleness: staleness,
	})
}
