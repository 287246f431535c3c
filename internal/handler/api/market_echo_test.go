package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"MarketPulse/internal/domain/models"
	dservice "MarketPulse/internal/domain/service"
	internalrepo "MarketPulse/internal/repository"
	"MarketPulse/internal/usecase"
	pkgcache "MarketPulse/pkg/cache"
	applogger "MarketPulse/pkg/logger"
)

var errUpstreamDown = errors.New("upstream down")

type downGlobal struct{}

func (downGlobal) GlobalMetrics(context.Context) (*dservice.GlobalMetrics, error) {
	return nil, errUpstreamDown
}

type downRatio struct{}

func (downRatio) ETHBTCRatio(context.Context) (float64, error) { return 0, errUpstreamDown }

type downSentiment struct{}

func (downSentiment) FearGreed(context.Context) (int, error) { return 0, errUpstreamDown }

type downHistory struct{}

func (downHistory) DailyCloses(context.Context, string, int) ([]float64, error) {
	return nil, errUpstreamDown
}

type downFlows struct{}

func (downFlows) NetFlow(context.Context, string) (*dservice.FlowReading, error) {
	return nil, errUpstreamDown
}

func newTestHandler(t *testing.T) (*MarketEchoHandler, *usecase.SignalCache) {
	t.Helper()
	logger, err := applogger.New(&applogger.Config{Level: "error", Format: "console", Output: "stdout"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}

	store := internalrepo.NewFlowFileStore(filepath.Join(t.TempDir(), "flows.json"), logger)
	resolver, err := usecase.NewTieredResolver(store, logger, nil,
		usecase.WithEstimate("BTC", 150),
		usecase.WithEstimate("ETH", 45),
	)
	if err != nil {
		t.Fatalf("resolver: %v", err)
	}

	assembler := usecase.NewMarketStateAssembler(
		downGlobal{}, downRatio{}, downSentiment{}, downHistory{}, downFlows{},
		resolver, []string{"BTC", "ETH"}, logger, nil,
	)
	signals := usecase.NewSignalCache()
	h := NewMarketEchoHandler(logger, assembler, signals, usecase.NewPreviousMetricsStore(),
		pkgcache.NewMemoryCache(), time.Minute)
	return h, signals
}

func doRequest(t *testing.T, h *MarketEchoHandler, target string) (*httptest.ResponseRecorder, map[string]json.RawMessage) {
	t.Helper()
	e := echo.New()
	h.RegisterRoutes(e)

	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	var envelope struct {
		Status int             `json:"status"`
		Data   json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode envelope: %v (%s)", err, rec.Body.String())
	}
	var data map[string]json.RawMessage
	if len(envelope.Data) > 0 {
		if err := json.Unmarshal(envelope.Data, &data); err != nil {
			t.Fatalf("decode data: %v", err)
		}
	}
	return rec, data
}

func TestSnapshotEndpointAlwaysResponds(t *testing.T) {
	h, _ := newTestHandler(t)

	rec, data := doRequest(t, h, "/api/market/snapshot")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 even with every upstream down", rec.Code)
	}

	var snap models.MarketSnapshot
	if err := json.Unmarshal(data["snapshot"], &snap); err != nil {
		t.Fatalf("decode snapshot: %v", err)
	}
	if snap.Regime == "" {
		t.Fatalf("regime missing from degraded snapshot")
	}
	if len(snap.Checklist) != 5 {
		t.Fatalf("checklist = %d items, want 5", len(snap.Checklist))
	}

	var validation models.SnapshotValidation
	if err := json.Unmarshal(data["validation"], &validation); err != nil {
		t.Fatalf("decode validation: %v", err)
	}
	if validation.Valid {
		t.Fatalf("validation.valid = true with every upstream down")
	}
}

func TestSnapshotEndpointTrendsPerConsumer(t *testing.T) {
	h, _ := newTestHandler(t)

	_, data := doRequest(t, h, "/api/market/snapshot?consumer_id=c1")
	var trends models.SnapshotTrends
	if err := json.Unmarshal(data["trends"], &trends); err != nil {
		t.Fatalf("decode trends: %v", err)
	}
	if trends.BTCDominance != models.TrendNeutral {
		t.Fatalf("first trend = %q, want neutral", trends.BTCDominance)
	}
}

func TestETFFlowsEndpoint(t *testing.T) {
	h, _ := newTestHandler(t)

	rec, data := doRequest(t, h, "/api/etf/flows")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var flows []models.ResolvedFlow
	if err := json.Unmarshal(data["flows"], &flows); err != nil {
		t.Fatalf("decode flows: %v", err)
	}
	if len(flows) != 2 {
		t.Fatalf("flows = %d, want 2", len(flows))
	}
	for _, f := range flows {
		if f.Status != models.ProvenanceEstimated {
			t.Fatalf("%s status = %q, want estimated with flows source down", f.Asset, f.Status)
		}
	}
}

func TestSignalsEndpoint(t *testing.T) {
	h, signals := newTestHandler(t)

	rec, data := doRequest(t, h, "/api/signals")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var staleness string
	if err := json.Unmarshal(data["staleness"], &staleness); err != nil {
		t.Fatalf("decode staleness: %v", err)
	}
	if staleness != usecase.NotYetPopulated {
		t.Fatalf("staleness = %q, want %q before first scan", staleness, usecase.NotYetPopulated)
	}

	signals.Publish(&models.SignalSet{
		Type:      models.CrossDeath,
		Signals:   []models.CrossSignal{{Symbol: "BTC", Exchange: "binance"}},
		ScannedAt: time.Now().UTC(),
	})

	_, data = doRequest(t, h, "/api/signals?type=death")
	var got []models.CrossSignal
	if err := json.Unmarshal(data["signals"], &got); err != nil {
		t.Fatalf("decode signals: %v", err)
	}
	if len(got) != 1 || got[0].Symbol != "BTC" {
		t.Fatalf("signals = %+v, want one BTC death signal", got)
	}
}

func TestSignalsEndpointRejectsUnknownType(t *testing.T) {
	h, _ := newTestHandler(t)

	rec, _ := doRequest(t, h, "/api/signals?type=sideways")
	var envelope struct {
		Status int `json:"status"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if envelope.Status != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400 for unknown cross type", envelope.Status)
	}
}
