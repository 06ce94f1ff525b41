package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ilmpact/steam-export-api/internal/models"
	"github.com/ilmpact/steam-export-api/internal/service"
	"github.com/ilmpact/steam-export-api/pkg/config"
	appErrors "github.com/ilmpact/steam-export-api/pkg/errors"
)

type stubAggregator struct {
	summaries []models.SchoolSummary
	err       error

	gotFrom *time.Time
	gotTo   *time.Time
}

func (a *stubAggregator) Aggregate(ctx context.Context, from, to *time.Time) ([]models.SchoolSummary, error) {
	a.gotFrom = from
	a.gotTo = to
	return a.summaries, a.err
}

type stubStorage struct {
	saved map[string][]byte
}

func (s *stubStorage) Save(filename string, data []byte) (string, error) {
	if s.saved == nil {
		s.saved = map[string][]byte{}
	}
	s.saved[filename] = data
	return s.Path(filename), nil
}

func (s *stubStorage) Path(filename string) string {
	return filepath.Join("/tmp/exports", filename)
}

func buildExportRouter(agg *stubAggregator, cfg config.ExportConfig, store *stubStorage) *gin.Engine {
	gin.SetMode(gin.TestMode)
	svc := service.NewExportService(agg, store, nil, cfg, nil)
	h := NewExportHandler(svc, cfg)

	r := gin.New()
	r.GET("/export", h.Export)
	return r
}

func performRequest(r http.Handler, req *http.Request) *httptest.ResponseRecorder {
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

func exportSummaries() []models.SchoolSummary {
	return []models.SchoolSummary{
		{SchoolName: "GHS Herat", Province: "Herat", CurrentLevel: 2, TotalAccepted: 5, TotalSubmitted: 6},
	}
}

func TestExportStreamsCSV(t *testing.T) {
	agg := &stubAggregator{summaries: exportSummaries()}
	router := buildExportRouter(agg, config.ExportConfig{Delivery: config.DeliveryStream}, &stubStorage{})

	req, _ := http.NewRequest(http.MethodGet, "/export", nil)
	resp := performRequest(router, req)

	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "text/csv; charset=utf-8", resp.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="SchoolData.csv"`, resp.Header().Get("Content-Disposition"))
	assert.True(t, strings.HasPrefix(resp.Body.String(), "\ufeff"))
	assert.Contains(t, resp.Body.String(), "GHS Herat")
}

func TestExportStreamsDAT(t *testing.T) {
	agg := &stubAggregator{summaries: exportSummaries()}
	router := buildExportRouter(agg, config.ExportConfig{Delivery: config.DeliveryStream}, &stubStorage{})

	req, _ := http.NewRequest(http.MethodGet, "/export?format=dat", nil)
	resp := performRequest(router, req)

	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "application/octet-stream", resp.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="SchoolData.dat"`, resp.Header().Get("Content-Disposition"))
	assert.True(t, strings.HasPrefix(resp.Body.String(), "1"))
}

func TestExportParsesWindow(t *testing.T) {
	agg := &stubAggregator{summaries: exportSummaries()}
	router := buildExportRouter(agg, config.ExportConfig{Delivery: config.DeliveryStream}, &stubStorage{})

	req, _ := http.NewRequest(http.MethodGet, "/export?from=2025-10-01&to=2025-12-31", nil)
	resp := performRequest(router, req)

	require.Equal(t, http.StatusOK, resp.Code)
	require.NotNil(t, agg.gotFrom)
	require.NotNil(t, agg.gotTo)
	assert.Equal(t, time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC), *agg.gotFrom)
	assert.Equal(t, time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC), *agg.gotTo)
}

func TestExportRejectsBadParams(t *testing.T) {
	agg := &stubAggregator{summaries: exportSummaries()}
	router := buildExportRouter(agg, config.ExportConfig{Delivery: config.DeliveryStream}, &stubStorage{})

	for _, path := range []string{
		"/export?from=01-10-2025",
		"/export?to=October",
		"/export?format=pdf",
	} {
		req, _ := http.NewRequest(http.MethodGet, path, nil)
		resp := performRequest(router, req)
		assert.Equal(t, http.StatusBadRequest, resp.Code, path)
		assert.Contains(t, resp.Body.String(), appErrors.ErrValidation.Code)
	}
}

func TestExportNoData(t *testing.T) {
	agg := &stubAggregator{err: appErrors.Clone(appErrors.ErrNoData, "no eligible program schools found")}
	router := buildExportRouter(agg, config.ExportConfig{Delivery: config.DeliveryStream}, &stubStorage{})

	req, _ := http.NewRequest(http.MethodGet, "/export", nil)
	resp := performRequest(router, req)

	require.Equal(t, http.StatusNotFound, resp.Code)
	assert.Contains(t, resp.Body.String(), "NO_DATA")
}

func TestExportLocalDeliveryWritesBothFormats(t *testing.T) {
	agg := &stubAggregator{summaries: exportSummaries()}
	store := &stubStorage{}
	router := buildExportRouter(agg, config.ExportConfig{Delivery: config.DeliveryLocal}, store)

	req, _ := http.NewRequest(http.MethodGet, "/export", nil)
	resp := performRequest(router, req)

	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), "/tmp/exports/SchoolData.csv")
	assert.Contains(t, resp.Body.String(), "/tmp/exports/SchoolData.dat")
	assert.Contains(t, store.saved, service.FileNameCSV)
	assert.Contains(t, store.saved, service.FileNameDAT)
}
