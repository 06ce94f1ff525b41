package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ilmpact/steam-export-api/internal/service"
	"github.com/ilmpact/steam-export-api/pkg/config"
	appErrors "github.com/ilmpact/steam-export-api/pkg/errors"
	"github.com/ilmpact/steam-export-api/pkg/response"
)

const dateLayout = "2006-01-02"

// ExportHandler serves the school monitoring export endpoint.
type ExportHandler struct {
	export *service.ExportService
	cfg    config.ExportConfig
}

// NewExportHandler constructs handler.
func NewExportHandler(export *service.ExportService, cfg config.ExportConfig) *ExportHandler {
	return &ExportHandler{export: export, cfg: cfg}
}

// Export godoc
// @Summary Generate the school monitoring export
// @Tags Export
// @Produce json
// @Param from query string false "Window start (YYYY-MM-DD)"
// @Param to query string false "Window end (YYYY-MM-DD)"
// @Param format query string false "csv or dat" default(csv)
// @Param totals query bool false "Append totals record (dat only)"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /export [get]
func (h *ExportHandler) Export(c *gin.Context) {
	params, err := h.parseParams(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	if h.cfg.Delivery == config.DeliveryLocal {
		h.exportLocal(c, params)
		return
	}

	result, genErr := h.export.Generate(c.Request.Context(), params)
	if genErr != nil {
		response.Error(c, genErr)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.Filename))
	c.Data(http.StatusOK, result.ContentType, result.Data)
}

// exportLocal renders both formats and writes them under the configured
// output directory, responding with the written paths.
func (h *ExportHandler) exportLocal(c *gin.Context, params service.ExportParams) {
	ctx := c.Request.Context()

	csvParams := params
	csvParams.Format = service.FormatCSV
	csvResult, err := h.export.Generate(ctx, csvParams)
	if err != nil {
		response.Error(c, err)
		return
	}
	csvPath, err := h.export.SaveLocal(csvResult)
	if err != nil {
		response.Error(c, err)
		return
	}

	datParams := params
	datParams.Format = service.FormatDAT
	datResult, err := h.export.Generate(ctx, datParams)
	if err != nil {
		response.Error(c, err)
		return
	}
	datPath, err := h.export.SaveLocal(datResult)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, gin.H{
		"csv":  csvPath,
		"dat":  datPath,
		"rows": csvResult.Rows,
	})
}

func (h *ExportHandler) parseParams(c *gin.Context) (service.ExportParams, error) {
	params := service.ExportParams{Format: service.FormatCSV}

	if raw := c.Query("from"); raw != "" {
		t, err := time.Parse(dateLayout, raw)
		if err != nil {
			return params, appErrors.Clone(appErrors.ErrValidation, "from must be formatted YYYY-MM-DD")
		}
		params.From = &t
	}
	if raw := c.Query("to"); raw != "" {
		t, err := time.Parse(dateLayout, raw)
		if err != nil {
			return params, appErrors.Clone(appErrors.ErrValidation, "to must be formatted YYYY-MM-DD")
		}
		params.To = &t
	}

	switch format := c.DefaultQuery("format", service.FormatCSV); format {
	case service.FormatCSV, service.FormatDAT:
		params.Format = format
	default:
		return params, appErrors.Clone(appErrors.ErrValidation, "format must be csv or dat")
	}

	params.Totals = c.Query("totals") == "true"
	return params, nil
}
