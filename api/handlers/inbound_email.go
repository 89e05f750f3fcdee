package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/opentracing/opentracing-go"

	"github.com/hearthside/mailroom/dto"
	"github.com/hearthside/mailroom/internal/enum"
	"github.com/hearthside/mailroom/internal/errs"
	"github.com/hearthside/mailroom/internal/logger"
	"github.com/hearthside/mailroom/internal/tracing"
	"github.com/hearthside/mailroom/services/ingestion"
)

type InboundEmailHandler struct {
	log       logger.Logger
	ingestion *ingestion.IngestionService
}

func NewInboundEmailHandler(log logger.Logger, ingestionService *ingestion.IngestionService) *InboundEmailHandler {
	return &InboundEmailHandler{
		log:       log,
		ingestion: ingestionService,
	}
}

// Handle receives one relay submission. The relay retries on anything
// but 2xx, so business rejections return 400 with a reason and only
// infrastructure failures surface as 500.
func (h *InboundEmailHandler) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		span, ctx := opentracing.StartSpanFromContext(c.Request.Context(), "InboundEmailHandler.Handle")
		defer span.Finish()
		tracing.SetDefaultRestSpanTags(ctx, span)

		form, err := c.MultipartForm()
		if err != nil {
			tracing.TraceErr(span, err)
			c.JSON(http.StatusBadRequest, dto.InboundEmailResponse{
				Success: false,
				Type:    enum.RouteUnknown,
				Error:   errs.ErrMalformedForm.Error(),
				Details: err.Error(),
			})
			return
		}

		result, err := h.ingestion.ProcessInboundEmail(ctx, form)
		if err != nil {
			tracing.TraceErr(span, err)
			h.log.Errorf("Inbound email processing failed: %v", err)
			c.JSON(http.StatusInternalServerError, dto.InboundEmailResponse{
				Success: false,
				Type:    enum.RouteUnknown,
				Error:   "Internal server error",
			})
			return
		}

		if !result.Success {
			c.JSON(http.StatusBadRequest, dto.InboundEmailResponse{
				Success: false,
				Type:    result.Kind,
				Error:   result.Reason,
				Details: result.Detail,
			})
			return
		}

		c.JSON(http.StatusOK, dto.InboundEmailResponse{
			Success:  true,
			Type:     result.Kind,
			EntityID: result.EntityID,
		})
	}
}

// Preflight answers the relay's CORS probe.
func (h *InboundEmailHandler) Preflight() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type")
		c.Status(http.StatusNoContent)
	}
}
