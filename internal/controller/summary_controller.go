package controller

import (
	"bufio"

	"veritus-be/internal/dto"
	"veritus-be/internal/pkg/serverutils"
	"veritus-be/internal/service"
	"veritus-be/pkg/rag/response"

	"github.com/gofiber/fiber/v2"
)

type ISummaryController interface {
	RegisterRoutes(r fiber.Router, jwtMiddleware fiber.Handler)
	SummarizeDocument(ctx *fiber.Ctx) error
}

type summaryController struct {
	service service.ISummaryService
}

func NewSummaryController(svc service.ISummaryService) ISummaryController {
	return &summaryController{service: svc}
}

func (c *summaryController) RegisterRoutes(r fiber.Router, jwtMiddleware fiber.Handler) {
	h := r.Group("/summary/v1")
	h.Use(jwtMiddleware)
	h.Post("/document", c.SummarizeDocument)
}

// SummarizeDocument streams a summary of the posted text with the same SSE
// framing as the ask endpoint.
func (c *summaryController) SummarizeDocument(ctx *fiber.Ctx) error {
	var req dto.DocumentSummaryRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := serverutils.ValidateRequest(&req); err != nil {
		return err
	}

	ctx.Set(fiber.HeaderContentType, "text/event-stream")
	ctx.Set(fiber.HeaderCacheControl, "no-cache")
	ctx.Set(fiber.HeaderConnection, "keep-alive")

	tokens := c.service.StreamDocumentSummary(ctx.Context(), req)

	ctx.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
		for token := range tokens {
			var payload dto.StreamTokenPayload
			if token.Kind == response.TokenError {
				payload.Error = token.Payload
			} else {
				payload.Token = token.Payload
			}
			if !writeEvent(w, payload) {
				return
			}
		}
	})
	return nil
}
