package controller

import (
	"bufio"
	"encoding/json"
	"fmt"

	"veritus-be/internal/dto"
	"veritus-be/internal/pkg/serverutils"
	"veritus-be/internal/service"
	ws "veritus-be/internal/websocket"
	"veritus-be/pkg/rag/response"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

type IChatController interface {
	RegisterRoutes(r fiber.Router, jwtMiddleware fiber.Handler)
	Ask(ctx *fiber.Ctx) error
	GetMessages(ctx *fiber.Ctx) error
	AppendMessage(ctx *fiber.Ctx) error
	GetSummary(ctx *fiber.Ctx) error
}

type chatController struct {
	service service.IChatService
	hub     *ws.Hub
}

func NewChatController(svc service.IChatService, hub *ws.Hub) IChatController {
	return &chatController{service: svc, hub: hub}
}

func (c *chatController) RegisterRoutes(r fiber.Router, jwtMiddleware fiber.Handler) {
	h := r.Group("/chat/v1")

	// Websocket handshakes cannot carry an Authorization header from browsers
	h.Get("/ws/:chatId", websocketUpgrade, websocket.New(c.serveWs))

	h.Use(jwtMiddleware)
	h.Post("/ask", c.Ask)
	h.Get("/messages/:chatId", c.GetMessages)
	h.Post("/message", c.AppendMessage)
	h.Get("/summary/:chatId", c.GetSummary)
}

// Ask streams the answer as server-sent events: one data line per token,
// ending with the literal [DONE] token value. Client disconnects stop the
// stream mid-way.
func (c *chatController) Ask(ctx *fiber.Ctx) error {
	var req dto.AskRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := serverutils.ValidateRequest(&req); err != nil {
		return err
	}

	ctx.Set(fiber.HeaderContentType, "text/event-stream")
	ctx.Set(fiber.HeaderCacheControl, "no-cache")
	ctx.Set(fiber.HeaderConnection, "keep-alive")

	// fasthttp.RequestCtx implements context.Context and is canceled when
	// the client goes away, which propagates into the pipeline.
	reqCtx := ctx.Context()

	tokens, err := c.service.Ask(reqCtx, req)
	if err != nil {
		ctx.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
			writeEvent(w, dto.StreamTokenPayload{Error: err.Error()})
		})
		return nil
	}

	ctx.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
		for token := range tokens {
			var payload dto.StreamTokenPayload
			if token.Kind == response.TokenError {
				payload.Error = token.Payload
			} else {
				payload.Token = token.Payload
			}
			if !writeEvent(w, payload) {
				return // client disconnected
			}
		}
	})
	return nil
}

func writeEvent(w *bufio.Writer, payload dto.StreamTokenPayload) bool {
	data, err := json.Marshal(payload)
	if err != nil {
		return false
	}
	if _, err := fmt.Fprintf(w, "data: %s\n\n", data); err != nil {
		return false
	}
	return w.Flush() == nil
}

func (c *chatController) GetMessages(ctx *fiber.Ctx) error {
	chatId, err := uuid.Parse(ctx.Params("chatId"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid chat id")
	}

	var query dto.MessageHistoryQuery
	if err := ctx.QueryParser(&query); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid query parameters")
	}
	if err := serverutils.ValidateRequest(&query); err != nil {
		return err
	}

	res, err := c.service.GetMessages(ctx.Context(), chatId, query)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get chat messages", res))
}

func (c *chatController) AppendMessage(ctx *fiber.Ctx) error {
	var req dto.AppendMessageRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := serverutils.ValidateRequest(&req); err != nil {
		return err
	}

	res, err := c.service.AppendMessage(ctx.Context(), req)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Message appended", res))
}

func (c *chatController) GetSummary(ctx *fiber.Ctx) error {
	chatId, err := uuid.Parse(ctx.Params("chatId"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid chat id")
	}

	res, err := c.service.GetSummary(ctx.Context(), chatId)
	if err != nil {
		return err
	}
	if res == nil {
		return fiber.NewError(fiber.StatusNotFound, "Chat has no summary yet")
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get chat summary", res))
}

func (c *chatController) serveWs(conn *websocket.Conn) {
	chatId, err := uuid.Parse(conn.Params("chatId"))
	if err != nil {
		conn.Close()
		return
	}
	ws.ServeWs(c.hub, conn, chatId)
}

func websocketUpgrade(ctx *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(ctx) {
		return ctx.Next()
	}
	return fiber.ErrUpgradeRequired
}
