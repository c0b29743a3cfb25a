package http

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"pickchess/internal/core"
	"pickchess/internal/processor"
	"pickchess/internal/service"
)

const rateLimitRate = 10 // req/sec

// HTTPHandler handles HTTP requests and routes them to the processor
type HTTPHandler struct {
	proc *processor.Processor
	svc  *service.Service
}

func NewHTTPHandler(proc *processor.Processor, svc *service.Service) *HTTPHandler {
	return &HTTPHandler{proc: proc, svc: svc}
}

func NewFiberApp(proc *processor.Processor, svc *service.Service, devMode bool) *fiber.App {
	h := NewHTTPHandler(proc, svc)

	app := fiber.New(fiber.Config{
		ErrorHandler: customErrorHandler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: service.WaitTimeout + 10*time.Second, // long-poll responses
		IdleTimeout:  60 * time.Second,
	})

	// Global middleware (order matters)
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format: "${time} ${status} ${method} ${path} ${latency}\n",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept",
	}))

	// Health check (no rate limit)
	app.Get("/health", h.Health)

	api := app.Group("/api/v1")

	maxReq := rateLimitRate
	if devMode {
		maxReq = rateLimitRate * 2
	}
	api.Use(limiter.New(limiter.Config{
		Max:        maxReq,
		Expiration: 1 * time.Second,
		KeyGenerator: func(c *fiber.Ctx) string {
			if xff := c.Get("X-Forwarded-For"); xff != "" {
				if idx := strings.Index(xff, ","); idx != -1 {
					return strings.TrimSpace(xff[:idx])
				}
				return xff
			}
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(core.ErrorResponse{
				Error:   "rate limit exceeded",
				Code:    core.ErrRateLimitExceeded,
				Details: fmt.Sprintf("%d requests per second allowed", maxReq),
			})
		},
	}))

	api.Use(contentTypeValidator)
	api.Use(validationMiddleware)

	api.Post("/games", h.CreateGame)
	api.Get("/games/:gameId", h.GetGame)
	api.Delete("/games/:gameId", h.DeleteGame)
	api.Post("/games/:gameId/start", h.StartGame)
	api.Post("/games/:gameId/end", h.EndGame)
	api.Post("/games/:gameId/picks", h.Pick)
	api.Get("/games/:gameId/board", h.GetBoard)

	return app
}

// customErrorHandler provides consistent error responses
func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	response := core.ErrorResponse{
		Error: "internal server error",
		Code:  core.ErrInternalError,
	}

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		response.Error = e.Message

		switch code {
		case fiber.StatusNotFound:
			response.Code = core.ErrGameNotFound
		case fiber.StatusBadRequest:
			response.Code = core.ErrInvalidRequest
		case fiber.StatusTooManyRequests:
			response.Code = core.ErrRateLimitExceeded
		}
	}

	return c.Status(code).JSON(response)
}

// statusFor maps processor error codes to HTTP status
func statusFor(resp processor.ProcessorResponse) int {
	if resp.Error == nil {
		return fiber.StatusInternalServerError
	}
	switch resp.Error.Code {
	case core.ErrGameNotFound:
		return fiber.StatusNotFound
	case core.ErrInvalidRequest, core.ErrInvalidSquareCode:
		return fiber.StatusBadRequest
	default:
		return fiber.StatusInternalServerError
	}
}

// reply writes a processor response with status on success
func reply(c *fiber.Ctx, resp processor.ProcessorResponse, status int) error {
	if !resp.Success {
		return c.Status(statusFor(resp)).JSON(resp.Error)
	}
	if resp.Data == nil {
		return c.SendStatus(status)
	}
	return c.Status(status).JSON(resp.Data)
}

// Health check endpoint with storage status
func (h *HTTPHandler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "healthy",
		"time":    time.Now().Unix(),
		"games":   h.svc.GameCount(),
		"storage": h.svc.GetStorageHealth(),
	})
}

// CreateGame creates a new game, optionally started
func (h *HTTPHandler) CreateGame(c *fiber.Ctx) error {
	req, err := validatedBody[core.CreateGameRequest](c)
	if err != nil {
		return err
	}
	return reply(c, h.proc.Execute(processor.NewCreateGameCommand(*req)), fiber.StatusCreated)
}

// GetGame returns the game state. With wait=true it holds the request until
// the game's version differs from the version query parameter.
func (h *HTTPHandler) GetGame(c *fiber.Ctx) error {
	gameID, err := gameIDParam(c)
	if err != nil {
		return err
	}

	if c.Query("wait", "false") != "true" {
		return reply(c, h.proc.Execute(processor.NewGetGameCommand(gameID)), fiber.StatusOK)
	}

	version, err := strconv.ParseUint(c.Query("version", ""), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(core.ErrorResponse{
			Error:   "invalid version",
			Code:    core.ErrInvalidRequest,
			Details: "wait=true requires a numeric version",
		})
	}

	// fasthttp recycles the request context, so the waiter gets its own,
	// cancelled when the handler returns. Register before reading so a
	// change in between is not missed.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	notify := h.svc.RegisterWait(ctx, gameID, version)

	snap, err := h.svc.Snapshot(gameID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(core.ErrorResponse{
			Error: "game not found",
			Code:  core.ErrGameNotFound,
		})
	}
	if snap.Version == version {
		select {
		case <-notify:
		case <-c.Context().Done():
			return nil
		}
	}

	return reply(c, h.proc.Execute(processor.NewGetGameCommand(gameID)), fiber.StatusOK)
}

// DeleteGame removes a game
func (h *HTTPHandler) DeleteGame(c *fiber.Ctx) error {
	gameID, err := gameIDParam(c)
	if err != nil {
		return err
	}
	return reply(c, h.proc.Execute(processor.NewDeleteGameCommand(gameID)), fiber.StatusNoContent)
}

// StartGame lays out the standard position
func (h *HTTPHandler) StartGame(c *fiber.Ctx) error {
	gameID, err := gameIDParam(c)
	if err != nil {
		return err
	}
	return reply(c, h.proc.Execute(processor.NewStartGameCommand(gameID)), fiber.StatusOK)
}

// EndGame abandons the game and clears the board
func (h *HTTPHandler) EndGame(c *fiber.Ctx) error {
	gameID, err := gameIDParam(c)
	if err != nil {
		return err
	}
	return reply(c, h.proc.Execute(processor.NewEndGameCommand(gameID)), fiber.StatusOK)
}

// Pick reports a square click
func (h *HTTPHandler) Pick(c *fiber.Ctx) error {
	gameID, err := gameIDParam(c)
	if err != nil {
		return err
	}
	req, err := validatedBody[core.PickRequest](c)
	if err != nil {
		return err
	}
	return reply(c, h.proc.Execute(processor.NewPickCommand(gameID, *req)), fiber.StatusOK)
}

// GetBoard returns the placement and an ASCII drawing of the board
func (h *HTTPHandler) GetBoard(c *fiber.Ctx) error {
	gameID, err := gameIDParam(c)
	if err != nil {
		return err
	}
	return reply(c, h.proc.Execute(processor.NewGetBoardCommand(gameID)), fiber.StatusOK)
}
