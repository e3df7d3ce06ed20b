package controller

import (
	"ai-supportchat-be/internal/apperror"
	"ai-supportchat-be/internal/dto"
	"ai-supportchat-be/internal/pkg/serverutils"
	"ai-supportchat-be/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type IChatController interface {
	RegisterRoutes(r fiber.Router, authMiddleware fiber.Handler)
	CreateSession(ctx *fiber.Ctx) error
	ListSessions(ctx *fiber.Ctx) error
	GetSession(ctx *fiber.Ctx) error
	GetHistory(ctx *fiber.Ctx) error
	SendMessage(ctx *fiber.Ctx) error
}

type chatController struct {
	service  service.IChatService
	validate *validator.Validate
}

func NewChatController(service service.IChatService) IChatController {
	return &chatController{
		service:  service,
		validate: validator.New(),
	}
}

func (c *chatController) RegisterRoutes(r fiber.Router, authMiddleware fiber.Handler) {
	h := r.Group("/chat", authMiddleware)
	h.Post("/session", c.CreateSession)
	h.Get("/sessions", c.ListSessions)
	h.Get("/session/:sessionId", c.GetSession)
	h.Get("/session/:sessionId/messages", c.GetHistory)
	h.Post("/session/:sessionId/message", c.SendMessage)
}

func (c *chatController) CreateSession(ctx *fiber.Ctx) error {
	account := serverutils.AccountFromLocals(ctx)

	res, err := c.service.CreateSession(ctx.UserContext(), account)
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"code":    fiber.StatusCreated,
		"message": "Session created",
		"data":    res,
	})
}

func (c *chatController) ListSessions(ctx *fiber.Ctx) error {
	account := serverutils.AccountFromLocals(ctx)

	res, err := c.service.ListSessions(ctx.UserContext(), account)
	if err != nil {
		return err
	}

	return ctx.JSON(fiber.Map{
		"success": true,
		"code":    fiber.StatusOK,
		"message": "Sessions retrieved",
		"data":    res,
	})
}

func (c *chatController) GetSession(ctx *fiber.Ctx) error {
	account := serverutils.AccountFromLocals(ctx)

	res, err := c.service.GetSession(ctx.UserContext(), account, ctx.Params("sessionId"))
	if err != nil {
		return err
	}

	return ctx.JSON(fiber.Map{
		"success": true,
		"code":    fiber.StatusOK,
		"message": "Session retrieved",
		"data":    res,
	})
}

func (c *chatController) GetHistory(ctx *fiber.Ctx) error {
	account := serverutils.AccountFromLocals(ctx)

	res, err := c.service.GetHistory(ctx.UserContext(), account, ctx.Params("sessionId"))
	if err != nil {
		return err
	}

	return ctx.JSON(fiber.Map{
		"success": true,
		"code":    fiber.StatusOK,
		"message": "History retrieved",
		"data":    res,
	})
}

func (c *chatController) SendMessage(ctx *fiber.Ctx) error {
	account := serverutils.AccountFromLocals(ctx)

	var req dto.SendMessageRequest
	if err := ctx.BodyParser(&req); err != nil {
		return apperror.Wrap(apperror.KindMalformedRequest, "invalid request body", err)
	}
	if err := c.validate.Struct(&req); err != nil {
		return apperror.Wrap(apperror.KindMalformedRequest, "message is required and must be at most 4000 characters", err)
	}

	res, err := c.service.SendMessage(ctx.UserContext(), account, ctx.Params("sessionId"), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(fiber.Map{
		"success": true,
		"code":    fiber.StatusOK,
		"message": "Message processed",
		"data":    res,
	})
}
