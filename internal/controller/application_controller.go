package controller

import (
	"staysure-portal-be/internal/dto"
	"staysure-portal-be/internal/pkg/serverutils"
	"staysure-portal-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IApplicationController interface {
	RegisterRoutes(r fiber.Router)
	GetQuote(ctx *fiber.Ctx) error
	Submit(ctx *fiber.Ctx) error
	List(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	AttachDocument(ctx *fiber.Ctx) error
}

type applicationController struct {
	service service.IApplicationService
}

func NewApplicationController(service service.IApplicationService) IApplicationController {
	return &applicationController{service: service}
}

func (c *applicationController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/applications")
	h.Get("/quote", c.GetQuote) // public pricing lookup

	h.Use(serverutils.JwtMiddleware)
	h.Post("/", c.Submit)
	h.Get("/", c.List)
	h.Get("/:id", c.Show)
	h.Post("/:id/documents", c.AttachDocument)
}

func currentUserId(ctx *fiber.Ctx) (uuid.UUID, bool) {
	userIdStr, ok := ctx.Locals("user_id").(string)
	if !ok {
		return uuid.Nil, false
	}
	userId, err := uuid.Parse(userIdStr)
	if err != nil {
		return uuid.Nil, false
	}
	return userId, true
}

func isAdminRole(ctx *fiber.Ctx) bool {
	role, _ := ctx.Locals("role").(string)
	return role == "admin"
}

func (c *applicationController) GetQuote(ctx *fiber.Ctx) error {
	serviceType := ctx.Query("service_type", "standard")

	res, err := c.service.GetQuote(serviceType)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse("Price quote", res))
}

func (c *applicationController) Submit(ctx *fiber.Ctx) error {
	userId, ok := currentUserId(ctx)
	if !ok {
		return ctx.Status(fiber.StatusUnauthorized).JSON(serverutils.ErrorResponse(401, "Invalid user id"))
	}

	var req dto.SubmitApplicationRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid request body"))
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, err.Error()))
	}

	res, err := c.service.Submit(ctx.Context(), userId, &req)
	if err != nil {
		code := statusFor(err)
		return ctx.Status(code).JSON(serverutils.ErrorResponse(code, err.Error()))
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Application submitted", res))
}

func (c *applicationController) List(ctx *fiber.Ctx) error {
	userId, ok := currentUserId(ctx)
	if !ok {
		return ctx.Status(fiber.StatusUnauthorized).JSON(serverutils.ErrorResponse(401, "Invalid user id"))
	}

	res, err := c.service.ListByOwner(ctx.Context(), userId)
	if err != nil {
		code := statusFor(err)
		return ctx.Status(code).JSON(serverutils.ErrorResponse(code, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse("Your applications", res))
}

func (c *applicationController) Show(ctx *fiber.Ctx) error {
	userId, ok := currentUserId(ctx)
	if !ok {
		return ctx.Status(fiber.StatusUnauthorized).JSON(serverutils.ErrorResponse(401, "Invalid user id"))
	}

	caseNumber := ctx.Params("id")

	res, err := c.service.GetById(ctx.Context(), userId, isAdminRole(ctx), caseNumber)
	if err != nil {
		code := statusFor(err)
		return ctx.Status(code).JSON(serverutils.ErrorResponse(code, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse("Application detail", res))
}

func (c *applicationController) AttachDocument(ctx *fiber.Ctx) error {
	userId, ok := currentUserId(ctx)
	if !ok {
		return ctx.Status(fiber.StatusUnauthorized).JSON(serverutils.ErrorResponse(401, "Invalid user id"))
	}

	caseNumber := ctx.Params("id")

	var req dto.AttachDocumentRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid request body"))
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, err.Error()))
	}

	res, err := c.service.AttachDocument(ctx.Context(), userId, caseNumber, &req)
	if err != nil {
		code := statusFor(err)
		return ctx.Status(code).JSON(serverutils.ErrorResponse(code, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse("Document attached", res))
}
