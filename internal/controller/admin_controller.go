package controller

import (
	"staysure-portal-be/internal/dto"
	"staysure-portal-be/internal/pkg/serverutils"
	"staysure-portal-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IAdminController interface {
	RegisterRoutes(r fiber.Router)
	Login(ctx *fiber.Ctx) error
	GetDashboardStats(ctx *fiber.Ctx) error
	ListApplications(ctx *fiber.Ctx) error
	ShowApplication(ctx *fiber.Ctx) error
	TransitionStatus(ctx *fiber.Ctx) error
	ExportApplications(ctx *fiber.Ctx) error
	ListUsers(ctx *fiber.Ctx) error
	UpdateUserStatus(ctx *fiber.Ctx) error
	GetSystemLogs(ctx *fiber.Ctx) error
}

type adminController struct {
	service        service.IAdminService
	authService    service.IAuthService
	applicationSvc service.IApplicationService
}

func NewAdminController(
	adminService service.IAdminService,
	authService service.IAuthService,
	applicationSvc service.IApplicationService,
) IAdminController {
	return &adminController{
		service:        adminService,
		authService:    authService,
		applicationSvc: applicationSvc,
	}
}

func (c *adminController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/admin")

	h.Post("/login", c.Login)

	// Everything below requires the admin role claim.
	h.Use(serverutils.AdminMiddleware)

	h.Get("/dashboard", c.GetDashboardStats)

	h.Get("/applications", c.ListApplications)
	h.Get("/applications/export", c.ExportApplications)
	h.Get("/applications/:id", c.ShowApplication)
	h.Patch("/applications/:id/status", c.TransitionStatus)

	h.Get("/users", c.ListUsers)
	h.Put("/users/:id/status", c.UpdateUserStatus)

	h.Get("/logs", c.GetSystemLogs)
}

func (c *adminController) Login(ctx *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid request body"))
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, err.Error()))
	}

	ipAddress := ctx.IP()
	userAgent := ctx.Get("User-Agent")

	res, err := c.authService.LoginAdmin(ctx.Context(), &req, ipAddress, userAgent)
	if err != nil {
		code := statusFor(err)
		return ctx.Status(code).JSON(serverutils.ErrorResponse(code, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse("Admin login successful", res))
}

func (c *adminController) GetDashboardStats(ctx *fiber.Ctx) error {
	res, err := c.service.GetDashboardStats(ctx.Context())
	if err != nil {
		code := statusFor(err)
		return ctx.Status(code).JSON(serverutils.ErrorResponse(code, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse("Dashboard stats", res))
}

func (c *adminController) ListApplications(ctx *fiber.Ctx) error {
	var req dto.AdminApplicationListRequest
	if err := ctx.QueryParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid query parameters"))
	}

	res, err := c.service.ListApplications(ctx.Context(), &req)
	if err != nil {
		code := statusFor(err)
		return ctx.Status(code).JSON(serverutils.ErrorResponse(code, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse("All applications", res))
}

func (c *adminController) ShowApplication(ctx *fiber.Ctx) error {
	caseNumber := ctx.Params("id")

	res, err := c.applicationSvc.GetById(ctx.Context(), uuid.Nil, true, caseNumber)
	if err != nil {
		code := statusFor(err)
		return ctx.Status(code).JSON(serverutils.ErrorResponse(code, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse("Application detail", res))
}

func (c *adminController) TransitionStatus(ctx *fiber.Ctx) error {
	adminIdStr, _ := ctx.Locals("user_id").(string)
	adminId, err := uuid.Parse(adminIdStr)
	if err != nil {
		return ctx.Status(fiber.StatusUnauthorized).JSON(serverutils.ErrorResponse(401, "Invalid admin id"))
	}

	caseNumber := ctx.Params("id")

	var req dto.TransitionStatusRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid request body"))
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, err.Error()))
	}

	res, err := c.service.TransitionStatus(ctx.Context(), adminId, caseNumber, &req)
	if err != nil {
		code := statusFor(err)
		return ctx.Status(code).JSON(serverutils.ErrorResponse(code, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse("Status updated", res))
}

func (c *adminController) ExportApplications(ctx *fiber.Ctx) error {
	out, err := c.service.ExportApplicationsCSV(ctx.Context())
	if err != nil {
		code := statusFor(err)
		return ctx.Status(code).JSON(serverutils.ErrorResponse(code, err.Error()))
	}

	ctx.Set(fiber.HeaderContentType, "text/csv")
	ctx.Set(fiber.HeaderContentDisposition, `attachment; filename="applications.csv"`)
	return ctx.Send(out)
}

func (c *adminController) ListUsers(ctx *fiber.Ctx) error {
	var req dto.AdminUserListRequest
	if err := ctx.QueryParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid query parameters"))
	}

	res, err := c.service.ListUsers(ctx.Context(), &req)
	if err != nil {
		code := statusFor(err)
		return ctx.Status(code).JSON(serverutils.ErrorResponse(code, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse("Users", res))
}

func (c *adminController) UpdateUserStatus(ctx *fiber.Ctx) error {
	userId, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid user id"))
	}

	var req dto.UpdateUserStatusRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid request body"))
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, err.Error()))
	}

	if err := c.service.UpdateUserStatus(ctx.Context(), userId, &req); err != nil {
		code := statusFor(err)
		return ctx.Status(code).JSON(serverutils.ErrorResponse(code, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("User status updated", nil))
}

func (c *adminController) GetSystemLogs(ctx *fiber.Ctx) error {
	var req dto.SystemLogListRequest
	if err := ctx.QueryParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid query parameters"))
	}

	res, err := c.service.GetSystemLogs(ctx.Context(), &req)
	if err != nil {
		code := statusFor(err)
		return ctx.Status(code).JSON(serverutils.ErrorResponse(code, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse("System logs", res))
}
