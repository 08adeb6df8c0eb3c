package controller

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"ai-teacher-be/internal/dto"
	"ai-teacher-be/internal/pkg/serverutils"
	"ai-teacher-be/internal/service"
)

type IReviewController interface {
	RegisterRoutes(r fiber.Router)
	SubmitFeedback(ctx *fiber.Ctx) error
	ListAnswers(ctx *fiber.Ctx) error
	VerifyAnswer(ctx *fiber.Ctx) error
}

type reviewController struct {
	reviewService service.IReviewService
}

func NewReviewController(reviewService service.IReviewService) IReviewController {
	return &reviewController{
		reviewService: reviewService,
	}
}

func (c *reviewController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/review/v1")
	h.Use(serverutils.IdentityMiddleware)
	h.Post("answers/:id/feedback", c.SubmitFeedback)
	h.Get("answers", serverutils.RequireTeacherRole, c.ListAnswers)
	h.Post("answers/:id/verify", serverutils.RequireTeacherRole, c.VerifyAnswer)
}

func (c *reviewController) SubmitFeedback(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	auditLogId, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return serverutils.NewAppError(fiber.StatusBadRequest, "Invalid answer id")
	}

	var req dto.StudentFeedbackRequest
	if err := ctx.BodyParser(&req); err != nil {
		return serverutils.NewAppError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	if err := c.reviewService.SetStudentFeedback(ctx.Context(), userId, auditLogId, &req); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Feedback recorded", nil))
}

func (c *reviewController) ListAnswers(ctx *fiber.Ctx) error {
	facultyId := ctx.Locals("faculty_id").(string)
	if facultyId == "" {
		return serverutils.ErrContextMissing
	}

	limit := ctx.QueryInt("limit", 20)
	offset := ctx.QueryInt("offset", 0)

	res, err := c.reviewService.GetReviewQueue(ctx.Context(), facultyId, limit, offset)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success list answers", res))
}

func (c *reviewController) VerifyAnswer(ctx *fiber.Ctx) error {
	auditLogId, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return serverutils.NewAppError(fiber.StatusBadRequest, "Invalid answer id")
	}

	var req dto.TeacherReviewRequest
	if err := ctx.BodyParser(&req); err != nil {
		return serverutils.NewAppError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	if err := c.reviewService.VerifyAnswer(ctx.Context(), auditLogId, &req); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Answer reviewed", nil))
}
