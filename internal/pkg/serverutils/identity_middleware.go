package serverutils

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Identity propagation headers set by the API gateway after authentication.
// This service sits behind the gateway and trusts them.
const (
	HeaderUserId     = "X-User-Id"
	HeaderFacultyId  = "X-Faculty-Id"
	HeaderSemesterId = "X-Semester-Id"
	HeaderUserRole   = "X-User-Role"
)

const RoleTeacher = "teacher"

// IdentityMiddleware lifts the gateway identity headers into request locals.
// A request without a valid user id never reaches a handler.
func IdentityMiddleware(ctx *fiber.Ctx) error {
	userIdStr := ctx.Get(HeaderUserId)
	if userIdStr == "" {
		return ErrUnauthorized
	}
	if _, err := uuid.Parse(userIdStr); err != nil {
		return ErrUnauthorized
	}

	ctx.Locals("user_id", userIdStr)
	ctx.Locals("faculty_id", ctx.Get(HeaderFacultyId))
	ctx.Locals("semester_id", ctx.Get(HeaderSemesterId))
	ctx.Locals("user_role", ctx.Get(HeaderUserRole))
	return ctx.Next()
}

// ResolveAcademicScope picks the effective faculty/semester pair for a
// request. Body values override the gateway headers; if either half of the
// scope is still missing the request is hard-rejected before any pipeline
// stage runs.
func ResolveAcademicScope(ctx *fiber.Ctx, bodyFaculty, bodySemester *string) (string, string, error) {
	facultyId, _ := ctx.Locals("faculty_id").(string)
	semesterId, _ := ctx.Locals("semester_id").(string)
	if bodyFaculty != nil && *bodyFaculty != "" {
		facultyId = *bodyFaculty
	}
	if bodySemester != nil && *bodySemester != "" {
		semesterId = *bodySemester
	}
	if facultyId == "" || semesterId == "" {
		return "", "", ErrContextMissing
	}
	return facultyId, semesterId, nil
}

// RequireTeacherRole guards the review surface.
func RequireTeacherRole(ctx *fiber.Ctx) error {
	if ctx.Locals("user_role") != RoleTeacher {
		return ErrForbidden
	}
	return ctx.Next()
}
