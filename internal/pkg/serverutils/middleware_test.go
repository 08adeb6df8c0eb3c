package serverutils

import (
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApp(handlers ...fiber.Handler) *fiber.App {
	app := fiber.New()
	app.Use(ErrorHandlerMiddleware())
	chain := append([]fiber.Handler{IdentityMiddleware}, handlers...)
	chain = append(chain, func(ctx *fiber.Ctx) error {
		return ctx.JSON(SuccessResponse[any]("ok", nil))
	})
	app.Get("/probe", chain...)
	return app
}

func TestIdentityMiddleware_MissingUserIdIsUnauthorized(t *testing.T) {
	app := newTestApp()

	req := httptest.NewRequest("GET", "/probe", nil)
	res, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, res.StatusCode)
}

func TestIdentityMiddleware_MalformedUserIdIsUnauthorized(t *testing.T) {
	app := newTestApp()

	req := httptest.NewRequest("GET", "/probe", nil)
	req.Header.Set(HeaderUserId, "not-a-uuid")
	res, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, res.StatusCode)
}

func TestIdentityMiddleware_ValidHeadersPass(t *testing.T) {
	app := newTestApp()

	req := httptest.NewRequest("GET", "/probe", nil)
	req.Header.Set(HeaderUserId, uuid.New().String())
	res, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, res.StatusCode)
}

func newScopeApp(bodyFaculty, bodySemester *string) *fiber.App {
	app := fiber.New()
	app.Use(ErrorHandlerMiddleware())
	app.Get("/probe", IdentityMiddleware, func(ctx *fiber.Ctx) error {
		facultyId, semesterId, err := ResolveAcademicScope(ctx, bodyFaculty, bodySemester)
		if err != nil {
			return err
		}
		return ctx.JSON(SuccessResponse("ok", []string{facultyId, semesterId}))
	})
	return app
}

func TestResolveAcademicScope_MissingScopeIs422(t *testing.T) {
	app := newScopeApp(nil, nil)

	req := httptest.NewRequest("GET", "/probe", nil)
	req.Header.Set(HeaderUserId, uuid.New().String())
	req.Header.Set(HeaderFacultyId, "f1")
	// Semester intentionally absent.
	res, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnprocessableEntity, res.StatusCode)
}

func TestResolveAcademicScope_HeaderScopePasses(t *testing.T) {
	app := newScopeApp(nil, nil)

	req := httptest.NewRequest("GET", "/probe", nil)
	req.Header.Set(HeaderUserId, uuid.New().String())
	req.Header.Set(HeaderFacultyId, "f1")
	req.Header.Set(HeaderSemesterId, "s1")
	res, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, res.StatusCode)
}

func TestResolveAcademicScope_BodyOverridesHeaders(t *testing.T) {
	bodyFaculty := "f-body"
	app := newScopeApp(&bodyFaculty, nil)

	req := httptest.NewRequest("GET", "/probe", nil)
	req.Header.Set(HeaderUserId, uuid.New().String())
	req.Header.Set(HeaderFacultyId, "f-header")
	req.Header.Set(HeaderSemesterId, "s1")
	res, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, res.StatusCode)

	var out Response[[]string]
	require.NoError(t, json.NewDecoder(res.Body).Decode(&out))
	assert.Equal(t, []string{"f-body", "s1"}, out.Data)
}

func TestResolveAcademicScope_BodyScopeWithoutHeaders(t *testing.T) {
	bodyFaculty := "f1"
	bodySemester := "s1"
	app := newScopeApp(&bodyFaculty, &bodySemester)

	req := httptest.NewRequest("GET", "/probe", nil)
	req.Header.Set(HeaderUserId, uuid.New().String())
	res, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, res.StatusCode)
}

func TestRequireTeacherRole(t *testing.T) {
	app := newTestApp(RequireTeacherRole)

	req := httptest.NewRequest("GET", "/probe", nil)
	req.Header.Set(HeaderUserId, uuid.New().String())
	req.Header.Set(HeaderUserRole, "student")
	res, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, res.StatusCode)

	req.Header.Set(HeaderUserRole, RoleTeacher)
	res, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, res.StatusCode)
}

func TestRateLimiter_BlocksAboveLimit(t *testing.T) {
	limiter := NewRateLimiter(3, time.Minute)
	app := newTestApp(limiter.Middleware)
	userId := uuid.New().String()

	for i := 0; i < 3; i++ {
		req := httptest.NewRequest("GET", "/probe", nil)
		req.Header.Set(HeaderUserId, userId)
		res, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, res.StatusCode)
	}

	req := httptest.NewRequest("GET", "/probe", nil)
	req.Header.Set(HeaderUserId, userId)
	res, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusTooManyRequests, res.StatusCode)
}

func TestRateLimiter_KeysAreIndependentPerUser(t *testing.T) {
	limiter := NewRateLimiter(1, time.Minute)
	app := newTestApp(limiter.Middleware)

	first := httptest.NewRequest("GET", "/probe", nil)
	first.Header.Set(HeaderUserId, uuid.New().String())
	res, err := app.Test(first)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, res.StatusCode)

	second := httptest.NewRequest("GET", "/probe", nil)
	second.Header.Set(HeaderUserId, uuid.New().String())
	res, err = app.Test(second)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, res.StatusCode)
}

func TestValidateRequest(t *testing.T) {
	type payload struct {
		Message string `validate:"required"`
	}

	assert.NoError(t, ValidateRequest(payload{Message: "hi"}))

	err := ValidateRequest(payload{})
	require.Error(t, err)
	appErr, ok := err.(*AppError)
	require.True(t, ok)
	assert.Equal(t, fiber.StatusBadRequest, appErr.Code)
}
