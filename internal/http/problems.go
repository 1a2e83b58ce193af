package http

import (
	"errors"
	"io/fs"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/moogar0880/problems"

	"github.com/klipworks/klipflow/internal/blueprint"
	"github.com/klipworks/klipflow/internal/engine"
	"github.com/klipworks/klipflow/internal/generation"
	"github.com/klipworks/klipflow/internal/session"
)

func badRequest(c *gin.Context, detail string) {
	problem := problems.NewStatusProblem(http.StatusBadRequest).
		WithInstance(c.Request.URL.Path).
		WithType("validation_error").
		WithDetail(detail)

	c.JSON(http.StatusBadRequest, problem)
}

func notFound(c *gin.Context, detail string) {
	problem := problems.NewStatusProblem(http.StatusNotFound).
		WithInstance(c.Request.URL.Path).
		WithType("not_found").
		WithDetail(detail)

	c.JSON(http.StatusNotFound, problem)
}

func conflict(c *gin.Context, detail string) {
	problem := problems.NewStatusProblem(http.StatusConflict).
		WithInstance(c.Request.URL.Path).
		WithType("conflict").
		WithDetail(detail)

	c.JSON(http.StatusConflict, problem)
}

func unavailable(c *gin.Context, detail string) {
	problem := problems.NewStatusProblem(http.StatusServiceUnavailable).
		WithInstance(c.Request.URL.Path).
		WithType("unavailable").
		WithDetail(detail)

	c.JSON(http.StatusServiceUnavailable, problem)
}

func internalError(c *gin.Context, err error) {
	problem := problems.NewStatusProblem(http.StatusInternalServerError).
		WithInstance(c.Request.URL.Path).
		WithType("internal_error").
		WithError(err)

	c.JSON(http.StatusInternalServerError, problem)
}

// respondError maps typed errors from the lower layers onto problem
// responses.
func respondError(c *gin.Context, err error) {
	var parseErr *blueprint.ParseError
	var capErr *engine.CapabilityError

	switch {
	case errors.Is(err, session.ErrEntryNotFound):
		notFound(c, "entry not found")

	case errors.Is(err, generation.ErrUnknownComponent):
		notFound(c, "blueprint not tracked")

	case errors.Is(err, fs.ErrNotExist):
		notFound(c, "no such generation")

	case errors.As(err, &parseErr):
		badRequest(c, err.Error())

	case errors.Is(err, engine.ErrNoDocument):
		badRequest(c, "blueprint has no document")

	case errors.Is(err, engine.ErrRecursionLimit):
		problem := problems.NewStatusProblem(http.StatusUnprocessableEntity).
			WithInstance(c.Request.URL.Path).
			WithType("recursion_limit").
			WithDetail(err.Error())
		c.JSON(http.StatusUnprocessableEntity, problem)

	case errors.As(err, &capErr):
		problem := problems.NewStatusProblem(http.StatusUnprocessableEntity).
			WithInstance(c.Request.URL.Path).
			WithType("capability_error").
			WithDetail(err.Error())
		c.JSON(http.StatusUnprocessableEntity, problem)

	default:
		internalError(c, err)
	}
}
