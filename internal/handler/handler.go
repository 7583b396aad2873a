package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gradehub/gradehub-backend/internal/perm"
	"github.com/gradehub/gradehub-backend/internal/repository"
	"github.com/gradehub/gradehub-backend/internal/response"
	"github.com/gradehub/gradehub-backend/internal/service"
	"github.com/jackc/pgx/v5/pgxpool"
)

// parseID extracts a positive int64 path parameter, failing the request
// with 400 INVALID_ID when malformed.
func parseID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return 0, false
	}
	return id, true
}

// failService maps service-layer errors onto the response envelope.
func failService(c *gin.Context, err error) {
	var ve *service.ValidationError
	if errors.As(err, &ve) {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, ve.Fields)
		return
	}
	var ce *service.ConflictError
	if errors.As(err, &ce) {
		response.FailWithFields(c, http.StatusConflict, response.ErrConflict, ce.Fields)
		return
	}
	switch {
	case errors.Is(err, service.ErrNotFound):
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
	case errors.Is(err, service.ErrInUse):
		response.Fail(c, http.StatusConflict, response.ErrDependencyExists)
	case repository.IsUniqueViolation(err):
		response.Fail(c, http.StatusConflict, response.ErrConflict)
	case repository.IsForeignKeyViolation(err):
		response.Fail(c, http.StatusConflict, response.ErrDependencyExists)
	default:
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
	}
}

// access resolves a viewer's granted level on an object. Handlers use it to
// hide invisible objects (404), widen response payloads with the level, and
// gate writes on change/delete grants (403).
type access struct {
	store perm.Store
}

func newAccess(pool *pgxpool.Pool) *access {
	return &access{store: perm.NewPGStore(pool)}
}

// level returns the viewer's highest granted level of base on obj.
// The second return is false when no level is granted at all.
func (a *access) level(c *gin.Context, base string, userID int64, obj perm.ObjectRef) (perm.Level, bool, error) {
	return perm.MaxLevel(c.Request.Context(), a.store, base, userID, obj)
}

// can reports whether any level of base is granted on obj.
func (a *access) can(c *gin.Context, base string, userID int64, obj perm.ObjectRef) (bool, error) {
	_, ok, err := perm.MaxLevel(c.Request.Context(), a.store, base, userID, obj)
	return ok, err
}
