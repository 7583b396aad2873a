package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gradehub/gradehub-backend/internal/middleware"
	"github.com/gradehub/gradehub-backend/internal/model"
	"github.com/gradehub/gradehub-backend/internal/perm"
	"github.com/gradehub/gradehub-backend/internal/propagation"
	"github.com/gradehub/gradehub-backend/internal/response"
	"github.com/gradehub/gradehub-backend/internal/service"
	"github.com/gradehub/gradehub-backend/internal/validator"
	"github.com/jackc/pgx/v5/pgxpool"
)

// InstructorHandler handles instructor profiles with the same level-based
// projection as students.
type InstructorHandler struct {
	instructorService *service.InstructorService
	teachingService   *service.TeachingService
	access            *access
}

// NewInstructorHandler creates a new InstructorHandler.
func NewInstructorHandler(pool *pgxpool.Pool, instructorService *service.InstructorService, teachingService *service.TeachingService) *InstructorHandler {
	return &InstructorHandler{
		instructorService: instructorService,
		teachingService:   teachingService,
		access:            newAccess(pool),
	}
}

// instructorView projects an instructor row down to the viewer's level.
func instructorView(inst *model.Instructor, lvl perm.Level) gin.H {
	view := gin.H{
		"id":   inst.ID,
		"name": inst.Name,
		"sex":  inst.Sex,
	}
	if lvl >= perm.LevelNormal {
		view["inst_id"] = inst.InstID
	}
	if lvl >= perm.LevelAdvanced {
		view["created_at"] = inst.CreatedAt
		view["updated_at"] = inst.UpdatedAt
	}
	if lvl >= perm.LevelAll {
		view["user_id"] = inst.UserID
	}
	return view
}

func (h *InstructorHandler) instructorLevel(c *gin.Context, inst *model.Instructor) (perm.Level, bool, error) {
	claims := middleware.GetClaims(c)
	if claims != nil && claims.UserID == inst.UserID {
		return perm.LevelAll, true, nil
	}
	obj := perm.ObjectRef{Kind: propagation.KindInstructor, ID: inst.ID}
	return h.access.level(c, propagation.PermViewInstructor, claims.UserID, obj)
}

// ListInstructors godoc
// GET /api/v1/instructors
func (h *InstructorHandler) ListInstructors(c *gin.Context) {
	instructors, err := h.instructorService.List(c.Request.Context())
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	views := make([]gin.H, 0, len(instructors))
	for i := range instructors {
		lvl, ok, err := h.instructorLevel(c, &instructors[i])
		if err != nil {
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
			return
		}
		if !ok {
			continue
		}
		views = append(views, instructorView(&instructors[i], lvl))
	}

	response.Success(c, http.StatusOK, gin.H{"instructors": views})
}

// GetInstructor godoc
// GET /api/v1/instructors/:id
func (h *InstructorHandler) GetInstructor(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	inst, err := h.instructorService.Get(c.Request.Context(), id)
	if err != nil {
		failService(c, err)
		return
	}

	lvl, visible, err := h.instructorLevel(c, inst)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	if !visible {
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"instructor": instructorView(inst, lvl)})
}

// ListInstructorTeaches godoc
// GET /api/v1/instructors/:id/teaches
// Lists the visible teaching rows of an instructor.
func (h *InstructorHandler) ListInstructorTeaches(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	inst, err := h.instructorService.Get(c.Request.Context(), id)
	if err != nil {
		failService(c, err)
		return
	}
	if _, visible, err := h.instructorLevel(c, inst); err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	} else if !visible {
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		return
	}

	teaches, err := h.teachingService.ListByInstructor(c.Request.Context(), id)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	claims := middleware.GetClaims(c)
	views := make([]model.Teaches, 0, len(teaches))
	for i := range teaches {
		obj := perm.ObjectRef{Kind: propagation.KindTeaches, ID: teaches[i].ID}
		visible, err := h.access.can(c, propagation.PermViewTeaches, claims.UserID, obj)
		if err != nil {
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
			return
		}
		if visible {
			views = append(views, teaches[i])
		}
	}

	response.Success(c, http.StatusOK, gin.H{"teaches": views})
}

// CreateInstructor godoc
// POST /api/v1/instructors
func (h *InstructorHandler) CreateInstructor(c *gin.Context) {
	var req model.CreateInstructorRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	inst, err := h.instructorService.Create(c.Request.Context(), &req)
	if err != nil {
		failService(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"instructor": inst})
}

// UpdateInstructor godoc
// PUT /api/v1/instructors/:id
func (h *InstructorHandler) UpdateInstructor(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req model.UpdateInstructorRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	inst, err := h.instructorService.Update(c.Request.Context(), id, &req)
	if err != nil {
		failService(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"instructor": inst})
}

// DeleteInstructor godoc
// DELETE /api/v1/instructors/:id
// Cascades teaching rows with their revocations.
func (h *InstructorHandler) DeleteInstructor(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.instructorService.Delete(c.Request.Context(), id); err != nil {
		failService(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "instructor deleted successfully"})
}
