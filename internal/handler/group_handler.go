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

// GroupHandler handles work groups. Coursemates see a group at base level;
// the leader can change it; only the course's instructors can delete it.
type GroupHandler struct {
	groupService *service.GroupService
	access       *access
}

// NewGroupHandler creates a new GroupHandler.
func NewGroupHandler(pool *pgxpool.Pool, groupService *service.GroupService) *GroupHandler {
	return &GroupHandler{
		groupService: groupService,
		access:       newAccess(pool),
	}
}

// groupView projects a group row down to the viewer's level.
func groupView(g *model.Group, lvl perm.Level) gin.H {
	view := gin.H{
		"id":        g.ID,
		"course_id": g.CourseID,
		"number":    g.Number,
		"name":      g.Name,
	}
	if lvl >= perm.LevelAdvanced {
		view["leader_id"] = g.LeaderID
		view["created_at"] = g.CreatedAt
		view["updated_at"] = g.UpdatedAt
	}
	return view
}

func (h *GroupHandler) groupLevel(c *gin.Context, groupID int64) (perm.Level, bool, error) {
	claims := middleware.GetClaims(c)
	obj := perm.ObjectRef{Kind: propagation.KindGroup, ID: groupID}
	return h.access.level(c, propagation.PermViewGroup, claims.UserID, obj)
}

func (h *GroupHandler) canChange(c *gin.Context, groupID int64) (bool, error) {
	claims := middleware.GetClaims(c)
	obj := perm.ObjectRef{Kind: propagation.KindGroup, ID: groupID}
	return h.access.can(c, propagation.PermChangeGroup, claims.UserID, obj)
}

// ListCourseGroups godoc
// GET /api/v1/courses/:id/groups
// Lists the groups of a course that are visible to the viewer.
func (h *GroupHandler) ListCourseGroups(c *gin.Context) {
	courseID, ok := parseID(c, "id")
	if !ok {
		return
	}

	groups, err := h.groupService.ListByCourse(c.Request.Context(), courseID)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	views := make([]gin.H, 0, len(groups))
	for i := range groups {
		lvl, visible, err := h.groupLevel(c, groups[i].ID)
		if err != nil {
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
			return
		}
		if !visible {
			continue
		}
		views = append(views, groupView(&groups[i], lvl))
	}

	response.Success(c, http.StatusOK, gin.H{"groups": views})
}

// GetGroup godoc
// GET /api/v1/groups/:id
func (h *GroupHandler) GetGroup(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	group, err := h.groupService.Get(c.Request.Context(), id)
	if err != nil {
		failService(c, err)
		return
	}

	lvl, visible, err := h.groupLevel(c, id)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	if !visible {
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"group": groupView(group, lvl)})
}

// ListGroupMembers godoc
// GET /api/v1/groups/:id/members
// Lists member students, each projected to the viewer's level on them.
func (h *GroupHandler) ListGroupMembers(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if _, visible, err := h.groupLevel(c, id); err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	} else if !visible {
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		return
	}

	members, err := h.groupService.ListMembers(c.Request.Context(), id)
	if err != nil {
		failService(c, err)
		return
	}

	claims := middleware.GetClaims(c)
	views := make([]gin.H, 0, len(members))
	for i := range members {
		var lvl perm.Level
		var visible bool
		if claims.UserID == members[i].UserID {
			lvl, visible = perm.LevelAll, true
		} else {
			obj := perm.ObjectRef{Kind: propagation.KindStudent, ID: members[i].ID}
			var err error
			lvl, visible, err = h.access.level(c, propagation.PermViewStudent, claims.UserID, obj)
			if err != nil {
				response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
				return
			}
		}
		if !visible {
			continue
		}
		views = append(views, studentView(&members[i], lvl))
	}

	response.Success(c, http.StatusOK, gin.H{"members": views})
}

// createGroupPayload creates a group under the course in the path.
type createGroupPayload struct {
	Number   string  `json:"number" binding:"omitempty,len=1"`
	Name     string  `json:"name" binding:"max=255"`
	LeaderID int64   `json:"leader_id" binding:"required"`
	Members  []int64 `json:"members" binding:"omitempty"`
}

// CreateGroup godoc
// POST /api/v1/courses/:id/groups
// The leader and every member must take the course and not belong to
// another group of it. The number is auto-assigned when omitted.
func (h *GroupHandler) CreateGroup(c *gin.Context) {
	courseID, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req createGroupPayload
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	group, err := h.groupService.Create(c.Request.Context(), &model.CreateGroupRequest{
		CourseID: courseID,
		Number:   req.Number,
		Name:     req.Name,
		LeaderID: req.LeaderID,
		Members:  req.Members,
	})
	if err != nil {
		failService(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"group": group})
}

// UpdateGroup godoc
// PUT /api/v1/groups/:id
// Requires a change grant (leader or course instructor). A leader change
// moves the leader's change grant.
func (h *GroupHandler) UpdateGroup(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req model.UpdateGroupRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	if _, visible, err := h.groupLevel(c, id); err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	} else if !visible {
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		return
	}

	allowed, err := h.canChange(c, id)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	if !allowed {
		response.Fail(c, http.StatusForbidden, response.ErrForbidden)
		return
	}

	group, err := h.groupService.Update(c.Request.Context(), id, &req)
	if err != nil {
		failService(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"group": group})
}

// DeleteGroup godoc
// DELETE /api/v1/groups/:id
// Requires a delete grant, which only the course's instructors hold.
func (h *GroupHandler) DeleteGroup(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if _, visible, err := h.groupLevel(c, id); err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	} else if !visible {
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		return
	}

	claims := middleware.GetClaims(c)
	allowed, err := h.access.can(c, propagation.PermDeleteGroup, claims.UserID, perm.ObjectRef{Kind: propagation.KindGroup, ID: id})
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	if !allowed {
		response.Fail(c, http.StatusForbidden, response.ErrForbidden)
		return
	}

	if err := h.groupService.Delete(c.Request.Context(), id); err != nil {
		failService(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "group deleted successfully"})
}

// AddGroupMember godoc
// POST /api/v1/groups/:id/members
func (h *GroupHandler) AddGroupMember(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req model.AddGroupMemberRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	if _, visible, err := h.groupLevel(c, id); err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	} else if !visible {
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		return
	}

	allowed, err := h.canChange(c, id)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	if !allowed {
		response.Fail(c, http.StatusForbidden, response.ErrForbidden)
		return
	}

	if err := h.groupService.AddMember(c.Request.Context(), id, &req); err != nil {
		failService(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"message": "member added successfully"})
}

// RemoveGroupMember godoc
// DELETE /api/v1/groups/:id/members/:student_id
// Removal revokes nothing; group visibility rides on course enrollment.
func (h *GroupHandler) RemoveGroupMember(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	studentID, ok := parseID(c, "student_id")
	if !ok {
		return
	}

	if _, visible, err := h.groupLevel(c, id); err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	} else if !visible {
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		return
	}

	allowed, err := h.canChange(c, id)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	if !allowed {
		response.Fail(c, http.StatusForbidden, response.ErrForbidden)
		return
	}

	if err := h.groupService.RemoveMember(c.Request.Context(), id, studentID); err != nil {
		failService(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "member removed successfully"})
}
