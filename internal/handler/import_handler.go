package handler

import (
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gradehub/gradehub-backend/internal/config"
	"github.com/gradehub/gradehub-backend/internal/importer"
	"github.com/gradehub/gradehub-backend/internal/response"
)

// ImportHandler handles bulk xlsx imports of students and enrollments.
type ImportHandler struct {
	importer *importer.Importer
	cfg      *config.Config
}

// NewImportHandler creates a new ImportHandler.
func NewImportHandler(imp *importer.Importer, cfg *config.Config) *ImportHandler {
	return &ImportHandler{importer: imp, cfg: cfg}
}

// ImportStudents godoc
// POST /api/v1/import/students
// Accepts an xlsx file (columns s_id, class_id, name, sex), creating a user
// account and student profile per row. Rows with an existing s_id or an
// unknown class are skipped. Returns the number of students created.
func (h *ImportHandler) ImportStudents(c *gin.Context) {
	file, ok := h.openUpload(c)
	if !ok {
		return
	}
	defer file.Close()

	count, err := h.importer.ImportStudents(c.Request.Context(), file)
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidPayload)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"imported": count})
}

// ImportCourseTakes godoc
// POST /api/v1/courses/:id/import-takes
// Enrolls the students listed in the uploaded xlsx into the course. Unknown
// students and existing enrollments are skipped.
func (h *ImportHandler) ImportCourseTakes(c *gin.Context) {
	courseID, ok := parseID(c, "id")
	if !ok {
		return
	}

	file, ok := h.openUpload(c)
	if !ok {
		return
	}
	defer file.Close()

	count, err := h.importer.ImportTakes(c.Request.Context(), file, courseID)
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidPayload)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"imported": count})
}

func (h *ImportHandler) openUpload(c *gin.Context) (multipart.File, bool) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrFileRequired)
		return nil, false
	}

	if header.Size > h.cfg.MaxImportBytes {
		file.Close()
		response.Fail(c, http.StatusRequestEntityTooLarge, response.ErrFileTooLarge)
		return nil, false
	}
	if ext := strings.ToLower(filepath.Ext(header.Filename)); ext != ".xlsx" {
		file.Close()
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidPayload)
		return nil, false
	}

	return file, true
}
