// File: handlers/timetable.go
package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"clinicsite/models"
	"clinicsite/services/timetable"
	"clinicsite/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// TimetableHandler serves the weekly clinic time table.
type TimetableHandler struct {
	Service timetable.TimetableService
}

func NewTimetableHandler(s timetable.TimetableService) *TimetableHandler {
	return &TimetableHandler{Service: s}
}

// GetTimetableHandler returns the current schedule with its version as ETag.
func (h *TimetableHandler) GetTimetableHandler(c *gin.Context) {
	doc, err := h.Service.GetTimetable(c.Request.Context())
	if err != nil {
		if errors.Is(err, models.ErrTimetableNotFound) {
			c.JSON(http.StatusNotFound, utils.ErrorResponse{Error: "Time table not found", Code: models.CodeNotFound})
			return
		}
		getLogger(c).Error("Failed to fetch time table", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, models.CodeStoreUnavailable, "Failed to fetch time table")
		return
	}

	c.Header("ETag", formatETag(doc.Version))
	c.JSON(http.StatusOK, models.TimetableResponse{
		Schedule:  doc.Schedule,
		Version:   doc.Version,
		UpdatedAt: doc.UpdatedAt,
	})
}

// ReplaceTimetableHandler replaces the whole schedule. An If-Match header makes
// the write conditional on the version the caller last saw.
func (h *TimetableHandler) ReplaceTimetableHandler(c *gin.Context) {
	logger := getLogger(c)

	var req models.ReplaceTimetableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Invalid time table payload", zap.Error(err))
		utils.JSONError(c, http.StatusBadRequest, models.CodeBadRequest, "Invalid request payload")
		return
	}

	expected, err := parseIfMatch(c.GetHeader("If-Match"))
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, models.CodeBadRequest, "Invalid If-Match header")
		return
	}

	res, err := h.Service.ReplaceTimetable(c.Request.Context(), timetable.ReplaceInput{
		Schedule:        req.Schedule,
		ExpectedVersion: expected,
		Actor:           c.GetString(utils.AdminSubjectKey),
	})
	switch {
	case errors.Is(err, models.ErrInvalidFormat):
		utils.JSONError(c, http.StatusBadRequest, models.CodeInvalidFormat, "Invalid schedule format")
		return
	case errors.Is(err, models.ErrNoValidEntries):
		utils.JSONError(c, http.StatusBadRequest, models.CodeNoValidEntries, "No valid schedule entries provided")
		return
	case errors.Is(err, models.ErrVersionConflict):
		utils.JSONError(c, http.StatusConflict, models.CodeVersionConflict, "Time table was changed by someone else; reload and try again")
		return
	case err != nil:
		logger.Error("Failed to save time table", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, models.CodeStoreUnavailable, "Failed to save time table")
		return
	}

	c.Header("ETag", formatETag(res.Document.Version))
	c.JSON(http.StatusOK, models.ReplaceTimetableResponse{
		Message:  "Time table saved successfully",
		Schedule: res.Document.Schedule,
		Version:  res.Document.Version,
		Warnings: res.Warnings,
	})
}

func formatETag(version int64) string {
	return strconv.Quote(strconv.FormatInt(version, 10))
}

// parseIfMatch accepts `"3"`, `W/"3"` or a bare 3. Empty and "*" mean no check.
func parseIfMatch(header string) (*int64, error) {
	v := strings.TrimSpace(header)
	if v == "" || v == "*" {
		return nil, nil
	}
	v = strings.TrimPrefix(v, "W/")
	v = strings.Trim(v, `"`)
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil || n < 0 {
		return nil, errors.New("invalid If-Match")
	}
	return &n, nil
}
