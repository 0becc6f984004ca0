package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"attendance-server-go/attendance"
	"attendance-server-go/models"
	"attendance-server-go/spreadsheet"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// APIHandler exposes the attendance App over HTTP
type APIHandler struct {
	App *attendance.App
	Log *zap.Logger
}

// NewAPIHandler creates a new APIHandler
func NewAPIHandler(app *attendance.App, log *zap.Logger) *APIHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &APIHandler{App: app, Log: log}
}

// Register mounts every route on api (normally the /api group).
func (h *APIHandler) Register(api *gin.RouterGroup) {
	api.GET("/ping", PingHandler)

	// Class routes
	api.GET("/classes", h.GetAllClasses)
	api.POST("/classes", h.AddClass)
	api.GET("/classes/:classId", h.GetClassByID)
	api.DELETE("/classes/:classId", h.RemoveClass)

	// Student routes within a class
	api.GET("/classes/:classId/students", h.GetStudentsByClass)
	api.POST("/classes/:classId/students", h.AddStudent)
	api.DELETE("/classes/:classId/students", h.RemoveStudent)

	// Selection
	api.GET("/state", h.GetState)
	api.PUT("/active", h.SelectClass)
	api.PUT("/dates", h.SelectDates)

	// Marking
	api.POST("/attendance/toggle", h.Toggle)
	api.POST("/attendance/mark-all", h.MarkAll)
	api.POST("/attendance/save", h.Save)
	api.POST("/attendance/reload", h.Reload)

	// Spreadsheets
	api.GET("/export", h.Export)
	api.POST("/import", h.ImportStudents)
}

// respondError maps App errors to status codes. Unexpected errors are
// logged and answered with fallback.
func (h *APIHandler) respondError(c *gin.Context, err error, fallback string) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, attendance.ErrBlankClassName),
		errors.Is(err, attendance.ErrBlankStudent),
		errors.Is(err, attendance.ErrInvalidDate),
		errors.Is(err, attendance.ErrInvalidStatus),
		errors.Is(err, attendance.ErrDateNotSelected),
		errors.Is(err, attendance.ErrNoActiveClass),
		errors.Is(err, spreadsheet.ErrInvalidWorkbook):
		status = http.StatusBadRequest
	case errors.Is(err, attendance.ErrClassNotFound),
		errors.Is(err, attendance.ErrStudentNotFound):
		status = http.StatusNotFound
	case errors.Is(err, attendance.ErrNotConfirmed),
		errors.Is(err, attendance.ErrDuplicateRoll):
		status = http.StatusConflict
	}

	if status == http.StatusInternalServerError {
		h.Log.Error(fallback, zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(status, gin.H{"error": fallback})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func classIDParam(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("classId"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Class ID must be a positive integer"})
		return 0, false
	}
	return id, true
}

// confirmed reads ?confirm=; anything unparseable counts as not confirmed.
func confirmed(c *gin.Context) bool {
	ok, _ := strconv.ParseBool(c.Query("confirm"))
	return ok
}

// --- Class Handlers ---

// GetAllClasses handles GET /api/classes
func (h *APIHandler) GetAllClasses(c *gin.Context) {
	c.JSON(http.StatusOK, h.App.Classes())
}

// GetClassByID handles GET /api/classes/:classId
func (h *APIHandler) GetClassByID(c *gin.Context) {
	id, ok := classIDParam(c)
	if !ok {
		return
	}
	clazz, err := h.App.Class(id)
	if err != nil {
		h.respondError(c, err, "Failed to retrieve class details")
		return
	}
	c.JSON(http.StatusOK, clazz)
}

type addClassRequest struct {
	Name string `json:"name"`
}

// AddClass handles POST /api/classes. The new class becomes active.
func (h *APIHandler) AddClass(c *gin.Context) {
	var req addClassRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}
	clazz, err := h.App.AddClassroom(c.Request.Context(), req.Name)
	if err != nil {
		h.respondError(c, err, "Failed to add class")
		return
	}
	c.JSON(http.StatusCreated, clazz)
}

// RemoveClass handles DELETE /api/classes/:classId?confirm=true
func (h *APIHandler) RemoveClass(c *gin.Context) {
	id, ok := classIDParam(c)
	if !ok {
		return
	}
	if err := h.App.RemoveClassroom(c.Request.Context(), id, confirmed(c)); err != nil {
		h.respondError(c, err, "Failed to remove class")
		return
	}
	c.JSON(http.StatusOK, h.App.State())
}

// --- Student Handlers ---

// GetStudentsByClass handles GET /api/classes/:classId/students?q=
func (h *APIHandler) GetStudentsByClass(c *gin.Context) {
	id, ok := classIDParam(c)
	if !ok {
		return
	}
	students, err := h.App.Students(id, c.Query("q"))
	if err != nil {
		h.respondError(c, err, "Failed to retrieve students for the class")
		return
	}
	c.JSON(http.StatusOK, students)
}

// AddStudent handles POST /api/classes/:classId/students
func (h *APIHandler) AddStudent(c *gin.Context) {
	id, ok := classIDParam(c)
	if !ok {
		return
	}
	var req models.Student
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}
	student, err := h.App.AddStudent(id, req.Name, req.Roll)
	if err != nil {
		h.respondError(c, err, "Failed to add student")
		return
	}
	c.JSON(http.StatusCreated, student)
}

// RemoveStudent handles DELETE /api/classes/:classId/students?roll=...&confirm=true.
// The roll travels as a query value so rolls containing "/" stay addressable.
func (h *APIHandler) RemoveStudent(c *gin.Context) {
	id, ok := classIDParam(c)
	if !ok {
		return
	}
	roll, ok := c.GetQuery("roll")
	if !ok || roll == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Query parameter 'roll' is required"})
		return
	}
	if err := h.App.RemoveStudent(id, roll, confirmed(c)); err != nil {
		h.respondError(c, err, "Failed to remove student")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Student removed"})
}

// --- Selection Handlers ---

// GetState handles GET /api/state
func (h *APIHandler) GetState(c *gin.Context) {
	c.JSON(http.StatusOK, h.App.State())
}

type selectClassRequest struct {
	ClassID int `json:"classId" binding:"required"`
}

// SelectClass handles PUT /api/active. Unsaved marks are discarded.
func (h *APIHandler) SelectClass(c *gin.Context) {
	var req selectClassRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}
	if err := h.App.SelectClassroom(c.Request.Context(), req.ClassID); err != nil {
		h.respondError(c, err, "Failed to select class")
		return
	}
	c.JSON(http.StatusOK, h.App.State())
}

type selectDatesRequest struct {
	Dates []string `json:"dates"`
}

// SelectDates handles PUT /api/dates. Unsaved marks are discarded.
func (h *APIHandler) SelectDates(c *gin.Context) {
	var req selectDatesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}
	dates, err := attendance.ParseDates(req.Dates)
	if err != nil {
		h.respondError(c, err, "Failed to select dates")
		return
	}
	if err := h.App.SelectDates(c.Request.Context(), dates); err != nil {
		h.respondError(c, err, "Failed to select dates")
		return
	}
	c.JSON(http.StatusOK, h.App.State())
}

// --- Attendance Handlers ---

type toggleRequest struct {
	Date string `json:"date" binding:"required"`
	Roll string `json:"roll" binding:"required"`
}

// Toggle handles POST /api/attendance/toggle
func (h *APIHandler) Toggle(c *gin.Context) {
	var req toggleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}
	status, err := h.App.Toggle(req.Date, req.Roll)
	if err != nil {
		h.respondError(c, err, "Failed to toggle attendance")
		return
	}
	c.JSON(http.StatusOK, gin.H{"date": req.Date, "roll": req.Roll, "status": status})
}

type markAllRequest struct {
	Status models.Status `json:"status" binding:"required"`
}

// MarkAll handles POST /api/attendance/mark-all
func (h *APIHandler) MarkAll(c *gin.Context) {
	var req markAllRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}
	if err := h.App.MarkAll(req.Status); err != nil {
		h.respondError(c, err, "Failed to mark attendance")
		return
	}
	c.JSON(http.StatusOK, h.App.State())
}

// Save handles POST /api/attendance/save
func (h *APIHandler) Save(c *gin.Context) {
	res, err := h.App.Save(c.Request.Context())
	if err != nil {
		h.respondError(c, err, "Failed to save attendance")
		return
	}
	c.JSON(http.StatusOK, res)
}

// Reload handles POST /api/attendance/reload, discarding unsaved marks.
func (h *APIHandler) Reload(c *gin.Context) {
	if err := h.App.Reload(c.Request.Context()); err != nil {
		h.respondError(c, err, "Failed to reload attendance")
		return
	}
	c.JSON(http.StatusOK, h.App.State())
}

// --- Spreadsheet Handlers ---

// Export handles GET /api/export
func (h *APIHandler) Export(c *gin.Context) {
	f, filename, err := h.App.Export()
	if err != nil {
		h.respondError(c, err, "Failed to export attendance")
		return
	}
	defer func() {
		if err := f.Close(); err != nil {
			h.Log.Warn("closing export workbook", zap.Error(err))
		}
	}()

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Header("Content-Type", xlsxContentType)
	c.Status(http.StatusOK)
	if err := f.Write(c.Writer); err != nil {
		h.Log.Error("writing export workbook", zap.String("filename", filename), zap.Error(err))
	}
}

// ImportStudents handles POST /api/import. The uploaded roster replaces the
// active class's roster.
func (h *APIHandler) ImportStudents(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Error retrieving uploaded file: " + err.Error()})
		return
	}
	defer file.Close()

	h.Log.Info("received roster upload", zap.String("filename", header.Filename))

	res, err := h.App.ImportRoster(file)
	if err != nil {
		h.respondError(c, err, "Failed to import students")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":       "Import successful",
		"importedCount": len(res.Students),
		"rejected":      res.Rejected,
	})
}

// --- Ping Handler ---

// PingHandler handles GET /api/ping
func PingHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Pong!"})
}
