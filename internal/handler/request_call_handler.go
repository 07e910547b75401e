package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"bais_express/internal/model"
	"bais_express/internal/service"

	"github.com/gin-gonic/gin"
)

// RequestCallHandler serves the public pickup form and the admin request desk
type RequestCallHandler struct {
	service service.RequestCallService
}

func NewRequestCallHandler(s service.RequestCallService) *RequestCallHandler {
	return &RequestCallHandler{service: s}
}

func (h *RequestCallHandler) Create(c *gin.Context) {
	var req model.CreateRequestCallRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Name & phone required"})
		return
	}

	if _, err := h.service.Create(c.Request.Context(), req); err != nil {
		h.fail(c, err, "Failed to save request")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Request sent successfully"})
}

func (h *RequestCallHandler) List(c *gin.Context) {
	calls, err := h.service.List(c.Request.Context())
	if err != nil {
		h.fail(c, err, "Failed to fetch requests")
		return
	}
	c.JSON(http.StatusOK, calls)
}

func (h *RequestCallHandler) UpdateStatus(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request ID"})
		return
	}

	var req model.UpdateRequestCallStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Status required"})
		return
	}

	if err := h.service.UpdateStatus(c.Request.Context(), id, req.Status); err != nil {
		h.fail(c, err, "Failed to update status")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Status updated"})
}

func (h *RequestCallHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request ID"})
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		h.fail(c, err, "Failed to delete request")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Deleted successfully"})
}

func (h *RequestCallHandler) ExportCSV(c *gin.Context) {
	buffer, err := h.service.ExportCSV(c.Request.Context())
	if err != nil {
		h.fail(c, err, "Failed to export requests")
		return
	}
	filename := "requests_" + time.Now().Format("20060102") + ".csv"
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buffer.Bytes())
}

func (h *RequestCallHandler) fail(c *gin.Context, err error, fallback string) {
	_ = c.Error(err)
	if errors.Is(err, service.ErrRequestCallNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"message": "Request not found"})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"message": fallback})
}

// RegisterRequestCallRoutes mounts the public form and the admin routes.
// Admin routes run authMW then adminMW.
func (h *RequestCallHandler) RegisterRequestCallRoutes(r gin.IRouter, authMW, adminMW gin.HandlerFunc) {
	r.POST("/request-call", h.Create)

	admin := r.Group("/admin", authMW, adminMW)
	{
		admin.GET("/requests", h.List)
		admin.GET("/requests/export", h.ExportCSV)
		admin.PUT("/request/:id", h.UpdateStatus)
		admin.DELETE("/request/:id", h.Delete)
	}
}
