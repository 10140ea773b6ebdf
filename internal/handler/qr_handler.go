package handler

import (
	"go-gin-guestlist/internal/model"
	"go-gin-guestlist/internal/service"
	apperrors "go-gin-guestlist/pkg/app_errors"
	"go-gin-guestlist/pkg/logger"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type QRHandler struct {
	service service.AdmissionService
}

func NewQRHandler(service service.AdmissionService) *QRHandler {
	return &QRHandler{service: service}
}

func (h *QRHandler) RegisterRoutes(r *gin.Engine) {
	router := r.Group("/qr")
	{
		router.POST("/validate", h.Validate)
		router.PUT("/increase/:ticketId", h.Increase)
		router.PUT("/decrease/:ticketId", h.Decrease)
		router.POST("/guest-codes", h.CreateGuestCode)
	}
}

// ValidateRequest 查驗請求
type ValidateRequest struct {
	TicketID string `json:"ticketId" binding:"required"`
}

func (h *QRHandler) Validate(c *gin.Context) {
	var req ValidateRequest
	if err := BindJson(c, &req); err != nil {
		return
	}
	ticketID, err := uuid.Parse(req.TicketID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ticket id"})
		return
	}
	ticket, err := h.service.Validate(c, ticketID)
	if err != nil {
		h.handleError(c, err, "Validate")
		return
	}
	c.JSON(http.StatusOK, ticket)
}

func (h *QRHandler) Increase(c *gin.Context) {
	ticketID, err := uuid.Parse(c.Param("ticketId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ticket id"})
		return
	}
	ticket, err := h.service.CheckIn(c, ticketID)
	if err != nil {
		h.handleError(c, err, "Increase")
		return
	}
	c.JSON(http.StatusOK, ticket)
}

func (h *QRHandler) Decrease(c *gin.Context) {
	ticketID, err := uuid.Parse(c.Param("ticketId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ticket id"})
		return
	}
	ticket, err := h.service.CheckOut(c, ticketID)
	if err != nil {
		h.handleError(c, err, "Decrease")
		return
	}
	c.JSON(http.StatusOK, ticket)
}

func (h *QRHandler) CreateGuestCode(c *gin.Context) {
	var req model.CreateGuestCodeRequest
	if err := BindJson(c, &req); err != nil {
		return
	}
	ticket, err := h.service.CreateGuestCode(c, req)
	if err != nil {
		h.handleError(c, err, "CreateGuestCode")
		return
	}
	c.JSON(http.StatusCreated, ticket)
}

func (h *QRHandler) handleError(c *gin.Context, err error, operation string) {
	log := logger.WithComponent("handler").With(zap.String("operation", operation), zap.Error(err))
	switch {
	case err == apperrors.ErrTicketNotFound:
		log.Warn("Ticket not found")
		c.JSON(http.StatusNotFound, gin.H{"error": "Ticket not found"})
	case err == apperrors.ErrCapacityExceeded:
		log.Warn("Capacity exceeded")
		c.JSON(http.StatusConflict, gin.H{"error": "Admission capacity exceeded"})
	case err == apperrors.ErrNotCheckedIn:
		log.Warn("Nothing to check out")
		c.JSON(http.StatusConflict, gin.H{"error": "No admissions to check out"})
	case err == apperrors.ErrInvalidInput:
		log.Warn("Invalid input")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
	case err == apperrors.ErrCodeExhausted:
		log.Error("Code generation exhausted")
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Could not generate a unique code"})
	default:
		log.Error("Unexpected error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
