package rooms

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"escaperoom/internal/puzzle"
	"escaperoom/internal/source"
	"escaperoom/pkg/models"
)

type Handler struct {
	Service *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Service: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.results)                // GET /rooms
	rg.GET("/results", h.results)        // GET /rooms/results
	rg.POST("/:room/solve", h.solve)     // POST /rooms/:room/solve
	rg.GET("/:room/result", h.getResult) // GET /rooms/:room/result
}

func (h *Handler) solve(c *gin.Context) {
	room, err := models.ParseRoomID(c.Param("room"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	res, err := h.Service.Solve(c.Request.Context(), room)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error(), "result": res})
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) results(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"items": h.Service.Board.Snapshot()})
}

func (h *Handler) getResult(c *gin.Context) {
	room, err := models.ParseRoomID(c.Param("room"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	res, ok := h.Service.Board.Get(room.Output())
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "not solved yet"})
		return
	}
	c.JSON(http.StatusOK, res)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, ErrUnknownRoom):
		return http.StatusBadRequest
	case errors.Is(err, puzzle.ErrEmptyInput):
		return http.StatusUnprocessableEntity
	case errors.Is(err, source.ErrFetch), errors.Is(err, source.ErrDecode):
		return http.StatusBadGateway
	case errors.Is(err, context.Canceled):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
