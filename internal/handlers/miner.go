package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tap-miner-backend/internal/models"
	"tap-miner-backend/internal/services"
)

type MinerHandler struct {
	engine       *services.TapEngine
	redisService *services.RedisService
}

func NewMinerHandler(engine *services.TapEngine, redisService *services.RedisService) *MinerHandler {
	return &MinerHandler{
		engine:       engine,
		redisService: redisService,
	}
}

func (h *MinerHandler) GetRoster(c *gin.Context) {
	address := c.GetString("address")

	roster, err := h.redisService.GetMinerRoster(address)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to get roster",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"roster":  roster,
	})
}

func (h *MinerHandler) UpdateRoster(c *gin.Context) {
	address := c.GetString("address")

	var req models.RosterUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request",
			"details": err.Error(),
		})
		return
	}

	if err := req.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid roster",
			"details": err.Error(),
		})
		return
	}

	power, err := h.engine.UpdateRoster(address, req.Miners)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to update roster",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"power":   power,
	})
}

func (h *MinerHandler) GetPower(c *gin.Context) {
	address := c.GetString("address")

	power, err := h.engine.TotalPower(address)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to compute power",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"power":   power,
	})
}
