package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tap-miner-backend/internal/services"
)

type PlayerHandler struct {
	redisService *services.RedisService
	engine       *services.TapEngine
}

func NewPlayerHandler(redisService *services.RedisService, engine *services.TapEngine) *PlayerHandler {
	return &PlayerHandler{
		redisService: redisService,
		engine:       engine,
	}
}

func (h *PlayerHandler) GetCurrentPlayer(c *gin.Context) {
	address := c.GetString("address")
	sessionID := c.GetString("session_id")

	session, err := h.redisService.GetPlayerSession(address, sessionID)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Session expired or invalid"})
		return
	}

	state, err := h.redisService.GetPlayerState(address)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to get player state",
			"details": err.Error(),
		})
		return
	}

	power, err := h.engine.TotalPower(address)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to compute power",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"session": gin.H{
			"session_id":    session.SessionID,
			"created_at":    session.CreatedAt,
			"last_accessed": session.LastAccessed,
		},
		"player": gin.H{
			"address":       state.Address,
			"tap_nonce":     state.TapNonce,
			"pity_counter":  state.PityCounter,
			"total_taps":    state.TotalTaps,
			"total_rewards": state.TotalRewards,
			"critical_hits": state.CriticalHits,
			"miner_power":   power.TotalPower,
			"miner_count":   power.MinerCount,
		},
		"block_number": h.engine.CurrentBlock(),
	})
}

func (h *PlayerHandler) Logout(c *gin.Context) {
	address := c.GetString("address")
	sessionID := c.GetString("session_id")

	if err := h.redisService.DeletePlayerSession(address, sessionID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to logout"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
