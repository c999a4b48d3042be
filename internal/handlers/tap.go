package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"tap-miner-backend/internal/models"
	"tap-miner-backend/internal/services"
)

type TapHandler struct {
	engine       *services.TapEngine
	redisService *services.RedisService
}

func NewTapHandler(engine *services.TapEngine, redisService *services.RedisService) *TapHandler {
	return &TapHandler{
		engine:       engine,
		redisService: redisService,
	}
}

func (h *TapHandler) Predict(c *gin.Context) {
	address := c.GetString("address")

	record, state, err := h.engine.PredictTap(c.Request.Context(), address)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Failed to predict tap",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"tap": gin.H{
			"id":           record.ID,
			"nonce":        record.Nonce,
			"block_number": record.BlockNumber,
			"base_reward":  record.BaseReward,
			"multiplier":   record.Multiplier,
			"is_critical":  record.IsCritical,
			"total_reward": record.TotalReward,
			"commitment":   record.Commitment,
		},
		"state": gin.H{
			"tap_nonce":     state.TapNonce,
			"pity_counter":  state.PityCounter,
			"total_taps":    state.TotalTaps,
			"total_rewards": state.TotalRewards,
			"critical_hits": state.CriticalHits,
		},
	})
}

func (h *TapHandler) Commit(c *gin.Context) {
	address := c.GetString("address")

	// Body is optional; an empty commit asks the server for a secret.
	var req models.CommitRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "Invalid request",
				"details": err.Error(),
			})
			return
		}
	}

	commitment, err := h.engine.CommitTap(c.Request.Context(), address, req.Secret)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Failed to commit",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"commit": models.CommitResponse{
			Address:    commitment.Address,
			Nonce:      commitment.Nonce,
			Commitment: commitment.Commitment,
		},
	})
}

func (h *TapHandler) Verify(c *gin.Context) {
	address := c.GetString("address")

	var req models.VerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request",
			"details": err.Error(),
		})
		return
	}

	valid, recomputed := h.engine.VerifyCommitment(address, req.Nonce, req.Secret, req.Commitment)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"result": models.VerifyResponse{
			Valid:      valid,
			Commitment: recomputed,
		},
	})
}

func (h *TapHandler) History(c *gin.Context) {
	address := c.GetString("address")

	limit, err := strconv.ParseInt(c.DefaultQuery("limit", "50"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit"})
		return
	}

	records, err := h.redisService.GetTapHistory(address, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to get tap history",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"taps":    records,
		"count":   len(records),
	})
}
