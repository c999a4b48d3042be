package services

import (
	"context"
	"fmt"
	"time"

	"tap-miner-backend/internal/models"
	"tap-miner-backend/internal/tapcore"
)

// TapEngine orchestrates the tap loop: commitments before a tap, the local
// reward prediction, and the state settlement that keeps nonce and pity
// counter aligned with the settlement contract.
type TapEngine struct {
	redisService *RedisService
	blocks       BlockSource
	broadcaster  Broadcaster
}

func NewTapEngine(redisService *RedisService, blocks BlockSource) *TapEngine {
	return &TapEngine{
		redisService: redisService,
		blocks:       blocks,
	}
}

// SetBroadcaster attaches the websocket hub once handlers are wired.
func (e *TapEngine) SetBroadcaster(b Broadcaster) {
	e.broadcaster = b
}

// PredictTap runs one tap for the player: derives the deterministic
// prediction for the current block and tap nonce, settles state atomically,
// and records the tap for later verification.
func (e *TapEngine) PredictTap(ctx context.Context, address string) (*models.TapRecord, *models.PlayerState, error) {
	state, err := e.redisService.GetPlayerState(address)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get player state: %v", err)
	}

	roster, err := e.redisService.GetMinerRoster(address)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get roster: %v", err)
	}

	minerPower, err := tapcore.TotalPower(roster.Levels(), roster.BasePowers())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to compute miner power: %v", err)
	}

	blockNumber := e.blocks.CurrentBlock()

	prediction := tapcore.Predict(tapcore.TapContext{
		Address:     address,
		MinerPower:  minerPower,
		PityCounter: state.PityCounter,
		BlockNumber: blockNumber,
		Nonce:       state.TapNonce,
	})

	record := &models.TapRecord{
		ID:          models.GenerateTapID(),
		Address:     address,
		Nonce:       state.TapNonce,
		BlockNumber: blockNumber,
		BaseReward:  prediction.BaseReward,
		Multiplier:  prediction.Multiplier,
		IsCritical:  prediction.IsCritical,
		TotalReward: prediction.TotalReward,
		CreatedAt:   time.Now().Unix(),
	}

	// Attach the pending commitment for this nonce, if the player made one.
	if commitment, err := e.redisService.GetCommitment(address, state.TapNonce); err == nil {
		record.Commitment = commitment.Commitment
	}

	settled, err := e.redisService.SettleTap(address, prediction.IsCritical, prediction.TotalReward)
	if err != nil {
		return nil, nil, err
	}

	if err := e.redisService.SaveTapRecord(record); err != nil {
		return nil, nil, fmt.Errorf("failed to record tap: %v", err)
	}

	if e.broadcaster != nil {
		e.broadcaster.BroadcastTapResult(address, record)
	}

	return record, settled, nil
}

// CommitTap binds a secret to the player's next tap nonce before the
// outcome is computed. An empty secret asks the server to generate one.
// Rate limiting happens once, at the HTTP edge.
func (e *TapEngine) CommitTap(ctx context.Context, address, secret string) (*models.TapCommitment, error) {
	state, err := e.redisService.GetPlayerState(address)
	if err != nil {
		return nil, fmt.Errorf("failed to get player state: %v", err)
	}

	if secret == "" {
		secret, err = models.GenerateSecret()
		if err != nil {
			return nil, err
		}
	}

	commitment := &models.TapCommitment{
		Address:    address,
		Nonce:      state.TapNonce,
		Commitment: tapcore.CommitHash(address, state.TapNonce, secret),
		Secret:     secret,
		CreatedAt:  time.Now().Unix(),
	}

	if err := e.redisService.SaveCommitment(commitment); err != nil {
		return nil, err
	}

	return commitment, nil
}

// VerifyCommitment recomputes a commitment from a revealed secret and
// compares it to the claimed hash, so players can audit that the secret
// was fixed before the tap.
func (e *TapEngine) VerifyCommitment(address string, nonce uint32, secret, claimed string) (bool, string) {
	recomputed := tapcore.CommitHash(address, nonce, secret)
	return recomputed == claimed, recomputed
}

// TotalPower aggregates the player's roster into the mining power used as
// the base reward per tap.
func (e *TapEngine) TotalPower(address string) (*models.PowerResponse, error) {
	roster, err := e.redisService.GetMinerRoster(address)
	if err != nil {
		return nil, err
	}

	total, err := tapcore.TotalPower(roster.Levels(), roster.BasePowers())
	if err != nil {
		return nil, fmt.Errorf("failed to compute total power: %v", err)
	}

	return &models.PowerResponse{
		Address:    address,
		MinerCount: len(roster.Miners),
		TotalPower: total,
	}, nil
}

// UpdateRoster replaces the player's miners and pushes the new total power
// to connected clients.
func (e *TapEngine) UpdateRoster(address string, miners []models.Miner) (*models.PowerResponse, error) {
	roster := &models.MinerRoster{
		Address: address,
		Miners:  miners,
	}

	if err := e.redisService.SaveMinerRoster(roster); err != nil {
		return nil, err
	}

	power, err := e.TotalPower(address)
	if err != nil {
		return nil, err
	}

	if e.broadcaster != nil {
		e.broadcaster.BroadcastPowerChange(address, power.TotalPower)
	}

	return power, nil
}

// CurrentBlock exposes the block source to handlers.
func (e *TapEngine) CurrentBlock() uint64 {
	return e.blocks.CurrentBlock()
}
