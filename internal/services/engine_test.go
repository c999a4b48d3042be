package services_test

import (
	"context"
	"testing"

	"tap-miner-backend/internal/config"
	"tap-miner-backend/internal/models"
	"tap-miner-backend/internal/services"
	"tap-miner-backend/internal/tapcore"
)

func setupTestRedis(t *testing.T) *services.RedisService {
	cfg := &config.Config{
		RedisURL:  "localhost:6379",
		RedisPass: "",
		RedisDB:   0,
	}

	redisService, err := services.NewRedisService(cfg)
	if err != nil {
		t.Skipf("Redis not available: %v", err)
	}
	return redisService
}

func TestTapEngine(t *testing.T) {
	redisService := setupTestRedis(t)
	defer redisService.Close()

	engine := services.NewTapEngine(redisService, services.FixedBlock(1000))

	ctx := context.Background()
	address := "0x" + "00112233445566778899aabbccddeeff00112233"

	defer func() {
		if err := redisService.DeletePlayerData(address); err != nil {
			t.Errorf("Failed to cleanup player data: %v", err)
		}
	}()

	power, err := engine.UpdateRoster(address, []models.Miner{
		{Level: 0, BasePower: 100},
		{Level: 1, BasePower: 200},
		{Level: 2, BasePower: 300},
	})
	if err != nil {
		t.Fatalf("Failed to update roster: %v", err)
	}

	if power.TotalPower != 1400 {
		t.Errorf("Expected total power 1400, got %d", power.TotalPower)
	}

	stateBefore, err := redisService.GetPlayerState(address)
	if err != nil {
		t.Fatalf("Failed to get player state: %v", err)
	}

	record, stateAfter, err := engine.PredictTap(ctx, address)
	if err != nil {
		t.Fatalf("Failed to predict tap: %v", err)
	}

	if record.BaseReward != 1400 {
		t.Errorf("Base reward should equal roster power 1400, got %d", record.BaseReward)
	}
	if record.TotalReward != record.BaseReward*uint64(record.Multiplier) {
		t.Errorf("Total reward %d != %d x %d", record.TotalReward, record.BaseReward, record.Multiplier)
	}

	if stateAfter.TapNonce != stateBefore.TapNonce+1 {
		t.Errorf("Tap nonce should advance from %d, got %d", stateBefore.TapNonce, stateAfter.TapNonce)
	}

	// The record must replay to the same outcome the core computes.
	replay := tapcore.Predict(tapcore.TapContext{
		Address:     address,
		MinerPower:  record.BaseReward,
		PityCounter: stateBefore.PityCounter,
		BlockNumber: record.BlockNumber,
		Nonce:       record.Nonce,
	})
	if replay.TotalReward != record.TotalReward || replay.IsCritical != record.IsCritical {
		t.Errorf("Replay mismatch: %+v vs record %+v", replay, record)
	}

	if record.IsCritical && stateAfter.PityCounter != 0 {
		t.Errorf("Critical tap should reset pity counter, got %d", stateAfter.PityCounter)
	}
	if !record.IsCritical && stateAfter.PityCounter != stateBefore.PityCounter+1 {
		t.Errorf("Non-critical tap should advance pity counter, got %d", stateAfter.PityCounter)
	}

	history, err := redisService.GetTapHistory(address, 10)
	if err != nil {
		t.Fatalf("Failed to get tap history: %v", err)
	}
	if len(history) == 0 || history[0].ID != record.ID {
		t.Error("Latest tap should appear first in history")
	}
}

func TestTapEngineLargeRewardSettlement(t *testing.T) {
	redisService := setupTestRedis(t)
	defer redisService.Close()

	engine := services.NewTapEngine(redisService, services.FixedBlock(9000))

	ctx := context.Background()
	address := "0x" + "1234567890abcdef1234567890abcdef12345678"

	defer redisService.DeletePlayerData(address)

	// Largest roster validation allows: full roster of maxed miners.
	miners := make([]models.Miner, models.MaxRosterSize)
	for i := range miners {
		miners[i] = models.Miner{Level: models.MaxMinerLevel, BasePower: models.MaxBasePower}
	}

	power, err := engine.UpdateRoster(address, miners)
	if err != nil {
		t.Fatalf("Failed to update roster: %v", err)
	}

	wantPower := uint64(models.MaxRosterSize) * (models.MaxMinerLevel + 1) * models.MaxBasePower
	if power.TotalPower != wantPower {
		t.Fatalf("Expected total power %d, got %d", wantPower, power.TotalPower)
	}

	record1, state1, err := engine.PredictTap(ctx, address)
	if err != nil {
		t.Fatalf("Failed to predict tap: %v", err)
	}

	// Counters must settle exactly, with no floating-point rounding.
	if state1.TotalRewards != record1.TotalReward {
		t.Errorf("Settled total %d should exactly equal reward %d", state1.TotalRewards, record1.TotalReward)
	}

	// State must stay readable after settling a large reward.
	reloaded, err := redisService.GetPlayerState(address)
	if err != nil {
		t.Fatalf("Player state unreadable after large settlement: %v", err)
	}
	if reloaded.TotalRewards != state1.TotalRewards {
		t.Errorf("Reloaded total %d != settled total %d", reloaded.TotalRewards, state1.TotalRewards)
	}

	record2, state2, err := engine.PredictTap(ctx, address)
	if err != nil {
		t.Fatalf("Second tap failed after large settlement: %v", err)
	}
	if state2.TotalRewards != record1.TotalReward+record2.TotalReward {
		t.Errorf("Accumulated total %d != %d + %d",
			state2.TotalRewards, record1.TotalReward, record2.TotalReward)
	}
	if state2.TapNonce != state1.TapNonce+1 {
		t.Errorf("Tap nonce should advance to %d, got %d", state1.TapNonce+1, state2.TapNonce)
	}
}

func TestTapEngineCommitReveal(t *testing.T) {
	redisService := setupTestRedis(t)
	defer redisService.Close()

	engine := services.NewTapEngine(redisService, services.FixedBlock(500))

	ctx := context.Background()
	address := "0x" + "ffeeddccbbaa99887766554433221100ffeeddcc"

	defer redisService.DeletePlayerData(address)

	commitment, err := engine.CommitTap(ctx, address, "")
	if err != nil {
		t.Fatalf("Failed to commit: %v", err)
	}

	if commitment.Secret == "" {
		t.Error("Server should generate a secret when none is supplied")
	}
	if commitment.Commitment != tapcore.CommitHash(address, commitment.Nonce, commitment.Secret) {
		t.Error("Stored commitment should match the core hash")
	}

	valid, _ := engine.VerifyCommitment(address, commitment.Nonce, commitment.Secret, commitment.Commitment)
	if !valid {
		t.Error("Revealed secret should verify against its commitment")
	}

	valid, _ = engine.VerifyCommitment(address, commitment.Nonce, "wrong-secret", commitment.Commitment)
	if valid {
		t.Error("Wrong secret should not verify")
	}

	// The next tap should pick up the pending commitment.
	record, _, err := engine.PredictTap(ctx, address)
	if err != nil {
		t.Fatalf("Failed to predict tap: %v", err)
	}
	if record.Commitment != commitment.Commitment {
		t.Errorf("Tap record should carry the commitment for its nonce")
	}

	if err := redisService.DeleteCommitment(address, commitment.Nonce); err != nil {
		t.Errorf("Failed to cleanup commitment: %v", err)
	}
}
