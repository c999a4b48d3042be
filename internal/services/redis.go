package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"tap-miner-backend/internal/config"
	"tap-miner-backend/internal/models"

	"github.com/redis/go-redis/v9"
)

type RedisService struct {
	client *redis.Client
	ctx    context.Context
}

func NewRedisService(cfg *config.Config) (*RedisService, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisURL,
		Password: cfg.RedisPass,
		DB:       cfg.RedisDB,
	})

	ctx := context.Background()

	_, err := client.Ping(ctx).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %v", err)
	}

	return &RedisService{
		client: client,
		ctx:    ctx,
	}, nil
}

func (s *RedisService) Close() error {
	return s.client.Close()
}

func (s *RedisService) StorePlayerSession(session *models.PlayerSession, expiry time.Duration) error {
	key := fmt.Sprintf(KeyPlayerSession, session.Address, session.SessionID)

	data, err := json.Marshal(session)
	if err != nil {
		return err
	}

	return s.client.Set(s.ctx, key, data, expiry).Err()
}

func (s *RedisService) GetPlayerSession(address, sessionID string) (*models.PlayerSession, error) {
	key := fmt.Sprintf(KeyPlayerSession, address, sessionID)

	data, err := s.client.Get(s.ctx, key).Result()
	if err != nil {
		return nil, err
	}

	var session models.PlayerSession
	if err := json.Unmarshal([]byte(data), &session); err != nil {
		return nil, err
	}

	session.LastAccessed = time.Now().Unix()
	updatedData, _ := json.Marshal(session)
	s.client.Set(s.ctx, key, updatedData, TTLPlayerSession)

	return &session, nil
}

func (s *RedisService) DeletePlayerSession(address, sessionID string) error {
	key := fmt.Sprintf(KeyPlayerSession, address, sessionID)
	return s.client.Del(s.ctx, key).Err()
}

// GetPlayerState loads the mining state for an address, creating a fresh
// one on first touch. State lives in a redis hash so the reward counters
// stay 64-bit integers end to end; a JSON blob would push them through
// Lua's double-precision cjson during settlement and lose precision past
// 2^53.
func (s *RedisService) GetPlayerState(address string) (*models.PlayerState, error) {
	key := fmt.Sprintf(KeyPlayerState, address)

	fields, err := s.client.HGetAll(s.ctx, key).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get player state: %v", err)
	}
	if len(fields) == 0 {
		state := models.NewPlayerState(address)
		if err := s.SavePlayerState(state); err != nil {
			return nil, fmt.Errorf("failed to create player state: %v", err)
		}
		return state, nil
	}

	return playerStateFromHash(fields)
}

func (s *RedisService) SavePlayerState(state *models.PlayerState) error {
	key := fmt.Sprintf(KeyPlayerState, state.Address)

	return s.client.HSet(s.ctx, key,
		"address", state.Address,
		"pity_counter", state.PityCounter,
		"tap_nonce", state.TapNonce,
		"total_taps", state.TotalTaps,
		"total_rewards", state.TotalRewards,
		"critical_hits", state.CriticalHits,
		"created_at", state.CreatedAt,
		"updated_at", state.UpdatedAt,
	).Err()
}

func playerStateFromHash(fields map[string]string) (*models.PlayerState, error) {
	var err error
	num := func(name string) uint64 {
		if fields[name] == "" {
			return 0
		}
		v, convErr := strconv.ParseUint(fields[name], 10, 64)
		if convErr != nil && err == nil {
			err = fmt.Errorf("bad %s field: %v", name, convErr)
		}
		return v
	}

	state := &models.PlayerState{
		Address:      fields["address"],
		PityCounter:  uint32(num("pity_counter")),
		TapNonce:     uint32(num("tap_nonce")),
		TotalTaps:    num("total_taps"),
		TotalRewards: num("total_rewards"),
		CriticalHits: num("critical_hits"),
		CreatedAt:    int64(num("created_at")),
		UpdatedAt:    int64(num("updated_at")),
	}
	if err != nil {
		return nil, fmt.Errorf("corrupt player state: %v", err)
	}
	return state, nil
}

// settleTapScript advances the tap nonce and pity counter in one atomic
// step so concurrent taps from the same player cannot reuse a nonce.
// Counters move via HINCRBY, which does exact signed 64-bit arithmetic
// and fails loudly on overflow instead of wrapping or rounding.
var settleTapScript = redis.NewScript(`
	local key = KEYS[1]
	local critical = ARGV[1] == "true"
	local reward = ARGV[2]
	local now = ARGV[3]

	if redis.call("EXISTS", key) == 0 then
		return redis.error_reply("player state not found")
	end

	redis.call("HINCRBY", key, "tap_nonce", 1)
	redis.call("HINCRBY", key, "total_taps", 1)
	redis.call("HINCRBY", key, "total_rewards", reward)
	redis.call("HSET", key, "updated_at", now)

	if critical then
		redis.call("HSET", key, "pity_counter", 0)
		redis.call("HINCRBY", key, "critical_hits", 1)
	else
		redis.call("HINCRBY", key, "pity_counter", 1)
	end

	return redis.call("HGETALL", key)
`)

func (s *RedisService) SettleTap(address string, isCritical bool, reward uint64) (*models.PlayerState, error) {
	key := fmt.Sprintf(KeyPlayerState, address)

	result, err := settleTapScript.Run(s.ctx, s.client, []string{key},
		strconv.FormatBool(isCritical), strconv.FormatUint(reward, 10), time.Now().Unix()).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to settle tap: %v", err)
	}

	pairs, ok := result.([]interface{})
	if !ok {
		return nil, fmt.Errorf("unexpected settle result type %T", result)
	}

	fields := make(map[string]string, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		name, _ := pairs[i].(string)
		value, _ := pairs[i+1].(string)
		fields[name] = value
	}

	return playerStateFromHash(fields)
}

func (s *RedisService) SaveMinerRoster(roster *models.MinerRoster) error {
	key := fmt.Sprintf(KeyMinerRoster, roster.Address)

	roster.UpdatedAt = time.Now().Unix()

	data, err := json.Marshal(roster)
	if err != nil {
		return fmt.Errorf("failed to marshal roster: %v", err)
	}

	return s.client.Set(s.ctx, key, data, 0).Err()
}

func (s *RedisService) GetMinerRoster(address string) (*models.MinerRoster, error) {
	key := fmt.Sprintf(KeyMinerRoster, address)

	data, err := s.client.Get(s.ctx, key).Result()
	if err == redis.Nil {
		return &models.MinerRoster{Address: address}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get roster: %v", err)
	}

	var roster models.MinerRoster
	if err := json.Unmarshal([]byte(data), &roster); err != nil {
		return nil, fmt.Errorf("failed to unmarshal roster: %v", err)
	}

	return &roster, nil
}

func (s *RedisService) SaveTapRecord(record *models.TapRecord) error {
	tapKey := fmt.Sprintf(KeyTapRecord, record.ID)

	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal tap record: %v", err)
	}

	if err := s.client.Set(s.ctx, tapKey, data, TTLTapRecord).Err(); err != nil {
		return fmt.Errorf("failed to save tap record: %v", err)
	}

	playerTapsKey := fmt.Sprintf(KeyPlayerTaps, record.Address)
	if err := s.client.ZAdd(s.ctx, playerTapsKey, redis.Z{
		Score:  float64(record.CreatedAt),
		Member: record.ID,
	}).Err(); err != nil {
		return fmt.Errorf("failed to add to tap history: %v", err)
	}

	// Keep only the last 100 taps per player
	s.client.ZRemRangeByRank(s.ctx, playerTapsKey, 0, -101)
	s.client.Expire(s.ctx, playerTapsKey, TTLTapRecord)

	return nil
}

func (s *RedisService) GetTapHistory(address string, limit int64) ([]*models.TapRecord, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	playerTapsKey := fmt.Sprintf(KeyPlayerTaps, address)

	tapIDs, err := s.client.ZRevRange(s.ctx, playerTapsKey, 0, limit-1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get tap history: %v", err)
	}

	var records []*models.TapRecord
	for _, tapID := range tapIDs {
		tapKey := fmt.Sprintf(KeyTapRecord, tapID)

		data, err := s.client.Get(s.ctx, tapKey).Result()
		if err != nil {
			continue
		}

		var record models.TapRecord
		if err := json.Unmarshal([]byte(data), &record); err != nil {
			continue
		}

		records = append(records, &record)
	}

	return records, nil
}

func (s *RedisService) SaveCommitment(commitment *models.TapCommitment) error {
	key := fmt.Sprintf(KeyTapCommitment, commitment.Address, commitment.Nonce)

	data, err := json.Marshal(commitment)
	if err != nil {
		return fmt.Errorf("failed to marshal commitment: %v", err)
	}

	return s.client.Set(s.ctx, key, data, TTLCommitment).Err()
}

func (s *RedisService) GetCommitment(address string, nonce uint32) (*models.TapCommitment, error) {
	key := fmt.Sprintf(KeyTapCommitment, address, nonce)

	data, err := s.client.Get(s.ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, fmt.Errorf("no commitment for nonce %d", nonce)
		}
		return nil, fmt.Errorf("failed to get commitment: %v", err)
	}

	var commitment models.TapCommitment
	if err := json.Unmarshal([]byte(data), &commitment); err != nil {
		return nil, fmt.Errorf("failed to unmarshal commitment: %v", err)
	}

	return &commitment, nil
}

func (s *RedisService) DeleteCommitment(address string, nonce uint32) error {
	key := fmt.Sprintf(KeyTapCommitment, address, nonce)
	return s.client.Del(s.ctx, key).Err()
}

// DeletePlayerData removes all keys for an address. Used by account reset
// and test cleanup.
func (s *RedisService) DeletePlayerData(address string) error {
	tapIDs, _ := s.client.ZRange(s.ctx, fmt.Sprintf(KeyPlayerTaps, address), 0, -1).Result()
	for _, tapID := range tapIDs {
		s.client.Del(s.ctx, fmt.Sprintf(KeyTapRecord, tapID))
	}

	return s.client.Del(s.ctx,
		fmt.Sprintf(KeyPlayerState, address),
		fmt.Sprintf(KeyMinerRoster, address),
		fmt.Sprintf(KeyPlayerTaps, address),
	).Err()
}

func (s *RedisService) CheckRateLimit(address, action string, limit int64, window time.Duration) (bool, error) {
	key := fmt.Sprintf(KeyRateLimit, address, action)

	count, err := s.client.Incr(s.ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check rate limit: %v", err)
	}

	if count == 1 {
		s.client.Expire(s.ctx, key, window)
	}

	return count <= limit, nil
}
