package models

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

func GenerateTapID() string {
	return fmt.Sprintf("tap_%s_%d",
		time.Now().Format("20060102"),
		uuid.New().ID())
}

// GenerateSecret produces the client secret for a tap commitment.
func GenerateSecret() (string, error) {
	bytes := make([]byte, 16) // 128 bits of entropy
	_, err := rand.Read(bytes)
	if err != nil {
		return "", fmt.Errorf("failed to generate secret: %v", err)
	}
	return hex.EncodeToString(bytes), nil
}

// ValidateAddress checks the shape of a wallet address. Seeds hash the
// address verbatim, so the canonical lowercase form is required here to
// keep predictions aligned with the contract.
func ValidateAddress(address string) error {
	if !strings.HasPrefix(address, "0x") {
		return fmt.Errorf("address must start with 0x")
	}
	if len(address) != 42 {
		return fmt.Errorf("address must be 42 characters, got %d", len(address))
	}
	for _, c := range address[2:] {
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return fmt.Errorf("address must be lowercase hex")
		}
	}
	return nil
}

const MaxRosterSize = 50

func (r *RosterUpdateRequest) Validate() error {
	if len(r.Miners) == 0 {
		return fmt.Errorf("roster must contain at least one miner")
	}
	if len(r.Miners) > MaxRosterSize {
		return fmt.Errorf("roster exceeds maximum of %d miners", MaxRosterSize)
	}
	for i, m := range r.Miners {
		if err := m.Validate(); err != nil {
			return fmt.Errorf("miner %d: %v", i, err)
		}
	}
	return nil
}

func NewPlayerState(address string) *PlayerState {
	now := time.Now().Unix()
	return &PlayerState{
		Address:   address,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
