package models_test

import (
	"testing"

	"tap-miner-backend/internal/models"
)

func TestValidateAddress(t *testing.T) {
	valid := "0x" + "ab12cd34ef56ab12cd34ef56ab12cd34ef56ab12"
	if err := models.ValidateAddress(valid); err != nil {
		t.Errorf("Valid address rejected: %v", err)
	}

	invalid := []string{
		"",
		"ab12cd34ef56ab12cd34ef56ab12cd34ef56ab12cd",
		"0x123",
		"0x" + "AB12CD34EF56AB12CD34EF56AB12CD34EF56AB12",
		"0x" + "zz12cd34ef56ab12cd34ef56ab12cd34ef56ab12",
	}
	for _, addr := range invalid {
		if err := models.ValidateAddress(addr); err == nil {
			t.Errorf("Address %q should fail validation", addr)
		}
	}
}

func TestGenerateSecret(t *testing.T) {
	secret1, err := models.GenerateSecret()
	if err != nil {
		t.Fatalf("Failed to generate secret: %v", err)
	}

	secret2, err := models.GenerateSecret()
	if err != nil {
		t.Fatalf("Failed to generate secret: %v", err)
	}

	if len(secret1) != 32 {
		t.Errorf("Secret should be 32 hex characters, got %d", len(secret1))
	}
	if secret1 == secret2 {
		t.Error("Two secrets should not collide")
	}
}

func TestRosterValidation(t *testing.T) {
	req := &models.RosterUpdateRequest{
		Miners: []models.Miner{
			{Level: 0, BasePower: 100},
			{Level: 3, BasePower: 250},
		},
	}
	if err := req.Validate(); err != nil {
		t.Errorf("Valid roster rejected: %v", err)
	}

	empty := &models.RosterUpdateRequest{}
	if err := empty.Validate(); err == nil {
		t.Error("Empty roster should fail validation")
	}

	zeroPower := &models.RosterUpdateRequest{
		Miners: []models.Miner{{Level: 1, BasePower: 0}},
	}
	if err := zeroPower.Validate(); err == nil {
		t.Error("Zero base power should fail validation")
	}

	overLeveled := &models.RosterUpdateRequest{
		Miners: []models.Miner{{Level: models.MaxMinerLevel + 1, BasePower: 10}},
	}
	if err := overLeveled.Validate(); err == nil {
		t.Error("Over-leveled miner should fail validation")
	}

	overPowered := &models.RosterUpdateRequest{
		Miners: []models.Miner{{Level: 0, BasePower: models.MaxBasePower + 1}},
	}
	if err := overPowered.Validate(); err == nil {
		t.Error("Base power above the cap should fail validation")
	}

	atCap := &models.RosterUpdateRequest{
		Miners: []models.Miner{{Level: 0, BasePower: models.MaxBasePower}},
	}
	if err := atCap.Validate(); err != nil {
		t.Errorf("Base power at the cap should validate: %v", err)
	}
}

func TestRosterProjection(t *testing.T) {
	roster := &models.MinerRoster{
		Address: "0xplayer",
		Miners: []models.Miner{
			{Level: 0, BasePower: 100},
			{Level: 1, BasePower: 200},
			{Level: 2, BasePower: 300},
		},
	}

	levels := roster.Levels()
	powers := roster.BasePowers()

	if len(levels) != 3 || len(powers) != 3 {
		t.Fatalf("Projections should match roster length, got %d and %d", len(levels), len(powers))
	}
	if levels[2] != 2 || powers[2] != 300 {
		t.Errorf("Projection order should match roster order")
	}
}

func TestGenerateTapID(t *testing.T) {
	id := models.GenerateTapID()
	if id == "" {
		t.Error("Tap ID should not be empty")
	}
	if id == models.GenerateTapID() {
		t.Error("Tap IDs should not collide")
	}
}
