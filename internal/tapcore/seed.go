package tapcore

import (
	"encoding/binary"

	"golang.org/x/crypto/sha3"
)

// SeedSize is the length of a tap seed in bytes (Keccak-256 digest).
const SeedSize = 32

// DeriveSeed computes the deterministic tap seed for a player address,
// block number and per-tap nonce. The settlement contract hashes the same
// three values in the same order, so byte order here is part of the
// contract: address bytes first, then the block number as 8 big-endian
// bytes, then the nonce as 4 big-endian bytes.
//
// The address is hashed verbatim. Callers must use a consistent casing,
// otherwise locally predicted seeds diverge from the contract's.
func DeriveSeed(address string, blockNumber uint64, nonce uint32) [SeedSize]byte {
	var blockBytes [8]byte
	binary.BigEndian.PutUint64(blockBytes[:], blockNumber)

	var nonceBytes [4]byte
	binary.BigEndian.PutUint32(nonceBytes[:], nonce)

	h := sha3.NewLegacyKeccak256()
	h.Write([]byte(address))
	h.Write(blockBytes[:])
	h.Write(nonceBytes[:])

	var seed [SeedSize]byte
	copy(seed[:], h.Sum(nil))
	return seed
}

// ExtractRandom folds the first 8 bytes of a seed into an unsigned 64-bit
// value, byte i landing at bit i*8. This little-endian reassembly matches
// the reference implementation regardless of the digest's own convention.
func ExtractRandom(seed [SeedSize]byte) uint64 {
	var value uint64
	for i := 0; i < 8; i++ {
		value |= uint64(seed[i]) << (i * 8)
	}
	return value
}
