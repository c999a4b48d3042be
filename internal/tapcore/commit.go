package tapcore

import (
	"encoding/binary"
	"encoding/hex"

	"golang.org/x/crypto/sha3"
)

// CommitHash binds a player's secret to a specific tap attempt for the
// commit-reveal scheme: Keccak-256 over the address bytes, the nonce as
// 4 big-endian bytes, then the secret bytes, formatted as 0x plus 64
// lowercase hex characters. Publishing the hash before the tap prevents
// picking the secret after seeing any outcome.
func CommitHash(address string, nonce uint32, secret string) string {
	var nonceBytes [4]byte
	binary.BigEndian.PutUint32(nonceBytes[:], nonce)

	h := sha3.NewLegacyKeccak256()
	h.Write([]byte(address))
	h.Write(nonceBytes[:])
	h.Write([]byte(secret))

	return "0x" + hex.EncodeToString(h.Sum(nil))
}
