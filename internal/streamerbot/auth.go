package streamerbot

import (
	"crypto/sha256"
	"encoding/base64"
)

// GenerateAuthHash answers a Streamer.bot authentication challenge:
// Base64(SHA256(Base64(SHA256(password + salt)) + challenge))
func GenerateAuthHash(password, salt, challenge string) string {
	secret := sha256.Sum256([]byte(password + salt))
	encodedSecret := base64.StdEncoding.EncodeToString(secret[:])

	response := sha256.Sum256([]byte(encodedSecret + challenge))
	return base64.StdEncoding.EncodeToString(response[:])
}
