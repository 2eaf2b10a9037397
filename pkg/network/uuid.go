package network

import (
	"crypto/md5"

	"github.com/google/uuid"
)

// offlineUUID mirrors vanilla's offline-mode UUID derivation: a version-3
// (MD5) UUID over "OfflinePlayer:<username>".
func offlineUUID(username string) [16]byte {
	out := md5.Sum([]byte("OfflinePlayer:" + username))
	out[6] = (out[6] & 0x0f) | 0x30 // version 3
	out[8] = (out[8] & 0x3f) | 0x80 // RFC 4122 variant
	return out
}

func formatUUID(id [16]byte) string {
	return uuid.UUID(id).String()
}
