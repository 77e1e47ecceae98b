package storage

import "encoding/base64"

// Storage keys
const (
	keyPrefix         = "AL_"
	DocumentKeyPrefix = keyPrefix + "records_"
	WorkingCopyKey    = keyPrefix + "chunkDocument"
	RegistryKey       = keyPrefix + "recordStorageIds"
)

// DocumentKey returns the storage key for a saved document.
// Format: AL_records_<base64(title)>
func DocumentKey(title string) string {
	return DocumentKeyPrefix + base64.StdEncoding.EncodeToString([]byte(title))
}
