package constants

import (
	"fmt"
	"time"
)

// Redis cache keys and TTLs.
// Pattern: staybook:{module}:{operation}:{identifier}

// Static supplier data (long TTL: rarely changes)
const (
	TTL_DESTINATION_INFO = 12 * time.Hour // region/hotel metadata
	TTL_CONTRACT_DATA    = 24 * time.Hour // B2B contract terms
)

// Session data (short TTL: book hashes expire supplier-side)
const (
	TTL_PREBOOK_SESSION = 30 * time.Minute // confirmed rate snapshots
)

// PrebookSessionKey returns the cache key for a confirmed rate snapshot.
func PrebookSessionKey(bookHash string) string {
	return fmt.Sprintf("staybook:bookings:prebook:%s", bookHash)
}

// DestinationInfoKey returns the cache key for a destination lookup.
func DestinationInfoKey(destinationID string) string {
	return fmt.Sprintf("staybook:destinations:info:%s", destinationID)
}

// ContractDataKey returns the cache key for the contract data snapshot.
func ContractDataKey() string {
	return "staybook:contract:data"
}
