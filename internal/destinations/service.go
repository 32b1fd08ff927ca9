package destinations

import (
	"context"
	"fmt"
	"time"

	"staybook/internal/shared/constants"
	"staybook/internal/supplier"
	"staybook/pkg/cache"
)

// SupplierClient is the slice of the supplier API this feature proxies.
type SupplierClient interface {
	DestinationInfo(ctx context.Context, destinationID string) (*supplier.DestinationInfo, error)
}

// Service interface defines the contract for destination lookups
type Service interface {
	GetDestination(ctx context.Context, destinationID string) (*supplier.DestinationInfo, error)
}

// service fronts the supplier destination lookup with a cache: destination
// data changes rarely, so a hit skips the supplier round-trip entirely.
type service struct {
	client SupplierClient
	cache  cache.Service
	ttl    time.Duration
}

// NewService creates a new destination service instance
func NewService(client SupplierClient, cacheService cache.Service, ttl time.Duration) Service {
	if ttl <= 0 {
		ttl = constants.TTL_DESTINATION_INFO
	}
	return &service{
		client: client,
		cache:  cacheService,
		ttl:    ttl,
	}
}

func (s *service) GetDestination(ctx context.Context, destinationID string) (*supplier.DestinationInfo, error) {
	if destinationID == "" {
		return nil, fmt.Errorf("destination id is required")
	}

	var info supplier.DestinationInfo
	err := s.cache.GetOrSet(ctx, constants.DestinationInfoKey(destinationID), s.ttl, func() (interface{}, error) {
		return s.client.DestinationInfo(ctx, destinationID)
	}, &info)
	if err != nil {
		return nil, fmt.Errorf("destination lookup failed: %w", err)
	}
	return &info, nil
}
