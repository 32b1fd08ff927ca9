package contract

import (
	"context"
	"fmt"

	"staybook/internal/shared/constants"
	"staybook/internal/supplier"
	"staybook/pkg/cache"
)

// SupplierClient is the slice of the supplier API this feature reads.
type SupplierClient interface {
	ContractData(ctx context.Context) (*supplier.ContractData, error)
	OrderInfo(ctx context.Context, orderID string) (*supplier.OrderInfo, error)
}

// Service exposes the B2B contract and raw order views for operators.
type Service interface {
	GetContractData(ctx context.Context) (*supplier.ContractData, error)
	GetOrderInfo(ctx context.Context, orderID string) (*supplier.OrderInfo, error)
}

type service struct {
	client SupplierClient
	cache  cache.Service
}

// NewService creates a new contract service instance
func NewService(client SupplierClient, cacheService cache.Service) Service {
	return &service{
		client: client,
		cache:  cacheService,
	}
}

// GetContractData returns the cached contract snapshot. Contract terms change
// on renegotiation only, so a long TTL is safe.
func (s *service) GetContractData(ctx context.Context) (*supplier.ContractData, error) {
	var data supplier.ContractData
	err := s.cache.GetOrSet(ctx, constants.ContractDataKey(), constants.TTL_CONTRACT_DATA, func() (interface{}, error) {
		return s.client.ContractData(ctx)
	}, &data)
	if err != nil {
		return nil, fmt.Errorf("contract data lookup failed: %w", err)
	}
	return &data, nil
}

// GetOrderInfo is never cached: operators use it to inspect live order state.
func (s *service) GetOrderInfo(ctx context.Context, orderID string) (*supplier.OrderInfo, error) {
	if orderID == "" {
		return nil, fmt.Errorf("order id is required")
	}
	info, err := s.client.OrderInfo(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("order info lookup failed: %w", err)
	}
	return info, nil
}
