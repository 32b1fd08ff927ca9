package cancellation

import (
	"context"
	"fmt"

	"staybook/internal/bookings"
	"staybook/internal/supplier"
	"staybook/pkg/logger"

	"github.com/google/uuid"
)

// SupplierClient is the slice of the supplier API cancellation drives.
type SupplierClient interface {
	CancelOrder(ctx context.Context, orderID string) (supplier.Status, error)
	OrderDocumentsList(ctx context.Context, orderID string) (*supplier.OrderDocuments, error)
}

// BookingStore is the slice of the booking repository this feature needs.
type BookingStore interface {
	GetBookingByID(ctx context.Context, id uuid.UUID) (*bookings.Booking, error)
	UpdateBookingStatus(ctx context.Context, id uuid.UUID, status bookings.Status) error
}

// Service interface defines the contract for cancellation business logic
type Service interface {
	CancelBooking(ctx context.Context, bookingID uuid.UUID, req CancellationRequest) (*CancellationResponse, error)
	GetDocuments(ctx context.Context, bookingID uuid.UUID) (*DocumentsResponse, error)
}

// service implements the Service interface
type service struct {
	repo   Repository
	store  BookingStore
	client SupplierClient
	log    *logger.Logger
}

// NewService creates a new cancellation service instance
func NewService(repo Repository, store BookingStore, client SupplierClient, log *logger.Logger) Service {
	if log == nil {
		log = logger.GetDefault()
	}
	return &service{
		repo:   repo,
		store:  store,
		client: client,
		log:    log,
	}
}

// CancelBooking cancels the supplier-side order and records the outcome.
func (s *service) CancelBooking(ctx context.Context, bookingID uuid.UUID, req CancellationRequest) (*CancellationResponse, error) {
	booking, err := s.store.GetBookingByID(ctx, bookingID)
	if err != nil {
		return nil, fmt.Errorf("booking not found: %w", err)
	}
	if !booking.Status.CanBeCancelled() {
		return nil, fmt.Errorf("booking in status %s cannot be cancelled", booking.Status)
	}
	if booking.OrderID == "" {
		return nil, fmt.Errorf("booking has no supplier order to cancel")
	}

	status, err := s.client.CancelOrder(ctx, booking.OrderID)
	if err != nil {
		return nil, fmt.Errorf("supplier cancel failed: %w", err)
	}

	record := &Cancellation{
		BookingID:      booking.ID,
		PartnerOrderID: booking.PartnerOrderID,
		OrderID:        booking.OrderID,
		Reason:         req.Reason,
		SupplierStatus: string(status),
	}
	if err := s.repo.CreateCancellation(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to record cancellation: %w", err)
	}

	local := bookings.FromSupplierStatus(status)
	if err := s.store.UpdateBookingStatus(ctx, booking.ID, local); err != nil {
		return nil, fmt.Errorf("failed to update booking: %w", err)
	}

	s.log.LogBookingCancelled(ctx, booking.ID.String(), booking.OrderID, string(status))

	return &CancellationResponse{
		CancellationID: record.ID.String(),
		BookingID:      booking.ID.String(),
		Status:         local.String(),
		CreatedAt:      record.CreatedAt,
	}, nil
}

// GetDocuments fetches voucher and invoice links for a booking's order.
func (s *service) GetDocuments(ctx context.Context, bookingID uuid.UUID) (*DocumentsResponse, error) {
	booking, err := s.store.GetBookingByID(ctx, bookingID)
	if err != nil {
		return nil, fmt.Errorf("booking not found: %w", err)
	}
	if booking.OrderID == "" {
		return nil, fmt.Errorf("booking has no supplier order")
	}

	docs, err := s.client.OrderDocumentsList(ctx, booking.OrderID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch documents: %w", err)
	}

	return &DocumentsResponse{
		BookingID:  booking.ID.String(),
		OrderID:    docs.OrderID,
		VoucherURL: docs.VoucherURL,
		InvoiceURL: docs.InvoiceURL,
		Extra:      docs.Extra,
	}, nil
}
