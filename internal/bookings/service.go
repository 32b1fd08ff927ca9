package bookings

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"time"

	"staybook/internal/shared/constants"
	"staybook/internal/supplier"
	"staybook/pkg/cache"
	"staybook/pkg/logger"

	"github.com/google/uuid"
)

// SupplierClient is the slice of the supplier API the booking flow drives.
type SupplierClient interface {
	Prebook(ctx context.Context, rate supplier.BookedRate) (*supplier.PrebookResult, error)
	PrebookMultiroom(ctx context.Context, rates []supplier.BookedRate, currency, language string) (*supplier.MultiroomPrebookResult, error)
	OrderForm(ctx context.Context, req supplier.OrderFormRequest) (*supplier.OrderFormResult, error)
	OrderFormMultiroom(ctx context.Context, req supplier.MultiroomOrderFormRequest) (*supplier.MultiroomOrderFormResult, error)
	OrderFinish(ctx context.Context, req supplier.OrderFinishRequest) (*supplier.OrderFinishResult, error)
	OrderFinishMultiroom(ctx context.Context, req supplier.MultiroomOrderFinishRequest) (*supplier.MultiroomOrderFinishResult, error)
	PollOrderStatus(ctx context.Context, orderID string, cfg supplier.PollConfig, onStatus func(int, supplier.Status)) (supplier.Status, error)
	PollOrdersStatus(ctx context.Context, orderIDs []string, cfg supplier.PollConfig) (map[string]supplier.Status, error)
}

// EventPublisher broadcasts terminal booking transitions. A nil publisher is
// valid; publishing failures never fail the booking.
type EventPublisher interface {
	PublishBookingStatus(ctx context.Context, booking *Booking, status Status) error
}

// Service interface defines the contract for booking business logic
type Service interface {
	Prebook(ctx context.Context, req PrebookRequest) (*PrebookResponse, error)
	PrebookMultiroom(ctx context.Context, req MultiroomPrebookRequest) (*MultiroomPrebookResponse, error)
	CreateBooking(ctx context.Context, req CreateBookingRequest) (*CreateBookingResponse, error)
	FinishBooking(ctx context.Context, bookingID uuid.UUID, req FinishBookingRequest) (*FinishBookingResponse, error)
	GetBooking(ctx context.Context, bookingID uuid.UUID) (*BookingResponse, error)
	ListBookings(ctx context.Context, query BookingListQuery) (*BookingListResponse, error)
}

// Options carries service tunables.
type Options struct {
	Language string
	Polling  supplier.PollConfig
	// PollTimeout bounds the detached background polling run.
	PollTimeout time.Duration
	// Cache, when set, holds confirmed rate snapshots between prebook and
	// order form. Book hashes expire supplier-side, so the TTL is short.
	Cache      cache.Service
	SessionTTL time.Duration
}

// service implements the Service interface
type service struct {
	repo      Repository
	client    SupplierClient
	publisher EventPublisher
	log       *logger.Logger
	opts      Options
}

// NewService creates a new booking service instance
func NewService(repo Repository, client SupplierClient, publisher EventPublisher, log *logger.Logger, opts Options) Service {
	if log == nil {
		log = logger.GetDefault()
	}
	if opts.Polling.MaxAttempts <= 0 || opts.Polling.Interval <= 0 {
		opts.Polling = supplier.DefaultPollConfig()
	}
	if opts.PollTimeout <= 0 {
		opts.PollTimeout = 5 * time.Minute
	}
	if opts.SessionTTL <= 0 {
		opts.SessionTTL = constants.TTL_PREBOOK_SESSION
	}
	return &service{
		repo:      repo,
		client:    client,
		publisher: publisher,
		log:       log,
		opts:      opts,
	}
}

// Prebook re-validates price and availability for a held rate.
func (s *service) Prebook(ctx context.Context, req PrebookRequest) (*PrebookResponse, error) {
	res, err := s.client.Prebook(ctx, supplier.BookedRate{
		BookHash:             req.BookHash,
		Residency:            req.Residency,
		Currency:             req.Currency,
		PriceIncreasePercent: req.PriceIncreasePercent,
	})
	if err != nil {
		return nil, fmt.Errorf("prebook failed: %w", err)
	}

	out := &PrebookResponse{
		BookHash:     res.BookHash,
		Price:        res.Price,
		CurrencyCode: res.CurrencyCode,
		PriceChanged: res.PriceChanged,
	}
	s.cachePrebookSession(ctx, out)
	return out, nil
}

func (s *service) PrebookMultiroom(ctx context.Context, req MultiroomPrebookRequest) (*MultiroomPrebookResponse, error) {
	rates := make([]supplier.BookedRate, 0, len(req.Rooms))
	for _, room := range req.Rooms {
		rates = append(rates, supplier.BookedRate{
			BookHash:             room.BookHash,
			Residency:            room.Residency,
			PriceIncreasePercent: room.PriceIncreasePercent,
		})
	}

	res, err := s.client.PrebookMultiroom(ctx, rates, req.Currency, s.opts.Language)
	if err != nil {
		return nil, fmt.Errorf("multiroom prebook failed: %w", err)
	}

	out := &MultiroomPrebookResponse{
		TotalRooms:      res.TotalRooms,
		SuccessfulRooms: res.SuccessfulRooms,
		FailedRooms:     res.FailedRooms,
	}
	for _, room := range res.Rooms {
		roomResp := PrebookResponse{
			BookHash:     room.BookHash,
			Price:        room.Price,
			CurrencyCode: room.CurrencyCode,
			PriceChanged: room.PriceChanged,
		}
		out.Rooms = append(out.Rooms, roomResp)
		s.cachePrebookSession(ctx, &roomResp)
	}
	return out, nil
}

// cachePrebookSession stores a confirmed rate snapshot. Cache failures are
// logged, never surfaced: the booking flow works without the cache.
func (s *service) cachePrebookSession(ctx context.Context, res *PrebookResponse) {
	if s.opts.Cache == nil || res.BookHash == "" {
		return
	}
	key := constants.PrebookSessionKey(res.BookHash)
	if err := s.opts.Cache.Set(ctx, key, res, s.opts.SessionTTL); err != nil {
		s.log.Warn("failed to cache prebook session",
			slog.String("book_hash", res.BookHash),
			slog.Any("error", err),
		)
	}
}

// CreateBooking opens a booking attempt: it generates the partner order id,
// submits the order form (the supplier client handles retries and duplicate
// recovery underneath) and persists the resulting order references.
func (s *service) CreateBooking(ctx context.Context, req CreateBookingRequest) (*CreateBookingResponse, error) {
	// Step 1: Generate the idempotency key for this attempt.
	partnerOrderID, err := s.generatePartnerOrderID()
	if err != nil {
		return nil, fmt.Errorf("failed to generate partner order id: %w", err)
	}

	booking := &Booking{
		PartnerOrderID: partnerOrderID,
		BookHash:       req.BookHashes[0],
		Status:         StatusPending,
		Multiroom:      len(req.BookHashes) > 1,
		Currency:       req.Currency,
	}
	for _, hash := range req.BookHashes {
		booking.Rooms = append(booking.Rooms, RoomBooking{
			BookHash: hash,
			Status:   StatusPending,
		})
	}

	// Step 2: Create the supplier-side order.
	var response *CreateBookingResponse
	if booking.Multiroom {
		res, err := s.client.OrderFormMultiroom(ctx, supplier.MultiroomOrderFormRequest{
			BookHashes:     req.BookHashes,
			PartnerOrderID: partnerOrderID,
			Language:       s.opts.Language,
			UserIP:         req.UserIP,
		})
		if err != nil {
			return nil, fmt.Errorf("order form failed: %w", err)
		}

		if len(res.OrderIDs) > 0 {
			booking.OrderID = res.OrderIDs[0]
		}
		for i := range booking.Rooms {
			if i < len(res.OrderIDs) {
				booking.Rooms[i].OrderID = res.OrderIDs[i]
			}
			if i < len(res.Rooms) {
				booking.Rooms[i].ItemID = res.Rooms[i].ItemID
			}
		}
		booking.Recovered = res.Recovered
		booking.Amount = res.FinalPrice.Amount
		if res.FinalPrice.CurrencyCode != "" {
			booking.Currency = res.FinalPrice.CurrencyCode
		}

		response = &CreateBookingResponse{
			OrderID:      booking.OrderID,
			Recovered:    res.Recovered,
			PaymentTypes: res.PaymentTypes,
			FinalPrice:   res.FinalPrice.Amount,
			Currency:     res.FinalPrice.CurrencyCode,
		}
	} else {
		res, err := s.client.OrderForm(ctx, supplier.OrderFormRequest{
			BookHash:       req.BookHashes[0],
			PartnerOrderID: partnerOrderID,
			Language:       s.opts.Language,
			UserIP:         req.UserIP,
		})
		if err != nil {
			return nil, fmt.Errorf("order form failed: %w", err)
		}

		booking.OrderID = res.OrderID
		booking.ItemID = res.ItemID
		booking.Recovered = res.Recovered
		booking.Amount = res.FinalPrice.Amount
		if res.FinalPrice.CurrencyCode != "" {
			booking.Currency = res.FinalPrice.CurrencyCode
		}
		booking.Rooms[0].OrderID = res.OrderID
		booking.Rooms[0].ItemID = res.ItemID

		response = &CreateBookingResponse{
			OrderID:        res.OrderID,
			ItemID:         res.ItemID,
			Recovered:      res.Recovered,
			RequiredFields: res.RequiredFields,
			PaymentTypes:   res.PaymentTypes,
			FinalPrice:     res.FinalPrice.Amount,
			Currency:       res.FinalPrice.CurrencyCode,
		}
	}

	// Step 3: Persist the attempt with its order references.
	if err := s.repo.CreateBooking(ctx, booking); err != nil {
		return nil, fmt.Errorf("failed to create booking: %w", err)
	}

	response.BookingID = booking.ID.String()
	response.PartnerOrderID = partnerOrderID
	response.Status = booking.Status.String()
	response.CreatedAt = booking.CreatedAt

	s.log.LogBookingCreated(ctx, response.BookingID, partnerOrderID, booking.OrderID, booking.Recovered)
	return response, nil
}

// FinishBooking submits guests and payment, then confirms asynchronously: the
// supplier answer is awaited by a detached poller that lands the terminal
// status in the database and publishes the transition.
func (s *service) FinishBooking(ctx context.Context, bookingID uuid.UUID, req FinishBookingRequest) (*FinishBookingResponse, error) {
	booking, err := s.repo.GetBookingByID(ctx, bookingID)
	if err != nil {
		return nil, fmt.Errorf("booking not found: %w", err)
	}
	if booking.Status != StatusPending {
		return nil, fmt.Errorf("booking %s cannot be finished in status %s", bookingID, booking.Status)
	}
	if booking.OrderID == "" {
		return nil, errors.New("booking has no supplier order to finish")
	}
	if booking.Multiroom && len(req.Rooms) != len(booking.Rooms) {
		return nil, fmt.Errorf("expected guests for %d rooms, got %d", len(booking.Rooms), len(req.Rooms))
	}

	if booking.Multiroom {
		finishReq := supplier.MultiroomOrderFinishRequest{
			PartnerOrderID:  booking.PartnerOrderID,
			PaymentType:     req.PaymentType,
			PaymentAmount:   booking.Amount,
			PaymentCurrency: booking.Currency,
			Email:           req.Email,
			Phone:           req.Phone,
			UserIP:          req.UserIP,
			Language:        s.opts.Language,
		}
		for i, room := range booking.Rooms {
			finishReq.Rooms = append(finishReq.Rooms, supplier.FinishRoom{
				OrderID: room.OrderID,
				ItemID:  room.ItemID,
				Guests:  toSupplierGuests(req.Rooms[i].Guests),
			})
		}
		if _, err := s.client.OrderFinishMultiroom(ctx, finishReq); err != nil {
			return nil, fmt.Errorf("order finish failed: %w", err)
		}
	} else {
		if _, err := s.client.OrderFinish(ctx, supplier.OrderFinishRequest{
			OrderID:         booking.OrderID,
			ItemID:          booking.ItemID,
			PartnerOrderID:  booking.PartnerOrderID,
			PaymentType:     req.PaymentType,
			PaymentAmount:   booking.Amount,
			PaymentCurrency: booking.Currency,
			Guests:          toSupplierGuests(req.Rooms[0].Guests),
			Email:           req.Email,
			Phone:           req.Phone,
			UserIP:          req.UserIP,
			Language:        s.opts.Language,
		}); err != nil {
			return nil, fmt.Errorf("order finish failed: %w", err)
		}
	}

	booking.Email = req.Email
	booking.Phone = req.Phone
	booking.PaymentType = req.PaymentType
	s.storeGuests(booking, req.Rooms)
	booking.MarkFinished()
	if err := s.repo.UpdateBooking(ctx, booking); err != nil {
		return nil, fmt.Errorf("failed to update booking: %w", err)
	}

	go s.awaitConfirmation(booking)

	return &FinishBookingResponse{
		BookingID:      booking.ID.String(),
		PartnerOrderID: booking.PartnerOrderID,
		OrderID:        booking.OrderID,
		Status:         booking.Status.String(),
	}, nil
}

func (s *service) GetBooking(ctx context.Context, bookingID uuid.UUID) (*BookingResponse, error) {
	booking, err := s.repo.GetBookingByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	res := toBookingResponse(booking)
	return &res, nil
}

func (s *service) ListBookings(ctx context.Context, query BookingListQuery) (*BookingListResponse, error) {
	bookings, totalCount, err := s.repo.GetAllBookings(ctx, query)
	if err != nil {
		return nil, err
	}

	if query.Page <= 0 {
		query.Page = 1
	}
	if query.Limit <= 0 {
		query.Limit = 10
	}

	res := &BookingListResponse{
		Bookings:   make([]BookingResponse, 0, len(bookings)),
		TotalCount: totalCount,
		Page:       query.Page,
		Limit:      query.Limit,
		TotalPages: CalculateTotalPages(totalCount, query.Limit),
	}
	for i := range bookings {
		res.Bookings = append(res.Bookings, toBookingResponse(&bookings[i]))
	}
	return res, nil
}

// awaitConfirmation runs detached from the request: it polls the supplier
// until the order settles, records the outcome and publishes the transition.
// A polling timeout records UNKNOWN; it must never look like a failure.
func (s *service) awaitConfirmation(booking *Booking) {
	ctx, cancel := context.WithTimeout(context.Background(), s.opts.PollTimeout)
	defer cancel()

	final := StatusUnknown
	if booking.Multiroom {
		orderIDs := make([]string, 0, len(booking.Rooms))
		for _, room := range booking.Rooms {
			orderIDs = append(orderIDs, room.OrderID)
		}

		results, err := s.client.PollOrdersStatus(ctx, orderIDs, s.opts.Polling)
		if err != nil {
			s.log.Warn("multiroom confirmation polling aborted",
				slog.String("booking_id", booking.ID.String()),
				slog.String("error", err.Error()),
			)
		}
		final = s.settleRooms(ctx, booking, results)
	} else {
		status, err := s.client.PollOrderStatus(ctx, booking.OrderID, s.opts.Polling, nil)
		switch {
		case err == nil:
			final = FromSupplierStatus(status)
		case errors.Is(err, supplier.ErrPollTimeout):
			final = StatusUnknown
		default:
			s.log.Warn("confirmation polling aborted",
				slog.String("booking_id", booking.ID.String()),
				slog.String("error", err.Error()),
			)
		}
	}

	if err := s.repo.UpdateBookingStatus(ctx, booking.ID, final); err != nil {
		s.log.Error("failed to record booking outcome",
			slog.String("booking_id", booking.ID.String()),
			slog.String("status", final.String()),
			slog.String("error", err.Error()),
		)
		return
	}

	s.log.LogBookingSettled(ctx, booking.ID.String(), booking.PartnerOrderID, final.String())

	if s.publisher != nil && final.IsTerminal() {
		if err := s.publisher.PublishBookingStatus(ctx, booking, final); err != nil {
			s.log.Warn("failed to publish booking event",
				slog.String("booking_id", booking.ID.String()),
				slog.String("error", err.Error()),
			)
		}
	}
}

// settleRooms records per-room outcomes and folds them into one booking
// status: all confirmed wins, any failure loses, anything unresolved stays
// unknown.
func (s *service) settleRooms(ctx context.Context, booking *Booking, results map[string]supplier.Status) Status {
	confirmed, failed := 0, 0
	for _, room := range booking.Rooms {
		status, ok := results[room.OrderID]
		if !ok {
			continue
		}
		local := FromSupplierStatus(status)
		if err := s.repo.UpdateRoomStatus(ctx, booking.ID, room.OrderID, local); err != nil {
			s.log.Warn("failed to record room outcome",
				slog.String("booking_id", booking.ID.String()),
				slog.String("order_id", room.OrderID),
				slog.String("error", err.Error()),
			)
		}
		switch local {
		case StatusConfirmed:
			confirmed++
		case StatusFailed, StatusCancelled:
			failed++
		}
	}

	switch {
	case failed > 0:
		return StatusFailed
	case confirmed == len(booking.Rooms):
		return StatusConfirmed
	}
	return StatusUnknown
}

func (s *service) storeGuests(booking *Booking, rooms []RoomGuestSet) {
	booking.Guests = booking.Guests[:0]
	for i, room := range rooms {
		for _, g := range room.Guests {
			booking.Guests = append(booking.Guests, BookingGuest{
				RoomIndex: i,
				FirstName: g.FirstName,
				LastName:  g.LastName,
				IsChild:   g.IsChild,
				Age:       g.Age,
			})
		}
	}
}

func toSupplierGuests(guests []GuestRequest) []supplier.Guest {
	out := make([]supplier.Guest, 0, len(guests))
	for _, g := range guests {
		out = append(out, supplier.Guest{
			FirstName: g.FirstName,
			LastName:  g.LastName,
			IsChild:   g.IsChild,
			Age:       g.Age,
		})
	}
	return out
}

// generatePartnerOrderID builds the idempotency key for one booking attempt:
// BK-<unix seconds>-<6 random uppercase alphanumerics>.
func (s *service) generatePartnerOrderID() (string, error) {
	const charset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

	suffix := make([]byte, 6)
	for i := range suffix {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(charset))))
		if err != nil {
			return "", err
		}
		suffix[i] = charset[n.Int64()]
	}

	return fmt.Sprintf("BK-%d-%s", time.Now().Unix(), suffix), nil
}
