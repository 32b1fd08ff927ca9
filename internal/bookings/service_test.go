package bookings

import (
	"context"
	"errors"
	"regexp"
	"sync"
	"testing"
	"time"

	"staybook/internal/supplier"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeRepo struct {
	mu       sync.Mutex
	bookings map[uuid.UUID]*Booking
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{bookings: make(map[uuid.UUID]*Booking)}
}

func (r *fakeRepo) CreateBooking(ctx context.Context, b *Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.bookings {
		if existing.PartnerOrderID == b.PartnerOrderID {
			return errors.New("duplicate partner_order_id")
		}
	}
	b.ID = uuid.New()
	b.CreatedAt = time.Now()
	r.bookings[b.ID] = b
	return nil
}

func (r *fakeRepo) GetBookingByID(ctx context.Context, id uuid.UUID) (*Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copy := *b
	return &copy, nil
}

func (r *fakeRepo) GetBookingByPartnerOrderID(ctx context.Context, partnerOrderID string) (*Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, b := range r.bookings {
		if b.PartnerOrderID == partnerOrderID {
			copy := *b
			return &copy, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeRepo) UpdateBooking(ctx context.Context, b *Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bookings[b.ID] = b
	return nil
}

func (r *fakeRepo) UpdateBookingStatus(ctx context.Context, id uuid.UUID, status Status) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	b.Status = status
	return nil
}

func (r *fakeRepo) UpdateRoomStatus(ctx context.Context, bookingID uuid.UUID, orderID string, status Status) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[bookingID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	for i := range b.Rooms {
		if b.Rooms[i].OrderID == orderID {
			b.Rooms[i].Status = status
		}
	}
	return nil
}

func (r *fakeRepo) GetAllBookings(ctx context.Context, query BookingListQuery) ([]Booking, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Booking
	for _, b := range r.bookings {
		out = append(out, *b)
	}
	return out, int64(len(out)), nil
}

func (r *fakeRepo) statusOf(id uuid.UUID) Status {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.bookings[id].Status
}

type fakeSupplier struct {
	prebookResult  *supplier.PrebookResult
	prebookErr     error
	formResult     *supplier.OrderFormResult
	formErr        error
	multiFormRes   *supplier.MultiroomOrderFormResult
	finishErr      error
	pollStatus     supplier.Status
	pollErr        error
	pollResults    map[string]supplier.Status
	lastFormReq    supplier.OrderFormRequest
	lastFinishReq  supplier.OrderFinishRequest
	formPartnerIDs []string
	mu             sync.Mutex
}

func (f *fakeSupplier) Prebook(ctx context.Context, rate supplier.BookedRate) (*supplier.PrebookResult, error) {
	return f.prebookResult, f.prebookErr
}

func (f *fakeSupplier) PrebookMultiroom(ctx context.Context, rates []supplier.BookedRate, currency, language string) (*supplier.MultiroomPrebookResult, error) {
	return &supplier.MultiroomPrebookResult{TotalRooms: len(rates), SuccessfulRooms: len(rates)}, nil
}

func (f *fakeSupplier) OrderForm(ctx context.Context, req supplier.OrderFormRequest) (*supplier.OrderFormResult, error) {
	f.mu.Lock()
	f.lastFormReq = req
	f.formPartnerIDs = append(f.formPartnerIDs, req.PartnerOrderID)
	f.mu.Unlock()
	return f.formResult, f.formErr
}

func (f *fakeSupplier) OrderFormMultiroom(ctx context.Context, req supplier.MultiroomOrderFormRequest) (*supplier.MultiroomOrderFormResult, error) {
	return f.multiFormRes, f.formErr
}

func (f *fakeSupplier) OrderFinish(ctx context.Context, req supplier.OrderFinishRequest) (*supplier.OrderFinishResult, error) {
	f.mu.Lock()
	f.lastFinishReq = req
	f.mu.Unlock()
	if f.finishErr != nil {
		return nil, f.finishErr
	}
	return &supplier.OrderFinishResult{OrderID: req.OrderID, Status: supplier.StatusProcessing}, nil
}

func (f *fakeSupplier) OrderFinishMultiroom(ctx context.Context, req supplier.MultiroomOrderFinishRequest) (*supplier.MultiroomOrderFinishResult, error) {
	if f.finishErr != nil {
		return nil, f.finishErr
	}
	return &supplier.MultiroomOrderFinishResult{TotalRooms: len(req.Rooms), SuccessfulRooms: len(req.Rooms)}, nil
}

func (f *fakeSupplier) PollOrderStatus(ctx context.Context, orderID string, cfg supplier.PollConfig, onStatus func(int, supplier.Status)) (supplier.Status, error) {
	return f.pollStatus, f.pollErr
}

func (f *fakeSupplier) PollOrdersStatus(ctx context.Context, orderIDs []string, cfg supplier.PollConfig) (map[string]supplier.Status, error) {
	return f.pollResults, nil
}

type recordedEvent struct {
	partnerOrderID string
	status         Status
}

type fakePublisher struct {
	mu     sync.Mutex
	events []recordedEvent
}

func (p *fakePublisher) PublishBookingStatus(ctx context.Context, booking *Booking, status Status) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, recordedEvent{booking.PartnerOrderID, status})
	return nil
}

func (p *fakePublisher) snapshot() []recordedEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]recordedEvent(nil), p.events...)
}

func newTestService(repo Repository, client SupplierClient, publisher EventPublisher) Service {
	return NewService(repo, client, publisher, nil, Options{
		Language:    "en",
		Polling:     supplier.PollConfig{MaxAttempts: 3, Interval: time.Millisecond},
		PollTimeout: time.Second,
	})
}

func waitForStatus(t *testing.T, repo *fakeRepo, id uuid.UUID, want Status) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if repo.statusOf(id) == want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	require.Equal(t, want, repo.statusOf(id))
}

func TestCreateBookingGeneratesPartnerOrderID(t *testing.T) {
	repo := newFakeRepo()
	client := &fakeSupplier{
		formResult: &supplier.OrderFormResult{
			OrderID:    "9001",
			ItemID:     "9001-1",
			FinalPrice: supplier.Price{Amount: 199.00, CurrencyCode: "USD"},
		},
	}
	svc := newTestService(repo, client, nil)

	res, err := svc.CreateBooking(context.Background(), CreateBookingRequest{
		BookHashes: []string{"bh_123"},
		Currency:   "USD",
	})
	require.NoError(t, err)

	assert.Regexp(t, regexp.MustCompile(`^BK-\d+-[A-Z0-9]{6}$`), res.PartnerOrderID)
	assert.Equal(t, "9001", res.OrderID)
	assert.Equal(t, "9001-1", res.ItemID)
	assert.Equal(t, 199.00, res.FinalPrice)
	assert.False(t, res.Recovered)

	stored, err := repo.GetBookingByPartnerOrderID(context.Background(), res.PartnerOrderID)
	require.NoError(t, err)
	assert.Equal(t, StatusPending, stored.Status)
	assert.Equal(t, "9001", stored.OrderID)
}

func TestCreateBookingFreshKeyPerAttempt(t *testing.T) {
	repo := newFakeRepo()
	client := &fakeSupplier{
		formResult: &supplier.OrderFormResult{OrderID: "9001", ItemID: "9001-1"},
	}
	svc := newTestService(repo, client, nil)

	first, err := svc.CreateBooking(context.Background(), CreateBookingRequest{BookHashes: []string{"bh_123"}})
	require.NoError(t, err)
	second, err := svc.CreateBooking(context.Background(), CreateBookingRequest{BookHashes: []string{"bh_123"}})
	require.NoError(t, err)

	assert.NotEqual(t, first.PartnerOrderID, second.PartnerOrderID,
		"each booking attempt must get its own idempotency key")
}

func TestCreateBookingRecoveredResult(t *testing.T) {
	repo := newFakeRepo()
	client := &fakeSupplier{
		formResult: &supplier.OrderFormResult{
			OrderID:      "9001",
			ItemID:       "9001-1",
			PaymentTypes: []supplier.PaymentType{{Type: "deposit"}},
			Recovered:    true,
		},
	}
	svc := newTestService(repo, client, nil)

	res, err := svc.CreateBooking(context.Background(), CreateBookingRequest{BookHashes: []string{"bh_123"}})
	require.NoError(t, err)
	assert.True(t, res.Recovered)

	stored, err := repo.GetBookingByPartnerOrderID(context.Background(), res.PartnerOrderID)
	require.NoError(t, err)
	assert.True(t, stored.Recovered)
}

func TestCreateBookingSessionExpired(t *testing.T) {
	repo := newFakeRepo()
	client := &fakeSupplier{formErr: supplier.ErrSessionExpired}
	svc := newTestService(repo, client, nil)

	_, err := svc.CreateBooking(context.Background(), CreateBookingRequest{BookHashes: []string{"bh_123"}})
	require.ErrorIs(t, err, supplier.ErrSessionExpired)
}

func TestFinishBookingConfirms(t *testing.T) {
	repo := newFakeRepo()
	publisher := &fakePublisher{}
	client := &fakeSupplier{
		formResult: &supplier.OrderFormResult{
			OrderID:    "9001",
			ItemID:     "9001-1",
			FinalPrice: supplier.Price{Amount: 199.00, CurrencyCode: "USD"},
		},
		pollStatus: supplier.StatusConfirmed,
	}
	svc := newTestService(repo, client, publisher)

	created, err := svc.CreateBooking(context.Background(), CreateBookingRequest{
		BookHashes: []string{"bh_123"},
		Currency:   "USD",
	})
	require.NoError(t, err)
	bookingID := uuid.MustParse(created.BookingID)

	res, err := svc.FinishBooking(context.Background(), bookingID, FinishBookingRequest{
		PaymentType: "deposit",
		Email:       "a@b.com",
		Rooms: []RoomGuestSet{
			{Guests: []GuestRequest{{FirstName: "Ann", LastName: "Lee"}}},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, StatusProcessing.String(), res.Status)

	client.mu.Lock()
	finishReq := client.lastFinishReq
	client.mu.Unlock()
	assert.Equal(t, "9001", finishReq.OrderID)
	assert.Equal(t, "9001-1", finishReq.ItemID)
	assert.Equal(t, created.PartnerOrderID, finishReq.PartnerOrderID)
	assert.Equal(t, 199.00, finishReq.PaymentAmount)
	assert.Equal(t, "a@b.com", finishReq.Email)

	waitForStatus(t, repo, bookingID, StatusConfirmed)

	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) && len(publisher.snapshot()) == 0 {
		time.Sleep(5 * time.Millisecond)
	}
	events := publisher.snapshot()
	require.Len(t, events, 1)
	assert.Equal(t, created.PartnerOrderID, events[0].partnerOrderID)
	assert.Equal(t, StatusConfirmed, events[0].status)
}

func TestFinishBookingPollTimeoutIsUnknown(t *testing.T) {
	repo := newFakeRepo()
	publisher := &fakePublisher{}
	client := &fakeSupplier{
		formResult: &supplier.OrderFormResult{OrderID: "9001", ItemID: "9001-1"},
		pollErr:    supplier.ErrPollTimeout,
	}
	svc := newTestService(repo, client, publisher)

	created, err := svc.CreateBooking(context.Background(), CreateBookingRequest{BookHashes: []string{"bh_123"}})
	require.NoError(t, err)
	bookingID := uuid.MustParse(created.BookingID)

	_, err = svc.FinishBooking(context.Background(), bookingID, FinishBookingRequest{
		PaymentType: "deposit",
		Email:       "a@b.com",
		Rooms:       []RoomGuestSet{{Guests: []GuestRequest{{FirstName: "Ann", LastName: "Lee"}}}},
	})
	require.NoError(t, err)

	waitForStatus(t, repo, bookingID, StatusUnknown)
	assert.Empty(t, publisher.snapshot(), "an unknown outcome is not a terminal transition")
}

func TestFinishBookingFailureIsSurfaced(t *testing.T) {
	repo := newFakeRepo()
	client := &fakeSupplier{
		formResult: &supplier.OrderFormResult{OrderID: "9001", ItemID: "9001-1"},
		finishErr:  &supplier.APIError{Code: "insufficient_b2b_balance", Message: "top up"},
	}
	svc := newTestService(repo, client, nil)

	created, err := svc.CreateBooking(context.Background(), CreateBookingRequest{BookHashes: []string{"bh_123"}})
	require.NoError(t, err)
	bookingID := uuid.MustParse(created.BookingID)

	_, err = svc.FinishBooking(context.Background(), bookingID, FinishBookingRequest{
		PaymentType: "deposit",
		Email:       "a@b.com",
		Rooms:       []RoomGuestSet{{Guests: []GuestRequest{{FirstName: "Ann", LastName: "Lee"}}}},
	})
	require.Error(t, err)

	// Finish was rejected, so the booking stays pending.
	stored, err := repo.GetBookingByID(context.Background(), bookingID)
	require.NoError(t, err)
	assert.Equal(t, StatusPending, stored.Status)
}

func TestFinishBookingRejectsNonPending(t *testing.T) {
	repo := newFakeRepo()
	client := &fakeSupplier{
		formResult: &supplier.OrderFormResult{OrderID: "9001", ItemID: "9001-1"},
		pollStatus: supplier.StatusConfirmed,
	}
	svc := newTestService(repo, client, nil)

	created, err := svc.CreateBooking(context.Background(), CreateBookingRequest{BookHashes: []string{"bh_123"}})
	require.NoError(t, err)
	bookingID := uuid.MustParse(created.BookingID)

	req := FinishBookingRequest{
		PaymentType: "deposit",
		Email:       "a@b.com",
		Rooms:       []RoomGuestSet{{Guests: []GuestRequest{{FirstName: "Ann", LastName: "Lee"}}}},
	}
	_, err = svc.FinishBooking(context.Background(), bookingID, req)
	require.NoError(t, err)

	_, err = svc.FinishBooking(context.Background(), bookingID, req)
	require.Error(t, err, "a finished booking must not be finished again")
}

func TestMultiroomBookingPartialOutcome(t *testing.T) {
	repo := newFakeRepo()
	client := &fakeSupplier{
		multiFormRes: &supplier.MultiroomOrderFormResult{
			TotalRooms:      3,
			SuccessfulRooms: 3,
			OrderIDs:        []string{"9001", "9002", "9003"},
			FinalPrice:      supplier.Price{Amount: 540.00, CurrencyCode: "USD"},
		},
		pollResults: map[string]supplier.Status{
			"9001": supplier.StatusConfirmed,
			"9003": supplier.StatusConfirmed,
			// 9002 never settles
		},
	}
	svc := newTestService(repo, client, nil)

	created, err := svc.CreateBooking(context.Background(), CreateBookingRequest{
		BookHashes: []string{"bh_a", "bh_b", "bh_c"},
		Currency:   "USD",
	})
	require.NoError(t, err)
	bookingID := uuid.MustParse(created.BookingID)

	_, err = svc.FinishBooking(context.Background(), bookingID, FinishBookingRequest{
		PaymentType: "deposit",
		Email:       "a@b.com",
		Rooms: []RoomGuestSet{
			{Guests: []GuestRequest{{FirstName: "Ann", LastName: "Lee"}}},
			{Guests: []GuestRequest{{FirstName: "Bob", LastName: "Lee"}}},
			{Guests: []GuestRequest{{FirstName: "Cat", LastName: "Lee"}}},
		},
	})
	require.NoError(t, err)

	waitForStatus(t, repo, bookingID, StatusUnknown)

	stored, err := repo.GetBookingByID(context.Background(), bookingID)
	require.NoError(t, err)
	roomStatus := make(map[string]Status)
	for _, room := range stored.Rooms {
		roomStatus[room.OrderID] = room.Status
	}
	assert.Equal(t, StatusConfirmed, roomStatus["9001"])
	assert.Equal(t, StatusPending, roomStatus["9002"], "unresolved room keeps its pending status")
	assert.Equal(t, StatusConfirmed, roomStatus["9003"])
}

func TestMultiroomBookingRoomFailureFailsBooking(t *testing.T) {
	repo := newFakeRepo()
	publisher := &fakePublisher{}
	client := &fakeSupplier{
		multiFormRes: &supplier.MultiroomOrderFormResult{
			TotalRooms:      2,
			SuccessfulRooms: 2,
			OrderIDs:        []string{"9001", "9002"},
		},
		pollResults: map[string]supplier.Status{
			"9001": supplier.StatusConfirmed,
			"9002": supplier.StatusFailed,
		},
	}
	svc := newTestService(repo, client, publisher)

	created, err := svc.CreateBooking(context.Background(), CreateBookingRequest{
		BookHashes: []string{"bh_a", "bh_b"},
	})
	require.NoError(t, err)
	bookingID := uuid.MustParse(created.BookingID)

	_, err = svc.FinishBooking(context.Background(), bookingID, FinishBookingRequest{
		PaymentType: "deposit",
		Email:       "a@b.com",
		Rooms: []RoomGuestSet{
			{Guests: []GuestRequest{{FirstName: "Ann", LastName: "Lee"}}},
			{Guests: []GuestRequest{{FirstName: "Bob", LastName: "Lee"}}},
		},
	})
	require.NoError(t, err)

	waitForStatus(t, repo, bookingID, StatusFailed)
}

func TestPrebookPassThrough(t *testing.T) {
	repo := newFakeRepo()
	client := &fakeSupplier{
		prebookResult: &supplier.PrebookResult{
			BookHash:     "bh_123",
			Price:        199.00,
			CurrencyCode: "USD",
			PriceChanged: true,
		},
	}
	svc := newTestService(repo, client, nil)

	res, err := svc.Prebook(context.Background(), PrebookRequest{BookHash: "bh_123"})
	require.NoError(t, err)
	assert.Equal(t, 199.00, res.Price)
	assert.True(t, res.PriceChanged)
}

func TestFromSupplierStatus(t *testing.T) {
	assert.Equal(t, StatusConfirmed, FromSupplierStatus(supplier.StatusConfirmed))
	assert.Equal(t, StatusFailed, FromSupplierStatus(supplier.StatusFailed))
	assert.Equal(t, StatusCancelled, FromSupplierStatus(supplier.StatusCancelled))
	assert.Equal(t, StatusProcessing, FromSupplierStatus(supplier.StatusProcessing))
	assert.Equal(t, StatusUnknown, FromSupplierStatus(supplier.Status("verifying")))
}
