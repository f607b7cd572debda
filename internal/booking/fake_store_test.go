package booking

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/iliyamo/hall-venue-booking/internal/model"
	"github.com/iliyamo/hall-venue-booking/internal/queue"
	"github.com/iliyamo/hall-venue-booking/internal/repository"
)

// fakeStore keeps everything in memory.  WithTx snapshots the state and
// restores it when fn fails.
type fakeStore struct {
	venues   map[string]model.Venue
	leaders  map[string]map[string]bool
	requests map[string]model.BookingRequest
	order    []string
	bookings []model.VenueBooking

	slotLookups   int
	insertErr     error
	pendingErr    error
	forUpdateSeen bool
	locked        []string
	calls         []string
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		venues:   map[string]model.Venue{},
		leaders:  map[string]map[string]bool{},
		requests: map[string]model.BookingRequest{},
	}
}

func (f *fakeStore) addVenue(v model.Venue) { f.venues[v.ID] = v }

func (f *fakeStore) addLeader(cca, email string) {
	if f.leaders[cca] == nil {
		f.leaders[cca] = map[string]bool{}
	}
	f.leaders[cca][email] = true
}

func (f *fakeStore) put(b model.BookingRequest) {
	if _, ok := f.requests[b.ID]; !ok {
		f.order = append(f.order, b.ID)
	}
	if b.VenueName == "" {
		b.VenueName = f.venues[b.VenueID].Name
	}
	f.requests[b.ID] = b
}

func (f *fakeStore) WithTx(ctx context.Context, fn func(Store) error) error {
	reqs := make(map[string]model.BookingRequest, len(f.requests))
	for k, v := range f.requests {
		reqs[k] = v
	}
	order := append([]string(nil), f.order...)
	bookings := append([]model.VenueBooking(nil), f.bookings...)
	if err := fn(f); err != nil {
		f.requests, f.order, f.bookings = reqs, order, bookings
		return err
	}
	return nil
}

func (f *fakeStore) GetVenue(_ context.Context, id string) (model.Venue, error) {
	v, ok := f.venues[id]
	if !ok {
		return model.Venue{}, repository.ErrNotFound
	}
	return v, nil
}

func (f *fakeStore) RelatedVenueIDs(_ context.Context, id string) ([]string, error) {
	v, ok := f.venues[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	ids := []string{id}
	if v.ParentVenue != nil {
		ids = append(ids, *v.ParentVenue)
	}
	var children []string
	for _, c := range f.venues {
		if c.ParentVenue != nil && *c.ParentVenue == id {
			children = append(children, c.ID)
		}
	}
	sort.Strings(children)
	return append(ids, children...), nil
}

func (f *fakeStore) LockVenueFamily(_ context.Context, id string) error {
	if _, ok := f.venues[id]; !ok {
		return repository.ErrNotFound
	}
	f.locked = append(f.locked, id)
	f.calls = append(f.calls, "lock")
	return nil
}

func (f *fakeStore) IsCCALeader(_ context.Context, cca, email string) (bool, error) {
	return f.leaders[cca][email], nil
}

func (f *fakeStore) GetRequest(_ context.Context, id string, forUpdate bool) (model.BookingRequest, error) {
	if forUpdate {
		f.forUpdateSeen = true
	}
	b, ok := f.requests[id]
	if !ok {
		return model.BookingRequest{}, repository.ErrNotFound
	}
	return b, nil
}

func (f *fakeStore) InsertRequest(_ context.Context, b model.BookingRequest) error {
	f.put(b)
	return nil
}

func (f *fakeStore) UpdateRequestState(_ context.Context, b model.BookingRequest) error {
	cur, ok := f.requests[b.ID]
	if !ok {
		return repository.ErrNotFound
	}
	cur.IsApproved, cur.IsRejected, cur.IsCancelled, cur.Reason = b.IsApproved, b.IsRejected, b.IsCancelled, b.Reason
	f.requests[b.ID] = cur
	return nil
}

func (f *fakeStore) PendingRequests(ctx context.Context, venueID string, date int64) ([]model.BookingRequest, error) {
	if f.pendingErr != nil {
		return nil, f.pendingErr
	}
	return f.ListRequests(ctx, repository.RequestFilter{VenueID: venueID, Status: model.StatusPending, From: date, To: date})
}

func (f *fakeStore) ListRequests(_ context.Context, rf repository.RequestFilter) ([]model.BookingRequest, error) {
	var out []model.BookingRequest
	for _, id := range f.order {
		b := f.requests[id]
		switch {
		case rf.ID != "" && b.ID != rf.ID,
			rf.Email != "" && b.Email != rf.Email,
			rf.VenueID != "" && b.VenueID != rf.VenueID,
			rf.From != 0 && b.Date < rf.From,
			rf.To != 0 && b.Date > rf.To,
			rf.Status != "" && b.Status() != rf.Status:
			continue
		}
		out = append(out, b)
	}
	return out, nil
}

func (f *fakeStore) SlotBooked(_ context.Context, venueIDs []string, date int64, slotID int) (bool, error) {
	f.slotLookups++
	f.calls = append(f.calls, "slot")
	for _, b := range f.bookings {
		if b.Date != date || b.TimingSlot != slotID {
			continue
		}
		for _, v := range venueIDs {
			if b.VenueID == v {
				return true, nil
			}
		}
	}
	return false, nil
}

func (f *fakeStore) InsertVenueBookings(_ context.Context, rows []model.VenueBooking) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	for _, r := range rows {
		for _, b := range f.bookings {
			if b.VenueID == r.VenueID && b.Date == r.Date && b.TimingSlot == r.TimingSlot {
				return repository.ErrSlotTaken
			}
		}
	}
	f.bookings = append(f.bookings, rows...)
	return nil
}

func (f *fakeStore) DeleteVenueBookings(_ context.Context, requestID string) error {
	kept := f.bookings[:0]
	for _, b := range f.bookings {
		if b.BookingRequestID != requestID {
			kept = append(kept, b)
		}
	}
	f.bookings = kept
	return nil
}

func (f *fakeStore) bookingsFor(requestID string) []int {
	var out []int
	for _, b := range f.bookings {
		if b.BookingRequestID == requestID {
			out = append(out, b.TimingSlot)
		}
	}
	sort.Ints(out)
	return out
}

type recordingNotifier struct {
	mu     sync.Mutex
	events []queue.BookingEvent
	err    error
}

func (n *recordingNotifier) Notify(_ context.Context, ev queue.BookingEvent) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, ev)
	return n.err
}

func (n *recordingNotifier) types() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]string, 0, len(n.events))
	for _, ev := range n.events {
		out = append(out, ev.Type)
	}
	return out
}

func errSlotTakenForTest() error { return fmt.Errorf("insert: %w", repository.ErrSlotTaken) }
