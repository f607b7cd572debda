package booking

import (
	"context"

	"github.com/iliyamo/hall-venue-booking/internal/model"
	"github.com/iliyamo/hall-venue-booking/internal/slot"
)

// HasBookingConflict reports whether any slot of req is already held on
// req's date by its venue or a related one (parent or children).  It stops
// at the first hit.
func HasBookingConflict(ctx context.Context, st Store, req model.BookingRequest) (bool, error) {
	ids, ok := req.Slots()
	if !ok {
		return false, errBadSlots
	}
	venues, err := st.RelatedVenueIDs(ctx, req.VenueID)
	if err != nil {
		return false, err
	}
	for _, s := range ids {
		booked, err := st.SlotBooked(ctx, venues, req.Date, s)
		if err != nil {
			return false, err
		}
		if booked {
			return true, nil
		}
	}
	return false, nil
}

// FindConflictingRequests returns the other pending requests for req's
// venue and date whose slots intersect req's.
func FindConflictingRequests(ctx context.Context, st Store, req model.BookingRequest) ([]model.BookingRequest, error) {
	pending, err := st.PendingRequests(ctx, req.VenueID, req.Date)
	if err != nil {
		return nil, err
	}
	var out []model.BookingRequest
	for _, p := range pending {
		if p.ID == req.ID {
			continue
		}
		if slot.Intersects(req.TimeSlots, p.TimeSlots) {
			out = append(out, p)
		}
	}
	return out, nil
}
