package services

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/google/uuid"

	"wedsnap/internal/domain"
	"wedsnap/internal/repos"
)

type BookingService struct {
	Bookings  *repos.BookingRepo
	Users     *repos.UserRepo
	Gigs      *repos.GigRepo
	Estimates *EstimateService
}

func NewBookingService(bookings *repos.BookingRepo, users *repos.UserRepo, gigs *repos.GigRepo, est *EstimateService) *BookingService {
	return &BookingService{Bookings: bookings, Users: users, Gigs: gigs, Estimates: est}
}

type BookingRequest struct {
	SellerID   string
	GigID      string
	BuyerName  string
	BuyerEmail string
	EventDate  string
	Selection  domain.EstimateSelection
	// ClientTotal is what the buyer's calculator displayed. It is stored
	// for audit only; the booking is always priced server-side.
	ClientTotal int64
}

type PlacedBooking struct {
	ID          string
	Estimate    domain.EstimateResult
	ClientTotal int64
}

func (p PlacedBooking) Mismatch() bool {
	return p.ClientTotal != 0 && p.ClientTotal != p.Estimate.Total
}

// Place prices the request against the seller's current settings and
// stores it as a PENDING booking owned by sessionID.
func (s *BookingService) Place(ctx context.Context, sessionID string, req BookingRequest) (PlacedBooking, error) {
	seller, err := s.Users.ByID(ctx, req.SellerID)
	if err != nil {
		return PlacedBooking{}, notFound(err)
	}
	if seller.Role != domain.RoleSeller {
		return PlacedBooking{}, ErrNotFound
	}
	if req.GigID != "" {
		g, err := s.Gigs.Get(ctx, req.GigID)
		if err != nil {
			return PlacedBooking{}, notFound(err)
		}
		if g.SellerID != req.SellerID || !g.Active {
			return PlacedBooking{}, ErrNotFound
		}
	}

	est, err := s.Estimates.Quote(ctx, req.SellerID, req.Selection)
	if err != nil {
		return PlacedBooking{}, err
	}
	sel, err := json.Marshal(req.Selection)
	if err != nil {
		return PlacedBooking{}, err
	}

	row := repos.BookingRow{
		ID:               uuid.NewString(),
		SessionID:        sessionID,
		SellerID:         req.SellerID,
		GigID:            req.GigID,
		BuyerName:        req.BuyerName,
		BuyerEmail:       req.BuyerEmail,
		EventDate:        req.EventDate,
		SelectionJSON:    string(sel),
		Subtotal:         est.Subtotal,
		ExpressSurcharge: est.ExpressSurcharge,
		Total:            est.Total,
		ClientTotal:      req.ClientTotal,
	}
	lines := make([]repos.BookingLineRow, 0, len(est.Lines))
	for _, l := range est.Lines {
		lines = append(lines, repos.BookingLineRow{
			Kind: string(l.Kind), ItemID: l.ItemID, Name: l.Name, Qty: l.Qty, UnitPrice: l.UnitPrice, Amount: l.Amount,
		})
	}
	if err := s.Bookings.Create(ctx, row, lines); err != nil {
		return PlacedBooking{}, err
	}
	return PlacedBooking{ID: row.ID, Estimate: est, ClientTotal: req.ClientTotal}, nil
}

// Viewer identifies who is asking for a booking.
type Viewer struct {
	SessionID string
	User      *domain.User
}

func (v Viewer) userID() string {
	if v.User == nil {
		return ""
	}
	return v.User.ID
}

func (v Viewer) role() string {
	if v.User == nil {
		return ""
	}
	return v.User.Role
}

// canSee: the buyer session that placed it (or the user logged into that
// session), the seller it was sent to, and admins.
func canSee(b repos.BookingRow, v Viewer) bool {
	switch {
	case v.SessionID != "" && v.SessionID == b.SessionID:
		return true
	case v.userID() != "" && v.userID() == b.UserID:
		return true
	case v.userID() != "" && v.userID() == b.SellerID:
		return true
	case v.role() == domain.RoleAdmin:
		return true
	}
	return false
}

// Get hides bookings the viewer may not see behind ErrNotFound.
func (s *BookingService) Get(ctx context.Context, id string, v Viewer) (repos.BookingRow, []repos.BookingLineRow, error) {
	b, lines, err := s.Bookings.Get(ctx, id)
	if err != nil {
		return repos.BookingRow{}, nil, notFound(err)
	}
	if !canSee(b, v) {
		return repos.BookingRow{}, nil, ErrNotFound
	}
	return b, lines, nil
}

func (s *BookingService) Inbox(ctx context.Context, sellerID, status string) ([]repos.BookingSummary, error) {
	return s.Bookings.ListBySeller(ctx, sellerID, status)
}

func (s *BookingService) History(ctx context.Context, sessionID string) ([]repos.BookingSummary, error) {
	return s.Bookings.ListBySession(ctx, sessionID)
}

// Decide lets the receiving seller accept or decline a pending booking.
func (s *BookingService) Decide(ctx context.Context, sellerID, id, status string) error {
	if status != repos.BookingAccepted && status != repos.BookingDeclined {
		return ErrInvalidInput
	}
	b, _, err := s.Bookings.Get(ctx, id)
	if err != nil {
		return notFound(err)
	}
	if b.SellerID != sellerID {
		return ErrForbidden
	}
	return transitionErr(s.Bookings.Transition(ctx, id, repos.BookingPending, status))
}

// Cancel withdraws a pending booking on behalf of the buyer who placed it.
func (s *BookingService) Cancel(ctx context.Context, id string, v Viewer) error {
	b, _, err := s.Bookings.Get(ctx, id)
	if err != nil {
		return notFound(err)
	}
	owner := (v.SessionID != "" && v.SessionID == b.SessionID) || (v.userID() != "" && v.userID() == b.UserID)
	if !owner {
		return ErrNotFound
	}
	return transitionErr(s.Bookings.Transition(ctx, id, repos.BookingPending, repos.BookingCanceled))
}

func (s *BookingService) Latest(ctx context.Context, limit int) ([]repos.BookingSummary, error) {
	return s.Bookings.ListLatest(ctx, limit)
}

func transitionErr(err error) error {
	if errors.Is(err, repos.ErrStatusConflict) {
		return ErrConflict
	}
	return notFound(err)
}
