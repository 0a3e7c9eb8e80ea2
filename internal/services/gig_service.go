package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"wedsnap/internal/domain"
	"wedsnap/internal/estimate"
	"wedsnap/internal/repos"
)

type GigService struct {
	Gigs      *repos.GigRepo
	Users     *repos.UserRepo
	Estimates *EstimateService
}

func NewGigService(gigs *repos.GigRepo, users *repos.UserRepo, est *EstimateService) *GigService {
	return &GigService{Gigs: gigs, Users: users, Estimates: est}
}

type GigInput struct {
	Title       string
	Description string
	ServiceType domain.ServiceType
	City        string
}

func (s *GigService) Create(ctx context.Context, sellerID string, in GigInput) (domain.Gig, error) {
	if !in.ServiceType.Valid() {
		return domain.Gig{}, fmt.Errorf("%w: service type %q", ErrInvalidInput, in.ServiceType)
	}
	from, err := s.StartingPrice(ctx, sellerID, in.ServiceType)
	if err != nil {
		return domain.Gig{}, err
	}
	g := domain.Gig{
		ID:            uuid.NewString(),
		SellerID:      sellerID,
		Title:         in.Title,
		Description:   in.Description,
		ServiceType:   in.ServiceType,
		City:          in.City,
		StartingPrice: from,
	}
	if err := s.Gigs.Create(ctx, g); err != nil {
		return domain.Gig{}, err
	}
	return s.Gigs.Get(ctx, g.ID)
}

// StartingPrice is the cheapest estimate a buyer can get for st from this
// seller at the included coverage hours with no add-ons.
func (s *GigService) StartingPrice(ctx context.Context, sellerID string, st domain.ServiceType) (int64, error) {
	cat, settings, err := s.Estimates.Snapshot(ctx, sellerID)
	if err != nil {
		return 0, err
	}
	if st == domain.ServiceBoth {
		res, err := estimate.Compute(cat, settings, domain.EstimateSelection{ServiceType: st, CoverageHours: estimate.IncludedCoverageHours})
		if err != nil {
			return 0, err
		}
		return res.Total, nil
	}

	best := int64(-1)
	for _, p := range cat.PackagesFor(st) {
		res, err := estimate.Compute(cat, settings, domain.EstimateSelection{ServiceType: st, PackageID: p.ID, CoverageHours: estimate.IncludedCoverageHours})
		if err != nil {
			return 0, err
		}
		if best < 0 || res.Total < best {
			best = res.Total
		}
	}
	if best < 0 {
		return 0, fmt.Errorf("%w: no %s packages in catalog", estimate.ErrInvalidSelection, st)
	}
	return best, nil
}

// RefreshStartingPrices recomputes the listed price of every gig of a
// seller, typically after a settings change.
func (s *GigService) RefreshStartingPrices(ctx context.Context, sellerID string) error {
	gigs, err := s.Gigs.ListBySeller(ctx, sellerID)
	if err != nil {
		return err
	}
	for _, g := range gigs {
		from, err := s.StartingPrice(ctx, sellerID, g.ServiceType)
		if err != nil {
			return err
		}
		if from == g.StartingPrice {
			continue
		}
		if err := s.Gigs.SetStartingPrice(ctx, g.ID, from); err != nil {
			return err
		}
	}
	return nil
}

func (s *GigService) Get(ctx context.Context, id string) (domain.Gig, error) {
	g, err := s.Gigs.Get(ctx, id)
	if err != nil {
		return domain.Gig{}, notFound(err)
	}
	return g, nil
}

func (s *GigService) ListBySeller(ctx context.Context, sellerID string) ([]domain.Gig, error) {
	return s.Gigs.ListBySeller(ctx, sellerID)
}

func (s *GigService) Search(ctx context.Context, f repos.GigFilter, page, pageSize int) ([]domain.Gig, error) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 12
	}
	if pageSize > 50 {
		pageSize = 50
	}
	offset := (page - 1) * pageSize
	return s.Gigs.Search(ctx, f, pageSize, offset)
}
