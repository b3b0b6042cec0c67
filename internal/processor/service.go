package processor

import (
	"context"
	"errors"
	"fmt"
)

// Service resolves which configured processor applies to a payment context.
type Service struct {
	repo Repository
}

// NewService constructs a new Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Resolve selects the processor for the given payment context. Tiers are
// tried strictly in order, first match wins:
//
//  1. the campaign's primary-linked processor
//  2. any processor linked to the campaign
//  3. the organization's default active processor
//  4. any active processor owned by the organization
//
// Campaign overrides win over organizational defaults, but an incomplete
// configuration degrades to any active processor instead of failing the
// donation flow. When nothing is configured the result is (nil, nil); an
// unconfigured organization is not an error.
func (s *Service) Resolve(ctx context.Context, campaignID *int64, orgID int64) (*Processor, error) {
	if campaignID != nil {
		if p, ok, err := s.try(func() (Processor, error) { return s.repo.CampaignPrimaryProcessor(ctx, *campaignID) }); err != nil {
			return nil, fmt.Errorf("processor: campaign primary lookup: %w", err)
		} else if ok {
			return p, nil
		}
		if p, ok, err := s.try(func() (Processor, error) { return s.repo.CampaignAnyProcessor(ctx, *campaignID) }); err != nil {
			return nil, fmt.Errorf("processor: campaign link lookup: %w", err)
		} else if ok {
			return p, nil
		}
	}
	if p, ok, err := s.try(func() (Processor, error) { return s.repo.OrgDefaultActiveProcessor(ctx, orgID) }); err != nil {
		return nil, fmt.Errorf("processor: org default lookup: %w", err)
	} else if ok {
		return p, nil
	}
	if p, ok, err := s.try(func() (Processor, error) { return s.repo.OrgAnyActiveProcessor(ctx, orgID) }); err != nil {
		return nil, fmt.Errorf("processor: org active lookup: %w", err)
	} else if ok {
		return p, nil
	}
	return nil, nil
}

// ListCampaignProcessorIDs returns all processor ids linked to the campaign,
// empty when none exist.
func (s *Service) ListCampaignProcessorIDs(ctx context.Context, campaignID int64) ([]int64, error) {
	ids, err := s.repo.ListCampaignProcessorIDs(ctx, campaignID)
	if err != nil {
		return nil, fmt.Errorf("processor: list campaign links: %w", err)
	}
	if ids == nil {
		ids = []int64{}
	}
	return ids, nil
}

func (s *Service) try(lookup func() (Processor, error)) (*Processor, bool, error) {
	p, err := lookup()
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return &p, true, nil
}
