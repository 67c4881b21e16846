package usecase

import (
	"context"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/iho/cashflow/internal/domain"
)

// PartnerUseCase manages the customer and vendor registries.
type PartnerUseCase struct {
	writeMu     sync.Locker
	partnerRepo PartnerRepository
	idGen       IDGenerator
	events      eventEmitter
}

// NewPartnerUseCase creates a new PartnerUseCase.
func NewPartnerUseCase(partnerRepo PartnerRepository, idGen IDGenerator, publisher EventPublisher, logger zerolog.Logger, now Clock) *PartnerUseCase {
	return &PartnerUseCase{
		writeMu:     writeLockFor(partnerRepo),
		partnerRepo: partnerRepo,
		idGen:       idGen,
		events:      eventEmitter{publisher: publisher, idGen: idGen, now: orDefaultClock(now), logger: logger},
	}
}

// AddPartnerInput represents input for registering a partner.
type AddPartnerInput struct {
	Name          string
	TaxCode       string
	Address       string
	ContactPerson string
	Phone         string
	Email         string
}

// AddPartner appends a new partner to the registry of the given kind.
func (uc *PartnerUseCase) AddPartner(ctx context.Context, kind domain.PartnerKind, input AddPartnerInput) (*domain.Partner, error) {
	uc.writeMu.Lock()
	defer uc.writeMu.Unlock()

	if !kind.IsValid() {
		return nil, domain.ErrInvalidPartnerKind
	}

	if err := domain.ValidatePartnerName(input.Name); err != nil {
		return nil, err
	}

	partners, err := uc.partnerRepo.List(ctx, kind)
	if err != nil {
		return nil, err
	}

	partner := domain.Partner{
		ID:            uc.idGen.PartnerID(kind),
		Name:          strings.TrimSpace(input.Name),
		TaxCode:       strings.TrimSpace(input.TaxCode),
		Address:       input.Address,
		ContactPerson: input.ContactPerson,
		Phone:         input.Phone,
		Email:         input.Email,
	}

	updated := append(append(make([]domain.Partner, 0, len(partners)+1), partners...), partner)
	if err := uc.partnerRepo.ReplaceAll(ctx, kind, updated); err != nil {
		return nil, err
	}

	uc.events.emit(ctx, domain.EventTypePartnerAdded, domain.AggregateTypePartner, partner.ID,
		domain.PartnerEvent{PartnerID: partner.ID, Kind: string(kind), Name: partner.Name})

	return &partner, nil
}

// DeletePartner removes a partner by id. Transactions keep their frozen
// partner names.
func (uc *PartnerUseCase) DeletePartner(ctx context.Context, kind domain.PartnerKind, id string) error {
	uc.writeMu.Lock()
	defer uc.writeMu.Unlock()

	if !kind.IsValid() {
		return domain.ErrInvalidPartnerKind
	}

	partners, err := uc.partnerRepo.List(ctx, kind)
	if err != nil {
		return err
	}

	updated := make([]domain.Partner, 0, len(partners))
	for _, p := range partners {
		if p.ID != id {
			updated = append(updated, p)
		}
	}

	if len(updated) == len(partners) {
		return domain.ErrPartnerNotFound
	}

	if err := uc.partnerRepo.ReplaceAll(ctx, kind, updated); err != nil {
		return err
	}

	uc.events.emit(ctx, domain.EventTypePartnerDeleted, domain.AggregateTypePartner, id,
		domain.PartnerEvent{PartnerID: id, Kind: string(kind)})

	return nil
}

// ListPartners returns partners matching query by name or tax code.
func (uc *PartnerUseCase) ListPartners(ctx context.Context, kind domain.PartnerKind, query string) ([]domain.Partner, error) {
	if !kind.IsValid() {
		return nil, domain.ErrInvalidPartnerKind
	}

	partners, err := uc.partnerRepo.List(ctx, kind)
	if err != nil {
		return nil, err
	}

	out := make([]domain.Partner, 0, len(partners))
	for _, p := range partners {
		if p.Matches(query) {
			out = append(out, p)
		}
	}

	return out, nil
}
