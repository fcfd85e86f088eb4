package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/mverhoef/presenceboard/internal/domain"
	"github.com/mverhoef/presenceboard/internal/repo"
)

// MemberService implements business logic for the member registry.
type MemberService struct {
	repo repo.MemberRepo
}

// NewMemberService constructs a MemberService backed by the provided MemberRepo.
func NewMemberService(r repo.MemberRepo) *MemberService {
	return &MemberService{repo: r}
}

// Create validates and persists a new member. Name and tap id are required;
// a tap id already in use surfaces as domain.ErrDuplicateTapID with nothing
// written.
func (s *MemberService) Create(ctx context.Context, m domain.Member) (domain.Member, error) {
	if err := validateMember(&m); err != nil {
		return domain.Member{}, fmt.Errorf("service.MemberService.Create: %w", err)
	}

	created, err := s.repo.Create(ctx, m)
	if err != nil {
		return domain.Member{}, fmt.Errorf("service.MemberService.Create: %w", err)
	}
	return created, nil
}

// GetByID returns a single member by ID.
func (s *MemberService) GetByID(ctx context.Context, id uuid.UUID) (domain.Member, error) {
	m, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.Member{}, fmt.Errorf("service.MemberService.GetByID: %w", err)
	}
	return m, nil
}

// List returns all members, most recently registered first.
func (s *MemberService) List(ctx context.Context) ([]domain.Member, error) {
	members, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.MemberService.List: %w", err)
	}
	return members, nil
}

// ListPaged returns one page of members and the total count.
func (s *MemberService) ListPaged(ctx context.Context, p domain.PaginationParams) ([]domain.Member, int64, error) {
	members, total, err := s.repo.ListPaged(ctx, p)
	if err != nil {
		return nil, 0, fmt.Errorf("service.MemberService.ListPaged: %w", err)
	}
	return members, total, nil
}

// Update validates and updates an existing member. Any field except the id
// and creation time may change; tap id reassignment to a value in use is
// rejected with domain.ErrDuplicateTapID.
func (s *MemberService) Update(ctx context.Context, m domain.Member) (domain.Member, error) {
	if err := validateMember(&m); err != nil {
		return domain.Member{}, fmt.Errorf("service.MemberService.Update: %w", err)
	}

	updated, err := s.repo.Update(ctx, m)
	if err != nil {
		return domain.Member{}, fmt.Errorf("service.MemberService.Update: %w", err)
	}
	return updated, nil
}

// Delete removes a member. Historical sessions keep their name snapshot and
// are deliberately left in place.
func (s *MemberService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("service.MemberService.Delete: %w", err)
	}
	return nil
}

// validateMember normalizes and checks the fields shared by Create and Update.
func validateMember(m *domain.Member) error {
	m.Name = strings.TrimSpace(m.Name)
	m.TapID = strings.TrimSpace(m.TapID)
	m.Email = strings.TrimSpace(m.Email)

	if m.Name == "" {
		return fmt.Errorf("%w: name is required", domain.ErrValidation)
	}
	if m.TapID == "" {
		return fmt.Errorf("%w: tap id is required", domain.ErrValidation)
	}
	if m.IncludedHours < 0 {
		return fmt.Errorf("%w: included hours must not be negative", domain.ErrValidation)
	}
	if m.MemberType == "" {
		m.MemberType = "abo"
	}
	return nil
}
