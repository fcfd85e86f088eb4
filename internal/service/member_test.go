package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mverhoef/presenceboard/internal/domain"
	"github.com/mverhoef/presenceboard/internal/service"
)

// echoMemberRepo echoes whatever it receives back — useful for Create/Update
// tests that only care about validation logic, not what the DB returns.
func echoMemberRepo() *mockMemberRepo {
	return &mockMemberRepo{
		create: func(_ context.Context, m domain.Member) (domain.Member, error) { return m, nil },
		update: func(_ context.Context, m domain.Member) (domain.Member, error) { return m, nil },
	}
}

func validMember() domain.Member {
	return domain.Member{
		Name:          "Ada Lovelace",
		Email:         "ada@example.com",
		TapID:         "card-1",
		IncludedHours: 40,
	}
}

func TestMemberService_Create_Valid(t *testing.T) {
	svc := service.NewMemberService(echoMemberRepo())

	got, err := svc.Create(context.Background(), validMember())

	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", got.Name)
	assert.Equal(t, "abo", got.MemberType, "member type defaults to subscription")
}

func TestMemberService_Create_MissingName(t *testing.T) {
	svc := service.NewMemberService(echoMemberRepo())

	m := validMember()
	m.Name = "   " // whitespace-only should be treated as empty

	_, err := svc.Create(context.Background(), m)

	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestMemberService_Create_MissingTapID(t *testing.T) {
	svc := service.NewMemberService(echoMemberRepo())

	m := validMember()
	m.TapID = ""

	_, err := svc.Create(context.Background(), m)

	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestMemberService_Create_NegativeIncludedHours(t *testing.T) {
	svc := service.NewMemberService(echoMemberRepo())

	m := validMember()
	m.IncludedHours = -1

	_, err := svc.Create(context.Background(), m)

	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestMemberService_Create_TrimsFields(t *testing.T) {
	svc := service.NewMemberService(echoMemberRepo())

	m := validMember()
	m.Name = "  Ada Lovelace  "
	m.TapID = " card-1 "

	got, err := svc.Create(context.Background(), m)

	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", got.Name)
	assert.Equal(t, "card-1", got.TapID)
}

func TestMemberService_Create_DuplicateTapID(t *testing.T) {
	svc := service.NewMemberService(&mockMemberRepo{
		create: func(_ context.Context, _ domain.Member) (domain.Member, error) {
			return domain.Member{}, domain.ErrDuplicateTapID
		},
	})

	_, err := svc.Create(context.Background(), validMember())

	assert.ErrorIs(t, err, domain.ErrDuplicateTapID)
}

func TestMemberService_Update_DuplicateTapID(t *testing.T) {
	svc := service.NewMemberService(&mockMemberRepo{
		update: func(_ context.Context, _ domain.Member) (domain.Member, error) {
			return domain.Member{}, domain.ErrDuplicateTapID
		},
	})

	m := validMember()
	m.ID = uuid.New()

	_, err := svc.Update(context.Background(), m)

	assert.ErrorIs(t, err, domain.ErrDuplicateTapID)
}

func TestMemberService_GetByID_NotFound(t *testing.T) {
	svc := service.NewMemberService(&mockMemberRepo{
		getByID: func(_ context.Context, _ uuid.UUID) (domain.Member, error) {
			return domain.Member{}, domain.ErrNotFound
		},
	})

	_, err := svc.GetByID(context.Background(), uuid.New())

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestMemberService_Delete_NotFound(t *testing.T) {
	svc := service.NewMemberService(&mockMemberRepo{
		delete: func(_ context.Context, _ uuid.UUID) error {
			return domain.ErrNotFound
		},
	})

	err := svc.Delete(context.Background(), uuid.New())

	assert.ErrorIs(t, err, domain.ErrNotFound)
}
