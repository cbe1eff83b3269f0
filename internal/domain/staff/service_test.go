package staff_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/xiebiao/cafearoma/internal/domain/staff"
	apperrors "github.com/xiebiao/cafearoma/pkg/errors"
)

type mockRepo struct {
	mock.Mock
}

func (m *mockRepo) Create(ctx context.Context, s *staff.Staff) error {
	args := m.Called(ctx, s)
	if args.Error(0) == nil {
		s.ID = 7
	}
	return args.Error(0)
}

func (m *mockRepo) FindByID(ctx context.Context, id uint) (*staff.Staff, error) {
	args := m.Called(ctx, id)
	st, _ := args.Get(0).(*staff.Staff)
	return st, args.Error(1)
}

func (m *mockRepo) FindByEmail(ctx context.Context, email string) (*staff.Staff, error) {
	args := m.Called(ctx, email)
	st, _ := args.Get(0).(*staff.Staff)
	return st, args.Error(1)
}

func TestRegister(t *testing.T) {
	ctx := context.Background()
	repo := new(mockRepo)
	repo.On("Create", ctx, mock.AnythingOfType("*staff.Staff")).Return(nil).Once()

	svc := staff.NewServiceWithCost(repo, bcrypt.MinCost)
	st, err := svc.Register(ctx, " Barista@CafeAroma.co ", "secret123", "Lucía")
	require.NoError(t, err)

	assert.Equal(t, uint(7), st.ID)
	assert.Equal(t, "barista@cafearoma.co", st.Email)
	assert.NotEqual(t, "secret123", st.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(st.Password), []byte("secret123")))
	repo.AssertExpectations(t)
}

func TestRegister_Validation(t *testing.T) {
	svc := staff.NewServiceWithCost(new(mockRepo), bcrypt.MinCost)

	tests := []struct {
		name     string
		email    string
		password string
		staff    string
		wantCode int
	}{
		{"邮箱格式错误", "not-an-email", "secret123", "Lucía", apperrors.ErrCodeInvalidParams},
		{"密码太短", "a@b.co", "s1", "Lucía", apperrors.ErrCodeWeakPassword},
		{"密码缺少数字", "a@b.co", "secretsecret", "Lucía", apperrors.ErrCodeWeakPassword},
		{"姓名太短", "a@b.co", "secret123", "L", apperrors.ErrCodeInvalidParams},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(context.Background(), tt.email, tt.password, tt.staff)
			require.Error(t, err)
			assert.Equal(t, tt.wantCode, apperrors.GetAppError(err).Code)
		})
	}
}

func TestRegister_Duplicate(t *testing.T) {
	ctx := context.Background()
	repo := new(mockRepo)
	repo.On("Create", ctx, mock.Anything).Return(apperrors.ErrEmailDuplicate)

	_, err := staff.NewServiceWithCost(repo, bcrypt.MinCost).Register(ctx, "a@b.co", "secret123", "Lucía")
	assert.ErrorIs(t, err, apperrors.ErrEmailDuplicate)
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	hashed, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	require.NoError(t, err)

	repo := new(mockRepo)
	repo.On("FindByEmail", ctx, "a@b.co").Return(&staff.Staff{ID: 1, Email: "a@b.co", Password: string(hashed)}, nil)
	repo.On("FindByEmail", ctx, "nobody@b.co").Return(nil, apperrors.ErrStaffNotFound)
	svc := staff.NewServiceWithCost(repo, bcrypt.MinCost)

	st, err := svc.Login(ctx, "A@b.co", "secret123")
	require.NoError(t, err)
	assert.Equal(t, uint(1), st.ID)

	_, err = svc.Login(ctx, "a@b.co", "wrong1234")
	assert.ErrorIs(t, err, apperrors.ErrInvalidPassword)

	_, err = svc.Login(ctx, "nobody@b.co", "secret123")
	assert.ErrorIs(t, err, apperrors.ErrStaffNotFound)
}
