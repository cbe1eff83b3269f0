package mysql

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	driver "github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/cafearoma/internal/domain/staff"
	apperrors "github.com/xiebiao/cafearoma/pkg/errors"
)

func TestStaffRepository_Create(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewStaffRepository(db)
	st := staff.NewStaff("a@b.co", "hash", "Lucía")

	mock.ExpectExec("INSERT INTO `staff`").WillReturnResult(sqlmock.NewResult(3, 1))
	require.NoError(t, repo.Create(context.Background(), st))
	assert.Equal(t, uint(3), st.ID)

	mock.ExpectExec("INSERT INTO `staff`").WillReturnError(&driver.MySQLError{Number: 1062, Message: "Duplicate entry"})
	assert.ErrorIs(t, repo.Create(context.Background(), st), apperrors.ErrEmailDuplicate)
}

func TestStaffRepository_FindByEmail(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewStaffRepository(db)
	now := time.Now()

	mock.ExpectQuery("SELECT \\* FROM `staff` WHERE email = \\?").
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "password", "name", "created_at", "updated_at"}).
			AddRow(3, "a@b.co", "hash", "Lucía", now, now))
	st, err := repo.FindByEmail(context.Background(), "a@b.co")
	require.NoError(t, err)
	assert.Equal(t, "Lucía", st.Name)

	mock.ExpectQuery("SELECT \\* FROM `staff`").WillReturnRows(sqlmock.NewRows([]string{"id"}))
	_, err = repo.FindByEmail(context.Background(), "x@b.co")
	assert.ErrorIs(t, err, apperrors.ErrStaffNotFound)
}
