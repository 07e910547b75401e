package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"bais_express/internal/model"

	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var requestCallColumns = []string{"id", "name", "phone", "pickup", "drop_location", "cargo", "status", "created_at"}

func TestRequestCallRepository_Create(t *testing.T) {
	mock := newMockPool(t)
	repo := NewRequestCallRepository(mock)
	created := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	rc := &model.RequestCall{Name: "Ravi", Phone: "9999", Pickup: "Pune", DropLocation: "Delhi", Cargo: "Steel", Status: model.StatusNew}
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO request_calls")).
		WithArgs("Ravi", "9999", "Pune", "Delhi", "Steel", model.StatusNew).
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at"}).AddRow(int64(11), created))

	err := repo.Create(context.Background(), rc)

	require.NoError(t, err)
	assert.Equal(t, int64(11), rc.ID)
	assert.Equal(t, created, rc.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRequestCallRepository_FindAll(t *testing.T) {
	mock := newMockPool(t)
	repo := NewRequestCallRepository(mock)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta("FROM request_calls ORDER BY id DESC")).
		WillReturnRows(pgxmock.NewRows(requestCallColumns).
			AddRow(int64(2), "B", "2", "", "", "", "Done", now).
			AddRow(int64(1), "A", "1", "X", "Y", "Z", model.StatusNew, now))

	calls, err := repo.FindAll(context.Background())

	require.NoError(t, err)
	require.Len(t, calls, 2)
	assert.Equal(t, int64(2), calls[0].ID)
	assert.Equal(t, "Done", calls[0].Status)
	assert.Equal(t, "Y", calls[1].DropLocation)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRequestCallRepository_FindAll_Empty(t *testing.T) {
	mock := newMockPool(t)
	repo := NewRequestCallRepository(mock)

	mock.ExpectQuery(regexp.QuoteMeta("FROM request_calls")).
		WillReturnRows(pgxmock.NewRows(requestCallColumns))

	calls, err := repo.FindAll(context.Background())

	require.NoError(t, err)
	assert.NotNil(t, calls)
	assert.Empty(t, calls)
}

func TestRequestCallRepository_FindAll_Error(t *testing.T) {
	mock := newMockPool(t)
	repo := NewRequestCallRepository(mock)

	mock.ExpectQuery(regexp.QuoteMeta("FROM request_calls")).WillReturnError(errors.New("boom"))

	_, err := repo.FindAll(context.Background())
	assert.Error(t, err)
}

func TestRequestCallRepository_UpdateStatus(t *testing.T) {
	mock := newMockPool(t)
	repo := NewRequestCallRepository(mock)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE request_calls SET status = $1 WHERE id = $2")).
		WithArgs("Dispatched", int64(5)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE request_calls SET status = $1 WHERE id = $2")).
		WithArgs("Dispatched", int64(6)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	found, err := repo.UpdateStatus(context.Background(), 5, "Dispatched")
	assert.NoError(t, err)
	assert.True(t, found)

	found, err = repo.UpdateStatus(context.Background(), 6, "Dispatched")
	assert.NoError(t, err)
	assert.False(t, found)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRequestCallRepository_Delete(t *testing.T) {
	mock := newMockPool(t)
	repo := NewRequestCallRepository(mock)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM request_calls WHERE id = $1")).
		WithArgs(int64(5)).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM request_calls WHERE id = $1")).
		WithArgs(int64(9)).
		WillReturnError(errors.New("boom"))

	found, err := repo.Delete(context.Background(), 5)
	assert.NoError(t, err)
	assert.True(t, found)

	_, err = repo.Delete(context.Background(), 9)
	assert.Error(t, err)

	assert.NoError(t, mock.ExpectationsWereMet())
}
