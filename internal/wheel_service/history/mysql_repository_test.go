package history

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"wheel_lottery_service/pkg/databaseManager"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockMySQLRepository(t *testing.T, maxRecords int) (*MySQLRepository, sqlmock.Sqlmock) {
	t.Helper()

	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	db, err := databaseManager.OpenWithConn(conn)
	require.NoError(t, err)

	return NewMySQLRepository(databaseManager.NewManagerFromDB(db), maxRecords, nil), mock
}

func TestMySQLRepositorySave(t *testing.T) {
	repo, mock := newMockMySQLRepository(t, 100)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO `wheel_spin_records`")).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT `id` FROM `wheel_spin_records` ORDER BY id DESC")).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	err := repo.Save(context.Background(), SpinRecord{
		SpinID:     "spin-1",
		OptionID:   1,
		OptionName: "拉麵",
		Timestamp:  time.Now(),
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMySQLRepositorySaveTrimsOldRecords(t *testing.T) {
	repo, mock := newMockMySQLRepository(t, 100)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO `wheel_spin_records`")).
		WillReturnResult(sqlmock.NewResult(106, 1))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT `id` FROM `wheel_spin_records` ORDER BY id DESC")).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(6))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM `wheel_spin_records` WHERE id <= ?")).
		WithArgs(6).
		WillReturnResult(sqlmock.NewResult(0, 6))

	err := repo.Save(context.Background(), SpinRecord{SpinID: "spin-106", OptionName: "拉麵", Timestamp: time.Now()})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMySQLRepositorySaveError(t *testing.T) {
	repo, mock := newMockMySQLRepository(t, 100)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO `wheel_spin_records`")).
		WillReturnError(errors.New("db down"))

	err := repo.Save(context.Background(), SpinRecord{SpinID: "spin-1", OptionName: "拉麵", Timestamp: time.Now()})
	assert.ErrorContains(t, err, "db down")
}

func TestMySQLRepositoryRecent(t *testing.T) {
	repo, mock := newMockMySQLRepository(t, 100)
	spunAt := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

	rows := sqlmock.NewRows([]string{"id", "spin_id", "option_id", "option_name", "emoji", "mismatch", "spun_at"}).
		AddRow(2, "spin-2", 2, "便當", "🍱", false, spunAt.Add(time.Minute)).
		AddRow(1, "spin-1", 1, "拉麵", "🍜", true, spunAt)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM `wheel_spin_records` ORDER BY id DESC")).
		WillReturnRows(rows)

	records, err := repo.Recent(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "spin-2", records[0].SpinID)
	assert.Equal(t, "便當", records[0].OptionName)
	assert.True(t, records[1].Mismatch)
	assert.True(t, spunAt.Equal(records[1].Timestamp))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMySQLRepositoryClear(t *testing.T) {
	repo, mock := newMockMySQLRepository(t, 100)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM `wheel_spin_records`")).
		WillReturnResult(sqlmock.NewResult(0, 3))

	require.NoError(t, repo.Clear(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
	assert.Equal(t, "mysql", repo.Name())
}
