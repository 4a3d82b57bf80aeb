package mysql

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wyfcoding/storefront/internal/cart/domain"
	"github.com/wyfcoding/storefront/pkg/db"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func TestModelRoundTrip(t *testing.T) {
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	cart := &domain.Cart{
		Items: []domain.LineItem{{
			Key:              "k1",
			ProductID:        1,
			ProductName:      "Milanesa Napolitana",
			ProductUnitPrice: decimal.RequireFromString("25.00"),
			ProductQuantity:  2,
			AddOnID:          1,
			AddOnName:        "Coca-Cola",
			AddOnUnitPrice:   decimal.RequireFromString("1.50"),
			AddOnQuantity:    2,
			LineTotal:        decimal.RequireFromString("53.00"),
			AddedAt:          now,
		}},
		UpdatedAt: now,
	}

	m, err := toModel("s1", cart, now, time.Hour)
	require.NoError(t, err)
	assert.Equal(t, "s1", m.SessionID)
	assert.Equal(t, now.Add(time.Hour), m.ExpiresAt)
	assert.Equal(t, "cart_sessions", m.TableName())

	got, err := fromModel(*m)
	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	item := got.Items[0]
	assert.Equal(t, "k1", item.Key)
	assert.True(t, item.LineTotal.Equal(decimal.RequireFromString("53.00")))
	assert.True(t, item.AddOnUnitPrice.Equal(decimal.RequireFromString("1.50")))
	assert.True(t, item.AddedAt.Equal(now))
}

func TestFromModelEmptyPayload(t *testing.T) {
	got, err := fromModel(CartSessionModel{SessionID: "s1", Payload: `{"items":null}`})
	require.NoError(t, err)
	assert.NotNil(t, got.Items)
	assert.True(t, got.IsEmpty())

	_, err = fromModel(CartSessionModel{SessionID: "s1", Payload: "not json"})
	assert.Error(t, err)
}

func newMockRepository(t *testing.T, now time.Time) (*cartRepository, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	gdb, err := gorm.Open(mysql.New(mysql.Config{Conn: sqlDB, SkipInitializeWithVersion: true}), &gorm.Config{
		Logger:                 gormlogger.Discard,
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	repo := &cartRepository{db: &db.DB{DB: gdb}, ttl: time.Hour, now: func() time.Time { return now }}
	return repo, mock
}

func TestCartRepositoryGet(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	query := regexp.QuoteMeta("SELECT * FROM `cart_sessions` WHERE session_id = ? AND expires_at > ?")
	columns := []string{"session_id", "payload", "expires_at", "updated_at"}

	t.Run("live session", func(t *testing.T) {
		repo, mock := newMockRepository(t, now)
		payload := `{"items":[{"key":"k1","product_id":3,"product_quantity":2,"product_unit_price":"9.00","addon_unit_price":"0","line_total":"18.00"}]}`
		mock.ExpectQuery(query).
			WithArgs("s1", now, sqlmock.AnyArg()).
			WillReturnRows(sqlmock.NewRows(columns).AddRow("s1", payload, now.Add(time.Hour), now))

		got, err := repo.Get(ctx, "s1")
		require.NoError(t, err)
		require.Len(t, got.Items, 1)
		assert.Equal(t, "k1", got.Items[0].Key)
		assert.Equal(t, 2, got.Count())
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("expired or missing session is an empty cart", func(t *testing.T) {
		repo, mock := newMockRepository(t, now)
		mock.ExpectQuery(query).
			WithArgs("s1", now, sqlmock.AnyArg()).
			WillReturnRows(sqlmock.NewRows(columns))

		got, err := repo.Get(ctx, "s1")
		require.NoError(t, err)
		assert.NotNil(t, got.Items)
		assert.True(t, got.IsEmpty())
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("query failure", func(t *testing.T) {
		repo, mock := newMockRepository(t, now)
		mock.ExpectQuery(query).WillReturnError(errors.New("connection reset"))

		_, err := repo.Get(ctx, "s1")
		assert.ErrorContains(t, err, "connection reset")
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestCartRepositorySave(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	upsert := regexp.QuoteMeta("INSERT INTO `cart_sessions`") + ".*ON DUPLICATE KEY UPDATE"
	cart := &domain.Cart{Items: []domain.LineItem{}, UpdatedAt: now}

	t.Run("upserts inside a transaction", func(t *testing.T) {
		repo, mock := newMockRepository(t, now)
		mock.ExpectBegin()
		mock.ExpectExec(upsert).
			WithArgs("s1", sqlmock.AnyArg(), now.Add(time.Hour), now).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		require.NoError(t, repo.Save(ctx, "s1", cart))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rolls back on failure", func(t *testing.T) {
		repo, mock := newMockRepository(t, now)
		mock.ExpectBegin()
		mock.ExpectExec(upsert).WillReturnError(errors.New("lock wait timeout"))
		mock.ExpectRollback()

		err := repo.Save(ctx, "s1", cart)
		assert.ErrorContains(t, err, "lock wait timeout")
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestCartRepositoryDelete(t *testing.T) {
	repo, mock := newMockRepository(t, time.Now())
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM `cart_sessions` WHERE session_id = ?")).
		WithArgs("s1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Delete(context.Background(), "s1"))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPurgeExpired(t *testing.T) {
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	repo, mock := newMockRepository(t, now)
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM `cart_sessions` WHERE expires_at <= ?")).
		WithArgs(now).
		WillReturnResult(sqlmock.NewResult(0, 3))

	n, err := PurgeExpired(context.Background(), repo.db, now)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
	require.NoError(t, mock.ExpectationsWereMet())
}
