package orders

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/tigraytip/storefront-backend/pkg/db/models"
	"github.com/tigraytip/storefront-backend/pkg/enums"
	"github.com/tigraytip/storefront-backend/pkg/types"
)

func setupOrdersTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	ordersTable := `
CREATE TABLE IF NOT EXISTS orders (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  items TEXT NOT NULL,
  subtotal NUMERIC NOT NULL,
  shipping_fee NUMERIC NOT NULL,
  tax NUMERIC NOT NULL,
  total NUMERIC NOT NULL,
  payment_method TEXT NOT NULL DEFAULT 'cod',
  payment_status TEXT NOT NULL DEFAULT 'pending',
  order_status TEXT NOT NULL DEFAULT 'placed',
  tracking_number TEXT,
  shipping_address TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(ordersTable).Error)
	return db
}

func createTestOrder(t *testing.T, db *gorm.DB, userID uuid.UUID, created time.Time, total string) *models.Order {
	t.Helper()

	amount, err := decimal.NewFromString(total)
	require.NoError(t, err)

	order := &models.Order{
		ID:     uuid.New(),
		UserID: userID,
		Items: types.CartLines{{
			ProductID: uuid.New(),
			Title:     "Roasted Coffee 1kg",
			Price:     amount,
			Quantity:  1,
		}},
		Subtotal:      amount,
		ShippingFee:   decimal.Zero,
		Tax:           decimal.Zero,
		Total:         amount,
		PaymentMethod: enums.PaymentMethodCOD,
		PaymentStatus: enums.PaymentStatusPending,
		OrderStatus:   enums.OrderStatusPlaced,
		CreatedAt:     created,
		UpdatedAt:     created,
	}
	require.NoError(t, db.Create(order).Error)
	return order
}

func TestRepositoryList_pagination(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)

	userID := uuid.New()
	now := time.Now().UTC().Truncate(time.Second)
	older := createTestOrder(t, db, userID, now.Add(-time.Hour), "150.00")
	newer := createTestOrder(t, db, userID, now, "1250.00")

	first, cursor, err := repo.List(context.Background(), ListParams{UserID: &userID, Limit: 1})
	require.NoError(t, err)
	require.Len(t, first, 1)
	assert.Equal(t, newer.ID, first[0].ID)
	assert.NotEmpty(t, cursor)

	second, next, err := repo.List(context.Background(), ListParams{UserID: &userID, Limit: 1, Cursor: cursor})
	require.NoError(t, err)
	require.Len(t, second, 1)
	assert.Equal(t, older.ID, second[0].ID)
	assert.Empty(t, next)
}

func TestRepositoryList_scopedToUser(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)

	userID := uuid.New()
	otherID := uuid.New()
	now := time.Now().UTC().Truncate(time.Second)
	mine := createTestOrder(t, db, userID, now, "99.00")
	createTestOrder(t, db, otherID, now.Add(-time.Minute), "45.00")

	records, cursor, err := repo.List(context.Background(), ListParams{UserID: &userID, Limit: 10})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, mine.ID, records[0].ID)
	assert.Empty(t, cursor)

	all, _, err := repo.List(context.Background(), ListParams{Limit: 10})
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestRepositoryList_rejectsBadCursor(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)

	_, _, err := repo.List(context.Background(), ListParams{Cursor: "not-a-cursor", Limit: 5})
	require.Error(t, err)
}

func TestRepositoryUpdateStatus(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)

	userID := uuid.New()
	now := time.Now().UTC().Truncate(time.Second)
	order := createTestOrder(t, db, userID, now, "200.00")

	tracking := "TRK123"
	updated, err := repo.UpdateStatus(context.Background(), order.ID, enums.OrderStatusShipped, &tracking)
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusShipped, updated.OrderStatus)
	require.NotNil(t, updated.TrackingNumber)
	assert.Equal(t, tracking, *updated.TrackingNumber)

	_, err = repo.UpdateStatus(context.Background(), uuid.New(), enums.OrderStatusDelivered, nil)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
