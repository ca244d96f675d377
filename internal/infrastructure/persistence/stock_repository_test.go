package persistence

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/oceanerp/backend/internal/domain/inventory"
	"github.com/oceanerp/backend/internal/domain/shared"
)

// newMockGormDB creates a GORM connection backed by sqlmock
func newMockGormDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return gormDB, mock, mockDB
}

func newMockStockRepository(t *testing.T) (*GormStockRepository, sqlmock.Sqlmock, *sql.DB) {
	gormDB, mock, mockDB := newMockGormDB(t)
	return NewGormStockRepository(gormDB), mock, mockDB
}

func TestGormStockRepository_FindByProduct(t *testing.T) {
	t.Run("finds existing stock row", func(t *testing.T) {
		repo, mock, mockDB := newMockStockRepository(t)
		defer mockDB.Close()

		rows := sqlmock.NewRows([]string{"id", "product_id", "quantity", "reserved"}).
			AddRow(1, 42, 100, 10)

		mock.ExpectQuery(`SELECT \* FROM "inventory" WHERE product_id = \$1`).
			WithArgs(int64(42), 1).
			WillReturnRows(rows)

		level, err := repo.FindByProduct(context.Background(), 42)

		assert.NoError(t, err)
		assert.NotNil(t, level)
		assert.Equal(t, int64(42), level.ProductID)
		assert.Equal(t, 100, level.Quantity)
		assert.Equal(t, 10, level.Reserved)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns not found for missing product", func(t *testing.T) {
		repo, mock, mockDB := newMockStockRepository(t)
		defer mockDB.Close()

		mock.ExpectQuery(`SELECT \* FROM "inventory" WHERE product_id = \$1`).
			WithArgs(int64(99), 1).
			WillReturnError(gorm.ErrRecordNotFound)

		level, err := repo.FindByProduct(context.Background(), 99)

		assert.Error(t, err)
		assert.Nil(t, level)
		assert.Equal(t, shared.ErrNotFound, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormStockRepository_SetQuantity(t *testing.T) {
	t.Run("upserts onto the product row", func(t *testing.T) {
		repo, mock, mockDB := newMockStockRepository(t)
		defer mockDB.Close()

		mock.ExpectQuery(`INSERT INTO "inventory" .* ON CONFLICT \("product_id"\) DO UPDATE SET`).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))

		err := repo.SetQuantity(context.Background(), 42, 15)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormStockRepository_Reserve(t *testing.T) {
	t.Run("reserves when stock is sufficient", func(t *testing.T) {
		repo, mock, mockDB := newMockStockRepository(t)
		defer mockDB.Close()

		mock.ExpectExec(`UPDATE "inventory" SET .* WHERE product_id = \$\d+ AND quantity >= \$\d+`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		ok, err := repo.Reserve(context.Background(), 5, 3)

		assert.NoError(t, err)
		assert.True(t, ok)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns false without error when stock is insufficient", func(t *testing.T) {
		repo, mock, mockDB := newMockStockRepository(t)
		defer mockDB.Close()

		mock.ExpectExec(`UPDATE "inventory" SET .* WHERE product_id = \$\d+ AND quantity >= \$\d+`).
			WillReturnResult(sqlmock.NewResult(0, 0))

		ok, err := repo.Reserve(context.Background(), 5, 3)

		assert.NoError(t, err)
		assert.False(t, ok)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rejects non-positive quantity without touching the database", func(t *testing.T) {
		repo, mock, mockDB := newMockStockRepository(t)
		defer mockDB.Close()

		ok, err := repo.Reserve(context.Background(), 5, 0)

		assert.Error(t, err)
		assert.Equal(t, shared.ErrInvalidInput, err)
		assert.False(t, ok)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("propagates database errors", func(t *testing.T) {
		repo, mock, mockDB := newMockStockRepository(t)
		defer mockDB.Close()

		mock.ExpectExec(`UPDATE "inventory" SET`).
			WillReturnError(assert.AnError)

		ok, err := repo.Reserve(context.Background(), 5, 3)

		assert.Error(t, err)
		assert.False(t, ok)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormStockRepository_Release(t *testing.T) {
	t.Run("releases reserved quantity", func(t *testing.T) {
		repo, mock, mockDB := newMockStockRepository(t)
		defer mockDB.Close()

		mock.ExpectExec(`UPDATE "inventory" SET .* WHERE product_id = \$\d+`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.Release(context.Background(), 5, 3)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns not found for missing stock row", func(t *testing.T) {
		repo, mock, mockDB := newMockStockRepository(t)
		defer mockDB.Close()

		mock.ExpectExec(`UPDATE "inventory" SET .* WHERE product_id = \$\d+`).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.Release(context.Background(), 99, 3)

		assert.Error(t, err)
		assert.Equal(t, shared.ErrNotFound, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rejects non-positive quantity", func(t *testing.T) {
		repo, mock, mockDB := newMockStockRepository(t)
		defer mockDB.Close()

		err := repo.Release(context.Background(), 5, -1)

		assert.Equal(t, shared.ErrInvalidInput, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormStockRepository_ConsumeReserved(t *testing.T) {
	t.Run("consumes reserved quantity on shipment", func(t *testing.T) {
		repo, mock, mockDB := newMockStockRepository(t)
		defer mockDB.Close()

		mock.ExpectExec(`UPDATE "inventory" SET .* WHERE product_id = \$\d+ AND reserved >= \$\d+`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.ConsumeReserved(context.Background(), 5, 3)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("fails when reserved quantity is smaller than requested", func(t *testing.T) {
		repo, mock, mockDB := newMockStockRepository(t)
		defer mockDB.Close()

		mock.ExpectExec(`UPDATE "inventory" SET .* WHERE product_id = \$\d+ AND reserved >= \$\d+`).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.ConsumeReserved(context.Background(), 5, 50)

		assert.Error(t, err)
		assert.Equal(t, shared.ErrInvalidState, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormStockRepository_InterfaceCompliance(t *testing.T) {
	t.Run("implements StockRepository interface", func(t *testing.T) {
		repo, _, mockDB := newMockStockRepository(t)
		defer mockDB.Close()

		var _ inventory.StockRepository = repo
	})
}
