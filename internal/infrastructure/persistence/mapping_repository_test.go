package persistence

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/oceanerp/backend/internal/domain/integration"
)

func newMockMappingRepository(t *testing.T) (*GormMappingRepository, sqlmock.Sqlmock, *sql.DB) {
	gormDB, mock, mockDB := newMockGormDB(t)
	return NewGormMappingRepository(gormDB), mock, mockDB
}

func TestGormMappingRepository_FindByInternal(t *testing.T) {
	t.Run("resolves mapping by natural key", func(t *testing.T) {
		repo, mock, mockDB := newMockMappingRepository(t)
		defer mockDB.Close()

		rows := sqlmock.NewRows([]string{
			"id", "storefront_id", "platform", "entity_type", "internal_id", "external_id",
		}).AddRow(1, 7, "shopee", "product", 42, "SHP-100234")

		mock.ExpectQuery(`SELECT \* FROM "integration_mappings" WHERE storefront_id = \$1 AND entity_type = \$2 AND internal_id = \$3`).
			WithArgs(int64(7), "product", int64(42), 1).
			WillReturnRows(rows)

		mapping, err := repo.FindByInternal(context.Background(), 7, integration.EntityTypeProduct, 42)

		assert.NoError(t, err)
		require.NotNil(t, mapping)
		assert.Equal(t, "SHP-100234", mapping.ExternalID)
		assert.Equal(t, integration.PlatformShopee, mapping.Platform)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns mapping not found for unmapped entity", func(t *testing.T) {
		repo, mock, mockDB := newMockMappingRepository(t)
		defer mockDB.Close()

		mock.ExpectQuery(`SELECT \* FROM "integration_mappings" WHERE storefront_id = \$1 AND entity_type = \$2 AND internal_id = \$3`).
			WithArgs(int64(7), "product", int64(99), 1).
			WillReturnError(gorm.ErrRecordNotFound)

		mapping, err := repo.FindByInternal(context.Background(), 7, integration.EntityTypeProduct, 99)

		assert.Nil(t, mapping)
		assert.ErrorIs(t, err, integration.ErrMappingNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormMappingRepository_FindByExternal(t *testing.T) {
	t.Run("resolves mapping by external ID", func(t *testing.T) {
		repo, mock, mockDB := newMockMappingRepository(t)
		defer mockDB.Close()

		rows := sqlmock.NewRows([]string{
			"id", "storefront_id", "platform", "entity_type", "internal_id", "external_id",
		}).AddRow(3, 7, "tiktok", "order", 501, "576462")

		mock.ExpectQuery(`SELECT \* FROM "integration_mappings" WHERE storefront_id = \$1 AND entity_type = \$2 AND external_id = \$3`).
			WithArgs(int64(7), "order", "576462", 1).
			WillReturnRows(rows)

		mapping, err := repo.FindByExternal(context.Background(), 7, integration.EntityTypeOrder, "576462")

		assert.NoError(t, err)
		require.NotNil(t, mapping)
		assert.Equal(t, int64(501), mapping.InternalID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormMappingRepository_FindProductMappings(t *testing.T) {
	t.Run("returns every storefront mapping for one product", func(t *testing.T) {
		repo, mock, mockDB := newMockMappingRepository(t)
		defer mockDB.Close()

		rows := sqlmock.NewRows([]string{
			"id", "storefront_id", "platform", "entity_type", "internal_id", "external_id",
		}).
			AddRow(1, 7, "shopee", "product", 42, "SHP-100234").
			AddRow(2, 8, "tokopedia", "product", 42, "TKP-8891")

		mock.ExpectQuery(`SELECT \* FROM "integration_mappings" WHERE entity_type = \$1 AND internal_id = \$2`).
			WithArgs("product", int64(42)).
			WillReturnRows(rows)

		mappings, err := repo.FindProductMappings(context.Background(), 42)

		assert.NoError(t, err)
		assert.Len(t, mappings, 2)
		assert.Equal(t, integration.PlatformShopee, mappings[0].Platform)
		assert.Equal(t, integration.PlatformTokopedia, mappings[1].Platform)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns empty slice for unmapped product", func(t *testing.T) {
		repo, mock, mockDB := newMockMappingRepository(t)
		defer mockDB.Close()

		mock.ExpectQuery(`SELECT \* FROM "integration_mappings" WHERE entity_type = \$1 AND internal_id = \$2`).
			WithArgs("product", int64(99)).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		mappings, err := repo.FindProductMappings(context.Background(), 99)

		assert.NoError(t, err)
		assert.Empty(t, mappings)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormMappingRepository_CountByType(t *testing.T) {
	t.Run("counts mappings of one entity type", func(t *testing.T) {
		repo, mock, mockDB := newMockMappingRepository(t)
		defer mockDB.Close()

		mock.ExpectQuery(`SELECT count\(\*\) FROM "integration_mappings" WHERE storefront_id = \$1 AND entity_type = \$2`).
			WithArgs(int64(7), "product").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(12))

		count, err := repo.CountByType(context.Background(), 7, integration.EntityTypeProduct)

		assert.NoError(t, err)
		assert.Equal(t, int64(12), count)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormMappingRepository_Upsert(t *testing.T) {
	t.Run("inserts mapping and backfills ID and sync time", func(t *testing.T) {
		repo, mock, mockDB := newMockMappingRepository(t)
		defer mockDB.Close()

		mapping, err := integration.NewMapping(7, integration.PlatformShopee, integration.EntityTypeProduct, 42, "SHP-100234")
		require.NoError(t, err)

		mock.ExpectQuery(`INSERT INTO "integration_mappings" .* ON CONFLICT \("storefront_id","entity_type","internal_id"\) DO UPDATE SET`).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(9))

		err = repo.Upsert(context.Background(), mapping)

		assert.NoError(t, err)
		assert.Equal(t, int64(9), mapping.ID)
		assert.NotNil(t, mapping.LastSyncedAt)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormMappingRepository_DeleteByInternal(t *testing.T) {
	t.Run("deletes existing mapping", func(t *testing.T) {
		repo, mock, mockDB := newMockMappingRepository(t)
		defer mockDB.Close()

		mock.ExpectExec(`DELETE FROM "integration_mappings" WHERE storefront_id = \$1 AND entity_type = \$2 AND internal_id = \$3`).
			WithArgs(int64(7), "product", int64(42)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.DeleteByInternal(context.Background(), 7, integration.EntityTypeProduct, 42)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns mapping not found for missing row", func(t *testing.T) {
		repo, mock, mockDB := newMockMappingRepository(t)
		defer mockDB.Close()

		mock.ExpectExec(`DELETE FROM "integration_mappings" WHERE storefront_id = \$1 AND entity_type = \$2 AND internal_id = \$3`).
			WithArgs(int64(7), "product", int64(99)).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.DeleteByInternal(context.Background(), 7, integration.EntityTypeProduct, 99)

		assert.ErrorIs(t, err, integration.ErrMappingNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormMappingRepository_InterfaceCompliance(t *testing.T) {
	t.Run("implements MappingRepository interface", func(t *testing.T) {
		repo, _, mockDB := newMockMappingRepository(t)
		defer mockDB.Close()

		var _ integration.MappingRepository = repo
	})
}

// ---------------------------------------------------------------------------
// Sync log repository
// ---------------------------------------------------------------------------

func newMockSyncLogRepository(t *testing.T) (*GormSyncLogRepository, sqlmock.Sqlmock, *sql.DB) {
	gormDB, mock, mockDB := newMockGormDB(t)
	return NewGormSyncLogRepository(gormDB), mock, mockDB
}

func TestGormSyncLogRepository_Append(t *testing.T) {
	t.Run("writes one log record", func(t *testing.T) {
		repo, mock, mockDB := newMockSyncLogRepository(t)
		defer mockDB.Close()

		mock.ExpectExec(`INSERT INTO "sync_logs"`).
			WillReturnResult(sqlmock.NewResult(1, 1))

		err := repo.Append(context.Background(), &integration.SyncLog{
			ID:             uuid.New().String(),
			IntegrationKey: "shopee_7",
			Action:         "stock_sync",
			Status:         "success",
			Details:        `{"productId":42,"quantity":15}`,
			CreatedAt:      time.Now(),
		})

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormSyncLogRepository_FindRecent(t *testing.T) {
	t.Run("returns newest records for a storefront scope", func(t *testing.T) {
		repo, mock, mockDB := newMockSyncLogRepository(t)
		defer mockDB.Close()

		rows := sqlmock.NewRows([]string{"id", "integration_key", "action", "status"}).
			AddRow(uuid.New().String(), "shopee_7", "stock_sync", "success").
			AddRow(uuid.New().String(), "shopee_7", "order_pull", "failed")

		mock.ExpectQuery(`SELECT \* FROM "sync_logs" WHERE integration_key = \$1 ORDER BY created_at DESC LIMIT \$2`).
			WithArgs("shopee_7", 10).
			WillReturnRows(rows)

		logs, err := repo.FindRecent(context.Background(), "shopee_7", 10)

		assert.NoError(t, err)
		assert.Len(t, logs, 2)
		assert.Equal(t, "stock_sync", logs[0].Action)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("applies default limit when none given", func(t *testing.T) {
		repo, mock, mockDB := newMockSyncLogRepository(t)
		defer mockDB.Close()

		mock.ExpectQuery(`SELECT \* FROM "sync_logs" WHERE integration_key = \$1 ORDER BY created_at DESC LIMIT \$2`).
			WithArgs("tiktok_8", 50).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		logs, err := repo.FindRecent(context.Background(), "tiktok_8", 0)

		assert.NoError(t, err)
		assert.Empty(t, logs)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
