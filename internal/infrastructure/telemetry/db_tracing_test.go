package telemetry

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type stockRow struct {
	ID        uint  `gorm:"primaryKey"`
	ProductID int64 `gorm:"uniqueIndex"`
	Quantity  int
	UpdatedAt time.Time
}

func (stockRow) TableName() string {
	return "inventory"
}

// setupTracedDB creates an in-memory SQLite database for plugin tests
func setupTracedDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(&stockRow{}))
	return db
}

func TestRegisterGormTracing(t *testing.T) {
	db := setupTracedDB(t)

	require.NoError(t, RegisterGormTracing(db, "ocean_test"))

	// Plugin registration must not break normal query execution
	require.NoError(t, db.Create(&stockRow{ProductID: 42, Quantity: 7}).Error)

	var found stockRow
	require.NoError(t, db.First(&found, "product_id = ?", int64(42)).Error)
	assert.Equal(t, 7, found.Quantity)
}

func TestRegisterGormTracingTwiceFails(t *testing.T) {
	db := setupTracedDB(t)

	require.NoError(t, RegisterGormTracing(db, "ocean_test"))
	assert.Error(t, RegisterGormTracing(db, "ocean_test"))
}

func TestRegisterGormTracingEmitsSpans(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() {
		otel.SetTracerProvider(prev)
		_ = tp.Shutdown(context.Background())
	})

	db := setupTracedDB(t)
	require.NoError(t, RegisterGormTracing(db, "ocean_test"))

	tracer := tp.Tracer("test")
	ctx, span := tracer.Start(context.Background(), "stock-write")

	require.NoError(t, db.WithContext(ctx).Create(&stockRow{ProductID: 7, Quantity: 3}).Error)
	span.End()

	assert.NotEmpty(t, recorder.Ended())
}
