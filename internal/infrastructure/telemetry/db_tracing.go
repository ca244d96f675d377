package telemetry

import (
	"fmt"

	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"gorm.io/gorm"
)

// RegisterGormTracing attaches the otelgorm plugin to a GORM database so every
// query produces a span. Query variables are stripped because order payloads
// carry customer PII.
func RegisterGormTracing(db *gorm.DB, dbName string) error {
	plugin := otelgorm.NewPlugin(
		otelgorm.WithDBName(dbName),
		otelgorm.WithoutQueryVariables(),
	)

	if err := db.Use(plugin); err != nil {
		return fmt.Errorf("failed to register gorm tracing plugin: %w", err)
	}
	return nil
}
