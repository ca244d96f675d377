package telemetry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/oceanerp/backend/internal/domain/integration"
)

type stubPlatformClient struct {
	err error
}

func (s *stubPlatformClient) PlatformCode() integration.PlatformCode {
	return integration.PlatformShopee
}

func (s *stubPlatformClient) UpdateStock(ctx context.Context, externalID string, quantity int) error {
	return s.err
}

func (s *stubPlatformClient) AcceptOrder(ctx context.Context, externalOrderID string) error {
	return s.err
}

func (s *stubPlatformClient) ShipOrder(ctx context.Context, externalOrderID string, req integration.ShipmentRequest) error {
	return s.err
}

func (s *stubPlatformClient) CancelOrder(ctx context.Context, externalOrderID string, reason string) error {
	return s.err
}

func (s *stubPlatformClient) GetShippingLabel(ctx context.Context, externalOrderID string) (string, error) {
	return "", s.err
}

func (s *stubPlatformClient) PullOrders(ctx context.Context, req integration.OrderPullRequest) ([]integration.PlatformOrder, error) {
	return nil, s.err
}

func (s *stubPlatformClient) GetOrder(ctx context.Context, externalOrderID string) (*integration.PlatformOrder, error) {
	return nil, s.err
}

func (s *stubPlatformClient) GetShopMetrics(ctx context.Context, from, to time.Time) (*integration.ShopMetricsReport, error) {
	return nil, s.err
}

func (s *stubPlatformClient) CountProducts(ctx context.Context) (int64, error) {
	return 0, s.err
}

type stubFactory struct {
	client *stubPlatformClient
}

func (f *stubFactory) ClientFor(storefront *integration.Storefront) (integration.MarketplaceClient, error) {
	return f.client, nil
}

func (f *stubFactory) ChatClientFor(storefront *integration.Storefront) (integration.ChatClient, error) {
	return nil, integration.ErrCapabilityNotSupported
}

func newTestSyncMetrics(t *testing.T) (*SyncMetrics, *sdkmetric.ManualReader) {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	metrics, err := NewSyncMetrics(provider.Meter("test"))
	require.NoError(t, err)
	return metrics, reader
}

func counterTotal(t *testing.T, reader *sdkmetric.ManualReader, name string) int64 {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	var total int64
	for _, scope := range rm.ScopeMetrics {
		for _, m := range scope.Metrics {
			if m.Name != name {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			if !ok {
				continue
			}
			for _, dp := range sum.DataPoints {
				total += dp.Value
			}
		}
	}
	return total
}

func TestInstrumentedClientRecordsStockPush(t *testing.T) {
	metrics, reader := newTestSyncMetrics(t)
	factory := InstrumentFactory(&stubFactory{client: &stubPlatformClient{}}, metrics)

	client, err := factory.ClientFor(&integration.Storefront{})
	require.NoError(t, err)

	require.NoError(t, client.UpdateStock(context.Background(), "ext-1", 10))

	assert.Equal(t, int64(1), counterTotal(t, reader, "sync.stock.pushes"))
	assert.Equal(t, int64(0), counterTotal(t, reader, "sync.failures"))
}

func TestInstrumentedClientRecordsFailures(t *testing.T) {
	metrics, reader := newTestSyncMetrics(t)
	stub := &stubPlatformClient{err: errors.New("shopee 503")}
	factory := InstrumentFactory(&stubFactory{client: stub}, metrics)

	client, err := factory.ClientFor(&integration.Storefront{})
	require.NoError(t, err)

	_, err = client.PullOrders(context.Background(), integration.OrderPullRequest{})
	require.Error(t, err)

	assert.Equal(t, int64(1), counterTotal(t, reader, "sync.failures"))
}

func TestInstrumentedClientIgnoresCapabilityGaps(t *testing.T) {
	metrics, reader := newTestSyncMetrics(t)
	stub := &stubPlatformClient{err: integration.ErrCapabilityNotSupported}
	factory := InstrumentFactory(&stubFactory{client: stub}, metrics)

	client, err := factory.ClientFor(&integration.Storefront{})
	require.NoError(t, err)

	_, err = client.GetShippingLabel(context.Background(), "EXT-1")
	require.ErrorIs(t, err, integration.ErrCapabilityNotSupported)

	assert.Equal(t, int64(0), counterTotal(t, reader, "sync.failures"))
}

func TestInstrumentFactoryWithoutMetricsIsPassthrough(t *testing.T) {
	inner := &stubFactory{client: &stubPlatformClient{}}
	assert.Same(t, integration.ClientFactory(inner), InstrumentFactory(inner, nil))
}
