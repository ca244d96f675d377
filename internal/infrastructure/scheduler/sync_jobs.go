package scheduler

import (
	"context"
	"errors"
	"time"

	analyticsapp "github.com/oceanerp/backend/internal/application/analytics"
	chatapp "github.com/oceanerp/backend/internal/application/chat"
	"github.com/oceanerp/backend/internal/application/ordersync"
	"github.com/oceanerp/backend/internal/infrastructure/telemetry"
)

// OrderPullJob pulls orders from every active storefront. Storefronts whose
// lock is held by another instance are skipped inside the service. A nil
// metrics disables pull counters.
func OrderPullJob(service *ordersync.Service, metrics *telemetry.SyncMetrics, interval time.Duration) Job {
	return Job{
		Name:     "order_pull",
		Interval: interval,
		Run: func(ctx context.Context) error {
			results, err := service.SyncAllStorefronts(ctx)
			if errors.Is(err, ordersync.ErrSyncInProgress) {
				return nil
			}
			if metrics != nil {
				for _, r := range results {
					metrics.RecordOrderPull(ctx, string(r.Platform), int64(r.Created+r.Updated))
				}
			}
			return err
		},
	}
}

// ChatPollJob relays fresh buyer messages from chat-capable storefronts.
// Polling marks relayed messages as seen, so repeated polls converge; the
// marks never hide a message from the inbox endpoint.
func ChatPollJob(service *chatapp.Service, interval time.Duration) Job {
	return Job{
		Name:     "chat_poll",
		Interval: interval,
		Run: func(ctx context.Context) error {
			_, err := service.PollNewMessages(ctx)
			return err
		},
	}
}

// WarehouseSyncJob rebuilds the daily sales facts for the trailing window.
// The window always includes yesterday so late-arriving orders are picked up
// on the next run.
func WarehouseSyncJob(service *analyticsapp.Service, interval, window time.Duration) Job {
	return Job{
		Name:     "warehouse_sync",
		Interval: interval,
		Run: func(ctx context.Context) error {
			to := time.Now().UTC()
			_, err := service.SyncSalesToWarehouse(ctx, to.Add(-window), to)
			return err
		},
	}
}
