package health

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/hellofresh/health-go/v5"
	"github.com/redis/go-redis/v9"
)

// Endpoints holds the live connections the server runs on, so the health
// report reflects the handles actually serving traffic rather than fresh
// dials that could succeed while the pool is broken.
type Endpoints struct {
	DB          *sql.DB
	RedisClient *redis.Client
}

func NewHealthHandler(endpoints *Endpoints) (*health.Health, error) {

	h, err := health.New(
		health.WithComponent(health.Component{
			Name:    "furniro-storefront",
			Version: "1.0.0",
		}),
		health.WithSystemInfo(),
		health.WithChecks(
			health.Config{
				Name:      "database",
				Timeout:   3 * time.Second,
				SkipOnErr: false,
				Check: func(ctx context.Context) error {
					return endpoints.DB.PingContext(ctx)
				},
			},
			health.Config{
				Name:      "redis",
				Timeout:   3 * time.Second,
				SkipOnErr: true,
				Check: func(ctx context.Context) error {
					return endpoints.RedisClient.Ping(ctx).Err()
				},
			},
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create health handler: %w", err)
	}

	return h, nil
}
