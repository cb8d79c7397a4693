package records

import (
	"context"
	"fmt"
	"strings"

	"github.com/nexconsult/autofill-api/internal/config"
	"github.com/redis/go-redis/v9"
)

// OpenStorage selects the backend named by cfg.Storage: "memory", "redis"
// (requires client) or a sqlite:// / postgres:// URL
func OpenStorage(ctx context.Context, cfg config.RecordsConfig, client *redis.Client) (Storage, error) {
	switch {
	case cfg.Storage == "memory":
		return NewMemoryStorage(), nil
	case cfg.Storage == "redis":
		if client == nil {
			return nil, fmt.Errorf("records storage %q requires an available Redis", cfg.Storage)
		}
		return NewRedisStorage(client, cfg.RedisKey), nil
	case strings.Contains(cfg.Storage, "://"):
		return OpenSQL(ctx, cfg.Storage)
	default:
		return nil, fmt.Errorf("unknown records storage %q", cfg.Storage)
	}
}
