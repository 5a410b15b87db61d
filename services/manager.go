package services

import (
	"fmt"
	"waitfaster_server/database"
	"waitfaster_server/structs"

	"github.com/MonkyMars/gecho"
	"github.com/redis/go-redis/v9"
)

type ServiceManager struct {
	CacheService        *CacheService
	HealthService       *HealthService
	CatalogService      *CatalogService
	IdentityService     *IdentityService
	ProjectionService   *ProjectionService
	OrderService        *OrderService
	SessionService      *SessionService
	AssistanceService   *AssistanceService
	NotificationService *NotificationService
	SeedService         *SeedService
}

// NewServiceManager wires the services. redisClient may be nil, which
// disables caching and rate limiting and requires the memory notify backend.
func NewServiceManager(logger *gecho.Logger, cfg *structs.Config, db *database.DB, redisClient *redis.Client) (*ServiceManager, error) {
	var cacheService *CacheService
	if redisClient != nil {
		cacheService = NewCacheService(logger, cfg, redisClient)
	}

	hub := NewHub(logger, cfg.Notify.BufferSize)
	broker, err := newBroker(logger, cfg.Notify, hub, redisClient)
	if err != nil {
		return nil, err
	}
	notificationService := NewNotificationService(logger, hub, broker)

	healthService := NewHealthService(logger, db, cacheService)
	catalogService := NewCatalogService(logger, db, cacheService)
	identityService := NewIdentityService(logger, db)
	projectionService := NewProjectionService(logger, db, catalogService, identityService)
	orderService := NewOrderService(logger, db, catalogService, identityService, notificationService)
	sessionService := NewSessionService(logger, db, identityService, projectionService, notificationService)
	assistanceService := NewAssistanceService(logger, db, identityService, projectionService, notificationService)
	seedService := NewSeedService(logger, db)

	return &ServiceManager{
		CacheService:        cacheService,
		HealthService:       healthService,
		CatalogService:      catalogService,
		IdentityService:     identityService,
		ProjectionService:   projectionService,
		OrderService:        orderService,
		SessionService:      sessionService,
		AssistanceService:   assistanceService,
		NotificationService: notificationService,
		SeedService:         seedService,
	}, nil
}

func newBroker(logger *gecho.Logger, cfg *structs.NotifyConfig, hub *Hub, redisClient *redis.Client) (Broker, error) {
	switch cfg.Backend {
	case "", "memory":
		return NewMemoryBroker(hub), nil
	case "redis":
		if redisClient == nil {
			return nil, fmt.Errorf("notify backend redis requires a redis client")
		}
		return NewRedisBroker(logger, redisClient, cfg.Channel), nil
	case "amqp":
		broker, err := NewAMQPBroker(logger, cfg.AMQPURL, cfg.Exchange)
		if err != nil {
			return nil, err
		}
		return broker, nil
	default:
		return nil, fmt.Errorf("unknown notify backend %q", cfg.Backend)
	}
}
