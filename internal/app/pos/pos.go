package pos

import (
	"context"
	"strconv"

	"restaurant-pos/internal/auth"
	"restaurant-pos/internal/config"
	"restaurant-pos/internal/database"
	"restaurant-pos/internal/handlers"
	"restaurant-pos/internal/httpx"
	"restaurant-pos/internal/logger"
	"restaurant-pos/internal/metrics"
	"restaurant-pos/internal/realtime"
	"restaurant-pos/internal/relay"
	"restaurant-pos/internal/repository"
	"restaurant-pos/internal/services/menu"
	"restaurant-pos/internal/services/order"
	"restaurant-pos/internal/services/payment"
	"restaurant-pos/internal/services/table"
)

// Run wires the whole POS server and serves until ctx is cancelled.
func Run(ctx context.Context, cfg *config.Config, migrationsPath string) error {
	log := logger.New("pos-server")

	db, err := database.Connect(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.RunMigrations(ctx, migrationsPath); err != nil {
		return err
	}

	m := metrics.NewRegistry()
	bus := realtime.NewBus()
	bus.OnSubscriberCount(func(n int) { m.Subscribers.Set(float64(n)) })

	orders := repository.NewOrdersPG(db.Pool)
	tables := repository.NewTablesPG(db.Pool)
	menuRepo := repository.NewMenuPG(db.Pool)

	tableSvc := table.NewService(tables, log)
	engine := order.NewService(orders, tableSvc, menuRepo, bus, m, log)
	payments := payment.NewService(orders, engine, m, log)
	catalog := menu.NewService(menuRepo, log)

	ping := db.Ping
	if cfg.RelayEnabled() {
		rl, err := relay.Dial(cfg.RabbitMQURL(), cfg.RabbitMQ.Exchange, log)
		if err != nil {
			return err
		}
		defer rl.Close()
		rl.Attach(bus)

		ping = func(ctx context.Context) error {
			if err := db.Ping(ctx); err != nil {
				return err
			}
			return rl.Ping()
		}
	}

	h := handlers.New(engine, payments, tableSvc, catalog, bus, auth.NewVerifier(cfg.Auth.SessionSecret), m, log)
	h.SetPinger(ping)

	srv := httpx.New(":"+strconv.Itoa(cfg.HTTP.Port), handlers.Router(h))
	log.Info("service_started", map[string]any{"service": "pos-server", "port": cfg.HTTP.Port})
	return srv.Run(ctx)
}
