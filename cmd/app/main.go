package main

import (
	"context"
	"database/sql"
	"log"
	"os"
	"os/signal"
	"syscall"

	firebase "firebase.google.com/go/v4"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"github.com/afmobile/storefront-core/internal/auth"
	"github.com/afmobile/storefront-core/internal/cart"
	"github.com/afmobile/storefront-core/internal/catalog"
	"github.com/afmobile/storefront-core/internal/config"
	"github.com/afmobile/storefront-core/internal/order"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db := mustOpenDB(ctx, cfg)
	defer db.Close()

	fbApp, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: cfg.FirebaseProjectID})
	if err != nil {
		log.Fatalf("firebase init: %v", err)
	}
	fsClient, err := fbApp.Firestore(ctx)
	if err != nil {
		log.Fatalf("firestore init: %v", err)
	}
	defer fsClient.Close()

	store := catalog.NewPostgresStore(db)
	engine := catalog.NewEngine(catalog.NewFirestoreSource(fsClient), store)

	users := auth.ContextProvider{}
	cartSvc := cart.NewService(cart.NewFirestoreRepository(fsClient), store, users)
	orderEngine := order.NewEngine(order.NewFirestoreRepository(fsClient), cartSvc, users, cfg.DeliveryFee)

	app := fiber.New()
	app.Use(cors.New())

	catalog.NewHandler(engine).RegisterRoutes(app)

	protected := app.Group("")
	switch cfg.AuthMode {
	case "jwt":
		for _, m := range auth.JWTMiddleware(cfg.JWTSecret) {
			protected.Use(m)
		}
	default:
		authClient, err := fbApp.Auth(ctx)
		if err != nil {
			log.Fatalf("firebase auth init: %v", err)
		}
		protected.Use(auth.FirebaseMiddleware(authClient))
	}
	cart.NewHandler(cartSvc).RegisterProtectedRoutes(protected)
	order.NewHandler(orderEngine).RegisterProtectedRoutes(protected)

	scheduler := catalog.NewScheduler(engine, cfg.SyncInterval, cfg.SyncMaxRetries, cfg.SyncRetryDelay)
	go scheduler.Run(ctx)

	go func() {
		log.Printf("starting server on %s", cfg.Addr)
		if err := app.Listen(cfg.Addr); err != nil {
			log.Fatalf("server stopped: %v", err)
		}
	}()

	<-ctx.Done()
	log.Printf("shutting down")
	if err := app.Shutdown(); err != nil {
		log.Printf("shutdown: %v", err)
	}
}

func mustOpenDB(ctx context.Context, cfg config.Config) *sql.DB {
	db, err := sql.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	if err := db.PingContext(ctx); err != nil {
		log.Fatalf("ping database: %v", err)
	}

	// local catalog cache table
	if _, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS products (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		price DOUBLE PRECISION NOT NULL DEFAULT 0,
		category TEXT NOT NULL DEFAULT '',
		image_url TEXT NOT NULL DEFAULT '',
		sku TEXT NOT NULL DEFAULT '',
		stock_level INT NOT NULL DEFAULT 0,
		sales_count INT NOT NULL DEFAULT 0,
		created_at TIMESTAMPTZ,
		updated_at TIMESTAMPTZ
	)`); err != nil {
		log.Fatalf("ensure products table: %v", err)
	}
	return db
}
