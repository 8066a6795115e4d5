package main

import (
	"context"
	"database/sql"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"github.com/kritsadas/storefront-backend/internal/auth"
	"github.com/kritsadas/storefront-backend/internal/cart"
	"github.com/kritsadas/storefront-backend/internal/catalog"
	"github.com/kritsadas/storefront-backend/internal/config"
	"github.com/kritsadas/storefront-backend/internal/resolver"
	"github.com/kritsadas/storefront-backend/internal/storefront"
	"github.com/kritsadas/storefront-backend/internal/taxonomy"
)

// main wires dependencies and starts the HTTP server.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	app := fiber.New()
	setupCORS(app)
	app.Use(auth.Middleware(cfg.JWTSecret))

	catalogClient := catalog.NewClient(cfg.CatalogBaseURL, cfg.CatalogTimeout)

	index := taxonomy.NewIndex(catalogClient)
	buildCtx, cancel := context.WithTimeout(context.Background(), cfg.CatalogTimeout)
	if err := index.Build(buildCtx); err != nil {
		// serve with an empty index; the refresher will fill it in
		log.Printf("initial taxonomy build failed: %v", err)
	}
	cancel()

	refresher, err := taxonomy.NewRefresher(index, cfg.TaxonomyRefresh, cfg.CatalogTimeout)
	if err != nil {
		log.Fatalf("invalid taxonomy refresh schedule %q: %v", cfg.TaxonomyRefresh, err)
	}
	refresher.Start()
	defer refresher.Stop()

	var sqlStore cart.Store
	if cfg.DatabaseURL != "" {
		db := mustOpenDB(cfg.DatabaseURL)
		defer db.Close()
		if err := cart.EnsureSchema(db); err != nil {
			log.Fatalf("cart schema: %v", err)
		}
		sqlStore = cart.NewSQLStore(db)
	} else {
		log.Printf("DATABASE_URL not set, carts persist in cookies only")
	}

	storefrontHandler := storefront.NewHandler(resolver.New(catalogClient), catalogClient, index)
	storefrontHandler.RegisterPublicRoutes(app)

	cartHandler := cart.NewHandler(catalogClient, sqlStore, time.Duration(cfg.CartCookieDays)*24*time.Hour)
	cartHandler.RegisterPublicRoutes(app)

	log.Printf("starting server on %s", cfg.Addr)
	if err := app.Listen(cfg.Addr); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}

func setupCORS(app *fiber.App) {
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,HEAD,PUT,DELETE,PATCH",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))
}

func mustOpenDB(dbURL string) *sql.DB {
	db, err := sql.Open("pgx", dbURL)
	if err != nil {
		panic(err)
	}
	if err := db.Ping(); err != nil {
		panic(err)
	}
	return db
}
