package main // Entry point package

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/mparsa/cinema-ticket-booking/internal/booking"
	"github.com/mparsa/cinema-ticket-booking/internal/config"
	"github.com/mparsa/cinema-ticket-booking/internal/database"
	"github.com/mparsa/cinema-ticket-booking/internal/handler"
	appmw "github.com/mparsa/cinema-ticket-booking/internal/middleware"
	"github.com/mparsa/cinema-ticket-booking/internal/queue"
	"github.com/mparsa/cinema-ticket-booking/internal/repository"
	"github.com/mparsa/cinema-ticket-booking/internal/router"
	queuepublisher "github.com/mparsa/cinema-ticket-booking/internal/service"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("db connect failed: %v", err)
	}
	defer db.Close()

	// Repositories.
	userRepo := repository.NewUserRepo(db)
	tokenRepo := repository.NewTokenRepo(db)
	movieRepo := repository.NewMovieRepo(db)
	theaterRepo := repository.NewTheaterRepo(db)
	seatRepo := repository.NewSeatRepo(db)
	showRepo := repository.NewShowRepo(db)
	showSeatRepo := repository.NewShowSeatRepo(db)
	ticketRepo := repository.NewTicketRepo(db)
	paymentRepo := repository.NewPaymentRepo(db)

	// Booking engine with the refund tiers and QR signer.
	rc := config.LoadRefundConfig()
	policy := booking.RefundPolicy{
		MinNoticeHours: rc.MinNoticeHours,
		LowTierPct:     rc.LowTierPct,
		MidTierPct:     rc.MidTierPct,
		FullTierPct:    rc.FullTierPct,
	}
	engine := booking.NewEngine(db, showRepo, showSeatRepo, ticketRepo, paymentRepo,
		policy, booking.NewQRSigner(cfg.QRSecret), queuepublisher.New())

	// Ticket event consumer (notification log).  Runs until the broker
	// becomes permanently unreachable; the API keeps serving either way.
	go func() {
		if err := queue.StartTicketConsumer(); err != nil {
			log.Printf("ticket consumer stopped: %v", err)
		}
	}()

	e := echo.New()

	// Redis-backed rate limiting and response caching on the browse
	// paths.  A nil client disables both.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable; rate limiting and response cache disabled")
	}
	var browseMW []echo.MiddlewareFunc
	if rlCfg := config.LoadRateLimitConfig(); rlCfg.Enabled && rdb != nil {
		e.Use(appmw.NewTokenBucket(rlCfg, rdb))
	}
	if cacheCfg := config.LoadCacheConfig(); cacheCfg.Enabled && rdb != nil {
		browseMW = append(browseMW, appmw.NewRedisCache(cacheCfg, rdb))
	}

	router.RegisterRoutes(e)
	router.RegisterAuth(e, handler.NewAuthHandler(cfg, userRepo, tokenRepo), cfg.JWTSecret)
	router.RegisterPublic(e, handler.NewPublicHandler(movieRepo, theaterRepo, showRepo, showSeatRepo), browseMW...)
	router.RegisterCustomer(e, handler.NewCustomerHandler(engine, ticketRepo), cfg.JWTSecret)
	router.RegisterAdmin(e, handler.NewAdminHandler(movieRepo, theaterRepo, seatRepo, showRepo, showSeatRepo, engine), cfg.JWTSecret)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
