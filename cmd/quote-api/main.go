// README: Entry point; loads config, wires infra and modules, serves the quotation API.
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"freightquote/internal/config"
	httptransport "freightquote/internal/http"
	"freightquote/internal/infra"
	"freightquote/internal/maps"
	"freightquote/internal/modules/carrier"
	"freightquote/internal/modules/customer"
	"freightquote/internal/modules/distance"
	"freightquote/internal/modules/pricing"
	"freightquote/internal/modules/quote"
	"freightquote/internal/modules/tieup"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var verifier infra.TokenVerifier
	if cfg.Firebase.ProjectID != "" {
		verifier, err = infra.NewFirebaseVerifier(ctx, cfg.Firebase.ProjectID, cfg.Firebase.CredentialsFile)
		if err != nil {
			log.Fatalf("firebase init: %v", err)
		}
	} else {
		log.Printf("FQ_FIREBASE_PROJECT_ID not set; API is unauthenticated")
	}

	dbPool, err := infra.NewDB(ctx, cfg.DB.DSN)
	if err != nil {
		log.Fatal(err)
	}
	defer dbPool.Close()

	table, err := distance.LoadPincodeTable(cfg.Pincodes.File)
	if err != nil {
		log.Fatalf("pincode table: %v", err)
	}

	var provider distance.Provider
	if cfg.Maps.APIKey != "" {
		provider, err = maps.NewDistanceService(cfg.Maps.APIKey)
		if err != nil {
			log.Fatalf("maps client: %v", err)
		}
	} else {
		log.Printf("GOOGLE_MAP_API_KEY not set; distances come from pincode coordinates")
	}

	var cache distance.Cache
	redisClient, err := infra.NewRedis(ctx, cfg.Redis.Addr)
	switch {
	case err != nil:
		log.Printf("distance cache disabled: %v", err)
	case redisClient != nil:
		defer redisClient.Close()
		cache = distance.NewStore(redisClient, cfg.Redis.DistanceTTL)
	}

	var publisher quote.Publisher
	if cfg.Kafka.Broker != "" {
		producer := infra.NewKafkaProducer(cfg.Kafka.Broker, cfg.Kafka.Topic)
		defer producer.Close()
		publisher = producer
	}

	pricingStore := pricing.NewStore(dbPool)
	pricingSvc := pricing.NewService(pricingStore)

	carrierStore := carrier.NewStore(dbPool)
	carrierSvc := carrier.NewService(carrierStore)

	customerStore := customer.NewStore(dbPool)

	tieUpStore := tieup.NewStore(dbPool)
	tieUpSvc := tieup.NewService(tieUpStore, carrierSvc)

	distanceSvc := distance.NewService(provider, cache, table, cfg.Maps.Timeout)

	quoteSvc := quote.NewService(customerStore, tieUpSvc, carrierSvc, pricingSvc, distanceSvc, publisher, cfg.Quote)

	router := httptransport.NewRouter(httptransport.RouterDeps{
		Quote:    quoteSvc,
		TieUp:    tieUpSvc,
		Zones:    pricingSvc,
		Carriers: carrierSvc,
		Verifier: verifier,
	})

	server := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("shutdown: %v", err)
		}
	}()

	log.Printf("quote-api listening on %s (%d pincodes loaded)", cfg.HTTP.Addr, table.Len())
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal(err)
	}
}
