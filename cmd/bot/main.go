package main

import (
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"market-events-bot/internal/application/chart"
	"market-events-bot/internal/application/events"
	"market-events-bot/internal/application/query"
	"market-events-bot/internal/domain/econcal"
	"market-events-bot/internal/infra/memory"
	"market-events-bot/internal/infrastructure/config"
	"market-events-bot/internal/infrastructure/external/finviz"
	"market-events-bot/internal/infrastructure/external/fred"
	"market-events-bot/internal/infrastructure/metrics"
	"market-events-bot/internal/infrastructure/notify"
	ifdiscord "market-events-bot/internal/interface/discord"
)

func main() {
	cfg, err := config.LoadFromFile("config.yaml")
	if err != nil {
		log.Fatalf("CRITICAL: load config failed: %v", err)
	}
	if cfg.Discord.Token == "" {
		log.Fatalf("CRITICAL: DISCORD_TOKEN not configured")
	}
	if cfg.Fred.APIKey == "" {
		log.Fatalf("CRITICAL: FRED_API_KEY not configured")
	}
	log.Printf("configuration loaded (prefix=%s fetch=%v scan=%v)",
		cfg.Discord.Prefix, cfg.Scheduler.FetchInterval, cfg.Scheduler.ScanInterval)

	location, err := time.LoadLocation(cfg.Scheduler.Timezone)
	if err != nil {
		log.Fatalf("CRITICAL: load timezone %s: %v", cfg.Scheduler.Timezone, err)
	}

	store := memory.NewStore()

	fredClient := fred.NewClient(cfg.Fred.APIKey, cfg.Fred.Timeout)
	provider := fred.NewProviderAdapter(fredClient)
	finvizClient := finviz.NewClient(cfg.Fred.Timeout)
	quotes := finviz.NewQuoteAdapter(finvizClient)

	gateway, err := notify.NewGateway(cfg.Discord.Token)
	if err != nil {
		log.Fatalf("CRITICAL: %v", err)
	}

	router := ifdiscord.NewRouter(
		cfg.Discord.Prefix,
		gateway,
		gateway,
		store,
		store,
		chart.NewService(quotes),
		query.NewService(provider),
	)
	gateway.BindRouter(router)

	fetcher := events.NewFetcher(provider, econcal.TrackedIndicators, location, cfg.Fred.LookbackDays, cfg.Fred.Timeout)
	notifier := events.NewNotifier(store, gateway, cfg.Scheduler.NotifyLeadMin, cfg.Scheduler.NotifyLeadMax)
	worker := events.NewWorker(fetcher, notifier, store, cfg.Scheduler.FetchInterval, cfg.Scheduler.ScanInterval)

	if err := gateway.Open(); err != nil {
		log.Fatalf("CRITICAL: %v", err)
	}
	defer gateway.Close()
	log.Printf("connected to Discord gateway")

	if err := worker.Start(); err != nil {
		log.Fatalf("CRITICAL: start scheduler: %v", err)
	}
	defer worker.Stop()

	if cfg.Metrics.Addr != "" {
		go func() {
			log.Printf("metrics listening on %s", cfg.Metrics.Addr)
			if err := http.ListenAndServe(cfg.Metrics.Addr, metrics.Handler()); err != nil {
				log.Printf("warning: metrics listener stopped: %v", err)
			}
		}()
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	log.Printf("shutting down")
}
