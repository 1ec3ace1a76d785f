package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/robfig/cron/v3"

	"github.com/segyhp/amortization-engine/internal/config"
	"github.com/segyhp/amortization-engine/internal/repository"
	"github.com/segyhp/amortization-engine/internal/service"
)

// purgeTimeout bounds one retention run
const purgeTimeout = 5 * time.Minute

func main() {
	log.Println("Starting amortization scheduler...")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	log.SetFlags(cfg.LogFlags())

	if err := repository.RunMigrations(cfg.Database.DSN()); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	db, err := sqlx.Connect("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	// The purge job never reads schedules, so no cache is wired
	calculatorService := service.NewCalculatorService(repository.NewCalculationRepository(db), nil, cfg)

	// Initialize cron scheduler
	c := cron.New(cron.WithSeconds(), cron.WithLocation(cfg.GetSchedulerLocation()))

	// Schedule tasks
	if err := setupCronJobs(c, cfg, calculatorService); err != nil {
		log.Fatalf("Error scheduling jobs: %v", err)
	}

	// Start the scheduler
	c.Start()
	log.Println("Scheduler started successfully")

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down scheduler...")
	// Wait for a running purge to finish
	<-c.Stop().Done()
	log.Println("Scheduler stopped")
}

func setupCronJobs(c *cron.Cron, cfg *config.Config, calculatorService *service.CalculatorService) error {
	_, err := c.AddFunc(cfg.Scheduler.Cron, func() {
		log.Println("Running expired calculation purge job...")
		purgeExpiredCalculations(calculatorService)
	})
	if err != nil {
		return err
	}

	log.Printf("Cron jobs scheduled successfully (%s, %s)", cfg.Scheduler.Cron, cfg.Scheduler.Timezone)
	return nil
}

func purgeExpiredCalculations(calculatorService *service.CalculatorService) {
	ctx, cancel := context.WithTimeout(context.Background(), purgeTimeout)
	defer cancel()

	if _, err := calculatorService.PurgeExpired(ctx, time.Now()); err != nil {
		log.Printf("Error purging expired calculations: %v", err)
	}
}
