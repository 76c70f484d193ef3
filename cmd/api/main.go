package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"runtime/debug"

	"github.com/yatrapay/yatrapay/internal/app"
	"github.com/yatrapay/yatrapay/internal/seeder"
	"github.com/yatrapay/yatrapay/internal/version"
	"github.com/yatrapay/yatrapay/internal/worker"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	err := run(logger)
	if err != nil {
		trace := string(debug.Stack())
		logger.Error(err.Error(), "trace", trace)
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	showVersion := flag.Bool("version", false, "display version and exit")
	runSeeder := flag.Bool("seed", false, "seed initial data and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("version: %s\n", version.Get())
		return nil
	}

	application, err := app.NewApplication(logger)
	if err != nil {
		return err
	}
	defer application.DB.Close()

	if *runSeeder {
		seeder.New(application.DB).Run()
		return nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	workers := worker.New(&worker.Worker{
		KafkaStream: application.Kafka,
		UserRepo:    application.DB.User(),
		Mailer:      application.Mailer,
		Ctx:         ctx,
		Helper:      application.Helper,
	})

	go workers.KycSubmittedWorker()
	go workers.KycDecisionWorker()

	return application.ServeHTTP()
}
