package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"campus-events-backend/cmd/campus-events/gateway"
	"campus-events-backend/cmd/campus-events/notify"

	"github.com/spf13/pflag"
)

func watchCommand(args []string) error {
	flags := pflag.NewFlagSet("watch", pflag.ContinueOnError)
	apiURL := flags.String("api", "http://localhost:8080", "base URL of the campus events API")
	token := flags.String("token", os.Getenv(envPrefix+"_TOKEN"), "bearer token of the faculty member")
	requestID := flags.String("request", "", "event request id to follow")
	interval := flags.Duration("interval", notify.DefaultInterval, "poll interval")
	verbose := flags.BoolP("verbose", "v", false, "log every poll")
	if err := flags.Parse(args); err != nil {
		return err
	}
	if *requestID == "" {
		return errors.New("--request is required")
	}
	if *token == "" {
		return errors.New("--token or " + envPrefix + "_TOKEN is required")
	}

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client := gateway.NewClient(*apiURL, *token)
	return watch(ctx, client, *requestID, *interval, log)
}

func watch(ctx context.Context, client *gateway.Client, requestID string, interval time.Duration, log *slog.Logger) error {
	poller := notify.NewPoller(client,
		notify.WithInterval(interval),
		notify.WithLogger(log),
		notify.WithRefresh(func(ctx context.Context) {
			events, err := client.ListPublicEvents(ctx)
			if err != nil {
				log.Warn("refresh public events", "error", err)
				return
			}
			fmt.Printf("%d public events listed\n", len(events))
		}),
	)

	w := poller.Start(ctx, requestID, func(n notify.Notification) {
		fmt.Println(n.String())
	})

	select {
	case <-w.Done():
	case <-ctx.Done():
		w.Cancel()
		<-w.Done()
	}

	log.Info("watch ended", "request_id", requestID, "reason", w.Reason().String())
	switch w.Reason() {
	case notify.StopNotFound:
		return fmt.Errorf("request %s no longer exists", requestID)
	case notify.StopForbidden:
		return fmt.Errorf("not allowed to follow request %s; check that the token is valid and belongs to its owner", requestID)
	}
	return nil
}
