package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/spf13/pflag"

	"github.com/jeongseonghan/optic-link/internal/config"
	"github.com/jeongseonghan/optic-link/internal/server"
)

func main() {
	addr := pflag.String("addr", "0.0.0.0:8080", "Listen address")
	configPath := pflag.StringP("config", "c", "scenarios.yaml", "Scenario file")
	verbose := pflag.BoolP("verbose", "v", false, "Debug logging")
	pflag.Parse()

	if *verbose {
		log.SetLevel(log.DebugLevel)
	}

	f, err := config.Load(*configPath)
	if err != nil {
		log.Fatal("load scenarios", "err", err)
	}
	log.Info("scenarios loaded", "count", len(f.Scenarios))

	srv := server.NewServer(*addr, server.NewHandlers(f))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Info("shutting down")
		os.Exit(0)
	}()

	if err := srv.Start(); err != nil {
		log.Fatal("server error", "err", err)
	}
}
