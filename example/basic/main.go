package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/ghalamif/EcoGuard"
)

func main() {
	cfg, err := ecoguard.LoadConfig("../../data/config.yaml")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	rt, err := ecoguard.NewRuntime(cfg)
	if err != nil {
		log.Fatalf("build runtime: %v", err)
	}

	// open on the plant that needs attention
	if err := rt.Select("guindy"); err != nil {
		log.Fatalf("select facility: %v", err)
	}
	kpi := rt.Views().KPI
	log.Printf("%s: zeolite %d%%, %d days to replacement, status %s",
		kpi.FacilityName, kpi.Health, kpi.Days, kpi.Status)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rt.Run(ctx); err != nil && err != context.Canceled {
		log.Fatalf("dashboard runtime exited: %v", err)
	}
}
