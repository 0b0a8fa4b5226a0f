package main

import (
	"context"
	"fmt"
	"log"
	"os/signal"
	"syscall"

	"github.com/ghalamif/EcoGuard"
)

func main() {
	flow, err := ecoguard.Conf("../../data/config.yaml")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sink, samples, closeSamples := ecoguard.NewChannelSink("alerts", 32)
	defer closeSamples()

	go alertWorker(samples, 145)

	if err := flow.Run(ctx, ecoguard.StreamOutSink(sink)); err != nil && err != context.Canceled {
		log.Fatalf("runtime error: %v", err)
	}
}

// alertWorker flags intake SO₂ readings at or above limit.
func alertWorker(samples <-chan ecoguard.Sample, limit float64) {
	for s := range samples {
		if v := s.Values["input_so2"]; v >= limit {
			fmt.Printf("[%s] intake SO2 %.0f >= %.0f\n", s.Time, v, limit)
		}
	}
}
