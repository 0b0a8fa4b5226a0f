package main

import (
	"context"
	"fmt"
	"log"
	"os/signal"
	"syscall"

	"github.com/ghalamif/EcoGuard/pkg/ecoguard"
)

func main() {
	flow, err := ecoguard.ConfFromConfig(ecoguard.DefaultConfig())
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	callback := func(s ecoguard.Sample) error {
		in, out := s.Values["input_so2"], s.Values["output_so2"]
		fmt.Printf("%s seq=%d so2 in=%.0f out=%.0f captured=%.1f%%\n",
			s.Time, s.Seq, in, out, 100*(in-out)/in)
		return nil
	}

	err = flow.
		Options(ecoguard.WithoutHTTP()).
		Run(ctx, ecoguard.StreamOutCallback("stdout", callback))
	if err != nil && err != context.Canceled {
		log.Fatalf("runtime error: %v", err)
	}
}
