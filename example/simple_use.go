package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/leandrodaf/pcspkr-midi/internal/logger"
	"github.com/leandrodaf/pcspkr-midi/internal/shutdown"
	"github.com/leandrodaf/pcspkr-midi/sdk/bridge"
	"github.com/leandrodaf/pcspkr-midi/sdk/contracts"
)

func main() {
	log := logger.NewZapLogger()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	b, err := bridge.New(shutdown.FromContext(ctx),
		contracts.WithLogger(log),
		contracts.WithLogLevel(contracts.DebugLevel),
		contracts.WithClientName("simple-use"),
	)
	if err != nil {
		log.Error("Failed to start the bridge", log.Field().Error("error", err))
		return
	}

	fmt.Println("Connect a keyboard to", b.Address(), "and play. Press Ctrl+C to exit.")
	if err := b.Run(); err != nil {
		log.Error("Bridge stopped with an error", log.Field().Error("error", err))
	}
}
