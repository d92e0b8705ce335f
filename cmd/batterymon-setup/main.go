package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/batterymon/batterymon/internal/interfaces/cli"
	apperrors "github.com/batterymon/batterymon/internal/shared/errors"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cli.NewRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "batterymon-setup: %v\n", err)
		stop()
		os.Exit(apperrors.ExitCode(err))
	}
}
