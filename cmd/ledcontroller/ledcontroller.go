package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/clambin/ledcontroller/internal/cmd"
	log "github.com/sirupsen/logrus"
)

var version = "change-me"

func main() {
	ctx, done := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer done()

	if err := cmd.Main(ctx, filepath.Base(os.Args[0]), version, os.Args[1:]); err != nil {
		log.WithError(err).Error("failed to run ledcontroller")
		done()
		os.Exit(1)
	}
}
