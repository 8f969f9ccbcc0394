// Package graceful funnels process shutdown: on SIGINT/SIGTERM every
// registered operation runs concurrently, and the process gets killed if
// they do not finish within the timeout.
package graceful

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/ajinkyagorad/fb-events-map/internal/utils/logger/sl"
)

type Operation func(ctx context.Context) error

// GracefulShutdown returns a channel that closes once every operation has
// finished after a termination signal.
func GracefulShutdown(ctx context.Context, timeout time.Duration, operations map[string]Operation, logger *slog.Logger) <-chan struct{} {
	wait := make(chan struct{})

	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		<-sig

		logger.Info("shutting down", slog.String("timeout", timeout.String()))

		killswitch := time.AfterFunc(timeout, func() {
			logger.Error("shutdown timed out, forcing exit")
			os.Exit(1)
		})
		defer killswitch.Stop()

		ctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		var wg sync.WaitGroup
		for name, op := range operations {
			wg.Add(1)
			go func(name string, op Operation) {
				defer wg.Done()
				if err := op(ctx); err != nil {
					logger.Error("shutdown operation failed",
						slog.String("operation", name), sl.Err(err))
					return
				}
				logger.Info("shutdown operation finished", slog.String("operation", name))
			}(name, op)
		}
		wg.Wait()
		close(wait)
	}()

	return wait
}
