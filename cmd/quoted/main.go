package main

import (
	"context"
	"errors"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"

	"github.com/joseph-ayodele/quotation-engine/internal/app"
	"github.com/joseph-ayodele/quotation-engine/internal/common"
	"github.com/joseph-ayodele/quotation-engine/internal/server"
)

func main() {
	cfg := common.LoadConfig()
	logger := common.NewLogger(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	lis, err := net.Listen("tcp", cfg.Server.GRPCAddr)
	if err != nil {
		logger.Error("listen", "addr", cfg.Server.GRPCAddr, "error", err)
		os.Exit(1)
	}

	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		logger.Error("startup failed", "error", err)
		os.Exit(1)
	}
	defer a.Close()

	svc := server.NewQuotationService(a.Processor, a.Quotations, logger)
	grpcServer, hs := server.NewGRPCServer(svc, logger)
	server.MarkServing(hs)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("gRPC serving", "addr", cfg.Server.GRPCAddr)
		if err := grpcServer.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down...")
		hs.Shutdown()
		gracefulStop(grpcServer, cfg.Server.ShutdownTimeout)
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("grpc serve", "error", err)
		a.Close()
		os.Exit(1)
	}
	logger.Info("stopped")
}

// gracefulStop drains in-flight RPCs, forcing a stop after timeout.
func gracefulStop(s *grpc.Server, timeout time.Duration) {
	done := make(chan struct{})
	go func() {
		s.GracefulStop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(timeout):
		s.Stop()
	}
}
