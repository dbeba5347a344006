package server

import (
	"context"
	"log/slog"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// NewGRPCServer wires the quotation service and the standard health service.
// Health starts NOT_SERVING; call MarkServing once the model is ready.
func NewGRPCServer(svc QuotationServer, logger *slog.Logger) (*grpc.Server, *health.Server) {
	if logger == nil {
		logger = slog.Default()
	}
	s := grpc.NewServer(grpc.UnaryInterceptor(loggingInterceptor(logger)))
	hs := health.NewServer()
	healthpb.RegisterHealthServer(s, hs)
	hs.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)
	hs.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_NOT_SERVING)
	RegisterQuotationServer(s, svc)
	return s, hs
}

// MarkServing flips both the overall and the quotation service health to SERVING.
func MarkServing(hs *health.Server) {
	hs.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	hs.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_SERVING)
}

func loggingInterceptor(logger *slog.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		if err != nil {
			logger.Warn("rpc failed", "method", info.FullMethod, "duration_ms", time.Since(start).Milliseconds(), "error", err)
		} else {
			logger.Debug("rpc ok", "method", info.FullMethod, "duration_ms", time.Since(start).Milliseconds())
		}
		return resp, err
	}
}
