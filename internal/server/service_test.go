package server

import (
	"context"
	"io"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	"github.com/joseph-ayodele/quotation-engine/internal/document"
	"github.com/joseph-ayodele/quotation-engine/internal/extract"
	"github.com/joseph-ayodele/quotation-engine/internal/pipeline"
	"github.com/joseph-ayodele/quotation-engine/internal/quote"
	"github.com/joseph-ayodele/quotation-engine/internal/repository"
)

type constModel float64

func (c constModel) Predict([]float64) (float64, error) { return float64(c), nil }

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestService(t *testing.T) *QuotationService {
	t.Helper()
	logger := quietLogger()
	db, err := repository.Open(context.Background(), repository.Config{DSN: filepath.Join(t.TempDir(), "q.db")}, logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	repo := repository.NewQuotationRepository(db, logger)

	text := extract.NewDocumentAdapter(document.NewExtractor(document.Config{}, logger), logger)
	proc := pipeline.NewProcessor(logger, text, nil, quote.NewQuoter(constModel(99.999), nil, logger), repo)
	return NewQuotationService(proc, repo, logger)
}

func dial(t *testing.T, svc QuotationServer) (*grpc.ClientConn, func()) {
	t.Helper()
	lis := bufconn.Listen(1 << 20)
	s, hs := NewGRPCServer(svc, quietLogger())
	MarkServing(hs)
	go func() { _ = s.Serve(lis) }()

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) { return lis.DialContext(ctx) }),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	return conn, func() {
		_ = conn.Close()
		s.Stop()
	}
}

func writeProposal(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "acme.txt")
	body := "Cedant: Acme Ltd\nBroker: XYZ Brokers\n\fPeriod of Cover: 2024-01-01 to 2024-12-31\nGross Fees: 50,000\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestQuoteOverGRPC(t *testing.T) {
	conn, stop := dial(t, newTestService(t))
	defer stop()
	client := NewQuotationClient(conn)
	ctx := context.Background()

	resp, err := client.Quote(ctx, writeProposal(t))
	require.NoError(t, err)

	got := resp.AsMap()
	assert.Equal(t, "100.00", got["amount"])
	assert.Equal(t, "Generated Quotation: KSh. 100.00", got["line"])
	assert.Equal(t, "ISSUED", got["status"])
	fields := got["fields"].(map[string]any)
	assert.Equal(t, "Acme Ltd", fields["cedant"])
	assert.Equal(t, "50,000", fields["gross_fees"])

	again, err := client.GetQuotation(ctx, got["id"].(string))
	require.NoError(t, err)
	assert.Equal(t, got["id"], again.AsMap()["id"])

	health, err := healthpb.NewHealthClient(conn).Check(ctx, &healthpb.HealthCheckRequest{Service: ServiceName})
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, health.GetStatus())
}

func TestQuoteRejectsMissingPath(t *testing.T) {
	_, err := newTestService(t).Quote(context.Background(), nil)
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}

func TestQuoteUnreadableDocumentIsInternal(t *testing.T) {
	conn, stop := dial(t, newTestService(t))
	defer stop()

	_, err := NewQuotationClient(conn).Quote(context.Background(), filepath.Join(t.TempDir(), "missing.txt"))
	assert.Equal(t, codes.Internal, status.Code(err))
}

func TestGetQuotationErrors(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := clientFor(t, svc).GetQuotation(ctx, "not-a-uuid")
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	_, err = clientFor(t, svc).GetQuotation(ctx, "7d1c1c8e-3a4c-4d1e-9a55-3f2f7f4b8a10")
	assert.Equal(t, codes.NotFound, status.Code(err))

	noStore := NewQuotationService(nil, nil, quietLogger())
	_, err = noStore.GetQuotation(ctx, nil)
	assert.Equal(t, codes.FailedPrecondition, status.Code(err))
}

func clientFor(t *testing.T, svc QuotationServer) *QuotationClient {
	t.Helper()
	conn, stop := dial(t, svc)
	t.Cleanup(stop)
	return NewQuotationClient(conn)
}
