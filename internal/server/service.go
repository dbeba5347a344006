package server

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/joseph-ayodele/quotation-engine/internal/common"
	"github.com/joseph-ayodele/quotation-engine/internal/entity"
	"github.com/joseph-ayodele/quotation-engine/internal/pipeline"
	"github.com/joseph-ayodele/quotation-engine/internal/quote"
	"github.com/joseph-ayodele/quotation-engine/internal/repository"
)

const (
	ServiceName        = "quotation.v1.QuotationService"
	QuoteMethod        = "/" + ServiceName + "/Quote"
	GetQuotationMethod = "/" + ServiceName + "/GetQuotation"
)

// QuotationServer is the server API for the quotation service. Messages travel as
// google.protobuf.Struct.
type QuotationServer interface {
	Quote(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	GetQuotation(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
}

type QuotationService struct {
	processor  *pipeline.Processor
	quotations repository.QuotationRepository // nil when persistence is off
	logger     *slog.Logger
}

func NewQuotationService(proc *pipeline.Processor, quotations repository.QuotationRepository, logger *slog.Logger) *QuotationService {
	if logger == nil {
		logger = slog.Default()
	}
	return &QuotationService{processor: proc, quotations: quotations, logger: logger}
}

// Quote implements QuotationServer. Request: {document_path}.
func (s *QuotationService) Quote(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	path := strings.TrimSpace(stringField(req, "document_path"))
	if path == "" {
		s.logger.Error("quote request missing document_path")
		return nil, status.Error(codes.InvalidArgument, "document_path is required")
	}

	start := time.Now()
	res, err := s.processor.Process(ctx, path)
	if err != nil {
		s.logger.Error("quote failed", "path", path, "error", err)
		return nil, common.ToStatus(common.WrapError(err, "quote "+path))
	}
	s.logger.Info("quote served", "quotation_id", res.Quotation.ID, "duration_ms", time.Since(start).Milliseconds())
	return quotationStruct(res.Quotation)
}

// GetQuotation implements QuotationServer. Request: {id}.
func (s *QuotationService) GetQuotation(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	if s.quotations == nil {
		return nil, status.Error(codes.FailedPrecondition, "quotation store is not configured")
	}
	raw := strings.TrimSpace(stringField(req, "id"))
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, common.StatusErrorf(codes.InvalidArgument, "id must be a UUID: %q", raw)
	}
	q, err := s.quotations.GetByID(ctx, id)
	if err != nil {
		s.logger.Warn("get quotation failed", "quotation_id", id, "error", err)
		return nil, common.ToStatus(err)
	}
	return quotationStruct(q)
}

func stringField(req *structpb.Struct, key string) string {
	if req == nil {
		return ""
	}
	return req.GetFields()[key].GetStringValue()
}

func quotationStruct(q *entity.Quotation) (*structpb.Struct, error) {
	m := map[string]any{
		"id":            q.ID.String(),
		"document_path": q.DocumentPath,
		"status":        string(q.Status),
		"amount":        q.Amount.StringFixed(2),
		"line":          quote.FormatLine(q.Amount),
		"created_at":    q.CreatedAt.UTC().Format(time.RFC3339Nano),
		"fields": map[string]any{
			"cedant":          q.Cedant,
			"broker":          q.Broker,
			"period_of_cover": q.PeriodOfCover,
			"gross_fees":      q.GrossFees,
		},
	}
	if q.ErrorMessage != nil {
		m["error_message"] = *q.ErrorMessage
	}
	out, err := structpb.NewStruct(m)
	if err != nil {
		return nil, common.StatusErrorf(codes.Internal, "encode quotation: %v", err)
	}
	return out, nil
}

func _QuotationService_Quote_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(QuotationServer).Quote(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: QuoteMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(QuotationServer).Quote(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

func _QuotationService_GetQuotation_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(QuotationServer).GetQuotation(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: GetQuotationMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(QuotationServer).GetQuotation(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

// QuotationServiceDesc describes the service for grpc.Server registration.
var QuotationServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*QuotationServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Quote", Handler: _QuotationService_Quote_Handler},
		{MethodName: "GetQuotation", Handler: _QuotationService_GetQuotation_Handler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "quotation/v1/quotation.proto",
}

func RegisterQuotationServer(s grpc.ServiceRegistrar, srv QuotationServer) {
	s.RegisterService(&QuotationServiceDesc, srv)
}

// QuotationClient is a thin client for QuotationServer.
type QuotationClient struct {
	cc grpc.ClientConnInterface
}

func NewQuotationClient(cc grpc.ClientConnInterface) *QuotationClient {
	return &QuotationClient{cc: cc}
}

func (c *QuotationClient) Quote(ctx context.Context, documentPath string, opts ...grpc.CallOption) (*structpb.Struct, error) {
	in, err := structpb.NewStruct(map[string]any{"document_path": documentPath})
	if err != nil {
		return nil, err
	}
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, QuoteMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *QuotationClient) GetQuotation(ctx context.Context, id string, opts ...grpc.CallOption) (*structpb.Struct, error) {
	in, err := structpb.NewStruct(map[string]any{"id": id})
	if err != nil {
		return nil, err
	}
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, GetQuotationMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
