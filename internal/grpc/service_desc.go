package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the fully-qualified gRPC service name.
const ServiceName = "tagrader.v1.GradeReport"

const (
	methodRegisterGradeResult = "/" + ServiceName + "/RegisterGradeResult"
	methodGradeSubmission     = "/" + ServiceName + "/GradeSubmission"
	methodBuildReport         = "/" + ServiceName + "/BuildReport"
)

// GradeReportServer is the server API for the GradeReport service. Requests
// and responses are well-known Struct messages so no generated code is
// needed on either side.
type GradeReportServer interface {
	RegisterGradeResult(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	GradeSubmission(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	BuildReport(ctx context.Context, req *emptypb.Empty) (*structpb.Struct, error)
}

// RegisterGradeReportServer registers srv on any grpc.ServiceRegistrar.
func RegisterGradeReportServer(s grpc.ServiceRegistrar, srv GradeReportServer) {
	s.RegisterService(&GradeReportServiceDesc, srv)
}

var GradeReportServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*GradeReportServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "RegisterGradeResult", Handler: registerGradeResultHandler},
		{MethodName: "GradeSubmission", Handler: gradeSubmissionHandler},
		{MethodName: "BuildReport", Handler: buildReportHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: protoFile,
}

func registerGradeResultHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(GradeReportServer).RegisterGradeResult(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: methodRegisterGradeResult}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(GradeReportServer).RegisterGradeResult(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

func gradeSubmissionHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(GradeReportServer).GradeSubmission(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: methodGradeSubmission}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(GradeReportServer).GradeSubmission(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

func buildReportHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(GradeReportServer).BuildReport(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: methodBuildReport}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(GradeReportServer).BuildReport(ctx, req.(*emptypb.Empty))
	}
	return interceptor(ctx, in, info, handler)
}

// GradeReportClient calls the GradeReport service.
type GradeReportClient struct {
	cc grpc.ClientConnInterface
}

func NewGradeReportClient(cc grpc.ClientConnInterface) *GradeReportClient {
	return &GradeReportClient{cc: cc}
}

func (c *GradeReportClient) RegisterGradeResult(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, methodRegisterGradeResult, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *GradeReportClient) GradeSubmission(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, methodGradeSubmission, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *GradeReportClient) BuildReport(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, methodBuildReport, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
