package grpc

// proto.go defines the gRPC server interface for bib.propensity.v1.PropensityService.
// Messages are plain structs carried by the JSON codec in codec.go until
// generated protobuf code replaces this file.

import (
	"context"

	grpclib "google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	serviceName                                   = "bib.propensity.v1.PropensityService"
	PropensityService_Predict_FullMethodName      = "/" + serviceName + "/Predict"
	PropensityService_ListFeatures_FullMethodName = "/" + serviceName + "/ListFeatures"
)

// PredictRequest represents the proto PredictRequest message.
type PredictRequest struct {
	Age       *int32   `json:"age"`
	Job       *string  `json:"job"`
	Marital   *string  `json:"marital"`
	Education *string  `json:"education"`
	Default   *string  `json:"default"`
	Balance   *float64 `json:"balance"`
	Housing   *string  `json:"housing"`
	Loan      *string  `json:"loan"`
	Contact   *string  `json:"contact"`
	Day       *int32   `json:"day"`
	Month     *string  `json:"month"`
	Campaign  *int32   `json:"campaign"`
	Pdays     *int32   `json:"pdays"`
	Previous  *int32   `json:"previous"`
	Poutcome  *string  `json:"poutcome"`
}

// PredictResponse represents the proto PredictResponse message.
type PredictResponse struct {
	Probability []float64 `json:"probability"`
	Prediction  int32     `json:"prediction"`
}

// ListFeaturesRequest represents the proto ListFeaturesRequest message.
type ListFeaturesRequest struct{}

// ListFeaturesResponse represents the proto ListFeaturesResponse message.
type ListFeaturesResponse struct {
	ModelFeatures []string `json:"model_features"`
}

// PropensityServiceServer is the server API for PropensityService.
type PropensityServiceServer interface {
	Predict(context.Context, *PredictRequest) (*PredictResponse, error)
	ListFeatures(context.Context, *ListFeaturesRequest) (*ListFeaturesResponse, error)
	mustEmbedUnimplementedPropensityServiceServer()
}

// UnimplementedPropensityServiceServer provides forward-compatible default implementations.
type UnimplementedPropensityServiceServer struct{}

func (UnimplementedPropensityServiceServer) Predict(context.Context, *PredictRequest) (*PredictResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method Predict not implemented")
}
func (UnimplementedPropensityServiceServer) ListFeatures(context.Context, *ListFeaturesRequest) (*ListFeaturesResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method ListFeatures not implemented")
}
func (UnimplementedPropensityServiceServer) mustEmbedUnimplementedPropensityServiceServer() {}

// RegisterPropensityServiceServer registers the PropensityServiceServer with the gRPC server.
func RegisterPropensityServiceServer(s grpclib.ServiceRegistrar, srv PropensityServiceServer) {
	s.RegisterService(&_PropensityService_serviceDesc, srv)
}

var _PropensityService_serviceDesc = grpclib.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*PropensityServiceServer)(nil),
	Methods: []grpclib.MethodDesc{
		{MethodName: "Predict", Handler: _PropensityService_Predict_Handler},
		{MethodName: "ListFeatures", Handler: _PropensityService_ListFeatures_Handler},
	},
	Streams:  []grpclib.StreamDesc{},
	Metadata: "bib/propensity/v1/propensity.proto",
}

func _PropensityService_Predict_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpclib.UnaryServerInterceptor) (interface{}, error) {
	in := new(PredictRequest)
	if err := dec(in); err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "invalid request: %v", err)
	}
	if interceptor == nil {
		return srv.(PropensityServiceServer).Predict(ctx, in)
	}
	info := &grpclib.UnaryServerInfo{
		Server:     srv,
		FullMethod: PropensityService_Predict_FullMethodName,
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(PropensityServiceServer).Predict(ctx, req.(*PredictRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _PropensityService_ListFeatures_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpclib.UnaryServerInterceptor) (interface{}, error) {
	in := new(ListFeaturesRequest)
	if err := dec(in); err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "invalid request: %v", err)
	}
	if interceptor == nil {
		return srv.(PropensityServiceServer).ListFeatures(ctx, in)
	}
	info := &grpclib.UnaryServerInfo{
		Server:     srv,
		FullMethod: PropensityService_ListFeatures_FullMethodName,
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(PropensityServiceServer).ListFeatures(ctx, req.(*ListFeaturesRequest))
	}
	return interceptor(ctx, in, info, handler)
}
