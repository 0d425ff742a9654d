// Service descriptor and client for the config administration API
package server

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// ServiceName is the fully-qualified gRPC service name
const ServiceName = "ftsconfig.v1.ConfigService"

// Method names
const (
	MethodGetSettings         = "GetSettings"
	MethodSetValue            = "SetValue"
	MethodSetList             = "SetList"
	MethodAddListItem         = "AddListItem"
	MethodRemoveListItem      = "RemoveListItem"
	MethodSetCacheExpiryRules = "SetCacheExpiryRules"
	MethodReload              = "Reload"
	MethodSave                = "Save"
	MethodGetDocument         = "GetDocument"
)

// ConfigServiceServer is the server API for the config service.
// Messages are protobuf well-known types so no generated code is needed.
type ConfigServiceServer interface {
	GetSettings(context.Context, *emptypb.Empty) (*structpb.Struct, error)
	SetValue(context.Context, *structpb.Struct) (*emptypb.Empty, error)
	SetList(context.Context, *structpb.Struct) (*emptypb.Empty, error)
	AddListItem(context.Context, *structpb.Struct) (*emptypb.Empty, error)
	RemoveListItem(context.Context, *structpb.Struct) (*emptypb.Empty, error)
	SetCacheExpiryRules(context.Context, *structpb.Struct) (*emptypb.Empty, error)
	Reload(context.Context, *emptypb.Empty) (*structpb.Struct, error)
	Save(context.Context, *emptypb.Empty) (*wrapperspb.BoolValue, error)
	GetDocument(context.Context, *emptypb.Empty) (*wrapperspb.StringValue, error)
}

func fullMethod(method string) string {
	return "/" + ServiceName + "/" + method
}

type unaryHandler = func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error)

func unary[Req any, Resp any](method string, call func(ConfigServiceServer, context.Context, *Req) (Resp, error)) unaryHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(ConfigServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: fullMethod(method),
		}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(ConfigServiceServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// ConfigServiceDesc describes the config service for grpc.Server.RegisterService
var ConfigServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*ConfigServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: MethodGetSettings, Handler: unary(MethodGetSettings, ConfigServiceServer.GetSettings)},
		{MethodName: MethodSetValue, Handler: unary(MethodSetValue, ConfigServiceServer.SetValue)},
		{MethodName: MethodSetList, Handler: unary(MethodSetList, ConfigServiceServer.SetList)},
		{MethodName: MethodAddListItem, Handler: unary(MethodAddListItem, ConfigServiceServer.AddListItem)},
		{MethodName: MethodRemoveListItem, Handler: unary(MethodRemoveListItem, ConfigServiceServer.RemoveListItem)},
		{MethodName: MethodSetCacheExpiryRules, Handler: unary(MethodSetCacheExpiryRules, ConfigServiceServer.SetCacheExpiryRules)},
		{MethodName: MethodReload, Handler: unary(MethodReload, ConfigServiceServer.Reload)},
		{MethodName: MethodSave, Handler: unary(MethodSave, ConfigServiceServer.Save)},
		{MethodName: MethodGetDocument, Handler: unary(MethodGetDocument, ConfigServiceServer.GetDocument)},
	},
	Streams: []grpc.StreamDesc{},
}

// RegisterConfigServiceServer registers srv with s
func RegisterConfigServiceServer(s grpc.ServiceRegistrar, srv ConfigServiceServer) {
	s.RegisterService(&ConfigServiceDesc, srv)
}

// ConfigServiceClient calls the config service
type ConfigServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewConfigServiceClient creates a client over cc
func NewConfigServiceClient(cc grpc.ClientConnInterface) *ConfigServiceClient {
	return &ConfigServiceClient{cc: cc}
}

func (c *ConfigServiceClient) invoke(ctx context.Context, method string, in, out any, opts ...grpc.CallOption) error {
	return c.cc.Invoke(ctx, fullMethod(method), in, out, opts...)
}

// GetSettings returns the flattened settings
func (c *ConfigServiceClient) GetSettings(ctx context.Context, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.invoke(ctx, MethodGetSettings, &emptypb.Empty{}, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// SetValue writes a scalar field into the document
func (c *ConfigServiceClient) SetValue(ctx context.Context, field string, value any, opts ...grpc.CallOption) error {
	in, err := structpb.NewStruct(map[string]any{"field": field, "value": value})
	if err != nil {
		return err
	}
	return c.invoke(ctx, MethodSetValue, in, new(emptypb.Empty), opts...)
}

// SetList replaces a list in the document
func (c *ConfigServiceClient) SetList(ctx context.Context, list string, values []string, opts ...grpc.CallOption) error {
	in, err := structpb.NewStruct(map[string]any{"list": list, "values": stringsToAny(values)})
	if err != nil {
		return err
	}
	return c.invoke(ctx, MethodSetList, in, new(emptypb.Empty), opts...)
}

// AddListItem adds a value to a flattened list
func (c *ConfigServiceClient) AddListItem(ctx context.Context, list, value string, opts ...grpc.CallOption) error {
	return c.listItem(ctx, MethodAddListItem, list, value, opts...)
}

// RemoveListItem removes a value from a flattened list
func (c *ConfigServiceClient) RemoveListItem(ctx context.Context, list, value string, opts ...grpc.CallOption) error {
	return c.listItem(ctx, MethodRemoveListItem, list, value, opts...)
}

func (c *ConfigServiceClient) listItem(ctx context.Context, method, list, value string, opts ...grpc.CallOption) error {
	in, err := structpb.NewStruct(map[string]any{"list": list, "value": value})
	if err != nil {
		return err
	}
	return c.invoke(ctx, method, in, new(emptypb.Empty), opts...)
}

// SetCacheExpiryRules replaces the rule list in the document. Each rule is a
// map with "expires" and optional "contentTypeAlias" and "xPath" keys.
func (c *ConfigServiceClient) SetCacheExpiryRules(ctx context.Context, rules []map[string]any, opts ...grpc.CallOption) error {
	items := make([]any, len(rules))
	for i, r := range rules {
		items[i] = r
	}
	in, err := structpb.NewStruct(map[string]any{"rules": items})
	if err != nil {
		return err
	}
	return c.invoke(ctx, MethodSetCacheExpiryRules, in, new(emptypb.Empty), opts...)
}

// Reload re-flattens the document and returns the settings
func (c *ConfigServiceClient) Reload(ctx context.Context, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.invoke(ctx, MethodReload, &emptypb.Empty{}, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// Save persists the document and reports whether it succeeded
func (c *ConfigServiceClient) Save(ctx context.Context, opts ...grpc.CallOption) (bool, error) {
	out := new(wrapperspb.BoolValue)
	if err := c.invoke(ctx, MethodSave, &emptypb.Empty{}, out, opts...); err != nil {
		return false, err
	}
	return out.GetValue(), nil
}

// GetDocument returns the in-memory XML document
func (c *ConfigServiceClient) GetDocument(ctx context.Context, opts ...grpc.CallOption) (string, error) {
	out := new(wrapperspb.StringValue)
	if err := c.invoke(ctx, MethodGetDocument, &emptypb.Empty{}, out, opts...); err != nil {
		return "", err
	}
	return out.GetValue(), nil
}

func stringsToAny(values []string) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}
