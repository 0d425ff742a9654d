// Package server implements the gRPC config administration service
package server

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/nainya/ftsconfig/pkg/config"
	"github.com/nainya/ftsconfig/pkg/settings"
)

// Server implements ConfigServiceServer over a config store
type Server struct {
	store *config.Store
}

var _ ConfigServiceServer = (*Server)(nil)

// NewServer creates a new gRPC server instance
func NewServer(store *config.Store) *Server {
	return &Server{store: store}
}

// ========== Read Operations ==========

func (s *Server) GetSettings(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	return settingsToStruct(s.store.Settings())
}

func (s *Server) GetDocument(ctx context.Context, _ *emptypb.Empty) (*wrapperspb.StringValue, error) {
	return wrapperspb.String(s.store.XML()), nil
}

// ========== Document Mutations ==========

func (s *Server) SetValue(ctx context.Context, req *structpb.Struct) (*emptypb.Empty, error) {
	field := req.GetFields()["field"].GetStringValue()
	if field == "" {
		return nil, status.Error(codes.InvalidArgument, "field is required")
	}

	value, err := scalarString(req.GetFields()["value"])
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "value: %v", err)
	}

	if err := s.store.SetField(field, value); err != nil {
		return nil, toStatus(err)
	}
	return &emptypb.Empty{}, nil
}

func (s *Server) SetList(ctx context.Context, req *structpb.Struct) (*emptypb.Empty, error) {
	list := req.GetFields()["list"].GetStringValue()
	if list == "" {
		return nil, status.Error(codes.InvalidArgument, "list is required")
	}

	values, err := stringList(req.GetFields()["values"])
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "values: %v", err)
	}

	if err := s.store.SetList(list, values); err != nil {
		return nil, toStatus(err)
	}
	return &emptypb.Empty{}, nil
}

func (s *Server) SetCacheExpiryRules(ctx context.Context, req *structpb.Struct) (*emptypb.Empty, error) {
	list, ok := req.GetFields()["rules"].GetKind().(*structpb.Value_ListValue)
	if !ok {
		return nil, status.Error(codes.InvalidArgument, "rules must be a list")
	}
	items := list.ListValue.GetValues()
	rules := make([]settings.CacheExpiryRule, 0, len(items))
	for i, item := range items {
		rule, err := ruleFromValue(item)
		if err != nil {
			return nil, status.Errorf(codes.InvalidArgument, "rules[%d]: %v", i, err)
		}
		rules = append(rules, rule)
	}

	s.store.SetCacheExpiryRules(rules)
	return &emptypb.Empty{}, nil
}

// ========== Flattened List Operations ==========

func (s *Server) AddListItem(ctx context.Context, req *structpb.Struct) (*emptypb.Empty, error) {
	list, value, err := listItem(req)
	if err != nil {
		return nil, err
	}
	if err := s.store.AddListItem(list, value); err != nil {
		return nil, toStatus(err)
	}
	return &emptypb.Empty{}, nil
}

func (s *Server) RemoveListItem(ctx context.Context, req *structpb.Struct) (*emptypb.Empty, error) {
	list, value, err := listItem(req)
	if err != nil {
		return nil, err
	}
	if err := s.store.RemoveListItem(list, value); err != nil {
		return nil, toStatus(err)
	}
	return &emptypb.Empty{}, nil
}

// ========== Persistence ==========

func (s *Server) Reload(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	s.store.LoadConfig()
	return settingsToStruct(s.store.Settings())
}

func (s *Server) Save(ctx context.Context, _ *emptypb.Empty) (*wrapperspb.BoolValue, error) {
	return wrapperspb.Bool(s.store.Save()), nil
}

// ========== Conversions ==========

func settingsToStruct(st settings.Settings) (*structpb.Struct, error) {
	rules := make([]any, len(st.CacheExpiryRules))
	for i, r := range st.CacheExpiryRules {
		rule := map[string]any{"expires": r.Expires}
		if r.ContentTypeAlias != "" {
			rule["contentTypeAlias"] = r.ContentTypeAlias
		}
		if r.XPath != "" {
			rule["xPath"] = r.XPath
		}
		rules[i] = rule
	}

	out, err := structpb.NewStruct(map[string]any{
		config.FieldEnabled:                 st.Enabled,
		config.FieldDefaultTitleField:       st.DefaultTitleField,
		config.FieldIndexingActiveKey:       st.IndexingActiveKey,
		config.FieldFullTextContentField:    st.FullTextContentField,
		config.FieldFullTextPathField:       st.FullTextPathField,
		config.FieldFullTextLastCachedField: st.FullTextLastCachedField,
		config.ListDisallowedContentTypes:   stringsToAny(st.DisallowedContentTypeAliases),
		config.ListDisallowedProperties:     stringsToAny(st.DisallowedPropertyAliases),
		config.ListXPathsToRemove:           stringsToAny(st.XPathsToRemove),
		"cacheExpiryRules":                  rules,
	})
	if err != nil {
		return nil, status.Errorf(codes.Internal, "failed to encode settings: %v", err)
	}
	return out, nil
}

func scalarString(v *structpb.Value) (string, error) {
	switch k := v.GetKind().(type) {
	case *structpb.Value_StringValue:
		return k.StringValue, nil
	case *structpb.Value_BoolValue:
		return strconv.FormatBool(k.BoolValue), nil
	default:
		return "", errors.New("must be a string or bool")
	}
}

func stringList(v *structpb.Value) ([]string, error) {
	if v == nil {
		return nil, nil
	}
	list, ok := v.GetKind().(*structpb.Value_ListValue)
	if !ok {
		return nil, errors.New("must be a list")
	}
	out := make([]string, 0, len(list.ListValue.GetValues()))
	for i, item := range list.ListValue.GetValues() {
		str, ok := item.GetKind().(*structpb.Value_StringValue)
		if !ok {
			return nil, fmt.Errorf("item %d must be a string", i)
		}
		out = append(out, str.StringValue)
	}
	return out, nil
}

func listItem(req *structpb.Struct) (string, string, error) {
	list := req.GetFields()["list"].GetStringValue()
	if list == "" {
		return "", "", status.Error(codes.InvalidArgument, "list is required")
	}
	value, ok := req.GetFields()["value"].GetKind().(*structpb.Value_StringValue)
	if !ok {
		return "", "", status.Error(codes.InvalidArgument, "value must be a string")
	}
	return list, value.StringValue, nil
}

func ruleFromValue(v *structpb.Value) (settings.CacheExpiryRule, error) {
	fields := v.GetStructValue().GetFields()
	if fields == nil {
		return settings.CacheExpiryRule{}, errors.New("must be an object")
	}

	num, ok := fields["expires"].GetKind().(*structpb.Value_NumberValue)
	if !ok {
		return settings.CacheExpiryRule{}, errors.New("expires is required")
	}
	expires := num.NumberValue
	if expires != math.Trunc(expires) || expires <= 0 || expires > math.MaxInt32 {
		return settings.CacheExpiryRule{}, fmt.Errorf("expires must be a positive integer, got %v", expires)
	}

	return settings.NewCacheExpiryRule(
		int(expires),
		fields["contentTypeAlias"].GetStringValue(),
		fields["xPath"].GetStringValue(),
	), nil
}

func toStatus(err error) error {
	switch {
	case errors.Is(err, config.ErrUnknownField),
		errors.Is(err, config.ErrUnknownList),
		errors.Is(err, config.ErrInvalidValue):
		return status.Error(codes.InvalidArgument, err.Error())
	default:
		return status.Error(codes.Internal, err.Error())
	}
}
