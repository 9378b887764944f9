package transport

import (
	"context"
	"errors"
	"net/http"

	"connectrpc.com/connect"
	"go.uber.org/zap"
	"google.golang.org/protobuf/types/known/structpb"

	mgmt "github.com/axondata/go-mgmtbridge"
	"github.com/axondata/go-mgmtbridge/internal/endpoint"
)

type unaryFunc func(ctx context.Context, req *structpb.Struct) (map[string]any, error)

// Server binds the endpoints to Connect procedures
type Server struct {
	fw  *endpoint.Framework
	cfg *endpoint.Configuration
	log *zap.Logger
}

// NewServer creates a Server over the given endpoints
func NewServer(fw *endpoint.Framework, cfg *endpoint.Configuration, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{fw: fw, cfg: cfg, log: log}
}

// Handler returns an http.Handler serving every procedure
func (s *Server) Handler(opts ...connect.HandlerOption) http.Handler {
	mux := http.NewServeMux()
	for procedure, fn := range s.procedures() {
		mux.Handle(procedure, s.unary(procedure, fn, opts...))
	}
	return mux
}

func (s *Server) procedures() map[string]unaryFunc {
	return map[string]unaryFunc{
		InstallBundlesProcedure:        s.installBundles,
		InstallBundlesFromURLProcedure: s.installBundlesFromURL,
		StartBundlesProcedure:          s.byID(s.fw.StartBundles),
		StopBundlesProcedure:           s.byID(s.fw.StopBundles),
		UpdateBundlesProcedure:         s.byID(s.fw.UpdateBundles),
		UninstallBundlesProcedure:      s.byID(s.fw.UninstallBundles),
		UpdateBundlesFromURLProcedure:  s.updateBundlesFromURL,
		SetBundleStartLevelsProcedure:  s.setBundleStartLevels,
		RefreshBundlesProcedure:        s.refreshBundles,
		ResolveBundlesProcedure:        s.resolveBundles,
		ListBundlesProcedure:           s.listBundles,
		GetPropertiesProcedure:         s.getProperties,
		UpdateProcedure:                s.update,
		DeleteProcedure:                s.delete,
		ListConfigurationsProcedure:    s.listConfigurations,
	}
}

func (s *Server) unary(procedure string, fn unaryFunc, opts ...connect.HandlerOption) http.Handler {
	return connect.NewUnaryHandler(procedure,
		func(ctx context.Context, req *connect.Request[structpb.Struct]) (*connect.Response[structpb.Struct], error) {
			out, err := fn(ctx, req.Msg)
			if err != nil {
				return nil, s.toConnectError(procedure, err)
			}
			msg, err := structpb.NewStruct(out)
			if err != nil {
				return nil, s.toConnectError(procedure, err)
			}
			return connect.NewResponse(msg), nil
		},
		opts...,
	)
}

func (s *Server) toConnectError(procedure string, err error) error {
	if errors.Is(err, errBadRequest) {
		return connect.NewError(connect.CodeInvalidArgument, err)
	}
	switch endpoint.Classify(err) {
	case endpoint.ClassInvalidArgument:
		return connect.NewError(connect.CodeInvalidArgument, err)
	case endpoint.ClassNotFound:
		return connect.NewError(connect.CodeNotFound, err)
	default:
		s.log.Warn("procedure failed", zap.String("procedure", procedure), zap.Error(err))
		return connect.NewError(connect.CodeInternal, err)
	}
}

func (s *Server) byID(op func(context.Context, []int64) mgmt.Record) unaryFunc {
	return func(ctx context.Context, req *structpb.Struct) (map[string]any, error) {
		ids, err := int64s(req, FieldIdentifiers)
		if err != nil {
			return nil, err
		}
		return op(ctx, ids), nil
	}
}

func (s *Server) installBundles(ctx context.Context, req *structpb.Struct) (map[string]any, error) {
	locs, err := strs(req, FieldLocations)
	if err != nil {
		return nil, err
	}
	return s.fw.InstallBundles(ctx, locs), nil
}

func (s *Server) installBundlesFromURL(ctx context.Context, req *structpb.Struct) (map[string]any, error) {
	locs, err := strs(req, FieldLocations)
	if err != nil {
		return nil, err
	}
	urls, err := strs(req, FieldURLs)
	if err != nil {
		return nil, err
	}
	return s.fw.InstallBundlesFromURL(ctx, locs, urls)
}

func (s *Server) updateBundlesFromURL(ctx context.Context, req *structpb.Struct) (map[string]any, error) {
	ids, err := int64s(req, FieldIdentifiers)
	if err != nil {
		return nil, err
	}
	urls, err := strs(req, FieldURLs)
	if err != nil {
		return nil, err
	}
	return s.fw.UpdateBundlesFromURL(ctx, ids, urls)
}

func (s *Server) setBundleStartLevels(ctx context.Context, req *structpb.Struct) (map[string]any, error) {
	ids, err := int64s(req, FieldIdentifiers)
	if err != nil {
		return nil, err
	}
	levels, err := int32s(req, FieldLevels)
	if err != nil {
		return nil, err
	}
	return s.fw.SetBundleStartLevels(ctx, ids, levels)
}

func (s *Server) refreshBundles(ctx context.Context, req *structpb.Struct) (map[string]any, error) {
	ids, err := int64s(req, FieldIdentifiers)
	if err != nil {
		return nil, err
	}
	return map[string]any{}, s.fw.RefreshBundles(ctx, ids)
}

func (s *Server) resolveBundles(ctx context.Context, req *structpb.Struct) (map[string]any, error) {
	ids, err := int64s(req, FieldIdentifiers)
	if err != nil {
		return nil, err
	}
	ok, err := s.fw.ResolveBundles(ctx, ids)
	if err != nil {
		return nil, err
	}
	return map[string]any{FieldResolved: ok}, nil
}

func (s *Server) listBundles(ctx context.Context, _ *structpb.Struct) (map[string]any, error) {
	recs, err := s.fw.ListBundles(ctx)
	if err != nil {
		return nil, err
	}
	bundles := make([]any, len(recs))
	for i, r := range recs {
		bundles[i] = map[string]any(r)
	}
	return map[string]any{FieldBundles: bundles}, nil
}

func (s *Server) getProperties(ctx context.Context, req *structpb.Struct) (map[string]any, error) {
	pid, err := str(req, FieldPID)
	if err != nil {
		return nil, err
	}
	rows, err := s.cfg.GetProperties(ctx, pid)
	if err != nil {
		return nil, err
	}
	return map[string]any{FieldPID: pid, FieldProperties: PropertyList(rows)}, nil
}

func (s *Server) update(ctx context.Context, req *structpb.Struct) (map[string]any, error) {
	pid, err := str(req, FieldPID)
	if err != nil {
		return nil, err
	}
	rows, err := propertyRows(req, FieldProperties)
	if err != nil {
		return nil, err
	}
	return map[string]any{}, s.cfg.Update(ctx, pid, rows)
}

func (s *Server) delete(ctx context.Context, req *structpb.Struct) (map[string]any, error) {
	pid, err := str(req, FieldPID)
	if err != nil {
		return nil, err
	}
	return map[string]any{}, s.cfg.Delete(ctx, pid)
}

func (s *Server) listConfigurations(ctx context.Context, _ *structpb.Struct) (map[string]any, error) {
	return map[string]any{FieldPIDs: mgmt.List(s.cfg.ListConfigurations(ctx))}, nil
}
