package server

import (
	"context"
	"net/http"

	"bjj-foundation/internal/catalog"
	"bjj-foundation/internal/service"

	"connectrpc.com/connect"
)

const (
	CatalogServiceName = "catalog.v1.CatalogService"

	CatalogServiceSearchProcedure = "/catalog.v1.CatalogService/Search"
	CatalogServiceFacetsProcedure = "/catalog.v1.CatalogService/Facets"
)

type FacetsRequest struct{}

type CatalogServer struct {
	svc *service.CatalogService
}

func NewCatalogServer(svc *service.CatalogService) *CatalogServer {
	return &CatalogServer{svc: svc}
}

func (s *CatalogServer) Search(ctx context.Context, req *connect.Request[service.SearchRequest]) (*connect.Response[service.SearchResult], error) {
	res, err := s.svc.Search(ctx, *req.Msg)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(res), nil
}

func (s *CatalogServer) Facets(ctx context.Context, _ *connect.Request[FacetsRequest]) (*connect.Response[catalog.FacetIndex], error) {
	idx, err := s.svc.Facets(ctx)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&idx), nil
}

// NewCatalogHandler returns the mount path and handler for the catalog
// procedures.
func NewCatalogHandler(srv *CatalogServer, opts ...connect.HandlerOption) (string, http.Handler) {
	search := connect.NewUnaryHandler(CatalogServiceSearchProcedure, srv.Search, handlerOptions(opts...)...)
	facets := connect.NewUnaryHandler(CatalogServiceFacetsProcedure, srv.Facets, handlerOptions(opts...)...)

	return "/" + CatalogServiceName + "/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case CatalogServiceSearchProcedure:
			search.ServeHTTP(w, r)
		case CatalogServiceFacetsProcedure:
			facets.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}
