package server

import (
	"bytes"
	"io"
	"net/http"
	"net/url"

	"bjj-foundation/internal/catalog"
	"bjj-foundation/internal/render"
	"bjj-foundation/internal/service"

	"connectrpc.com/connect"
	"github.com/rs/zerolog"
)

const loadFailedMessage = "Failed to load videos. Please check that the techniques source is available."

// HealthHandler reports liveness only; a failed dataset load still answers ok.
func HealthHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = io.WriteString(w, `{"status":"ok"}`)
	})
}

// filterStateFromQuery reads the filter form's GET parameters.
func filterStateFromQuery(q url.Values) catalog.FilterState {
	state := catalog.FilterState{
		Channel:     q.Get("channel"),
		Athlete:     q.Get("athlete"),
		SearchQuery: q.Get("q"),
	}
	for _, ff := range catalog.FacetFilters {
		ff.Set(&state, q.Get(ff.Key))
	}
	return state
}

// PageHandler serves the server-rendered catalog page at "/".
func PageHandler(svc *service.CatalogService) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			w.Header().Set("Allow", "GET, HEAD")
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		logger := zerolog.Ctx(r.Context())

		if err := svc.Ready(); err != nil {
			writePage(w, http.StatusServiceUnavailable, func(buf *bytes.Buffer) error {
				return render.WriteErrorHTML(buf, loadFailedMessage)
			}, logger)
			return
		}

		state := filterStateFromQuery(r.URL.Query())
		res, err := svc.Search(r.Context(), service.SearchRequest{FilterState: state})
		if err != nil {
			logger.Error().Err(err).Msg("search failed")
			http.Error(w, "search failed", http.StatusInternalServerError)
			return
		}
		idx, err := svc.Facets(r.Context())
		if err != nil {
			logger.Error().Err(err).Msg("facets failed")
			http.Error(w, "search failed", http.StatusInternalServerError)
			return
		}

		view := render.NewView(res.Page, idx, res.State)
		writePage(w, http.StatusOK, func(buf *bytes.Buffer) error {
			return render.WriteHTML(buf, view)
		}, logger)
	})
}

// writePage buffers the render so a failure can still send a 500.
func writePage(w http.ResponseWriter, status int, fill func(*bytes.Buffer) error, logger *zerolog.Logger) {
	var buf bytes.Buffer
	if err := fill(&buf); err != nil {
		logger.Error().Err(err).Msg("failed to render page")
		http.Error(w, "failed to render page", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// NewHandler mounts the RPC procedures, the catalog page and the health check.
func NewHandler(catalogSrv *CatalogServer, quizSrv *QuizServer, svc *service.CatalogService, opts ...connect.HandlerOption) *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle(NewCatalogHandler(catalogSrv, opts...))
	mux.Handle(NewQuizHandler(quizSrv, opts...))
	mux.Handle("/health", HealthHandler())
	mux.Handle("/", PageHandler(svc))
	return mux
}
