// Package server exposes detection, conversion and grid zone lookups over
// HTTP.
package server

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/kass/geoconv/pkg/config"
	"github.com/kass/geoconv/pkg/convert"
	"github.com/kass/geoconv/pkg/export"
	"github.com/kass/geoconv/pkg/format"
	"github.com/kass/geoconv/pkg/gzd"
	"github.com/kass/geoconv/pkg/mgrs"
	"github.com/kass/geoconv/pkg/models"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

const shutdownTimeout = 5 * time.Second

// Server is a chi router plus the stdlib http.Server that runs it.
type Server struct {
	conv    *convert.Converter
	zones   *gzd.Index
	metrics *Metrics
	mux     *chi.Mux
	srv     *http.Server
}

// New wires the routes. conv and zones are shared read-only across
// requests.
func New(cfg config.ServerConfig, conv *convert.Converter, zones *gzd.Index) *Server {
	s := &Server{
		conv:    conv,
		zones:   zones,
		metrics: NewMetrics(),
		mux:     chi.NewRouter(),
	}

	s.mux.Use(chimw.RealIP, chimw.RequestID, chimw.Recoverer)
	s.mux.Use(requestLogger)
	s.mux.Use(s.metrics.Middleware)
	s.mux.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		MaxAge:         300,
	}))

	s.mux.Get("/healthz", s.handleHealth)
	s.mux.Method(http.MethodGet, "/metrics", s.metrics.Handler())
	s.mux.Route("/v1", func(r chi.Router) {
		r.Get("/detect", s.handleDetect)
		r.Get("/convert", s.handleConvert)
		r.Get("/zones", s.handleZones)
		r.Get("/zones/at", s.handleZoneAt)
	})

	s.srv = &http.Server{
		Addr:              cfg.Addr,
		Handler:           s.mux,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       time.Duration(cfg.ReadTimeoutSecs) * time.Second,
		WriteTimeout:      time.Duration(cfg.WriteTimeoutSecs) * time.Second,
	}
	return s
}

// Handler returns the router.
func (s *Server) Handler() http.Handler { return s.mux }

// Run listens until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		zap.L().Info("http listening", zap.String("addr", s.srv.Addr))
		errCh <- s.srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return eris.Wrap(err, "server: listen")
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := s.srv.Shutdown(shutdownCtx); err != nil {
			return eris.Wrap(err, "server: shutdown")
		}
		return nil
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type detectResponse struct {
	Input  string                `json:"input"`
	Format models.DetectedFormat `json:"format"`
}

func (s *Server) handleDetect(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if strings.TrimSpace(q) == "" {
		writeError(w, http.StatusBadRequest, "query parameter q is required")
		return
	}
	writeJSON(w, http.StatusOK, detectResponse{Input: format.Normalize(q), Format: format.Classify(q)})
}

func (s *Server) handleConvert(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	var (
		res convert.Result
		err error
	)
	switch {
	case query.Get("q") != "":
		res, err = s.conv.Convert(query.Get("q"))
	case query.Get("lat") != "" || query.Get("lng") != "":
		var g models.GeographicCoordinate
		if g, err = convert.FromQuery(query.Get("lat"), query.Get("lng")); err == nil {
			res, err = s.conv.Describe(g)
		}
	default:
		writeError(w, http.StatusBadRequest, "query parameter q or lat and lng are required")
		return
	}
	if err != nil {
		writeFailure(w, r, err)
		return
	}
	s.metrics.conversions.WithLabelValues(res.Format.String()).Inc()

	switch query.Get("output") {
	case "", "json":
		writeJSON(w, http.StatusOK, res)
	case "geojson":
		data, err := export.GeoJSON(res)
		writeBody(w, r, "application/geo+json", data, err)
	case "wkt":
		text, err := export.WKT(res)
		writeBody(w, r, "text/plain; charset=utf-8", []byte(text+"\n"), err)
	case "yaml":
		data, err := export.YAML(res)
		writeBody(w, r, "application/yaml", data, err)
	default:
		writeError(w, http.StatusBadRequest, "output must be json, geojson, wkt or yaml")
	}
}

func (s *Server) handleZones(w http.ResponseWriter, r *http.Request) {
	box, err := models.ParseBoundingBox(r.URL.Query().Get("bbox"))
	if err != nil {
		writeFailure(w, r, err)
		return
	}
	zones, err := s.zones.QueryBox(box)
	if err != nil {
		writeFailure(w, r, err)
		return
	}
	data, err := export.ZonesGeoJSON(zones)
	writeBody(w, r, "application/geo+json", data, err)
}

func (s *Server) handleZoneAt(w http.ResponseWriter, r *http.Request) {
	g, err := convert.FromQuery(r.URL.Query().Get("lat"), r.URL.Query().Get("lng"))
	if err != nil {
		writeFailure(w, r, err)
		return
	}
	z, ok := s.zones.ZoneAt(g.Lat, g.Lon)
	if !ok {
		writeError(w, http.StatusNotFound, "no grid zone at "+g.String())
		return
	}
	writeJSON(w, http.StatusOK, zoneResponse{
		Designator: z.Designator(),
		Zone:       z.Number,
		Band:       string(z.Band),
		Bounds:     z.Bounds,
	})
}

type zoneResponse struct {
	Designator string             `json:"designator"`
	Zone       int                `json:"zone"`
	Band       string             `json:"band"`
	Bounds     models.BoundingBox `json:"bounds"`
}

// StatusFor maps an error to the HTTP status the API answers with.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, convert.ErrNeedsGeocoding):
		return http.StatusUnprocessableEntity
	case errors.Is(err, models.ErrMalformedInput),
		errors.Is(err, models.ErrOutOfRange),
		errors.Is(err, models.ErrInvalidZoneFormat),
		errors.Is(err, format.ErrUnrecognized),
		errors.Is(err, mgrs.ErrInvalidGrid),
		errors.Is(err, mgrs.ErrPolarRegion),
		errors.Is(err, mgrs.ErrPrecision):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeFailure(w http.ResponseWriter, r *http.Request, err error) {
	code := StatusFor(err)
	if code >= http.StatusInternalServerError {
		zap.L().Error("request failed",
			zap.String("path", r.URL.Path),
			zap.String("request_id", chimw.GetReqID(r.Context())),
			zap.Error(err),
		)
	}
	writeError(w, code, err.Error())
}

func writeBody(w http.ResponseWriter, r *http.Request, contentType string, data []byte, err error) {
	if err != nil {
		writeFailure(w, r, err)
		return
	}
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	data, err := export.JSON(v)
	if err != nil {
		zap.L().Error("encode response", zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(data)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}
