package httpapi

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"

	"github.com/atvirokodosprendimai/eventdesk/internal/adapters/metrics"
	"github.com/atvirokodosprendimai/eventdesk/internal/core/domain"
	"github.com/atvirokodosprendimai/eventdesk/internal/core/ports"
	"github.com/atvirokodosprendimai/eventdesk/internal/core/usecase"
)

const (
	maxJSONBodySize = 1 << 20
	dayLayout       = "2006-01-02"
	monthLayout     = "2006-01"
	timelineMonths  = 7
	recentEvents    = 5
	maxCalendarDays = 366
)

type Handler struct {
	store    *usecase.EventStore
	session  *usecase.SessionHolder
	schemas  *schemaSet
	metrics  *metrics.Metrics
	gatherer prometheus.Gatherer
	clock    ports.Clock
	loc      *time.Location
}

type Option func(*Handler)

// WithMetrics records request latency on m and serves gatherer at /metrics.
func WithMetrics(m *metrics.Metrics, gatherer prometheus.Gatherer) Option {
	return func(h *Handler) {
		h.metrics = m
		h.gatherer = gatherer
	}
}

// WithLocation sets the time zone used for calendar days and months.
func WithLocation(loc *time.Location) Option {
	return func(h *Handler) { h.loc = loc }
}

func WithClock(clock ports.Clock) Option {
	return func(h *Handler) { h.clock = clock }
}

func NewHandler(store *usecase.EventStore, session *usecase.SessionHolder, opts ...Option) (*Handler, error) {
	schemas, err := newSchemaSet()
	if err != nil {
		return nil, err
	}
	h := &Handler{
		store:   store,
		session: session,
		schemas: schemas,
		clock:   usecase.ClockFunc(time.Now),
		loc:     time.UTC,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h, nil
}

func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(h.observe)

	r.Get("/healthz", h.healthz)
	r.Get("/openapi.json", h.openapi)
	if h.gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(h.gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/v1", func(r chi.Router) {
		r.Post("/session", h.login)
		r.Get("/session", h.currentSession)
		r.Delete("/session", h.logout)

		r.Get("/events", h.listEvents)
		r.Post("/events", h.createEvent)
		r.Get("/events/{id}", h.getEvent)
		r.Put("/events/{id}", h.updateEvent)
		r.Delete("/events/{id}", h.deleteEvent)

		r.Get("/calendar", h.calendar)
		r.Get("/participants", h.participants)

		r.Get("/users", h.listUsers)
		r.Post("/users", h.createUser)
		r.Put("/users/{id}", h.updateUser)
		r.Delete("/users/{id}", h.deleteUser)

		r.Get("/notifications", h.listNotifications)
		r.Patch("/notifications/{id}", h.patchNotification)
		r.Delete("/notifications/{id}", h.deleteNotification)

		r.Get("/audit-logs", h.auditLogs)
		r.Get("/dashboard", h.dashboard)
		r.Get("/reports", h.report)
	})

	return r
}

func (h *Handler) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) openapi(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, openapiSpec())
}

// observe logs every request and feeds the latency histogram, labelled by
// route pattern rather than raw path.
func (h *Handler) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		route := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		if h.metrics != nil {
			h.metrics.ObserveRequest(r.Method, route, status, start)
		}
		log.WithFields(log.Fields{
			"method":     r.Method,
			"route":      route,
			"status":     status,
			"duration":   time.Since(start).String(),
			"request_id": middleware.GetReqID(r.Context()),
		}).Debug("request served")
	})
}

// decode reads a JSON body strictly into dst and then checks it against the
// named schema.
func (h *Handler) decode(w http.ResponseWriter, r *http.Request, schema string, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBodySize)
	raw, err := io.ReadAll(r.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return false
		}
		writeError(w, http.StatusBadRequest, "invalid json body")
		return false
	}

	decoder := json.NewDecoder(bytes.NewReader(raw))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return false
	}
	if err := ensureEOF(decoder); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return false
	}
	if err := h.schemas.Validate(schema, raw); err != nil {
		handleDomainError(w, err)
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	data, err := json.Marshal(body)
	if err != nil {
		log.WithError(err).Error("encode json response")
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(append(data, '\n')); err != nil {
		log.WithError(err).Warn("write response")
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{"error": message})
}

func handleDomainError(w http.ResponseWriter, err error) {
	var violation *domain.ErrSchemaViolation
	switch {
	case errors.As(err, &violation):
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"error":   "schema validation failed",
			"details": violation.Errors,
		})
	case errors.Is(err, domain.ErrInvalidEvent), errors.Is(err, domain.ErrInvalidUser), errors.Is(err, domain.ErrInvalidPatch):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, usecase.ErrUnknownUser):
		writeError(w, http.StatusUnauthorized, err.Error())
	default:
		log.WithError(err).Error("request failed")
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

func ensureEOF(decoder *json.Decoder) error {
	var extra json.RawMessage
	if err := decoder.Decode(&extra); err != nil {
		if err == io.EOF {
			return nil
		}
		return err
	}
	return errors.New("extra json tokens")
}

func openapiSpec() map[string]any {
	op := func(summary string) map[string]any { return map[string]any{"summary": summary} }
	return map[string]any{
		"openapi": "3.0.3",
		"info": map[string]any{
			"title":   "eventdesk",
			"version": "1.0.0",
		},
		"paths": map[string]any{
			"/v1/session": map[string]any{
				"post":   op("Sign in by e-mail"),
				"get":    op("Current user"),
				"delete": op("Sign out"),
			},
			"/v1/events": map[string]any{
				"get":  op("List events ordered by start"),
				"post": op("Create event"),
			},
			"/v1/events/{id}": map[string]any{
				"get":    op("Get event"),
				"put":    op("Replace event"),
				"delete": op("Delete event"),
			},
			"/v1/calendar":     map[string]any{"get": op("Events bucketed by day")},
			"/v1/participants": map[string]any{"get": op("Paginated participant roster")},
			"/v1/users": map[string]any{
				"get":  op("List users"),
				"post": op("Create user"),
			},
			"/v1/users/{id}": map[string]any{
				"put":    op("Replace user"),
				"delete": op("Delete user"),
			},
			"/v1/notifications": map[string]any{"get": op("List notifications")},
			"/v1/notifications/{id}": map[string]any{
				"patch":  op("Update notification fields"),
				"delete": op("Delete notification"),
			},
			"/v1/audit-logs": map[string]any{"get": op("Search the audit trail")},
			"/v1/dashboard":  map[string]any{"get": op("Overview counters")},
			"/v1/reports":    map[string]any{"get": op("Aggregate report for a period")},
		},
	}
}
