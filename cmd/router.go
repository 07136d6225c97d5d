package main

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/render"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/sells-group/kinerja-cli/internal/model"
	"github.com/sells-group/kinerja-cli/internal/service"
	"github.com/sells-group/kinerja-cli/internal/store"
)

// maxBodyBytes caps pasted roster and score sheet uploads.
const maxBodyBytes = 10 << 20

type api struct {
	svc   *service.Service
	store store.Store
}

type routerOptions struct {
	AllowedOrigins []string
	// RateLimit is the sustained rate of upload requests per second.
	// Zero disables limiting.
	RateLimit float64
	RateBurst int
}

func buildRouter(svc *service.Service, st store.Store, opts routerOptions) http.Handler {
	a := &api{svc: svc, store: st}
	allowedOrigins := opts.AllowedOrigins
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}
	uploads := rateLimit(opts.RateLimit, opts.RateBurst)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", a.health)

	r.Route("/roster", func(r chi.Router) {
		r.Use(uploads)
		r.Post("/preview", a.previewRoster)
		r.Post("/import", a.importRoster)
	})

	r.Route("/employees", func(r chi.Router) {
		r.Get("/", a.listEmployees)
		r.Get("/{id}", a.getEmployee)
		r.Delete("/{id}", a.deleteEmployee)
	})

	r.Route("/performance", func(r chi.Router) {
		r.Use(uploads)
		r.Post("/parse", a.parsePerformance)
		r.Post("/import", a.importPerformance)
	})

	r.Route("/sessions", func(r chi.Router) {
		r.Get("/", a.listSessions)
		r.Get("/{id}", a.getSession)
		r.Put("/{id}/levels", a.setSessionLevel)
		r.Get("/{id}/report", a.sessionReport)
	})

	return r
}

// requestLogger logs one line per request through the global zap logger.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		zap.L().Debug("http request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())),
		)
	})
}

// rateLimit shares one token bucket across the routes it wraps and
// answers 429 when it is empty.
func rateLimit(perSecond float64, burst int) func(http.Handler) http.Handler {
	if perSecond <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	if burst < 1 {
		burst = 1
	}
	limiter := rate.NewLimiter(rate.Limit(perSecond), burst)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow() {
				fail(w, r, http.StatusTooManyRequests, eris.New("too many requests"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

// fail writes err as JSON. Not-found errors always map to 404.
func fail(w http.ResponseWriter, r *http.Request, status int, err error) {
	if errors.Is(err, store.ErrNotFound) {
		status = http.StatusNotFound
	}
	if status >= http.StatusInternalServerError {
		zap.L().Error("http handler failed", zap.String("path", r.URL.Path), zap.Error(err))
	}
	render.Status(r, status)
	render.JSON(w, r, errorResponse{Error: err.Error()})
}

func readText(w http.ResponseWriter, r *http.Request) (string, bool) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		fail(w, r, http.StatusRequestEntityTooLarge, eris.Wrap(err, "read body"))
		return "", false
	}
	return string(data), true
}

func queryInt(r *http.Request, key string) (int, error) {
	v := r.URL.Query().Get(key)
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, eris.Errorf("%s must be a non-negative integer", key)
	}
	return n, nil
}

func (a *api) health(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]string{"status": "ok"})
}

type rosterPreviewResponse struct {
	*service.Preview
	Inconsistencies []service.Inconsistency `json:"inconsistencies"`
}

func (a *api) previewRoster(w http.ResponseWriter, r *http.Request) {
	text, ok := readText(w, r)
	if !ok {
		return
	}
	p, err := a.svc.PreviewRoster(text)
	if err != nil {
		fail(w, r, http.StatusBadRequest, err)
		return
	}
	render.JSON(w, r, rosterPreviewResponse{Preview: p, Inconsistencies: a.svc.Inconsistencies(p.Records)})
}

func (a *api) importRoster(w http.ResponseWriter, r *http.Request) {
	text, ok := readText(w, r)
	if !ok {
		return
	}
	saved, err := a.svc.ImportRoster(r.Context(), text)
	if err != nil {
		fail(w, r, http.StatusBadRequest, err)
		return
	}
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, saved)
}

func (a *api) listEmployees(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := store.EmployeeFilter{Name: q.Get("name")}
	if level := q.Get("level"); level != "" {
		c, ok := model.ParseCategory(level)
		if !ok {
			fail(w, r, http.StatusBadRequest, eris.Errorf("unknown level %q", level))
			return
		}
		filter.Level = c
	}
	var err error
	if filter.Limit, err = queryInt(r, "limit"); err != nil {
		fail(w, r, http.StatusBadRequest, err)
		return
	}
	if filter.Offset, err = queryInt(r, "offset"); err != nil {
		fail(w, r, http.StatusBadRequest, err)
		return
	}

	employees, err := a.store.ListEmployees(r.Context(), filter)
	if err != nil {
		fail(w, r, http.StatusInternalServerError, err)
		return
	}
	if employees == nil {
		employees = []model.StoredEmployee{}
	}
	render.JSON(w, r, employees)
}

func (a *api) getEmployee(w http.ResponseWriter, r *http.Request) {
	e, err := a.store.GetEmployee(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		fail(w, r, http.StatusInternalServerError, err)
		return
	}
	render.JSON(w, r, e)
}

func (a *api) deleteEmployee(w http.ResponseWriter, r *http.Request) {
	if err := a.store.DeleteEmployee(r.Context(), chi.URLParam(r, "id")); err != nil {
		fail(w, r, http.StatusInternalServerError, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *api) parsePerformance(w http.ResponseWriter, r *http.Request) {
	text, ok := readText(w, r)
	if !ok {
		return
	}
	results, err := a.svc.ParsePerformance(r.Context(), r.URL.Query().Get("session"), text)
	if err != nil {
		fail(w, r, http.StatusBadRequest, err)
		return
	}
	render.JSON(w, r, results)
}

func (a *api) importPerformance(w http.ResponseWriter, r *http.Request) {
	text, ok := readText(w, r)
	if !ok {
		return
	}
	q := r.URL.Query()
	sess, err := a.svc.ImportPerformance(r.Context(), q.Get("session"), q.Get("name"), text)
	if err != nil {
		fail(w, r, http.StatusBadRequest, err)
		return
	}
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, sess)
}

func (a *api) listSessions(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit")
	if err != nil {
		fail(w, r, http.StatusBadRequest, err)
		return
	}
	sessions, err := a.store.ListSessions(r.Context(), limit)
	if err != nil {
		fail(w, r, http.StatusInternalServerError, err)
		return
	}
	if sessions == nil {
		sessions = []model.Session{}
	}
	render.JSON(w, r, sessions)
}

func (a *api) getSession(w http.ResponseWriter, r *http.Request) {
	sess, err := a.store.GetSession(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		fail(w, r, http.StatusInternalServerError, err)
		return
	}
	render.JSON(w, r, sess)
}

type setLevelRequest struct {
	Name  string `json:"name"`
	Level string `json:"level"`
}

func (a *api) setSessionLevel(w http.ResponseWriter, r *http.Request) {
	var req setLevelRequest
	if err := render.DecodeJSON(http.MaxBytesReader(w, r.Body, maxBodyBytes), &req); err != nil {
		fail(w, r, http.StatusBadRequest, eris.Wrap(err, "invalid request body"))
		return
	}
	if err := a.svc.SetLevel(r.Context(), chi.URLParam(r, "id"), req.Name, req.Level); err != nil {
		fail(w, r, http.StatusBadRequest, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *api) sessionReport(w http.ResponseWriter, r *http.Request) {
	summaries, err := a.svc.Report(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		fail(w, r, http.StatusInternalServerError, err)
		return
	}
	render.JSON(w, r, summaries)
}
