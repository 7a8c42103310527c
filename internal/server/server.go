// Package server exposes the menu pipeline over HTTP. It is deliberately
// thin: all menu semantics live in the menu package.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"lunchmenus/internal/directory"
	"lunchmenus/internal/menu"
	"lunchmenus/internal/shared"
)

// requestTimeout bounds one full restaurant fan-out, including retries and
// a possible AI fallback per restaurant.
const requestTimeout = 90 * time.Second

// Processor is the single operation the request layer needs from the core.
type Processor interface {
	GetMenu(ctx context.Context, restaurantID, restaurantName string, lang shared.Language, opts menu.Options) (menu.Result, error)
}

// Server manages the HTTP lifecycle and routes requests into the processor.
type Server struct {
	logger    *log.Logger
	processor Processor
	addr      string
}

// New creates a Server.
func New(logger *log.Logger, processor Processor, addr string) *Server {
	return &Server{logger: logger, processor: processor, addr: addr}
}

// Router assembles the chi router. Split from Run so tests can drive
// handlers through httptest without binding a socket.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/api/restaurants", s.restaurantsHandler)
	r.Get("/api/menus", s.menusHandler)
	r.Get("/api/menus/{restaurantID}", s.menuHandler)
	return r
}

// Run starts the server and blocks until SIGINT/SIGTERM, then shuts down
// gracefully.
func (s *Server) Run() error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Printf("listening on %s", s.addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-stop:
		s.logger.Printf("received %s, shutting down", sig)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(ctx)
}

type menuResponse struct {
	Restaurant directory.Descriptor `json:"restaurant"`
	DayKey     string               `json:"dayKey"`
	Language   shared.Language      `json:"language"`
	RawMenu    string               `json:"rawMenu"`
	ParsedMenu string               `json:"parsedMenu"`
	FromCache  bool                 `json:"fromCache"`
	Items      []menu.Item          `json:"items"`
}

func (s *Server) restaurantsHandler(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, directory.ListRestaurants())
}

// menusHandler fans out across all restaurants concurrently. Cache keys
// never overlap between restaurants, so the fan-out is safe; results are
// assembled by restaurant id, not arrival order.
func (s *Server) menusHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	lang, opts := parseMenuQuery(r)
	restaurants := directory.ListRestaurants()
	results := make(map[string]menuResponse, len(restaurants))

	g, gctx := errgroup.WithContext(ctx)
	type keyed struct {
		id   string
		resp menuResponse
	}
	ch := make(chan keyed, len(restaurants))

	for _, rest := range restaurants {
		rest := rest
		g.Go(func() error {
			res, err := s.processor.GetMenu(gctx, rest.ID, rest.Name, lang, opts)
			if err != nil {
				// A configuration error for one restaurant should not blank
				// the whole board; it is logged and that card is dropped.
				s.logger.Printf("menu %s failed: %v", rest.ID, err)
				return nil
			}
			ch <- keyed{id: rest.ID, resp: s.toResponse(rest, lang, res)}
			return nil
		})
	}
	_ = g.Wait()
	close(ch)
	for k := range ch {
		results[k.id] = k.resp
	}

	// Directory order, not arrival order.
	out := make([]menuResponse, 0, len(results))
	for _, rest := range restaurants {
		if resp, ok := results[rest.ID]; ok {
			out = append(out, resp)
		}
	}
	s.writeJSON(w, http.StatusOK, out)
}

func (s *Server) menuHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	id := chi.URLParam(r, "restaurantID")
	rest, ok := directory.ByID(id)
	if !ok {
		s.writeJSON(w, http.StatusNotFound, map[string]string{"error": "unknown restaurant: " + id})
		return
	}

	lang, opts := parseMenuQuery(r)
	res, err := s.processor.GetMenu(ctx, rest.ID, rest.Name, lang, opts)
	if err != nil {
		if errors.Is(err, menu.ErrUnknownRestaurant) {
			s.writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
			return
		}
		s.logger.Printf("menu %s failed: %v", id, err)
		s.writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to fetch menu"})
		return
	}
	s.writeJSON(w, http.StatusOK, s.toResponse(rest, lang, res))
}

func (s *Server) toResponse(rest directory.Descriptor, lang shared.Language, res menu.Result) menuResponse {
	source := "scrape"
	if res.FromCache {
		source = "cache"
	}
	nm := menu.Normalize(rest.ID, rest.Name, res.DateKey, lang, res.ParsedMenu, source)
	return menuResponse{
		Restaurant: rest,
		DayKey:     nm.DayKey,
		Language:   lang,
		RawMenu:    res.RawMenu,
		ParsedMenu: res.ParsedMenu,
		FromCache:  res.FromCache,
		Items:      nm.Items,
	}
}

func parseMenuQuery(r *http.Request) (shared.Language, menu.Options) {
	q := r.URL.Query()
	lang := shared.ParseLanguage(q.Get("lang"))
	return lang, menu.Options{
		TargetDay: q.Get("day"),
		DateKey:   q.Get("date"),
		SkipCache: q.Get("refresh") == "1" || q.Get("refresh") == "true",
	}
}

// writeJSON serializes payload to JSON with status and logs on failure.
func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil && s.logger != nil {
		s.logger.Printf("failed to encode JSON response: %v", err)
	}
}
