// Package serve provides HTTP handlers for browsing a rendered gallery.
package serve

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"k8s.io/klog/v2"

	"github.com/tstromberg/brickwall/pkg/layout"
	"github.com/tstromberg/brickwall/pkg/site"
)

// Server serves the static site and the layout API.
type Server struct {
	c  *site.Config
	mu sync.RWMutex
	a  *site.Assembly
}

// New creates a new server.
func New(c *site.Config, a *site.Assembly) *Server {
	return &Server{c: c, a: a}
}

// Swap replaces the assembly served by the API, typically after a rebuild.
func (s *Server) Swap(a *site.Assembly) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.a = a
}

func (s *Server) assembly() *site.Assembly {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.a
}

// Router returns the HTTP handler for the whole server.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.HealthHandler())
	r.Route("/api", func(r chi.Router) {
		r.Get("/albums", s.AlbumsHandler())
		r.Get("/layout", s.LayoutHandler())
	})
	r.Handle("/*", http.FileServer(http.Dir(s.c.OutDir)))
	return r
}

// ListenAndServe serves until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(sctx); err != nil {
			klog.Errorf("shutdown: %v", err)
		}
	}()

	klog.Infof("Listening on %s...", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("listen: %w", err)
	}
	return nil
}

// HealthHandler reports that the server is up.
func (s *Server) HealthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}
}

// AlbumSummary describes an album in the album listing.
type AlbumSummary struct {
	Title  string `json:"title"`
	Path   string `json:"path"`
	Photos int    `json:"photos"`
	Cover  string `json:"cover,omitempty"`
}

// AlbumsHandler lists every album.
func (s *Server) AlbumsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		as := []AlbumSummary{}
		for _, a := range s.assembly().All() {
			sum := AlbumSummary{Title: a.Title, Path: a.Path, Photos: len(a.Photos)}
			if p := a.Cover(); p != nil {
				sum.Cover = p.SquareURL()
			}
			as = append(as, sum)
		}
		writeJSON(w, as)
	}
}

// LayoutResponse is one lazy-load batch of an album's layout.
type LayoutResponse struct {
	Album     string          `json:"album"`
	Strategy  layout.Strategy `json:"strategy"`
	ClassName string          `json:"className"`
	Width     int             `json:"width"`
	Page      int             `json:"page"`
	Rows      []layout.Row    `json:"rows"`
	More      bool            `json:"more"`
}

// LayoutHandler lays out an album: GET /api/layout?album=&width=&strategy=&page=
//
// Page 0 is the initial batch, page k the k-th batch loaded after it.
func (s *Server) LayoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		a := s.assembly().Album(q.Get("album"))
		if a == nil {
			http.Error(w, fmt.Sprintf("album %q not found", q.Get("album")), http.StatusNotFound)
			return
		}

		width, err := intParam(q.Get("width"))
		if err != nil {
			http.Error(w, fmt.Sprintf("width: %v", err), http.StatusBadRequest)
			return
		}
		page, err := intParam(q.Get("page"))
		if err != nil {
			http.Error(w, fmt.Sprintf("page: %v", err), http.StatusBadRequest)
			return
		}

		var st layout.Strategy
		if v := q.Get("strategy"); v != "" {
			st, err = layout.ParseStrategy(v)
			if err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
		}

		sess, err := s.c.Session(a, width, st)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		rows := sess.Init("/")
		for i := 0; i < page && len(rows) > 0; i++ {
			rows = sess.More()
		}
		more := len(rows) > 0 && len(sess.More()) > 0

		klog.V(1).Infof("layout %s width=%d page=%d: %d rows", a.Path, sess.Width(), page, len(rows))
		writeJSON(w, LayoutResponse{
			Album:     a.Path,
			Strategy:  sess.Layout().Name(),
			ClassName: layout.ClassName(sess.Layout().Name()),
			Width:     sess.Width(),
			Page:      page,
			Rows:      rows,
			More:      more,
		})
	}
}

func intParam(v string) (int, error) {
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, fmt.Errorf("%d is negative", n)
	}
	return n, nil
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		klog.Errorf("encode: %v", err)
	}
}

func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		klog.V(1).Infof("%s %s %d %s [%s]", r.Method, r.URL.Path, ww.Status(), time.Since(start), middleware.GetReqID(r.Context()))
	})
}
