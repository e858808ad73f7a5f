package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"GoldCatalog/internal/goldprice"
	"GoldCatalog/pkg/kit"
)

const timestampLayout = "2006-01-02T15:04:05.000Z07:00"

type Quoter interface {
	Quote(ctx context.Context) goldprice.Quote
}

type Server struct {
	Pricer   *Pricer
	Gold     Quoter
	Log      *zap.Logger
	Instance string
	Now      func() time.Time
}

type goldPriceView struct {
	PricePerGram json.Number `json:"pricePerGram"`
	Currency     string      `json:"currency"`
	Timestamp    string      `json:"timestamp"`
	Source       string      `json:"source"`
}

type healthView struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
	Instance  string `json:"instance,omitempty"`
}

// mount registers the routes; apiMW wraps the /api group only.
func (s *Server) mount(r chi.Router, apiMW func(http.Handler) http.Handler) {
	r.Get("/health", s.health)
	r.Get("/readyz", s.ready)

	r.Route("/api", func(ar chi.Router) {
		if apiMW != nil {
			ar.Use(apiMW)
		}
		ar.Get("/health", s.health)
		ar.Get("/products", s.list)
		ar.Get("/products/{id}", s.get)
		ar.Get("/gold-price", s.goldPrice)
	})
}

func (s *Server) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

func (s *Server) logger() *zap.Logger {
	if s.Log != nil {
		return s.Log
	}
	return zap.NewNop()
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	kit.WriteJSON(w, http.StatusOK, healthView{
		Success:   true,
		Message:   "Server is running",
		Timestamp: s.now().Format(timestampLayout),
		Instance:  s.Instance,
	})
}

func (s *Server) ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 1*time.Second)
	defer cancel()

	if err := s.Pricer.Source.Ping(ctx); err != nil {
		s.logger().Warn("readyz failed", zap.Error(err))
		kit.WriteError(w, r, http.StatusServiceUnavailable, "not ready", "")
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (s *Server) list(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if id := strings.TrimSpace(q.Get("id")); id != "" {
		s.writeOne(w, r, id)
		return
	}

	f, err := ParseFilter(q)
	if err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "Invalid filter", err.Error())
		return
	}

	products, err := s.Pricer.PriceAll(r.Context(), f)
	if err != nil {
		s.logger().Error("list products failed", zap.Error(err))
		kit.WriteError(w, r, http.StatusInternalServerError, "Error fetching products", "internal error")
		return
	}

	kit.WriteList(w, products, len(products))
}

func (s *Server) get(w http.ResponseWriter, r *http.Request) {
	s.writeOne(w, r, chi.URLParam(r, "id"))
}

func (s *Server) writeOne(w http.ResponseWriter, r *http.Request, rawID string) {
	id, err := strconv.Atoi(rawID)
	if err != nil {
		kit.WriteError(w, r, http.StatusNotFound, "Product not found", "")
		return
	}

	p, err := s.Pricer.PriceOne(r.Context(), id)
	switch {
	case err == nil:
		kit.WriteData(w, p)
	case errors.Is(err, ErrNotFound):
		kit.WriteError(w, r, http.StatusNotFound, "Product not found", "")
	default:
		s.logger().Error("get product failed", zap.Error(err), zap.Int("id", id))
		kit.WriteError(w, r, http.StatusInternalServerError, "Error fetching product", "internal error")
	}
}

func (s *Server) goldPrice(w http.ResponseWriter, r *http.Request) {
	q := s.Gold.Quote(r.Context())
	kit.WriteData(w, goldPriceView{
		PricePerGram: num(q.PricePerGram.Round(2)),
		Currency:     "USD",
		Timestamp:    s.now().Format(timestampLayout),
		Source:       string(q.Origin),
	})
}
