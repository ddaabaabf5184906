package httpserver

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	catalogservice "shopstream/contexts/shop/catalog-service"
	catalogerrors "shopstream/contexts/shop/catalog-service/domain/errors"
	cataloghttp "shopstream/contexts/shop/catalog-service/transport/http"
	orderingservice "shopstream/contexts/shop/ordering-service"
	orderingerrors "shopstream/contexts/shop/ordering-service/domain/errors"
	orderinghttp "shopstream/contexts/shop/ordering-service/transport/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server is the command gateway. Mutating routes enqueue commands and
// answer 202: the caller gets an acknowledgement, not the applied state.
type Server struct {
	mux      *http.ServeMux
	logger   *slog.Logger
	addr     string
	catalog  catalogservice.Module
	ordering orderingservice.Module
}

func New(
	catalog catalogservice.Module,
	ordering orderingservice.Module,
	registry *prometheus.Registry,
	logger *slog.Logger,
	addr string,
) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if addr == "" {
		addr = ":8080"
	}

	s := &Server{
		mux:      http.NewServeMux(),
		logger:   logger,
		addr:     addr,
		catalog:  catalog,
		ordering: ordering,
	}
	s.registerRoutes(registry)
	return s
}

func (s *Server) Start() error {
	s.logger.Info("http server starting",
		"event", "http_server_starting",
		"module", "internal/platform/httpserver",
		"layer", "platform",
		"addr", s.addr,
	)
	return http.ListenAndServe(s.addr, s.mux)
}

// Handler exposes the routing table for tests.
func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) registerRoutes(registry *prometheus.Registry) {
	if registry != nil {
		s.mux.Handle("GET /metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}
	s.mux.HandleFunc("GET /healthz", s.handleHealthz)

	s.mux.HandleFunc("POST /shop/products", s.handleCreateProduct)
	s.mux.HandleFunc("GET /shop/products", s.handleListProducts)
	s.mux.HandleFunc("GET /shop/products/{product_id}", s.handleGetProduct)
	s.mux.HandleFunc("DELETE /shop/products/{product_id}", s.handleDeleteProduct)

	s.mux.HandleFunc("POST /shop/orders", s.handleCreateOrder)
	s.mux.HandleFunc("GET /shop/orders", s.handleListOrders)
	s.mux.HandleFunc("GET /shop/orders/{order_id}", s.handleGetOrder)
	s.mux.HandleFunc("DELETE /shop/orders/{order_id}", s.handleDeleteOrder)
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleCreateProduct(w http.ResponseWriter, r *http.Request) {
	var req cataloghttp.CreateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeCatalogError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.catalog.Handler.CreateProductHandler(r.Context(), req)
	if err != nil {
		writeCatalogDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, resp)
}

func (s *Server) handleListProducts(w http.ResponseWriter, r *http.Request) {
	resp, err := s.catalog.Handler.ListProductsHandler(r.Context())
	if err != nil {
		writeCatalogDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetProduct(w http.ResponseWriter, r *http.Request) {
	productID := r.PathValue("product_id")
	resp, err := s.catalog.Handler.GetProductHandler(r.Context(), productID)
	if err != nil {
		writeCatalogDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDeleteProduct(w http.ResponseWriter, r *http.Request) {
	productID := r.PathValue("product_id")
	resp, err := s.catalog.Handler.DeleteProductHandler(r.Context(), productID)
	if err != nil {
		writeCatalogDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, resp)
}

func (s *Server) handleCreateOrder(w http.ResponseWriter, r *http.Request) {
	var req orderinghttp.CreateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeOrderingError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.ordering.Handler.CreateOrderHandler(r.Context(), req)
	if err != nil {
		writeOrderingDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, resp)
}

func (s *Server) handleListOrders(w http.ResponseWriter, r *http.Request) {
	resp, err := s.ordering.Handler.ListOrdersHandler(r.Context())
	if err != nil {
		writeOrderingDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetOrder(w http.ResponseWriter, r *http.Request) {
	orderID := r.PathValue("order_id")
	resp, err := s.ordering.Handler.GetOrderHandler(r.Context(), orderID)
	if err != nil {
		writeOrderingDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDeleteOrder(w http.ResponseWriter, r *http.Request) {
	orderID := r.PathValue("order_id")
	resp, err := s.ordering.Handler.DeleteOrderHandler(r.Context(), orderID)
	if err != nil {
		writeOrderingDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, resp)
}

func writeCatalogDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, catalogerrors.ErrInvalidProductRequest):
		writeCatalogError(w, http.StatusBadRequest, "invalid_product_request", err.Error())
	case errors.Is(err, catalogerrors.ErrProductNotFound):
		writeCatalogError(w, http.StatusNotFound, "product_not_found", err.Error())
	case errors.Is(err, catalogerrors.ErrDuplicateProduct):
		writeCatalogError(w, http.StatusConflict, "duplicate_product", err.Error())
	case errors.Is(err, catalogerrors.ErrPublisherUnavailable):
		writeCatalogError(w, http.StatusServiceUnavailable, "publisher_unavailable", err.Error())
	default:
		writeCatalogError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeOrderingDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, orderingerrors.ErrInvalidOrderRequest):
		writeOrderingError(w, http.StatusBadRequest, "invalid_order_request", err.Error())
	case errors.Is(err, orderingerrors.ErrProductNotFound):
		writeOrderingError(w, http.StatusNotFound, "product_not_found", err.Error())
	case errors.Is(err, orderingerrors.ErrOrderNotFound):
		writeOrderingError(w, http.StatusNotFound, "order_not_found", err.Error())
	case errors.Is(err, orderingerrors.ErrDuplicateOrder):
		writeOrderingError(w, http.StatusConflict, "duplicate_order", err.Error())
	case errors.Is(err, orderingerrors.ErrPublisherUnavailable):
		writeOrderingError(w, http.StatusServiceUnavailable, "publisher_unavailable", err.Error())
	default:
		writeOrderingError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeCatalogError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, cataloghttp.ErrorResponse{
		Code:    code,
		Message: message,
	})
}

func writeOrderingError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, orderinghttp.ErrorResponse{
		Code:    code,
		Message: message,
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
