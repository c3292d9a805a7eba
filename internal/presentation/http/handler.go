package httppresentation

import (
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	apporder "github.com/zenshop/orderd/internal/application/order"
	domjob "github.com/zenshop/orderd/internal/domain/job"
	domain "github.com/zenshop/orderd/internal/domain/order"
	"github.com/zenshop/orderd/internal/observability"
)

const (
	componentHTTPHandler = "http_server"
	defaultPageSize      = 10
	maxPageSize          = 100
)

type Handler struct {
	orders *apporder.Service
	dlq    domjob.DeadLetterStore
	log    observability.Logger
	tel    observability.Observability
}

func NewHandler(orders *apporder.Service, dlq domjob.DeadLetterStore, tel observability.Observability) *Handler {
	if tel == nil {
		tel = observability.Nop()
	}
	return &Handler{
		orders: orders,
		dlq:    dlq,
		log:    tel.Logger().With(observability.F("component", componentHTTPHandler)),
		tel:    tel,
	}
}

func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()

	// Request ID → server span → request logger → metrics → access log → handler
	r.Use(h.withRequestID)
	r.Use(h.withTrace)
	r.Use(h.withRequestLogger)
	r.Use(h.withHTTPMetrics)
	r.Use(h.withAccessLog)

	r.Get("/health", h.handleHealth)

	r.Route("/orders", func(r chi.Router) {
		r.Post("/", h.handlePlaceOrder)
		r.Get("/", h.handleListOrders)
		r.Get("/{id}", h.handleGetOrder)
		r.Patch("/{id}", h.handleUpdateStatus)
	})

	r.Get("/admin/dead-letters", h.handleDeadLetters)

	return r
}

type placeOrderRequest struct {
	CustomerName  string  `json:"customer_name"`
	CustomerEmail string  `json:"customer_email"`
	Item          string  `json:"item"`
	Quantity      int     `json:"quantity"`
	TotalPrice    float64 `json:"total_price"`
}

// validate enforces the structural preconditions the orchestrator assumes.
func (req placeOrderRequest) validate() map[string]string {
	problems := make(map[string]string)

	if strings.TrimSpace(req.CustomerName) == "" {
		problems["customer_name"] = "must not be empty"
	}
	if strings.TrimSpace(req.CustomerEmail) == "" {
		problems["customer_email"] = "must not be empty"
	} else if !strings.Contains(req.CustomerEmail, "@") {
		problems["customer_email"] = "must be a valid email address"
	}
	if strings.TrimSpace(req.Item) == "" {
		problems["item"] = "must not be empty"
	}
	if req.Quantity < domain.MinQuantity || req.Quantity > domain.MaxQuantity {
		problems["quantity"] = "must be between 1 and 1000"
	}
	if req.TotalPrice < domain.MinTotalPrice || req.TotalPrice > domain.MaxTotalPrice {
		problems["total_price"] = "must be between 0.01 and 999999.99"
	} else if cents := req.TotalPrice * 100; math.Abs(cents-math.Round(cents)) > 1e-6 {
		problems["total_price"] = "must have at most two decimal places"
	}

	return problems
}

type orderResponse struct {
	ID            int64     `json:"id"`
	CustomerName  string    `json:"customer_name"`
	CustomerEmail string    `json:"customer_email"`
	Item          string    `json:"item"`
	Quantity      int       `json:"quantity"`
	TotalPrice    float64   `json:"total_price"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func toOrderResponse(o *domain.Order) orderResponse {
	return orderResponse{
		ID:            o.ID,
		CustomerName:  o.CustomerName,
		CustomerEmail: o.CustomerEmail,
		Item:          o.Item,
		Quantity:      o.Quantity,
		TotalPrice:    o.TotalPrice,
		Status:        string(o.Status),
		CreatedAt:     o.CreatedAt,
		UpdatedAt:     o.UpdatedAt,
	}
}

func (h *Handler) handlePlaceOrder(w http.ResponseWriter, r *http.Request) {
	var req placeOrderRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if problems := req.validate(); len(problems) > 0 {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"message": "validation failed",
			"errors":  problems,
		})
		return
	}

	placed, err := h.orders.PlaceOrder(r.Context(), apporder.PlaceOrderInput{
		CustomerName:  req.CustomerName,
		CustomerEmail: req.CustomerEmail,
		Item:          req.Item,
		Quantity:      req.Quantity,
		TotalPrice:    req.TotalPrice,
	})
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toOrderResponse(placed))
}

func (h *Handler) handleListOrders(w http.ResponseWriter, r *http.Request) {
	page := queryInt(r, "page", 1)
	limit := queryInt(r, "limit", defaultPageSize)
	if limit > maxPageSize {
		limit = maxPageSize
	}

	result, err := h.orders.List(r.Context(), page, limit)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	data := make([]orderResponse, 0, len(result.Orders))
	for _, o := range result.Orders {
		data = append(data, toOrderResponse(o))
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"data": data,
		"meta": map[string]any{
			"current_page": result.CurrentPage,
			"last_page":    result.LastPage,
			"per_page":     result.PerPage,
			"total":        result.Total,
		},
	})
}

func (h *Handler) handleGetOrder(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusNotFound, "order not found")
		return
	}

	found, err := h.orders.Get(r.Context(), id)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toOrderResponse(found))
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

func (h *Handler) handleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusNotFound, "order not found")
		return
	}

	var req updateStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	status, err := domain.ParseStatus(req.Status)
	if err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"message": "validation failed",
			"errors":  map[string]string{"status": "must be one of pending, confirmed, failed"},
		})
		return
	}

	updated, err := h.orders.UpdateStatus(r.Context(), id, status)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toOrderResponse(updated))
}

type deadLetterResponse struct {
	ID       string    `json:"id"`
	JobID    string    `json:"job_id"`
	Type     string    `json:"type"`
	Attempts int       `json:"attempts"`
	LastErr  string    `json:"last_error"`
	ParkedAt time.Time `json:"parked_at"`
}

func (h *Handler) handleDeadLetters(w http.ResponseWriter, r *http.Request) {
	entries, err := h.dlq.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "dead-letter store unavailable")
		return
	}

	data := make([]deadLetterResponse, 0, len(entries))
	for _, e := range entries {
		data = append(data, deadLetterResponse{
			ID:       e.ID,
			JobID:    e.JobID,
			Type:     e.Type,
			Attempts: e.Attempts,
			LastErr:  e.LastErr,
			ParkedAt: e.ParkedAt,
		})
	}

	writeJSON(w, http.StatusOK, map[string]any{"data": data})
}

func (h *Handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (h *Handler) writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, apporder.ErrOutOfStock):
		writeError(w, http.StatusUnprocessableEntity, "rejected: out of stock")
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "order not found")
	case errors.Is(err, domain.ErrInvalidStatus):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func decodeJSON(r *http.Request, dst any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(dst)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"message": msg})
}

func queryInt(r *http.Request, key string, def int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 1 {
		return def
	}
	return v
}
