package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/keygate/keygate/internal/entitlement"
	"github.com/keygate/keygate/internal/metrics"
	"github.com/keygate/keygate/internal/presence"
	"github.com/keygate/keygate/internal/store"
)

// Handler is the HTTP handler for all /api/* endpoints. It reads subscriber
// records from the document store and presence state from the registry.
type Handler struct {
	store    store.Store
	registry *presence.Registry
	mux      *http.ServeMux
	now      func() time.Time // injectable for deterministic tests
}

// Guard wraps a handler with an authentication check; see the auth package.
type Guard func(http.Handler) http.Handler

// New creates a Handler wired to the given store and registry and registers
// all routes. guard protects the operator endpoints; pass nil to leave them
// open.
func New(st store.Store, reg *presence.Registry, guard Guard) http.Handler {
	if guard == nil {
		guard = func(next http.Handler) http.Handler { return next }
	}

	h := &Handler{store: st, registry: reg, mux: http.NewServeMux(), now: time.Now}

	h.mux.HandleFunc("/api/app/online", h.heartbeat)
	h.mux.HandleFunc("/api/app/online/", h.online) // subtree, extracts {productID}
	h.mux.HandleFunc("/api/app/time-left/", h.timeLeft)
	h.mux.Handle("/api/v1/presence", guard(http.HandlerFunc(h.presence)))
	h.mux.HandleFunc("/api/v1/health", h.health)

	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

// --- route handlers ---------------------------------------------------------

// heartbeat handles POST /api/app/online: a client signalling it is still
// running. The subscriber must exist in the store; only then is the
// presence registry touched.
func (h *Handler) heartbeat(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req HeartbeatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		metrics.HeartbeatsRejected.Inc()
		jsonErr(w, http.StatusBadRequest, "request body is not valid JSON")
		return
	}

	var missing []string
	if req.ProductID == nil || *req.ProductID == "" {
		missing = append(missing, "product_id")
	}
	if req.Identity == nil || *req.Identity == "" {
		missing = append(missing, "identity")
	}
	if len(missing) > 0 {
		metrics.HeartbeatsRejected.Inc()
		jsonResp(w, http.StatusBadRequest, errorResponse{
			Status:  "error",
			Message: "request JSON is missing some required params",
			Missing: missing,
		})
		return
	}

	_, err := h.store.FindSubscriber(r.Context(), *req.ProductID, *req.Identity)
	if err != nil {
		metrics.HeartbeatsRejected.Inc()
		if errors.Is(err, store.ErrNotFound) {
			jsonErr(w, http.StatusNotFound, "subscriber not found")
			return
		}
		slog.Error("heartbeat: subscriber lookup failed",
			"product_id", *req.ProductID, "err", err)
		jsonErr(w, http.StatusInternalServerError, "internal error")
		return
	}

	h.registry.Touch(*req.ProductID, *req.Identity)
	metrics.Heartbeats.Inc()
	w.WriteHeader(http.StatusNoContent)
}

// online handles GET /api/app/online/{productID}: the number of identities
// currently online for a product. Unknown products report zero.
func (h *Handler) online(w http.ResponseWriter, r *http.Request) {
	productID := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/app/online/"), "/")
	if productID == "" {
		// Bare /api/app/online/ is the heartbeat endpoint.
		h.heartbeat(w, r)
		return
	}
	if r.Method != http.MethodGet {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	jsonResp(w, http.StatusOK, OnlineResponse{
		Online: h.registry.CountOnline(productID),
	})
}

// timeLeft handles GET /api/app/time-left/{productID}/{identity}: the
// subscriber's entitlement verdict rendered for the client protocol.
func (h *Handler) timeLeft(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	rest := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/app/time-left/"), "/")
	parts := strings.Split(rest, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		jsonErr(w, http.StatusBadRequest, "want /api/app/time-left/{product_id}/{identity}")
		return
	}
	productID, identity := parts[0], parts[1]

	ok, err := h.store.ProductExists(r.Context(), productID)
	if err != nil {
		slog.Error("time-left: product lookup failed", "product_id", productID, "err", err)
		jsonErr(w, http.StatusInternalServerError, "internal error")
		return
	}
	if !ok {
		jsonErr(w, http.StatusNotFound, "product not found")
		return
	}

	sub, err := h.store.FindSubscriber(r.Context(), productID, identity)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			jsonErr(w, http.StatusNotFound, "subscriber not found")
			return
		}
		slog.Error("time-left: subscriber lookup failed", "product_id", productID, "err", err)
		jsonErr(w, http.StatusInternalServerError, "internal error")
		return
	}

	resp := TimeLeftResponse{Identity: identity}
	switch v := entitlement.Evaluate(sub, h.now()); v.State {
	case entitlement.StateInactive:
		resp.TimeLeft = "inactive"
	case entitlement.StateLifetime:
		resp.TimeLeft = "lifetime"
	default:
		resp.TimeLeft = v.Minutes
	}
	jsonResp(w, http.StatusOK, resp)
}

// presence handles GET /api/v1/presence: online counts for every product
// with at least one identity online.
func (h *Handler) presence(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	jsonResp(w, http.StatusOK, BuildPresence(h.registry))
}

// health handles GET /api/v1/health.
func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	jsonResp(w, http.StatusOK, HealthResponse{Status: "ok"})
}

// --- helpers ----------------------------------------------------------------

// BuildPresence renders the registry's current per-product online counts,
// sorted by product ID for stable output. Shared with the WebSocket hub.
func BuildPresence(reg *presence.Registry) PresenceResponse {
	snap := reg.Snapshot()
	products := make([]ProductPresence, 0, len(snap))
	for id, n := range snap {
		products = append(products, ProductPresence{ProductID: id, Online: n})
	}
	sort.Slice(products, func(i, j int) bool {
		return products[i].ProductID < products[j].ProductID
	})
	return PresenceResponse{
		Products:    products,
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
	}
}

func jsonResp(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func jsonErr(w http.ResponseWriter, code int, msg string) {
	jsonResp(w, code, errorResponse{Status: "error", Message: msg})
}
