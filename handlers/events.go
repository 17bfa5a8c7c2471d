package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/gorilla/mux"

	"qrlink/core"
	"qrlink/models"
)

const maxEventBodyBytes = 1 << 20

// Error codes reported to HTTP callers
const (
	DeliveryErrorCodeOK             = 0
	DeliveryErrorCodeMalformed      = -1
	DeliveryErrorCodeWatchRejected  = -2
	DeliveryErrorCodeHostCallFailed = -5
	DeliveryErrorCodeInternal       = -6
)

type deliveryResponse struct {
	ErrorCode int    `json:"error_code"`
	Error     string `json:"error,omitempty"`
}

// EventsHTTPHandler accepts host events over HTTP
type EventsHTTPHandler struct {
	deliverer EventDeliverer
}

func NewEventsHTTPHandler(deliverer EventDeliverer) *EventsHTTPHandler {
	return &EventsHTTPHandler{deliverer: deliverer}
}

func (h *EventsHTTPHandler) HandleEvent(w http.ResponseWriter, r *http.Request) {
	log.Printf("📨 Event received from %s", r.RemoteAddr)

	bodyBytes, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxEventBodyBytes))
	if err != nil {
		log.Printf("❌ Failed to read request body: %v", err)
		writeDeliveryResponse(w, http.StatusBadRequest, DeliveryErrorCodeMalformed, "failed to read body")
		return
	}

	incoming, err := models.DecodeIncomingEvent(bodyBytes)
	if err != nil {
		log.Printf("❌ Failed to decode event: %v", err)
		writeDeliveryResponse(w, http.StatusBadRequest, DeliveryErrorCodeMalformed, err.Error())
		return
	}

	if err := h.deliverer.Deliver(r.Context(), incoming); err != nil {
		status, code := classifyDeliveryError(err)
		writeDeliveryResponse(w, status, code, err.Error())
		return
	}

	writeDeliveryResponse(w, http.StatusOK, DeliveryErrorCodeOK, "")
}

func (h *EventsHTTPHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(`{"status":"ok"}`)); err != nil {
		log.Printf("❌ Failed to write health check response: %v", err)
	}
}

func (h *EventsHTTPHandler) SetupEndpoints(router *mux.Router) {
	log.Printf("🚀 Registering event endpoints")

	router.HandleFunc("/events", h.HandleEvent).Methods("POST")
	log.Printf("✅ POST /events endpoint registered")

	router.HandleFunc("/health", h.HandleHealth).Methods("GET")
	log.Printf("✅ GET /health endpoint registered")
}

func classifyDeliveryError(err error) (int, int) {
	switch {
	case errors.Is(err, core.ErrMalformedEvent):
		return http.StatusBadRequest, DeliveryErrorCodeMalformed
	case errors.Is(err, core.ErrWatchRejected):
		return http.StatusUnprocessableEntity, DeliveryErrorCodeWatchRejected
	case errors.Is(err, core.ErrHostCallFailed):
		return http.StatusBadGateway, DeliveryErrorCodeHostCallFailed
	default:
		return http.StatusInternalServerError, DeliveryErrorCodeInternal
	}
}

func writeDeliveryResponse(w http.ResponseWriter, status, code int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(deliveryResponse{ErrorCode: code, Error: message}); err != nil {
		log.Printf("❌ Failed to write event response: %v", err)
	}
}
