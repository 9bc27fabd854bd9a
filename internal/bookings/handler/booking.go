package handler

import (
	"encoding/json"
	"io"
	"net/http"

	"fleetbook/internal/bookings/service"
	"fleetbook/pkg/gateway"
	httputil "fleetbook/pkg/http"
	"fleetbook/pkg/logger"
	"fleetbook/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type BookingHandler struct {
	bookings   service.BookingService
	reconciler service.ReconcilerService
	log        *logger.Logger
}

func NewBookingHandler(bookings service.BookingService, reconciler service.ReconcilerService, log *logger.Logger) *BookingHandler {
	return &BookingHandler{
		bookings:   bookings,
		reconciler: reconciler,
		log:        log,
	}
}

func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req model.BookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		})
		return
	}

	result, err := h.bookings.AttemptBooking(r.Context(), &req)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteCreated(w, result)
}

func (h *BookingHandler) GetOrder(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	order, err := h.bookings.GetOrder(r.Context(), ps.ByName("id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteSuccess(w, order)
}

func (h *BookingHandler) Confirm(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := h.reconciler.ConfirmBooking(r.Context(), ps.ByName("id")); err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteNoContent(w)
}

// Webhook receives gateway settlement deliveries. The raw body is needed
// for signature verification, so it is read before any decoding.
func (h *BookingHandler) Webhook(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	payload, err := io.ReadAll(r.Body)
	if err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Failed to read request body",
		})
		return
	}

	signature := r.Header.Get(gateway.SignatureHeader)
	if err := h.reconciler.HandleWebhook(r.Context(), payload, signature); err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteNoContent(w)
}

func (h *BookingHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/bookings", h.Create)
	router.GET("/api/v1/bookings/id/:id", h.GetOrder)
	router.POST("/api/v1/reservations/id/:id/confirm", h.Confirm)
	router.POST("/api/v1/webhooks/payment", h.Webhook)
}
