package handlers

import (
	"net/http"
	"strings"

	"gym_club_backend/internal/services"
	"gym_club_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// PaymentHandler holds the payment service.
type PaymentHandler struct {
	paymentService services.PaymentService
}

// NewPaymentHandler creates a new PaymentHandler.
func NewPaymentHandler(ps services.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: ps}
}

// GetPaymentMethods lists the configured payment methods.
func (h *PaymentHandler) GetPaymentMethods(c *gin.Context) {
	methods := h.paymentService.GetPaymentMethods()
	utils.RespondList(c, methods, len(methods))
}

// CreatePayment opens a pending payment for a plan.
func (h *PaymentHandler) CreatePayment(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	var req services.CreatePaymentRequest
	if !bindJSON(c, &req, "CreatePayment") {
		return
	}
	checkout, err := h.paymentService.CreatePayment(actor.UserID, req)
	if err != nil {
		respondServiceError(c, err, "CreatePayment")
		return
	}
	utils.RespondMessage(c, http.StatusCreated, "Payment created", checkout)
}

// GetPaymentStatus returns one payment by order id.
func (h *PaymentHandler) GetPaymentStatus(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	payment, err := h.paymentService.GetPaymentStatus(strings.TrimSpace(c.Param("order_id")), actor)
	if err != nil {
		respondServiceError(c, err, "GetPaymentStatus")
		return
	}
	utils.RespondOK(c, payment)
}

// SimulatePayment completes a payment without a gateway.
func (h *PaymentHandler) SimulatePayment(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	var req services.SimulatePaymentRequest
	if !bindJSON(c, &req, "SimulatePayment") {
		return
	}
	completion, err := h.paymentService.SimulateCompletion(strings.TrimSpace(c.Param("order_id")), req.Action, actor)
	if err != nil {
		respondServiceError(c, err, "SimulatePayment")
		return
	}
	utils.RespondMessage(c, http.StatusOK, "Payment "+string(completion.Payment.Status), completion)
}

// PaymentCallback receives gateway notifications. It carries no user token;
// the route is guarded by the shared callback secret when one is configured.
func (h *PaymentHandler) PaymentCallback(c *gin.Context) {
	var req services.PaymentCallbackRequest
	if !bindJSON(c, &req, "PaymentCallback") {
		return
	}
	utils.LogInfo("PaymentCallback: notification received", map[string]interface{}{
		"order_id":           req.OrderID,
		"transaction_status": req.TransactionStatus,
	})
	completion, err := h.paymentService.Callback(req)
	if err != nil {
		respondServiceError(c, err, "PaymentCallback")
		return
	}
	utils.RespondMessage(c, http.StatusOK, "Callback processed", completion)
}

// GetPaymentHistory lists the calling member's payments.
func (h *PaymentHandler) GetPaymentHistory(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	payments, err := h.paymentService.History(actor.UserID)
	if err != nil {
		respondServiceError(c, err, "GetPaymentHistory")
		return
	}
	utils.RespondList(c, payments, len(payments))
}

// GetAllPayments lists every payment (admin).
func (h *PaymentHandler) GetAllPayments(c *gin.Context) {
	payments, err := h.paymentService.ListAll()
	if err != nil {
		respondServiceError(c, err, "GetAllPayments")
		return
	}
	utils.RespondList(c, payments, len(payments))
}
