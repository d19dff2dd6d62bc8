package handlers

import (
	"gym_club_backend/internal/models"
	"gym_club_backend/internal/services"
	"gym_club_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// ReportHandler serves the admin dashboard and payment report.
type ReportHandler struct {
	userService    services.UserService
	paymentService services.PaymentService
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(us services.UserService, ps services.PaymentService) *ReportHandler {
	return &ReportHandler{userService: us, paymentService: ps}
}

// parseReportRequestParams reads the report query parameters.
func parseReportRequestParams(c *gin.Context) models.ReportRequestParams {
	var params models.ReportRequestParams
	params.StartDate = c.Query("start_date")
	params.EndDate = c.Query("end_date")
	params.Status = c.DefaultQuery("status", "all")
	params.Plan = c.DefaultQuery("plan", "all")
	return params
}

// GetDashboardSummary provides a summary of key metrics for the dashboard.
func (h *ReportHandler) GetDashboardSummary(c *gin.Context) {
	summary, err := h.userService.Dashboard()
	if err != nil {
		respondServiceError(c, err, "GetDashboardSummary")
		return
	}
	utils.RespondOK(c, summary)
}

// GetPaymentReport returns filtered payments with aggregate statistics.
func (h *ReportHandler) GetPaymentReport(c *gin.Context) {
	report, err := h.paymentService.Report(parseReportRequestParams(c))
	if err != nil {
		respondServiceError(c, err, "GetPaymentReport")
		return
	}
	utils.RespondOK(c, report)
}
