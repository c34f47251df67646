package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	punchoutapp "github.com/crowdfox/oci-srm-server-mock/internal/application/punchout"
	"github.com/crowdfox/oci-srm-server-mock/internal/infrastructure/logger"
)

// PunchoutHandler serves the punch-out protocol endpoints. These are called
// by browsers mid-redirect and by the supplier catalog, so their paths and
// response shapes are fixed by the existing integration; they answer with
// raw protocol JSON rather than the service's response envelope.
type PunchoutHandler struct {
	BaseHandler
	lifecycle *punchoutapp.LifecycleService
}

// NewPunchoutHandler creates a new PunchoutHandler
func NewPunchoutHandler(lifecycle *punchoutapp.LifecycleService) *PunchoutHandler {
	return &PunchoutHandler{lifecycle: lifecycle}
}

// RegisterRoutes registers the punch-out endpoints
func (h *PunchoutHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/active-oci-processes", h.ListActiveProcesses)
	rg.GET("/start-oci", h.StartPunchOut)
	rg.POST("/oci-call-up/:processId", h.CallUp)
	rg.GET("/confirm-oci-payment/:processId", h.ConfirmPayment)
}

// startPunchOutQuery binds the optional deep-link hint. A non-numeric
// goToProduct is a client error, not an ignorable value.
type startPunchOutQuery struct {
	GoToProduct *uint64 `form:"goToProduct"`
}

// ListActiveProcesses returns every known process keyed by id.
func (h *PunchoutHandler) ListActiveProcesses(c *gin.Context) {
	c.JSON(http.StatusOK, h.lifecycle.ActiveProcesses())
}

// StartPunchOut creates a new punch-out process and redirects the shopper
// into the supplier catalog login.
func (h *PunchoutHandler) StartPunchOut(c *gin.Context) {
	var query startPunchOutQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BadRequest(c, "goToProduct must be a non-negative number")
		return
	}

	processID, redirect := h.lifecycle.Start(query.GoToProduct)

	logger.GetGinLogger(c).Debug("Redirecting shopper into catalog",
		zap.String("process_id", processID))
	c.Redirect(http.StatusFound, redirect)
}

// CallUp receives the basket the shopper built, as an arbitrary
// form-encoded flat key/value payload, and attaches it to the process.
func (h *PunchoutHandler) CallUp(c *gin.Context) {
	processID := c.Param("processId")

	if err := c.Request.ParseForm(); err != nil {
		h.BadRequest(c, "call-up body must be form-encoded")
		return
	}

	// Flatten to the first value per key; the OCI convention never sends
	// repeated keys, it numbers them (NEW_ITEM-PRICE[1], [2], ...).
	payload := make(map[string]any, len(c.Request.PostForm))
	for key, values := range c.Request.PostForm {
		if len(values) > 0 {
			payload[key] = values[0]
		}
	}

	if err := h.lifecycle.CallUp(processID, payload); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"oci":          payload,
		"ociProcessId": processID,
	})
}

// ConfirmPayment synthesizes the order document for a called-up process,
// forwards it to the confirmation endpoint and returns the full registry
// snapshot on success.
func (h *PunchoutHandler) ConfirmPayment(c *gin.Context) {
	processID := c.Param("processId")
	token := c.Query("orderRequestToken")

	snapshot, err := h.lifecycle.Confirm(c.Request.Context(), processID, token)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, snapshot)
}
