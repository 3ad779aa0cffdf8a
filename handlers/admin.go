package handlers

import (
	"context"
	"net/http"

	ledgerRepo "citaflow/database/repository/ledger"
	"citaflow/services/dispatcher"
	"citaflow/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AdminHandler struct {
	Dispatcher dispatcher.DispatcherService
	Ledger     ledgerRepo.AppointmentRepository
}

func NewAdminHandler(d dispatcher.DispatcherService, ledger ledgerRepo.AppointmentRepository) *AdminHandler {
	return &AdminHandler{Dispatcher: d, Ledger: ledger}
}

func (h *AdminHandler) DispatcherStatusHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"sentToday": h.Dispatcher.SentToday()})
}

// RunDispatcherHandler triggers a drain pass outside the schedule,
// useful after editing the queue sheet.
func (h *AdminHandler) RunDispatcherHandler(c *gin.Context) {
	go h.Dispatcher.Run(context.Background())
	c.JSON(http.StatusAccepted, gin.H{"status": "dispatch started"})
}

func (h *AdminHandler) AppointmentsHandler(c *gin.Context) {
	contact := c.Param("contact")
	appts, err := h.Ledger.GetByContact(c.Request.Context(), contact)
	if err != nil {
		utils.GetLogger().Error("appointment lookup failed",
			zap.String("contact", contact), zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "failed to read appointments", "")
		return
	}
	c.JSON(http.StatusOK, gin.H{"appointments": appts})
}
