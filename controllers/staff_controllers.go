package controllers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dapurkita/kds-app/kitchen"
	"github.com/dapurkita/kds-app/models"
	"github.com/dapurkita/kds-app/utils"
)

type StaffController struct {
	Roster kitchen.StaffProvider
}

func NewStaffController(roster kitchen.StaffProvider) *StaffController {
	return &StaffController{Roster: roster}
}

// GetActiveKitchenStaff -> roster staff dapur yang shift-nya sedang jalan
func (sc *StaffController) GetActiveKitchenStaff(c *gin.Context) {
	role := c.DefaultQuery("role", models.RoleKitchen)

	list, err := sc.Roster.FetchActiveStaff(c.Request.Context(), role)
	if err != nil {
		respondKitchenError(c, fmt.Errorf("%w: %v", kitchen.ErrUnavailable, err))
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Active staff", list)
}
