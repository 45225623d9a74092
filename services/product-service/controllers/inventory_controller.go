package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/yashrajoria/shopping-backend/services/common/errors"

	"github.com/yashrajoria/shopping-backend/services/product-service/models"
	"github.com/yashrajoria/shopping-backend/services/product-service/services"
)

type InventoryController struct {
	inventory services.InventoryService
}

func NewInventoryController(inventory services.InventoryService) *InventoryController {
	return &InventoryController{inventory: inventory}
}

// GetInventory handles GET /products/:product_id/inventory
func (ic *InventoryController) GetInventory(c *gin.Context) {
	id, ok := productIDParam(c)
	if !ok {
		return
	}
	inv, err := ic.inventory.GetInventory(c.Request.Context(), id)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, inv)
}

// UpdateInventory handles PUT /products/:product_id/inventory
func (ic *InventoryController) UpdateInventory(c *gin.Context) {
	id, ok := productIDParam(c)
	if !ok {
		return
	}
	var req models.InventoryUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.Respond(c, apperrors.BadRequest(err.Error()))
		return
	}
	inv, err := ic.inventory.UpdateInventory(c.Request.Context(), id, &req)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, inv)
}
