package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	apperrors "github.com/yashrajoria/shopping-backend/services/common/errors"

	"github.com/yashrajoria/shopping-backend/services/cart-service/models"
	"github.com/yashrajoria/shopping-backend/services/cart-service/services"
)

type CartController struct {
	cartService services.CartService
}

func NewCartController(svc services.CartService) *CartController {
	return &CartController{cartService: svc}
}

// GetCart handles GET /cart/:user_id
func (cc *CartController) GetCart(c *gin.Context) {
	userID, ok := userIDParam(c)
	if !ok {
		return
	}
	cart, err := cc.cartService.GetCart(c.Request.Context(), userID)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, cart)
}

// AddItem handles POST /cart/:user_id/items
func (cc *CartController) AddItem(c *gin.Context) {
	userID, ok := userIDParam(c)
	if !ok {
		return
	}
	var req models.AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.Respond(c, apperrors.BadRequest(err.Error()))
		return
	}

	item, err := cc.cartService.AddItem(c.Request.Context(), userID, &req)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

// UpdateItem handles PUT /cart/:user_id/items/:product_id
func (cc *CartController) UpdateItem(c *gin.Context) {
	userID, ok := userIDParam(c)
	if !ok {
		return
	}
	productID, ok := productIDParam(c)
	if !ok {
		return
	}
	var req models.UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.Respond(c, apperrors.BadRequest(err.Error()))
		return
	}

	item, err := cc.cartService.UpdateItem(c.Request.Context(), userID, productID, req.Quantity)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

// RemoveItem handles DELETE /cart/:user_id/items/:product_id
func (cc *CartController) RemoveItem(c *gin.Context) {
	userID, ok := userIDParam(c)
	if !ok {
		return
	}
	productID, ok := productIDParam(c)
	if !ok {
		return
	}
	if err := cc.cartService.RemoveItem(c.Request.Context(), userID, productID); err != nil {
		apperrors.Respond(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ClearCart handles DELETE /cart/:user_id
func (cc *CartController) ClearCart(c *gin.Context) {
	userID, ok := userIDParam(c)
	if !ok {
		return
	}
	if err := cc.cartService.ClearCart(c.Request.Context(), userID); err != nil {
		apperrors.Respond(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func userIDParam(c *gin.Context) (string, bool) {
	id := c.Param("user_id")
	if !models.ValidUserID(id) {
		apperrors.Respond(c, apperrors.BadRequest("user_id may only contain letters, digits and . _ @ -"))
		return "", false
	}
	return id, true
}

func productIDParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("product_id"), 10, 64)
	if err != nil || id <= 0 {
		apperrors.Respond(c, apperrors.BadRequest("product_id must be a positive integer"))
		return 0, false
	}
	return id, true
}
