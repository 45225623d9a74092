package controllers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	apperrors "github.com/yashrajoria/shopping-backend/services/common/errors"

	"github.com/yashrajoria/shopping-backend/services/order-service/models"
	"github.com/yashrajoria/shopping-backend/services/order-service/services"
)

const defaultPageLimit = 100

type OrderController struct {
	orderService services.OrderService
	maxLimit     int
}

func NewOrderController(orderService services.OrderService, maxLimit int) *OrderController {
	if maxLimit <= 0 {
		maxLimit = defaultPageLimit
	}
	return &OrderController{orderService: orderService, maxLimit: maxLimit}
}

// CreateOrder handles POST /orders
func (oc *OrderController) CreateOrder(c *gin.Context) {
	var req models.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.Respond(c, apperrors.BadRequest(err.Error()))
		return
	}

	order, err := oc.orderService.CreateOrder(c.Request.Context(), &req)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}
	c.JSON(http.StatusCreated, models.NewOrderResponse(order))
}

// ListOrders handles GET /orders
func (oc *OrderController) ListOrders(c *gin.Context) {
	skip, limit, ok := oc.pagination(c)
	if !ok {
		return
	}
	orders, err := oc.orderService.ListOrders(c.Request.Context(), skip, limit)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, toResponses(orders))
}

// ListOrdersByUser handles GET /orders/user/:user_id
func (oc *OrderController) ListOrdersByUser(c *gin.Context) {
	userID, ok := idParam(c, "user_id")
	if !ok {
		return
	}
	skip, limit, ok := oc.pagination(c)
	if !ok {
		return
	}
	orders, err := oc.orderService.ListOrdersByUser(c.Request.Context(), userID, skip, limit)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, toResponses(orders))
}

// GetOrder handles GET /orders/:order_id
func (oc *OrderController) GetOrder(c *gin.Context) {
	orderID, ok := idParam(c, "order_id")
	if !ok {
		return
	}
	order, err := oc.orderService.GetOrder(c.Request.Context(), orderID)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, models.NewOrderResponse(order))
}

// UpdateOrder handles PUT /orders/:order_id
func (oc *OrderController) UpdateOrder(c *gin.Context) {
	orderID, ok := idParam(c, "order_id")
	if !ok {
		return
	}
	var req models.UpdateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.Respond(c, apperrors.BadRequest(err.Error()))
		return
	}

	order, err := oc.orderService.UpdateOrder(c.Request.Context(), orderID, &req)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, models.NewOrderResponse(order))
}

// DeleteOrder handles DELETE /orders/:order_id
func (oc *OrderController) DeleteOrder(c *gin.Context) {
	orderID, ok := idParam(c, "order_id")
	if !ok {
		return
	}
	if err := oc.orderService.DeleteOrder(c.Request.Context(), orderID); err != nil {
		apperrors.Respond(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// pagination reads skip and limit. skip must be >= 0 and limit within
// [1, maxLimit]; the default limit is the smaller of 100 and maxLimit.
func (oc *OrderController) pagination(c *gin.Context) (int, int, bool) {
	skip, err := strconv.Atoi(c.DefaultQuery("skip", "0"))
	if err != nil || skip < 0 {
		apperrors.Respond(c, apperrors.BadRequest("skip must be a non-negative integer"))
		return 0, 0, false
	}

	limit := min(defaultPageLimit, oc.maxLimit)
	if raw, present := c.GetQuery("limit"); present {
		limit, err = strconv.Atoi(raw)
		if err != nil || limit < 1 || limit > oc.maxLimit {
			apperrors.Respond(c, apperrors.BadRequest(fmt.Sprintf("limit must be between 1 and %d", oc.maxLimit)))
			return 0, 0, false
		}
	}
	return skip, limit, true
}

func idParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		apperrors.Respond(c, apperrors.BadRequest(name+" must be a positive integer"))
		return 0, false
	}
	return uint(id), true
}

func toResponses(orders []models.Order) []models.OrderResponse {
	out := make([]models.OrderResponse, 0, len(orders))
	for i := range orders {
		out = append(out, models.NewOrderResponse(&orders[i]))
	}
	return out
}
