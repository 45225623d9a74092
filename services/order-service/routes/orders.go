package routes

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yashrajoria/shopping-backend/services/order-service/controllers"
)

// Pinger reports database reachability for /health.
type Pinger interface {
	Ping(ctx context.Context) error
}

func RegisterOrderRoutes(r *gin.Engine, oc *controllers.OrderController) {
	orders := r.Group("/orders")
	{
		orders.POST("", oc.CreateOrder)
		orders.GET("", oc.ListOrders)
		orders.GET("/user/:user_id", oc.ListOrdersByUser)
		orders.GET("/:order_id", oc.GetOrder)
		orders.PUT("/:order_id", oc.UpdateOrder)
		orders.DELETE("/:order_id", oc.DeleteOrder)
	}
}

func RegisterHealthRoute(r *gin.Engine, service string, db Pinger) {
	r.GET("/health", func(c *gin.Context) {
		if err := db.Ping(c.Request.Context()); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"status": "unhealthy", "service": service, "database": "error"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "healthy", "service": service, "database": "ok"})
	})
}
