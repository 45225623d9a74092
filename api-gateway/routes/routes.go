package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yashrajoria/shopping-backend/api-gateway/config"
	"github.com/yashrajoria/shopping-backend/api-gateway/utils"
)

func RegisterAllRoutes(r *gin.Engine, fwd *utils.Forwarder, cfg *config.Config) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy", "service": "api-gateway"})
	})

	cart := fwd.To(cfg.CartServiceURL)
	r.Any("/cart/*any", cart)

	orders := fwd.To(cfg.OrderServiceURL)
	r.Any("/orders", orders)
	r.Any("/orders/*any", orders)

	users := fwd.To(cfg.UserServiceURL)
	r.Any("/users", users)
	r.Any("/users/*any", users)

	products := fwd.To(cfg.ProductServiceURL)
	r.Any("/products", products)
	r.Any("/products/*any", products)
}
