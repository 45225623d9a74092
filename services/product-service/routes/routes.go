package routes

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yashrajoria/shopping-backend/services/product-service/controllers"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

func RegisterProductRoutes(r *gin.Engine, pc *controllers.ProductController, ic *controllers.InventoryController) {
	products := r.Group("/products")
	{
		products.POST("", pc.CreateProduct)
		products.GET("", pc.ListProducts)
		products.GET("/:product_id", pc.GetProduct)
		products.PUT("/:product_id", pc.UpdateProduct)
		products.DELETE("/:product_id", pc.DeleteProduct)
		products.GET("/:product_id/inventory", ic.GetInventory)
		products.PUT("/:product_id/inventory", ic.UpdateInventory)
	}
}

func RegisterHealthRoute(r *gin.Engine, service string, db Pinger, cacheEnabled bool) {
	r.GET("/health", func(c *gin.Context) {
		cacheState := "disabled"
		if cacheEnabled {
			cacheState = "enabled"
		}
		if err := db.Ping(c.Request.Context()); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"status": "unhealthy", "service": service, "database": "error", "cache": cacheState})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "healthy", "service": service, "database": "ok", "cache": cacheState})
	})
}
