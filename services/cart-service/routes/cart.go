package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/yashrajoria/shopping-backend/services/cart-service/controllers"
)

func RegisterCartRoutes(r *gin.Engine, cc *controllers.CartController) {
	cart := r.Group("/cart")
	{
		cart.GET("/:user_id", cc.GetCart)
		cart.DELETE("/:user_id", cc.ClearCart)
		cart.POST("/:user_id/items", cc.AddItem)
		cart.PUT("/:user_id/items/:product_id", cc.UpdateItem)
		cart.DELETE("/:user_id/items/:product_id", cc.RemoveItem)
	}
}
