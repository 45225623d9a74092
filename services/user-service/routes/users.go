package routes

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yashrajoria/shopping-backend/services/user-service/controllers"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

func RegisterUserRoutes(r *gin.Engine, uc *controllers.UserController) {
	users := r.Group("/users")
	{
		users.POST("", uc.CreateUser)
		users.GET("", uc.ListUsers)
		users.GET("/:user_id", uc.GetUser)
		users.PUT("/:user_id", uc.UpdateUser)
		users.DELETE("/:user_id", uc.DeleteUser)
		users.POST("/:user_id/image-upload-url", uc.CreateImageUploadURL)
		users.PUT("/:user_id/image", uc.UploadImage)
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
