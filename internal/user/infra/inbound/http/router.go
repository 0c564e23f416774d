package http

import "github.com/gin-gonic/gin"

func RegisterUserRoutes(r *gin.Engine, handler *UserHandler) {
	users := r.Group("/api/user")
	{
		users.POST("", handler.CreateUser)
		users.GET("/search", handler.SearchUsers)
		users.GET("/:email", handler.GetUser)
		users.PATCH("/:email", handler.UpdateUser)
		users.PUT("/:email", handler.ReplaceUser)
		users.DELETE("/:email", handler.DeleteUser)
	}
}
