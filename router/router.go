package router

import (
	"github.com/gin-gonic/gin"

	"github.com/dapurkita/kds-app/controllers"
	"github.com/dapurkita/kds-app/middlewares"
)

// SetupRouter merangkai seluruh permukaan HTTP KDS.
func SetupRouter(kdsCtrl *controllers.KDSController, staffCtrl *controllers.StaffController) *gin.Engine {
	r := gin.Default()

	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddlewares())
	r.Use(middlewares.LoggerMiddleware())

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	// ----------------------------------------------------------------
	//                      KITCHEN DISPLAY
	// ----------------------------------------------------------------
	kitchen := r.Group("/kitchen")
	{
		kitchen.GET("/items", kdsCtrl.GetItems)   // list per status / per tab
		kitchen.GET("/board", kdsCtrl.GetBoard)   // kanban, semua kolom sekaligus
		kitchen.POST("/refresh", kdsCtrl.RefreshItems)
		kitchen.GET("/staff", staffCtrl.GetActiveKitchenStaff)
		kitchen.POST("/items", kdsCtrl.CreateItem) // intake mode standalone

		// Transisi status dibatasi rate-nya
		mutations := kitchen.Group("/items/:item_id")
		mutations.Use(middlewares.NewMutationRateLimiter())
		{
			mutations.POST("/advance", kdsCtrl.AdvanceItem)
			mutations.POST("/assign", kdsCtrl.AssignItem)
			mutations.POST("/cancel", kdsCtrl.CancelAssignment)
			mutations.POST("/retreat", kdsCtrl.RetreatItem)
		}
	}

	// WebSocket untuk layar chef/staff/admin
	r.GET("/ws/:role", controllers.KDSHandler)

	return r
}
