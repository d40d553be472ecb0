package http

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func RegisterRoutes(r *gin.Engine, svcs Services, log zerolog.Logger) {
	h := NewHandler(svcs, log)

	r.Use(RequestLogger(log))

	api := r.Group("/api/v1")
	{
		syncGroup := api.Group("/sync")
		{
			syncGroup.POST("/meraki", h.PostMerakiSync)
			syncGroup.POST("/freshservice", h.PostFreshserviceSync)
			syncGroup.POST("/azure", h.PostAzureSync)
			syncGroup.POST("/azure/users", h.PostAzureUsersSync)
			syncGroup.POST("/azure/locations", h.PostAzureLocationsSync)
		}

		api.GET("/network-devices/:serial", h.GetNetworkDevice)
	}
	r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}
