package rest

import "github.com/gin-gonic/gin"

// NewApi registers all routes on the router.
func NewApi(router *gin.Engine, images *ImageHandler) {
	imagesV1 := router.Group("api/images/v1")
	{
		imagesV1.POST("/", images.Upload)
		imagesV1.GET("/", images.ListMine)
		imagesV1.GET("/:imageId", images.GetMetadata)
		imagesV1.GET("/:imageId/download", images.Download)
		imagesV1.PUT("/:imageId", images.UpdateMetadata)
		imagesV1.DELETE("/:imageId", images.Delete)
	}
}
