package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/swaggo/swag"

	"github.com/maxviazov/clients-service/internal/docs"
)

const openAPIPath = "/openapi.json"

// RegisterDocs mounts documentation endpoints at the root:
//   - GET /openapi.json: the registered swag document
//   - GET /docs: Swagger UI pointed at /openapi.json
func RegisterDocs(r gin.IRouter) {
	r.GET(openAPIPath, func(c *gin.Context) {
		doc, err := swag.ReadDoc(docs.SwaggerInfo.InstanceName())
		if err != nil {
			c.String(http.StatusInternalServerError, "failed to read openapi document: %v", err)
			return
		}
		c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(doc))
	})
	r.GET("/docs", func(c *gin.Context) {
		c.Redirect(http.StatusFound, "/docs/index.html")
	})
	r.GET("/docs/*any", ginSwagger.WrapHandler(
		swaggerFiles.Handler,
		ginSwagger.URL(openAPIPath),
		ginSwagger.DefaultModelsExpandDepth(-1),
	))
}
