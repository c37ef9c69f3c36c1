package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/flarexio/ragblade"

	mcpE "github.com/flarexio/ragblade/mcp"
)

func AddRouters(r *gin.Engine, endpoints ragblade.EndpointSet) {
	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "ragblade is running!"})
	})

	r.POST("/query", QueryHandler(endpoints.RetrieveAndGenerate))

	api := r.Group("/api")
	{
		api.POST("/query", QueryHandler(endpoints.RetrieveAndGenerate))
		api.POST("/retrieve", RetrieveHandler(endpoints.Retrieve))
	}
}

func AddStreamableRouters(r *gin.Engine, endpoints map[mcp.MCPMethod]mcpE.MCPEndpoint) {
	mcp := r.Group("/mcp")
	{
		mcp.POST("/", MCPStreamableHandler(endpoints))
	}
}

func AddMetricsRouter(r *gin.Engine) {
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
}
