package restapi

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

// RouterDeps collects everything SetupRouter wires together.
type RouterDeps struct {
	Index    *IndexHandler
	Funding  *FundingHandler
	Position *PositionHandler
	Network  *NetworkHandler

	Logger         *zap.Logger
	RequestTimeout time.Duration

	SwaggerEnabled  bool
	SwaggerSpecFile string
}

type route struct {
	path string
	get  gin.HandlerFunc
	post gin.HandlerFunc
}

// emptyOK answers OPTIONS requests that reach the router without an Origin header.
func emptyOK(c *gin.Context) {
	c.Status(http.StatusOK)
}

// SetupRouter builds the gin engine with middleware and all routes.
func SetupRouter(deps RouterDeps) *gin.Engine {
	router := gin.New()
	router.HandleMethodNotAllowed = true
	router.RedirectTrailingSlash = false

	router.Use(gin.Recovery())
	router.Use(RequestID())
	if deps.Logger != nil {
		router.Use(AccessLog(deps.Logger))
	}
	router.Use(Metrics())
	router.Use(AllowAnyOrigin())
	router.Use(cors.New(cors.Config{
		AllowAllOrigins:           true,
		AllowMethods:              []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders:              []string{"Content-Type", "Authorization", requestIDHeader},
		ExposeHeaders:             []string{requestIDHeader},
		MaxAge:                    12 * time.Hour,
		OptionsResponseStatusCode: http.StatusOK,
	}))
	router.Use(RequestTimeout(deps.RequestTimeout))

	routes := []route{
		{path: "/api", get: deps.Index.GetIndexHandler, post: deps.Index.PostIndexHandler},
		{path: "/api/", get: deps.Index.GetIndexHandler, post: deps.Index.PostIndexHandler},
		{path: "/api/funding-fees", get: deps.Funding.GetFundingFeesHandler},
		{path: "/api/positions", get: deps.Position.GetPositionsHandler},
		{path: "/api/positions/funding", get: deps.Position.GetPositionsWithFundingHandler},
		{path: "/api/positions/lookup", get: deps.Position.GetPositionByKeyHandler},
		{path: "/api/networks", get: deps.Network.GetNetworksHandler},
		{path: "/healthz", get: deps.Network.GetHealthHandler},
	}
	for _, r := range routes {
		router.GET(r.path, r.get)
		if r.post != nil {
			router.POST(r.path, r.post)
		}
		router.OPTIONS(r.path, emptyOK)
	}

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.OPTIONS("/metrics", emptyOK)

	if deps.SwaggerEnabled {
		router.StaticFile("/docs/swagger.yaml", deps.SwaggerSpecFile)
		router.OPTIONS("/docs/swagger.yaml", emptyOK)
		swaggerURL := ginSwagger.URL("/docs/swagger.yaml")
		router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, swaggerURL))
		router.OPTIONS("/swagger/*any", emptyOK)
	}

	router.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, ErrorResponse{Error: "Method not allowed"})
	})
	router.NoRoute(func(c *gin.Context) {
		c.String(http.StatusNotFound, "Not Found")
	})

	return router
}
