// README: HTTP router registration.
package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"freightquote/internal/http/handlers"
	"freightquote/internal/http/middleware"
	"freightquote/internal/infra"
)

// RouterDeps are the services behind the API. Verifier is optional; a nil
// verifier serves every route unauthenticated.
type RouterDeps struct {
	Quote    handlers.QuoteService
	TieUp    handlers.TieUpService
	Zones    handlers.ZoneMatrixService
	Carriers handlers.CarrierDirectory
	Verifier infra.TokenVerifier
}

func NewRouter(deps RouterDeps) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logging(), middleware.Recovery())

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	api := r.Group("/api")
	if deps.Verifier != nil {
		api.Use(middleware.Auth(deps.Verifier))
	}

	quoteHandler := handlers.NewQuoteHandler(deps.Quote)
	api.POST("/quotes", quoteHandler.Calculate)

	tieUpHandler := handlers.NewTieUpHandler(deps.TieUp)
	api.POST("/tie-ups", tieUpHandler.Add)
	api.GET("/tie-ups", tieUpHandler.List)
	api.DELETE("/tie-ups/:carrierId", tieUpHandler.Remove)

	carrierHandler := handlers.NewCarrierHandler(deps.Carriers)
	api.GET("/carriers", carrierHandler.List)
	api.GET("/carriers/:id", carrierHandler.Get)

	zoneHandler := handlers.NewZoneHandler(deps.Zones)
	api.GET("/carriers/:id/zone-matrix", zoneHandler.Get)
	api.PUT("/carriers/:id/zone-matrix", zoneHandler.Update)
	api.DELETE("/carriers/:id/zone-matrix", zoneHandler.Delete)

	return r
}
