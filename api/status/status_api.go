package status

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"shopcrawl.GO/api"
	scrapeService "shopcrawl.GO/service/scrape"
)

func init() {
	api.RegisterRoute(RegisterStatusRoutes)
}

// RegisterStatusRoutes exposes the current crawl state.
func RegisterStatusRoutes(e *echo.Echo) {
	e.GET("/status", func(c echo.Context) error {
		st, ok := scrapeService.CurrentState()
		if !ok {
			return c.JSON(http.StatusOK, echo.Map{"running": false})
		}
		return c.JSON(http.StatusOK, st)
	})
}
