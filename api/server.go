package api

import (
	"log"
	"net/http"

	"github.com/labstack/echo/v4"
)

// StartStatusServer serves the registered routes in the background and
// returns the echo instance so the caller can shut it down.
func StartStatusServer(addr string) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	ApplyRoutes(e)
	go func() {
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Printf("status server: %v", err)
		}
	}()
	return e
}
