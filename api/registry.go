package api

import (
	"sync"

	"github.com/labstack/echo/v4"

	"shopcrawl.GO/core/registry"
)

var mu sync.Mutex

// RouteFunc registers routes on the root Echo instance.
type RouteFunc func(e *echo.Echo)

func getRoutes() []RouteFunc {
	if v, ok := registry.GlobalRegistry.GetGlobal(registry.KeyRegistryRoutes); ok && v != nil {
		return v.([]RouteFunc)
	}
	return nil
}

// RegisterRoute registers a route module. Call from init() in api packages.
func RegisterRoute(fn RouteFunc) {
	mu.Lock()
	defer mu.Unlock()
	if registry.GlobalRegistry.IsLocked(registry.KeyRegistryRoutes) {
		panic("api/registry: routes locked (register only during init)")
	}
	list := getRoutes()
	list = append(list, fn)
	registry.GlobalRegistry.SetGlobal(registry.KeyRegistryRoutes, list)
}

// ApplyRoutes calls all registered route modules. Locks the registry.
func ApplyRoutes(e *echo.Echo) {
	mu.Lock()
	defer mu.Unlock()
	for _, fn := range getRoutes() {
		fn(e)
	}
	registry.GlobalRegistry.Lock(registry.KeyRegistryRoutes)
}
