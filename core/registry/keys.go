package registry

// Core keys for GlobalRegistry.
const (
	// Extension registries stored in GlobalRegistry.
	KeyRegistryCmd    = "registry:cmd"
	KeyRegistryCron   = "registry:cron"
	KeyRegistryRoutes = "registry:routes"
	KeyRegistryNotify = "registry:notify"
)
