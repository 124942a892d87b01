package scrape

import (
	"log"

	"shopcrawl.GO/core/registry"
)

// Notifier signals an operator-visible fetch failure.
type Notifier interface {
	Alert()
}

// ConsoleNotifier rings the terminal bell and logs the failure.
type ConsoleNotifier struct{}

func (ConsoleNotifier) Alert() {
	log.Print("\aConnection error!!")
}

// NoopNotifier ignores alerts (tests, headless runs).
type NoopNotifier struct{}

func (NoopNotifier) Alert() {}

// RegisterNotifier installs a custom notifier. Call from init() in custom
// packages. Panics if the notifier registry is locked.
func RegisterNotifier(n Notifier) {
	if registry.GlobalRegistry.IsLocked(registry.KeyRegistryNotify) {
		panic("scrape/notify: locked (register only during init)")
	}
	registry.GlobalRegistry.SetGlobal(registry.KeyRegistryNotify, n)
}

// ActiveNotifier returns the registered notifier, defaulting to the console
// bell. Locks the notifier registry on first call.
func ActiveNotifier() Notifier {
	if !registry.GlobalRegistry.IsLocked(registry.KeyRegistryNotify) {
		registry.GlobalRegistry.Lock(registry.KeyRegistryNotify)
	}
	if v, ok := registry.GlobalRegistry.GetGlobal(registry.KeyRegistryNotify); ok && v != nil {
		return v.(Notifier)
	}
	return ConsoleNotifier{}
}
