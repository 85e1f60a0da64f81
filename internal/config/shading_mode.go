package config

import (
	"sync"

	"searchit/internal/shading"
)

// ShadingMode selects the distance falloff preset at runtime
type ShadingMode struct {
	mu       sync.RWMutex
	dramatic bool
}

var globalShadingMode = &ShadingMode{}

// GetDramaticShading reports whether the dramatic falloff is active
func GetDramaticShading() bool {
	globalShadingMode.mu.RLock()
	defer globalShadingMode.mu.RUnlock()
	return globalShadingMode.dramatic
}

// SetDramaticShading switches between the tuned and the dramatic falloff
func SetDramaticShading(enabled bool) {
	globalShadingMode.mu.Lock()
	defer globalShadingMode.mu.Unlock()
	globalShadingMode.dramatic = enabled
}

// ActiveShading returns the falloff to mesh with: the dramatic preset when
// enabled, tuned otherwise.
func ActiveShading(tuned shading.Config) shading.Config {
	if GetDramaticShading() {
		return shading.DramaticConfig()
	}
	return tuned
}
