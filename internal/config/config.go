package config

import "sync"

const (
	MinRenderDistance = 1
	MaxRenderDistance = 8
)

// RenderSettings holds render configuration
type RenderSettings struct {
	mu             sync.RWMutex
	renderDistance int // in chunks
}

var globalRenderSettings = &RenderSettings{
	renderDistance: 2, // default value
}

// GetRenderDistance returns the current render distance in chunks
func GetRenderDistance() int {
	globalRenderSettings.mu.RLock()
	defer globalRenderSettings.mu.RUnlock()
	return globalRenderSettings.renderDistance
}

// SetRenderDistance sets the render distance in chunks
func SetRenderDistance(distance int) {
	globalRenderSettings.mu.Lock()
	defer globalRenderSettings.mu.Unlock()

	// Clamp to reasonable values
	globalRenderSettings.renderDistance = min(max(distance, MinRenderDistance), MaxRenderDistance)
}

// GetChunkLoadRadius returns radius for chunk loading
func GetChunkLoadRadius() int {
	return GetRenderDistance()
}

var fpsLimit struct {
	mu    sync.RWMutex
	value int
}

func init() {
	fpsLimit.value = 120
}

// GetFPSLimit returns the frame cap; 0 means uncapped
func GetFPSLimit() int {
	fpsLimit.mu.RLock()
	defer fpsLimit.mu.RUnlock()
	return fpsLimit.value
}

// SetFPSLimit sets the frame cap; negative values disable it
func SetFPSLimit(limit int) {
	fpsLimit.mu.Lock()
	defer fpsLimit.mu.Unlock()
	fpsLimit.value = max(limit, 0)
}
