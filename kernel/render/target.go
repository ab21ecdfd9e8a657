package render

// Target is the scene collaborator that makes settings changes visible.
// Methods are side-effect only and are called with the new value already
// recorded in the Configurator.
type Target interface {
	// ApplyShadows cascades to the renderer shadow map, the light and every mesh
	ApplyShadows(enabled bool)
	ApplyWireframe(enabled bool)
	ApplyBackground(c Color)
	ApplyHelperVisibility(h Helper, visible bool)
	ApplyAmbientIntensity(v float64)
	ApplyDirectionalIntensity(v float64)
	ApplyDirectionalPosition(p Vec3)
}
