// Package color manages the named RGBW presets used by the installation's
// lighting scenes.
package color
