// Package screen implements core.Photographer: capturing the visual state
// of a target window and persisting it as a session artifact.
//
// Captures come from a Source, the seam between the capture pipeline and an
// actual rasterizer. The bundled sources are headless (fixed bytes for
// tests, generated solid PNGs for demos); a source backed by a real screen
// grabber plugs in through the same interface.
package screen
