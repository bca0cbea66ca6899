// Package diagram implements the coordinate-plane viewer core: the mapping between
// mathematical space and pixel space, the viewport, point and polygon figures, the pixel
// buffer they rasterize into, and the loop that repaints that buffer at a fixed cadence.
//
// Pixel space has its origin at the top-left with Y growing downward; math space has Y
// growing upward. A Diagram ties the pieces together and is the only type host code needs.
package diagram
