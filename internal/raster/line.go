// Package raster converts cursor movements into discrete pixel paths.
package raster

import (
	"errors"

	"github.com/verte-zerg/mousetracks/internal/model"
)

// maxSteps bounds the walk along the major axis.
const maxSteps = 100000

// ErrNoTermination is returned when a line needs more than maxSteps steps.
var ErrNoTermination = errors.New("line rasterization did not terminate")

// Line returns the pixels strictly between start and end. The result,
// framed by start and end, is 8-connected with no gaps or repeats.
func Line(start, end model.Point) ([]model.Point, error) {
	if start == end {
		return nil, nil
	}
	dx := end.X - start.X
	dy := end.Y - start.Y
	if dx == 0 || dy == 0 {
		return axisLine(start, dx, dy)
	}

	sx, sy := sign(dx), sign(dy)
	adx, ady := abs(dx), abs(dy)
	xMajor := adx >= ady
	major, minor := adx, ady
	if !xMajor {
		major, minor = ady, adx
	}

	if major > maxSteps {
		return nil, ErrNoTermination
	}

	// acc starts at half a pixel, scaled by 2*major, so the minor axis
	// steps at the rounding midpoint.
	acc := major
	x, y := start.X, start.Y
	points := make([]model.Point, 0, major-1)
	for i := 1; i < major; i++ {
		acc += 2 * minor
		stepMinor := acc >= 2*major
		if stepMinor {
			acc -= 2 * major
		}
		if xMajor {
			x += sx
			if stepMinor {
				y += sy
			}
		} else {
			y += sy
			if stepMinor {
				x += sx
			}
		}
		points = append(points, model.Point{X: x, Y: y})
	}
	return points, nil
}

func axisLine(start model.Point, dx, dy int) ([]model.Point, error) {
	steps := abs(dx) + abs(dy)
	if steps > maxSteps {
		return nil, ErrNoTermination
	}
	sx, sy := sign(dx), sign(dy)
	points := make([]model.Point, 0, steps-1)
	for i := 1; i < steps; i++ {
		points = append(points, model.Point{X: start.X + i*sx, Y: start.Y + i*sy})
	}
	return points, nil
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
