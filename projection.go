package geonet

import "math"

const (
	// TileSize is the width of the world in pixels at zoom 0.
	TileSize = 256
	// MaxLatitude is the Web Mercator latitude limit in degrees.
	MaxLatitude = 85.0511287798
)

// Project converts ll to spherical Web Mercator pixel coordinates at the given
// zoom. The world spans [0, TileSize*2^zoom) on both axes with the origin at
// the north-west corner. Latitudes beyond ±MaxLatitude are clamped.
func Project(ll LatLng, zoom float64) Vec2 {
	scale := TileSize * math.Exp2(zoom)
	lat := math.Max(-MaxLatitude, math.Min(MaxLatitude, ll.Lat))
	sin := math.Sin(lat * math.Pi / 180)
	x := (ll.Lng + 180) / 360
	y := 0.5 - math.Log((1+sin)/(1-sin))/(4*math.Pi)
	return Vec2{X: x * scale, Y: y * scale}
}

// Unproject is the inverse of Project.
func Unproject(p Vec2, zoom float64) LatLng {
	scale := TileSize * math.Exp2(zoom)
	x := p.X/scale - 0.5
	y := 0.5 - p.Y/scale
	return LatLng{
		Lat: 90 - 360*math.Atan(math.Exp(-y*2*math.Pi))/math.Pi,
		Lng: 360 * x,
	}
}

// identityTransform is the identity affine matrix.
var identityTransform = [6]float64{1, 0, 0, 1, 0, 0}

// multiplyAffine multiplies two 2D affine matrices: result = parent * child.
//
//	Matrix layout: [a, b, c, d, tx, ty]
//	| a  c  tx |
//	| b  d  ty |
//	| 0  0   1 |
func multiplyAffine(p, c [6]float64) [6]float64 {
	return [6]float64{
		p[0]*c[0] + p[2]*c[1],
		p[1]*c[0] + p[3]*c[1],
		p[0]*c[2] + p[2]*c[3],
		p[1]*c[2] + p[3]*c[3],
		p[0]*c[4] + p[2]*c[5] + p[4],
		p[1]*c[4] + p[3]*c[5] + p[5],
	}
}

// invertAffine computes the inverse of a 2D affine matrix.
// Returns the identity matrix if the matrix is singular.
func invertAffine(m [6]float64) [6]float64 {
	det := m[0]*m[3] - m[2]*m[1]
	if det > -1e-12 && det < 1e-12 {
		return identityTransform
	}
	invDet := 1.0 / det
	a := m[3] * invDet
	b := -m[1] * invDet
	c := -m[2] * invDet
	d := m[0] * invDet
	return [6]float64{
		a, b, c, d,
		-(a*m[4] + c*m[5]),
		-(b*m[4] + d*m[5]),
	}
}

// transformPoint applies an affine matrix to a point.
func transformPoint(m [6]float64, x, y float64) (float64, float64) {
	return m[0]*x + m[2]*y + m[4], m[1]*x + m[3]*y + m[5]
}
