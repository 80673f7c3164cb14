package geom

import "math"

// FibonacciNode returns node i of a golden-angle lattice with 2h+1 nodes
// covering the sphere: latitude asin(2i/(2h+1)), longitude 2*pi*i/phi with
// phi the golden ratio. Nodes are quasi-uniform in area for i in [-h, h];
// i near +h lands near the +Z pole, i near -h near the -Z pole.
func FibonacciNode(i, h int) Spherical {
	lat := math.Asin(ClampUnit(2 * float64(i) / float64(2*h+1)))
	lon := math.Mod(2*math.Pi*float64(i)/math.Phi, 2*math.Pi)
	if lon < 0 {
		lon += 2 * math.Pi
	}
	return Spherical{Theta: math.Pi/2 - lat, Phi: lon}
}

// FibonacciAxes materializes the full lattice, 2h+1 nodes for i in [-h, h].
func FibonacciAxes(h int) []Spherical {
	axes := make([]Spherical, 0, 2*h+1)
	for i := -h; i <= h; i++ {
		axes = append(axes, FibonacciNode(i, h))
	}
	return axes
}
