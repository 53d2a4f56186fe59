package mesh

// MakeGrid builds an nx by ny grid of quads in the z=0 plane, centred at the
// origin and spanning width by height. Each quad is split into two triangles.
//
// spacing is the gap left between neighbouring quads, in model units.
// A spacing of 0 produces a contiguous surface. Non-positive dimensions or
// counts yield an empty mesh.
func MakeGrid(nx, ny int, width, height, spacing float32) *Mesh {
	m := &Mesh{}
	if nx <= 0 || ny <= 0 || width <= 0 || height <= 0 {
		return m
	}

	cellW := width / float32(nx)
	cellH := height / float32(ny)
	half := spacing / 2
	// A gap wider than the cell would invert the quad.
	half = min(half, cellW/2, cellH/2)

	m.Positions = make([]Vec3, 0, nx*ny*6)
	for j := 0; j < ny; j++ {
		for i := 0; i < nx; i++ {
			x0 := -width/2 + float32(i)*cellW + half
			x1 := -width/2 + float32(i+1)*cellW - half
			y0 := -height/2 + float32(j)*cellH + half
			y1 := -height/2 + float32(j+1)*cellH - half

			a := Vec3{x0, y0, 0}
			b := Vec3{x1, y0, 0}
			c := Vec3{x1, y1, 0}
			d := Vec3{x0, y1, 0}

			// Counter-clockwise when viewed from +z.
			m.Positions = append(m.Positions, a, b, c, a, c, d)
		}
	}
	return m
}
