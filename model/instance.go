package model

// Instance is the render data for one visible cell
type Instance struct {
	Position [3]float32
	Color    [3]float32
}

// InstanceRaw is the per-instance vertex layout of an instanced draw: a
// column-major model matrix followed by the color
type InstanceRaw struct {
	Model [16]float32
	Color [3]float32
}

// Raw expands the position into a translation matrix
func (i Instance) Raw() InstanceRaw {
	return InstanceRaw{
		Model: [16]float32{
			1, 0, 0, 0,
			0, 1, 0, 0,
			0, 0, 1, 0,
			i.Position[0], i.Position[1], i.Position[2], 1,
		},
		Color: i.Color,
	}
}

// ExtractInstances returns every visible cell in linear index order. The
// result is owned by the caller.
func ExtractInstances(g *Grid) []Instance {
	return ExtractInstancesInto(g, make([]Instance, 0, g.CountVisible()))
}

// ExtractInstancesInto is ExtractInstances appending to dst[:0]
func ExtractInstancesInto(g *Grid, dst []Instance) []Instance {
	dst = dst[:0]
	for i := range g.cells {
		c := &g.cells[i]
		if !c.Visible() {
			continue
		}
		dst = append(dst, Instance{Position: c.Position, Color: c.Color(g.maxHealth)})
	}
	return dst
}

// RawInstances converts instances to their vertex layout
func RawInstances(instances []Instance) []InstanceRaw {
	raw := make([]InstanceRaw, len(instances))
	for i, inst := range instances {
		raw[i] = inst.Raw()
	}
	return raw
}
