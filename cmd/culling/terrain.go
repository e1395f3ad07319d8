package main

import (
	"github.com/chewxy/math32"
	"github.com/ethaniccc/float32-cube/cube"
	"github.com/oomph-ac/culling/block"
	"github.com/oomph-ac/culling/catalog"
	"github.com/oomph-ac/culling/world"
)

// terrainHeight is the height of the sections generated per column.
const terrainHeight = 64

// palette holds the states used to generate terrain.
type palette struct {
	stone, dirt, grass, sand block.State
	water, glass, leaves     block.State
	log, slab, carpet        block.State
}

func newPalette(cat *catalog.Catalog) (palette, error) {
	var (
		p   palette
		err error
	)
	for _, e := range []struct {
		dst   *block.State
		name  string
		props map[string]string
	}{
		{&p.stone, "minecraft:stone", nil},
		{&p.dirt, "minecraft:dirt", nil},
		{&p.grass, "minecraft:grass_block", nil},
		{&p.sand, "minecraft:sand", nil},
		{&p.water, "minecraft:water", nil},
		{&p.glass, "minecraft:glass", nil},
		{&p.leaves, "minecraft:oak_leaves", nil},
		{&p.log, "minecraft:oak_log", nil},
		{&p.slab, "minecraft:oak_slab", map[string]string{"type": "bottom"}},
		{&p.carpet, "minecraft:white_carpet", nil},
	} {
		if *e.dst, err = cat.State(e.name, e.props); err != nil {
			return palette{}, err
		}
	}
	return p, nil
}

// generate fills square columns of sections with rolling terrain until at least the amount of sections
// passed exists. The terrain is the same on every run.
func generate(w *world.World, p palette, sections int) {
	columns := max(1, (sections+terrainHeight/16-1)/(terrainHeight/16))
	side := int(math32.Ceil(math32.Sqrt(float32(columns))))
	const waterLevel = 30

	for cx := 0; cx < side; cx++ {
		for cz := 0; cz < side; cz++ {
			for x := cx * 16; x < cx*16+16; x++ {
				for z := cz * 16; z < cz*16+16; z++ {
					h := height(x, z)
					for y := 0; y < terrainHeight; y++ {
						pos := cube.Pos{x, y, z}
						switch {
						case y < h-3:
							w.SetBlock(pos, p.stone)
						case y < h:
							w.SetBlock(pos, p.dirt)
						case y == h && h <= waterLevel:
							w.SetBlock(pos, p.sand)
						case y == h:
							w.SetBlock(pos, p.grass)
						case y <= waterLevel:
							w.SetBlock(pos, p.water)
						default:
							w.SetBlock(pos, block.Air.DefaultState())
						}
					}
					if h > waterLevel && h+6 < terrainHeight {
						decorate(w, p, x, h, z)
					}
				}
			}
		}
	}
}

// height returns the surface height at the column passed.
func height(x, z int) int {
	fx, fz := float32(x), float32(z)
	return 30 + int(6*math32.Sin(fx/9)*math32.Cos(fz/11)+3*math32.Sin((fx+fz)/5))
}

// decorate places a few structures on the surface, chosen by a hash of the column.
func decorate(w *world.World, p palette, x, h, z int) {
	switch hash := (x*73856093 ^ z*19349663) & 0xff; {
	case hash < 3:
		for y := h + 1; y < h+4; y++ {
			w.SetBlock(cube.Pos{x, y, z}, p.log)
		}
		for dx := -1; dx <= 1; dx++ {
			for dz := -1; dz <= 1; dz++ {
				w.SetBlock(cube.Pos{x + dx, h + 4, z + dz}, p.leaves)
			}
		}
	case hash < 6:
		for y := h + 1; y < h+3; y++ {
			w.SetBlock(cube.Pos{x, y, z}, p.glass)
			w.SetBlock(cube.Pos{x + 1, y, z}, p.glass)
		}
	case hash < 12:
		w.SetBlock(cube.Pos{x, h + 1, z}, p.slab)
	case hash < 16:
		w.SetBlock(cube.Pos{x, h + 1, z}, p.carpet)
	}
}
