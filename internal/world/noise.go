package world

import (
	"math"
)

// NoiseSource is a deterministic scalar field. Samples are in [-1, 1].
type NoiseSource interface {
	Noise2D(x, z float64) float64
	Noise3D(x, y, z float64) float64
}

// ValueNoise is a seeded lattice value noise with optional octaves.
// No external deps; lattice values come from integer hashing.
type ValueNoise struct {
	seed        int64
	octaves     int
	persistence float64
	lacunarity  float64
}

// NewValueNoise creates a single-octave noise field for the given seed.
func NewValueNoise(seed int64) *ValueNoise {
	return &ValueNoise{
		seed:        seed,
		octaves:     1,
		persistence: 0.5,
		lacunarity:  2.0,
	}
}

// WithOctaves returns a copy of n that sums the given number of octaves.
func (n *ValueNoise) WithOctaves(octaves int) *ValueNoise {
	c := *n
	c.octaves = max(octaves, 1)
	return &c
}

// Noise2D samples the field at (x, z).
func (n *ValueNoise) Noise2D(x, z float64) float64 {
	return octaveNoise2D(x, z, n.seed, n.octaves, n.persistence, n.lacunarity)*2 - 1
}

// Noise3D samples the field at (x, y, z).
func (n *ValueNoise) Noise3D(x, y, z float64) float64 {
	return octaveNoise3D(x, y, z, n.seed, n.octaves, n.persistence, n.lacunarity)*2 - 1
}

// fade is the quintic smoothstep 6t^5 - 15t^4 + 10t^3.
func fade(t float64) float64 {
	return t * t * t * (t*(t*6-15) + 10)
}

func lerp(a, b, t float64) float64 {
	return a + t*(b-a)
}

func hash2(x int64, z int64, seed int64) uint64 {
	// SplitMix64 finalizer, stable across runs for the same inputs
	v := uint64(x)*0x9E3779B97F4A7C15 + uint64(z)*0x6C62272E07BB0142 + uint64(seed)
	v += 0x9E3779B97F4A7C15
	v = (v ^ (v >> 30)) * 0xBF58476D1CE4E5B9
	v = (v ^ (v >> 27)) * 0x94D049BB133111EB
	v = v ^ (v >> 31)
	return v
}

func hash3(x, y, z int64, seed int64) uint64 {
	v := uint64(x)*0x9E3779B97F4A7C15 + uint64(y)*0x517CC1B727220A95 + uint64(z)*0x6C62272E07BB0142 + uint64(seed)
	v += 0x9E3779B97F4A7C15
	v = (v ^ (v >> 30)) * 0xBF58476D1CE4E5B9
	v = (v ^ (v >> 27)) * 0x94D049BB133111EB
	v = v ^ (v >> 31)
	return v
}

// unit maps a hash to [0,1].
func unit(h uint64) float64 {
	return float64(h&0xFFFFFFFF) / float64(0xFFFFFFFF)
}

func valueNoise2D(x float64, z float64, seed int64) float64 {
	x0 := math.Floor(x)
	z0 := math.Floor(z)
	ix, iz := int64(x0), int64(z0)

	fx := fade(x - x0)
	fz := fade(z - z0)

	v00 := unit(hash2(ix, iz, seed))
	v10 := unit(hash2(ix+1, iz, seed))
	v01 := unit(hash2(ix, iz+1, seed))
	v11 := unit(hash2(ix+1, iz+1, seed))

	return lerp(lerp(v00, v10, fx), lerp(v01, v11, fx), fz)
}

func valueNoise3D(x, y, z float64, seed int64) float64 {
	x0 := math.Floor(x)
	y0 := math.Floor(y)
	z0 := math.Floor(z)
	ix, iy, iz := int64(x0), int64(y0), int64(z0)

	fx := fade(x - x0)
	fy := fade(y - y0)
	fz := fade(z - z0)

	// X first, then Y, then Z
	i00 := lerp(unit(hash3(ix, iy, iz, seed)), unit(hash3(ix+1, iy, iz, seed)), fx)
	i10 := lerp(unit(hash3(ix, iy+1, iz, seed)), unit(hash3(ix+1, iy+1, iz, seed)), fx)
	i01 := lerp(unit(hash3(ix, iy, iz+1, seed)), unit(hash3(ix+1, iy, iz+1, seed)), fx)
	i11 := lerp(unit(hash3(ix, iy+1, iz+1, seed)), unit(hash3(ix+1, iy+1, iz+1, seed)), fx)

	return lerp(lerp(i00, i10, fy), lerp(i01, i11, fy), fz)
}

func octaveNoise2D(x float64, z float64, seed int64, octaves int, persistence, lacunarity float64) float64 {
	amplitude, frequency := 1.0, 1.0
	sum, norm := 0.0, 0.0
	for i := range octaves {
		sum += valueNoise2D(x*frequency, z*frequency, seed+int64(i*131)) * amplitude
		norm += amplitude
		amplitude *= persistence
		frequency *= lacunarity
	}
	if norm == 0 {
		return 0
	}
	return sum / norm
}

func octaveNoise3D(x, y, z float64, seed int64, octaves int, persistence, lacunarity float64) float64 {
	amplitude, frequency := 1.0, 1.0
	sum, norm := 0.0, 0.0
	for i := range octaves {
		sum += valueNoise3D(x*frequency, y*frequency, z*frequency, seed+int64(i*131)) * amplitude
		norm += amplitude
		amplitude *= persistence
		frequency *= lacunarity
	}
	if norm == 0 {
		return 0
	}
	return sum / norm
}
