package gamify

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/grindhq/grindd/internal/models"
)

// Radius bounds in pixels; session minutes scale between them
const (
	minPlanetRadius = 72
	maxPlanetRadius = 160
	radiusPerMinute = 2.7
)

// galaxy canvas center used for initial placement
var galaxyCenter = struct{ x, y float64 }{200, 150}

type hslRange struct {
	hue   [2]float64
	sat   [2]float64
	light [2]float64
}

// Per-type color constraints, keeping each class visually coherent while
// every individual planet stays unique.
var colorRanges = map[models.PlanetType]hslRange{
	models.PlanetAsteroid: {hue: [2]float64{0, 40}, sat: [2]float64{0, 30}, light: [2]float64{30, 60}},
	models.PlanetRocky:    {hue: [2]float64{0, 40}, sat: [2]float64{40, 80}, light: [2]float64{40, 70}},
	models.PlanetEarth:    {hue: [2]float64{180, 240}, sat: [2]float64{50, 90}, light: [2]float64{45, 75}},
	models.PlanetGas:      {hue: [2]float64{20, 60}, sat: [2]float64{60, 100}, light: [2]float64{50, 80}},
	models.PlanetIce:      {hue: [2]float64{180, 220}, sat: [2]float64{50, 100}, light: [2]float64{70, 95}},
}

var planetPatterns = map[models.PlanetType][]string{
	models.PlanetAsteroid: {
		"rough_surface", "crater_field", "irregular_shape", "angular_chunks",
		"dusty_surface", "metallic_veins", "impact_scars", "fractured_surface",
		"dust_clouds", "irregular_rotation",
	},
	models.PlanetRocky: {
		"large_craters", "volcanic_surface", "dust_storms", "canyon_systems",
		"polar_caps", "impact_basins", "mountain_ranges", "lava_flows",
		"tectonic_activity", "sand_dunes", "dry_riverbeds", "volcanic_vents",
	},
	models.PlanetEarth: {
		"continents_oceans", "island_chains", "cloud_bands", "polar_ice",
		"tropical_zones", "desert_regions", "storm_systems", "forest_coverage",
		"mountain_chains", "river_systems", "coastal_regions", "seasonal_changes",
	},
	models.PlanetGas: {
		"horizontal_bands", "storm_vortex", "ring_system", "diagonal_stripes",
		"swirl_patterns", "atmospheric_layers", "great_red_spot", "lightning_storms",
		"aurora_rings", "magnetic_field", "moon_shadows", "atmospheric_waves",
	},
	models.PlanetIce: {
		"ice_crystals", "frozen_surface", "crack_patterns", "glacier_formations",
		"frost_coverage", "ice_caps", "crystalline_structure", "geysers",
		"subsurface_ocean", "frozen_methane", "ice_rings", "cryovolcanoes",
	},
}

var planetFeatures = map[models.PlanetType][]string{
	models.PlanetAsteroid: {
		"impact_marks", "metal_deposits", "dust_clouds", "irregular_rotation",
		"metallic_core", "surface_scars", "dust_trails", "angular_fragments",
		"impact_craters", "metallic_veins", "surface_roughness", "dust_coating",
	},
	models.PlanetRocky: {
		"active_volcano", "dry_riverbeds", "sand_dunes", "tectonic_activity",
		"lava_flows", "mountain_ranges", "canyon_systems", "polar_caps",
		"impact_basins", "volcanic_vents", "dust_storms", "surface_cracks",
	},
	models.PlanetEarth: {
		"aurora", "city_lights", "hurricanes", "seasonal_changes",
		"forest_coverage", "river_systems", "coastal_regions", "mountain_chains",
		"desert_regions", "tropical_zones", "polar_ice", "storm_systems",
		"island_chains", "cloud_bands", "continental_drift", "ocean_currents",
	},
	models.PlanetGas: {
		"lightning_storms", "aurora_rings", "magnetic_field", "moon_shadows",
		"atmospheric_waves", "storm_vortex", "ring_system", "great_red_spot",
		"horizontal_bands", "swirl_patterns", "atmospheric_layers", "lightning_bolts",
		"magnetic_storms", "aurora_borealis", "atmospheric_pressure", "gas_composition",
	},
	models.PlanetIce: {
		"geysers", "subsurface_ocean", "frozen_methane", "ice_rings",
		"cryovolcanoes", "ice_crystals", "crack_patterns", "glacier_formations",
		"frost_coverage", "ice_caps", "crystalline_structure", "frozen_surface",
		"ice_storms", "methane_lakes", "cryogenic_weather", "ice_volcanoes",
	},
}

// TypeForDuration buckets a session's minutes into a planet class. Longer
// sessions earn rarer bodies.
func TypeForDuration(minutes int) models.PlanetType {
	switch {
	case minutes >= 45:
		return models.PlanetIce
	case minutes >= 35:
		return models.PlanetGas
	case minutes >= 25:
		return models.PlanetEarth
	case minutes >= 15:
		return models.PlanetRocky
	default:
		return models.PlanetAsteroid
	}
}

// Generator produces planets from a caller-supplied random source so the
// same seed always yields the same galaxy.
type Generator struct {
	rng *rand.Rand
}

// NewGenerator creates a generator over the given source
func NewGenerator(rng *rand.Rand) *Generator {
	return &Generator{rng: rng}
}

func (g *Generator) between(lo, hi float64) float64 {
	return lo + g.rng.Float64()*(hi-lo)
}

func (g *Generator) palette(planetType models.PlanetType) (primary, secondary, accent string) {
	r := colorRanges[planetType]
	hue := g.between(r.hue[0], r.hue[1])
	sat := g.between(r.sat[0], r.sat[1])
	light := g.between(r.light[0], r.light[1])

	primary = fmt.Sprintf("hsl(%.0f, %.0f%%, %.0f%%)", hue, sat, light)
	secondary = fmt.Sprintf("hsl(%.0f, %.0f%%, %.0f%%)", hue+20, sat-15, light-20)
	accent = fmt.Sprintf("hsl(%.0f, %.0f%%, %.0f%%)",
		hue-25, math.Min(sat+20, 100), math.Min(light+15, 95))
	return primary, secondary, accent
}

func (g *Generator) pickFeatures(pool []string, count int) []string {
	indices := g.rng.Perm(len(pool))
	picked := make([]string, 0, count)
	for _, i := range indices[:count] {
		picked = append(picked, pool[i])
	}
	return picked
}

// Generate builds one planet for a focus session of the given length
func (g *Generator) Generate(durationMinutes int) models.Planet {
	planetType := TypeForDuration(durationMinutes)

	radius := int(float64(durationMinutes) * radiusPerMinute)
	if radius < minPlanetRadius {
		radius = minPlanetRadius
	}
	if radius > maxPlanetRadius {
		radius = maxPlanetRadius
	}

	primary, secondary, accent := g.palette(planetType)
	patterns := planetPatterns[planetType]
	features := planetFeatures[planetType]

	return models.Planet{
		ID:             uuid.New().String(),
		Type:           planetType,
		X:              galaxyCenter.x + (g.rng.Float64()-0.5)*160,
		Y:              galaxyCenter.y + (g.rng.Float64()-0.5)*120,
		Radius:         radius,
		PrimaryColor:   primary,
		SecondaryColor: secondary,
		AccentColor:    accent,
		Pattern:        patterns[g.rng.Intn(len(patterns))],
		Features:       g.pickFeatures(features, g.rng.Intn(3)+1),
		TextureVariant: g.rng.Intn(7),
		Rotation:       g.rng.Float64() * 360,
		OrbitRadius:    g.rng.Intn(120) + 40,
		OrbitSpeed:     g.between(0.0001, 0.0004),
		OrbitAngle:     g.rng.Float64() * 2 * math.Pi,
		CreatedAt:      time.Now().UnixMilli(),
	}
}
