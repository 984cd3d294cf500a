package processor

import "math"

// GrowthBounds describes the plausible long-horizon growth range for a
// sector bucket. Cyclical sectors get a mean-reversion treatment instead of
// a plain floor: a deep trough is assumed to revert to trend rather than
// persist.
type GrowthBounds struct {
	Max      float64
	Min      float64
	Cyclical bool
}

// sectorGrowthBounds is consulted by EstimateGrowth; buckets without an
// entry fall back to the General bounds.
var sectorGrowthBounds = map[string]GrowthBounds{
	SectorSemiconductor: {Max: 40, Min: 0, Cyclical: true},
	SectorSaaS:          {Max: 45, Min: 0},
	SectorHardware:      {Max: 30, Min: 0, Cyclical: true},
	SectorBioTech:       {Max: 50, Min: 0},
	SectorFinancial:     {Max: 20, Min: 0, Cyclical: true},
	SectorEnergy:        {Max: 15, Min: 0, Cyclical: true},
	SectorREIT:          {Max: 12, Min: 0},
	SectorGeneral:       {Max: 25, Min: 0},
}

const (
	// defaultGrowth is a GDP-proxy floor used when no growth input exists.
	defaultGrowth = 3.0
	// cyclicalReversion replaces sub-floor growth for cyclical sectors.
	cyclicalReversion = 3.0
	// Very large revenue bases cannot sustain extreme percentage growth,
	// so growth is capped harder above this market capitalization.
	megaCapThreshold     = 500e9
	megaCapGrowthCeiling = 30.0
)

// GrowthInputs carries the optional inputs of the growth estimate. Nil
// pointers mean the provider did not report the field.
type GrowthInputs struct {
	TrailingPE    *float64
	PEGRatio      *float64
	RevenueGrowth *float64 // fractional, e.g. 0.15 for 15%
	Sector        string
	MarketCap     float64
}

// EstimateGrowth derives a long-horizon growth-rate percentage from the
// available inputs. PEG inversion (growth = PE / PEG) is preferred, revenue
// growth is the fallback, and a conservative default covers the rest. The
// result is clamped by the sector bounds table and the mega-cap rule, and
// rounded to two decimals. Absent inputs degrade to defaults; the function
// never fails.
func EstimateGrowth(in GrowthInputs) float64 {
	growth := defaultGrowth
	switch {
	case in.TrailingPE != nil && in.PEGRatio != nil && *in.PEGRatio > 0:
		growth = *in.TrailingPE / *in.PEGRatio
	case in.RevenueGrowth != nil:
		growth = *in.RevenueGrowth * 100
	}

	bounds, ok := sectorGrowthBounds[in.Sector]
	if !ok {
		bounds = sectorGrowthBounds[SectorGeneral]
	}

	if growth < bounds.Min {
		if bounds.Cyclical {
			growth = cyclicalReversion
		} else {
			growth = bounds.Min
		}
	}
	if growth > bounds.Max {
		growth = bounds.Max
	}

	if in.MarketCap > megaCapThreshold && growth > megaCapGrowthCeiling {
		growth = megaCapGrowthCeiling
	}

	return round2(growth)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
