package processor

import "testing"

func fp(v float64) *float64 { return &v }

func TestEstimateGrowthPEGInversion(t *testing.T) {
	got := EstimateGrowth(GrowthInputs{
		TrailingPE: fp(30),
		PEGRatio:   fp(1.5),
		Sector:     SectorSaaS,
		MarketCap:  50e9,
	})
	if got != 20.0 {
		t.Errorf("EstimateGrowth=%v want 20.0", got)
	}
}

func TestEstimateGrowthRevenueFallback(t *testing.T) {
	got := EstimateGrowth(GrowthInputs{
		RevenueGrowth: fp(0.15),
		Sector:        SectorGeneral,
		MarketCap:     10e9,
	})
	if got != 15.0 {
		t.Errorf("EstimateGrowth=%v want 15.0", got)
	}
}

func TestEstimateGrowthDefault(t *testing.T) {
	got := EstimateGrowth(GrowthInputs{Sector: SectorGeneral})
	if got != 3.0 {
		t.Errorf("EstimateGrowth=%v want 3.0 default", got)
	}
}

func TestEstimateGrowthNonPositivePEGIgnored(t *testing.T) {
	got := EstimateGrowth(GrowthInputs{
		TrailingPE:    fp(30),
		PEGRatio:      fp(-0.5),
		RevenueGrowth: fp(0.10),
		Sector:        SectorGeneral,
	})
	if got != 10.0 {
		t.Errorf("EstimateGrowth=%v want revenue fallback 10.0", got)
	}
}

func TestEstimateGrowthSectorCap(t *testing.T) {
	got := EstimateGrowth(GrowthInputs{
		TrailingPE: fp(100),
		PEGRatio:   fp(1),
		Sector:     SectorSaaS,
		MarketCap:  50e9,
	})
	if got != 45.0 {
		t.Errorf("EstimateGrowth=%v want SaaS max 45.0", got)
	}
}

func TestEstimateGrowthClampIdempotentWithinBounds(t *testing.T) {
	// A value already inside its sector bounds is returned unchanged.
	for _, g := range []float64{0.5, 12.25, 44.99} {
		got := EstimateGrowth(GrowthInputs{
			TrailingPE: fp(g),
			PEGRatio:   fp(1),
			Sector:     SectorSaaS,
			MarketCap:  10e9,
		})
		if got != g {
			t.Errorf("in-bounds growth %v changed to %v", g, got)
		}
	}
}

func TestEstimateGrowthCyclicalReversion(t *testing.T) {
	// Deep trough in a cyclical sector reverts to trend instead of the floor.
	got := EstimateGrowth(GrowthInputs{
		RevenueGrowth: fp(-0.25),
		Sector:        SectorEnergy,
		MarketCap:     10e9,
	})
	if got != 3.0 {
		t.Errorf("EstimateGrowth=%v want cyclical reversion 3.0", got)
	}
}

func TestEstimateGrowthNonCyclicalFloor(t *testing.T) {
	got := EstimateGrowth(GrowthInputs{
		RevenueGrowth: fp(-0.25),
		Sector:        SectorREIT,
		MarketCap:     10e9,
	})
	if got != 0.0 {
		t.Errorf("EstimateGrowth=%v want floor 0.0", got)
	}
}

func TestEstimateGrowthMegaCapGravity(t *testing.T) {
	for _, sector := range []string{SectorSaaS, SectorBioTech, SectorGeneral} {
		got := EstimateGrowth(GrowthInputs{
			TrailingPE: fp(50),
			PEGRatio:   fp(1),
			Sector:     sector,
			MarketCap:  600e9,
		})
		if got > 30.0 {
			t.Errorf("sector %s: EstimateGrowth=%v want <= 30 above mega-cap threshold", sector, got)
		}
	}
}

func TestEstimateGrowthUnknownSectorUsesGeneral(t *testing.T) {
	got := EstimateGrowth(GrowthInputs{
		TrailingPE: fp(60),
		PEGRatio:   fp(1),
		Sector:     "Conglomerate",
		MarketCap:  10e9,
	})
	if got != 25.0 {
		t.Errorf("EstimateGrowth=%v want General max 25.0", got)
	}
}

func TestEstimateGrowthRounding(t *testing.T) {
	got := EstimateGrowth(GrowthInputs{
		TrailingPE: fp(10),
		PEGRatio:   fp(3),
		Sector:     SectorGeneral,
	})
	if got != 3.33 {
		t.Errorf("EstimateGrowth=%v want 3.33", got)
	}
}
