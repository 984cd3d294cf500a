package processor

// Beta sanitization thresholds. Provider betas are noisy at the extremes:
// near-zero values are regression artifacts rather than genuinely market-
// independent businesses, and very high values overstate forward systematic
// risk for the largest names.
const (
	betaDefault    = 1.0
	betaNoiseFloor = 0.5

	volatileSectorFloor = 1.2
	standardFloor       = 0.9

	megaCapTier         = 1e12
	megaCapBetaCeiling  = 1.35
	largeCapTier        = 200e9
	largeCapBetaCeiling = 1.6

	betaHardCeiling = 2.5
)

// volatileSectors are structurally high-volatility businesses whose true
// beta is implausibly reported below the noise floor.
var volatileSectors = map[string]bool{
	SectorSaaS:          true,
	SectorSemiconductor: true,
	SectorBioTech:       true,
}

// SanitizeBeta corrects a raw beta estimate using sector and market-cap
// context. Absent beta defaults to market-neutral 1.0. Values at or above
// the hard ceiling are clamped to it terminally, treated as data noise
// rather than a dampening candidate. Sub-noise-floor values are raised to a
// sector-dependent floor, and plausible-but-high values are compressed by
// capitalization tier. Result is rounded to two decimals; never fails.
func SanitizeBeta(beta *float64, sector string, marketCap float64) float64 {
	if beta == nil {
		return betaDefault
	}
	b := *beta

	if b >= betaHardCeiling {
		return betaHardCeiling
	}

	if b < betaNoiseFloor {
		if volatileSectors[sector] {
			return volatileSectorFloor
		}
		return standardFloor
	}

	switch {
	case marketCap > megaCapTier && b > megaCapBetaCeiling:
		b = megaCapBetaCeiling
	case marketCap > largeCapTier && b > largeCapBetaCeiling:
		b = largeCapBetaCeiling
	}

	return round2(b)
}
