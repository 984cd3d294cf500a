package processor

import "strings"

// Sector buckets used to select valuation heuristics. These are distinct
// from the provider's free-text sector/industry taxonomy.
const (
	SectorSemiconductor = "Semiconductor"
	SectorSaaS          = "SaaS"
	SectorHardware      = "Hardware"
	SectorBioTech       = "BioTech"
	SectorFinancial     = "Financial"
	SectorEnergy        = "Energy/Utility"
	SectorREIT          = "REIT"
	SectorGeneral       = "General"
)

type sectorRule struct {
	keyword string
	bucket  string
}

// industryRules match against the provider's industry string first: industry
// labels are more specific than sector labels and decide ambiguous cases
// (e.g. sector "Technology" with industry "Semiconductors").
var industryRules = []sectorRule{
	{"Semiconductor", SectorSemiconductor},
	{"Software", SectorSaaS},
	{"Biotechnology", SectorBioTech},
	{"Drug Manufacturers", SectorBioTech},
	{"REIT", SectorREIT},
	{"Bank", SectorFinancial},
	{"Insurance", SectorFinancial},
	{"Capital Markets", SectorFinancial},
	{"Credit Services", SectorFinancial},
	{"Computer Hardware", SectorHardware},
	{"Consumer Electronics", SectorHardware},
	{"Communication Equipment", SectorHardware},
	{"Solar", SectorEnergy},
	{"Oil & Gas", SectorEnergy},
	{"Utilities", SectorEnergy},
}

// sectorRules match against the broader sector string when no industry rule
// fired.
var sectorRules = []sectorRule{
	{"Semiconductor", SectorSemiconductor},
	{"Software", SectorSaaS},
	{"Technology", SectorSaaS},
	{"Financial", SectorFinancial},
	{"Bank", SectorFinancial},
	{"Real Estate", SectorREIT},
	{"Energy", SectorEnergy},
	{"Utilities", SectorEnergy},
}

// ClassifySector maps the provider's raw sector and industry strings to
// exactly one bucket. Matching is ordered substring matching; the first rule
// that fires wins and unmatched input yields General.
func ClassifySector(sector, industry string) string {
	for _, rule := range industryRules {
		if strings.Contains(industry, rule.keyword) {
			return rule.bucket
		}
	}
	for _, rule := range sectorRules {
		if strings.Contains(sector, rule.keyword) {
			return rule.bucket
		}
	}
	return SectorGeneral
}
