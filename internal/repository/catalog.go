package repository

import (
	"math/rand"

	"SynapseFund/internal/domain/models"
	domain "SynapseFund/internal/domain/repository"
)

// defaultSources is the full AMC fan-out set used when the config does
// not override it.
var defaultSources = []string{
	"Aditya Birla Sun Life Mutual Fund", "Axis Mutual Fund", "Bandhan Mutual Fund",
	"Bank of India Mutual Fund", "Baroda BNP Paribas Mutual Fund", "Edelweiss Mutual Fund",
	"Canara Robeco Mutual Fund", "DSP Mutual Fund", "Franklin Templeton Mutual Fund",
	"HDFC Mutual Fund", "HSBC Mutual Fund", "ICICI Prudential Mutual Fund",
	"IDBI Mutual Fund", "IIFL Mutual Fund", "Indiabulls Mutual Fund",
	"Invesco Mutual Fund", "ITI Mutual Fund", "JM Financial Mutual Fund",
	"Kotak Mahindra Mutual Fund", "L&T Mutual Fund", "LIC Mutual Fund",
	"Mahindra Manulife Mutual Fund", "Mirae Asset Mutual Fund", "Motilal Oswal Mutual Fund",
	"Navi Mutual Fund", "Nippon India Mutual Fund", "PPFAS Mutual Fund",
	"PGIM India Mutual Fund", "Quant Mutual Fund", "Quantum Mutual Fund",
	"SBI Mutual Fund", "Shriram Mutual Fund", "Sundaram Mutual Fund",
	"Tata Mutual Fund", "Taurus Mutual Fund", "Trust Mutual Fund",
	"Union Mutual Fund", "UTI Mutual Fund", "WhiteOak Capital Mutual Fund",
}

// fallbackAMC is used when a fund name has no known AMC mapping.
const fallbackAMC = "HDFC Mutual Fund"

// fundToAMC maps catalog fund names to their managing AMC.
var fundToAMC = map[string]string{
	"Quant Small Cap Fund":       "Quant Mutual Fund",
	"Nippon India Small Cap":     "Nippon India Mutual Fund",
	"SBI Small Cap Fund":         "SBI Mutual Fund",
	"HDFC Small Cap Fund":        "HDFC Mutual Fund",
	"Axis Small Cap Fund":        "Axis Mutual Fund",
	"Motilal Oswal Midcap Fund":  "Motilal Oswal Mutual Fund",
	"HDFC Mid-Cap Opportunities": "HDFC Mutual Fund",
	"Edelweiss Mid Cap Fund":     "Edelweiss Mutual Fund",
	"SBI Magnum Midcap":          "SBI Mutual Fund",
	"Kotak Emerging Equity":      "Kotak Mahindra Mutual Fund",
	"Parag Parikh Flexi Cap":     "PPFAS Mutual Fund",
	"Quant Flexi Cap Fund":       "Quant Mutual Fund",
	"HDFC Flexi Cap Fund":        "HDFC Mutual Fund",
	"JM Flexicap Fund":           "JM Financial Mutual Fund",
	"Franklin India Flexi Cap":   "Franklin Templeton Mutual Fund",
	"Nippon India Large Cap":     "Nippon India Mutual Fund",
	"ICICI Prudential Bluechip":  "ICICI Prudential Mutual Fund",
	"HDFC Top 100 Fund":          "HDFC Mutual Fund",
	"SBI Bluechip Fund":          "SBI Mutual Fund",
	"Canara Robeco Bluechip":     "Canara Robeco Mutual Fund",
	"Quant ELSS Tax Saver":       "Quant Mutual Fund",
	"SBI Long Term Equity":       "SBI Mutual Fund",
	"HDFC ELSS Tax Saver":        "HDFC Mutual Fund",
	"Parag Parikh ELSS":          "PPFAS Mutual Fund",
	"DSP ELSS Tax Saver":         "DSP Mutual Fund",
}

type catalogGroup struct {
	title       string
	category    domain.Category
	subCategory string
	funds       []models.Fund
}

func group(title string, category domain.Category, sub string, pairs ...[2]string) catalogGroup {
	g := catalogGroup{title: title, category: category, subCategory: sub}
	for _, p := range pairs {
		g.funds = append(g.funds, models.Fund{
			Code:        p[0],
			Name:        p[1],
			Category:    category.String(),
			SubCategory: sub,
		})
	}
	return g
}

var catalogGroups = []catalogGroup{
	group("High Growth (Small Cap)", domain.CategoryEquity, "Small Cap Mutual Funds",
		[2]string{"120828", "Quant Small Cap Fund"},
		[2]string{"119063", "Nippon India Small Cap"},
		[2]string{"125497", "SBI Small Cap Fund"},
		[2]string{"119242", "HDFC Small Cap Fund"},
		[2]string{"120175", "Axis Small Cap Fund"},
	),
	group("Mid Cap Gems", domain.CategoryEquity, "Mid Cap Mutual Funds",
		[2]string{"119775", "Motilal Oswal Midcap Fund"},
		[2]string{"118989", "HDFC Mid-Cap Opportunities"},
		[2]string{"120724", "Edelweiss Mid Cap Fund"},
		[2]string{"126785", "SBI Magnum Midcap"},
		[2]string{"120742", "Kotak Emerging Equity"},
	),
	group("Balanced (Flexi Cap)", domain.CategoryEquity, "Flexi Cap Funds",
		[2]string{"122639", "Parag Parikh Flexi Cap"},
		[2]string{"120843", "Quant Flexi Cap Fund"},
		[2]string{"118955", "HDFC Flexi Cap Fund"},
		[2]string{"120722", "JM Flexicap Fund"},
		[2]string{"118834", "Franklin India Flexi Cap"},
	),
	group("Bluechip Leaders (Large Cap)", domain.CategoryEquity, "Large Cap Mutual Funds",
		[2]string{"118778", "Nippon India Large Cap"},
		[2]string{"120586", "ICICI Prudential Bluechip"},
		[2]string{"119062", "HDFC Top 100 Fund"},
		[2]string{"119598", "SBI Bluechip Fund"},
		[2]string{"118967", "Canara Robeco Bluechip"},
	),
	group("Tax Saver (ELSS)", domain.CategoryEquity, "ELSS Mutual Funds",
		[2]string{"120847", "Quant ELSS Tax Saver"},
		[2]string{"119723", "SBI Long Term Equity"},
		[2]string{"119060", "HDFC ELSS Tax Saver"},
		[2]string{"147699", "Parag Parikh ELSS"},
		[2]string{"118563", "DSP ELSS Tax Saver"},
	),
}

// StaticCatalog serves the built-in fund universe.
type StaticCatalog struct {
	funds   []models.Fund
	sources []string
}

// NewStaticCatalog builds the catalog. A non-empty sources slice
// overrides the default AMC fan-out set.
func NewStaticCatalog(sources []string) *StaticCatalog {
	var funds []models.Fund
	for _, g := range catalogGroups {
		funds = append(funds, g.funds...)
	}

	if len(sources) == 0 {
		sources = defaultSources
	}

	return &StaticCatalog{funds: funds, sources: sources}
}

// All returns the full catalog in group order.
func (c *StaticCatalog) All() []models.Fund {
	out := make([]models.Fund, len(c.funds))
	copy(out, c.funds)
	return out
}

// ByCategory returns the funds tagged with the category. When the
// catalog holds no fund for it, the full universe is returned so
// exploration always has candidates.
func (c *StaticCatalog) ByCategory(category domain.Category) []models.Fund {
	var out []models.Fund
	for _, f := range c.funds {
		if f.Category == category.String() {
			out = append(out, f)
		}
	}
	if len(out) == 0 {
		return c.All()
	}
	return out
}

// Sample draws n distinct funds uniformly at random without replacement.
func (c *StaticCatalog) Sample(rng *rand.Rand, category domain.Category, n int) []models.Fund {
	pool := c.ByCategory(category)
	if n > len(pool) {
		n = len(pool)
	}

	idx := rng.Perm(len(pool))
	out := make([]models.Fund, 0, n)
	for _, i := range idx[:n] {
		out = append(out, pool[i])
	}
	return out
}

// PickRandom selects one fund uniformly at random, optionally excluding
// a code. Returns false only when the catalog has no eligible fund.
func (c *StaticCatalog) PickRandom(rng *rand.Rand, excludeCode string) (models.Fund, bool) {
	var eligible []models.Fund
	for _, f := range c.funds {
		if f.Code != excludeCode {
			eligible = append(eligible, f)
		}
	}
	if len(eligible) == 0 {
		return models.Fund{}, false
	}
	return eligible[rng.Intn(len(eligible))], true
}

// AMCFor resolves a fund name to its managing AMC.
func (c *StaticCatalog) AMCFor(fundName string) string {
	if amc, ok := fundToAMC[fundName]; ok {
		return amc
	}
	return fallbackAMC
}

// Sources returns the AMC fan-out set.
func (c *StaticCatalog) Sources() []string {
	out := make([]string, len(c.sources))
	copy(out, c.sources)
	return out
}
