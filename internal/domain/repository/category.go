package repository

// Category is the fixed top-level fund classification.
type Category string

const (
	CategoryEquity           Category = "Equity"
	CategoryHybrid           Category = "Hybrid"
	CategoryDebt             Category = "Debt"
	CategorySolutionOriented Category = "Solution Oriented"
	CategoryOther            Category = "Other"
)

// Categories lists all valid categories in display order.
func Categories() []Category {
	return []Category{
		CategoryEquity,
		CategoryHybrid,
		CategoryDebt,
		CategorySolutionOriented,
		CategoryOther,
	}
}

// IsValid reports whether c is one of the known categories.
func (c Category) IsValid() bool {
	switch c {
	case CategoryEquity, CategoryHybrid, CategoryDebt, CategorySolutionOriented, CategoryOther:
		return true
	}
	return false
}

func (c Category) String() string {
	return string(c)
}

// subCategories holds the allowed sub-category set per category. The
// first entry is the default used when a caller supplies none.
var subCategories = map[Category][]string{
	CategoryEquity: {
		"Large Cap Mutual Funds", "Sectoral / Thematic Mutual Funds", "Dividend Yield Funds",
		"Large & Mid Cap Funds", "Flexi Cap Funds", "Focused Funds", "Mid Cap Mutual Funds",
		"Index Funds", "Value Funds", "Small Cap Mutual Funds", "ELSS Mutual Funds",
		"Multi Cap Funds", "Contra Funds",
	},
	CategoryHybrid: {
		"Aggressive Hybrid Mutual Funds", "Arbitrage Mutual Funds",
		"Dynamic Asset Allocation or Balanced Advantage", "Equity Savings Mutual Funds",
		"Conservative Hybrid Mutual Funds", "Multi Asset Allocation Mutual Funds",
	},
	CategoryDebt: {
		"Corporate Bond Mutual Funds", "Banking and PSU Mutual Funds", "Credit Risk Funds",
		"Dynamic Bond", "FoFs Domestic", "FoFs Overseas", "Gilt Mutual Funds",
		"Medium to Long Duration Funds", "Liquid Mutual Funds", "Low Duration Funds",
		"Medium Duration Funds", "Money Market Funds", "Overnight Mutual Funds",
		"Ultra Short Duration Funds", "Short Duration Funds", "Fixed Maturity Plans",
		"Floater Mutual Funds",
	},
	CategorySolutionOriented: {
		"Retirement Funds", "Childrens Funds",
	},
	CategoryOther: {
		"Multi Cap Funds", "Dynamic Bond", "Value Funds", "Contra Funds",
	},
}

// SubCategories returns the allowed sub-category set for a category.
func (c Category) SubCategories() []string {
	return subCategories[c]
}

// DefaultSubCategory returns the sub-category used when none is given.
func (c Category) DefaultSubCategory() string {
	if subs := subCategories[c]; len(subs) > 0 {
		return subs[0]
	}
	return ""
}

// HasSubCategory reports whether sub belongs to the category's set.
func (c Category) HasSubCategory(sub string) bool {
	for _, s := range subCategories[c] {
		if s == sub {
			return true
		}
	}
	return false
}
