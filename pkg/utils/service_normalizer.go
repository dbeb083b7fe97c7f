package utils

import (
	"regexp"
	"strings"
)

// Freight service categories. Raw service type strings from quote emails are
// messy ("LTL Freight", "less-than-truckload", "ocean fcl"); scoring compares
// categories, not raw strings.
const (
	ServiceCategoryLTL     = "ltl"
	ServiceCategoryFTL     = "ftl"
	ServiceCategoryAir     = "air"
	ServiceCategoryOcean   = "ocean"
	ServiceCategoryRail    = "rail"
	ServiceCategoryCourier = "courier"
	ServiceCategoryUnknown = ""
)

var serviceAliases = map[string]string{
	"ltl":                  ServiceCategoryLTL,
	"less than truckload":  ServiceCategoryLTL,
	"partial":              ServiceCategoryLTL,
	"ftl":                  ServiceCategoryFTL,
	"full truckload":       ServiceCategoryFTL,
	"truckload":            ServiceCategoryFTL,
	"tl":                   ServiceCategoryFTL,
	"dry van":              ServiceCategoryFTL,
	"flatbed":              ServiceCategoryFTL,
	"reefer":               ServiceCategoryFTL,
	"air":                  ServiceCategoryAir,
	"air freight":          ServiceCategoryAir,
	"airfreight":           ServiceCategoryAir,
	"ocean":                ServiceCategoryOcean,
	"sea":                  ServiceCategoryOcean,
	"sea freight":          ServiceCategoryOcean,
	"fcl":                  ServiceCategoryOcean,
	"lcl":                  ServiceCategoryOcean,
	"container":            ServiceCategoryOcean,
	"rail":                 ServiceCategoryRail,
	"intermodal":           ServiceCategoryRail,
	"courier":              ServiceCategoryCourier,
	"parcel":               ServiceCategoryCourier,
	"express":              ServiceCategoryCourier,
	"last mile":            ServiceCategoryCourier,
	"expedited":            ServiceCategoryCourier,
}

var nonAlnum = regexp.MustCompile(`[^a-z0-9 ]+`)

// NormalizeServiceType maps a raw service type string to its freight
// category. Unknown inputs return ServiceCategoryUnknown, which the feature
// extractor treats as an absent criterion rather than a mismatch.
func NormalizeServiceType(raw string) string {
	cleaned := strings.TrimSpace(strings.ToLower(raw))
	if cleaned == "" {
		return ServiceCategoryUnknown
	}
	cleaned = nonAlnum.ReplaceAllString(cleaned, " ")
	cleaned = strings.Join(strings.Fields(cleaned), " ")

	if cat, ok := serviceAliases[cleaned]; ok {
		return cat
	}

	// Fall back to token lookup so "ltl freight shipment" still resolves.
	for _, token := range strings.Fields(cleaned) {
		if cat, ok := serviceAliases[token]; ok {
			return cat
		}
	}

	return ServiceCategoryUnknown
}
