package services

import (
	"fmt"
	"math"
	"strings"

	"github.com/haulmatch/freightquote-backend/internal/domain/entities"
	apperrors "github.com/haulmatch/freightquote-backend/pkg/errors"
	"github.com/haulmatch/freightquote-backend/pkg/utils"
)

// Criterion names. The key set of a match_criteria map is fixed per
// algorithm version; a criterion that was absent for a pair simply has no
// key, it never shows up as 0.
const (
	CriterionGeography   = "geography"
	CriterionWeight      = "weight"
	CriterionVolume      = "volume"
	CriterionServiceType = "service_type"
	CriterionHazmat      = "hazmat"
)

// AlgorithmV1 is the current default weight configuration.
const AlgorithmV1 = "v1"

// AlgorithmConfig identifies one weight configuration. Versions are
// append-only: changing a weight means registering a new version so old
// QuoteMatch rows stay comparable against the config that produced them.
type AlgorithmConfig struct {
	Version string
	Weights map[string]float64
}

var algorithmConfigs = map[string]AlgorithmConfig{
	AlgorithmV1: {
		Version: AlgorithmV1,
		Weights: map[string]float64{
			CriterionGeography:   0.35,
			CriterionWeight:      0.20,
			CriterionVolume:      0.15,
			CriterionServiceType: 0.20,
			CriterionHazmat:      0.10,
		},
	},
}

// LookupAlgorithm resolves an algorithm version to its weight configuration.
func LookupAlgorithm(version string) (AlgorithmConfig, error) {
	cfg, ok := algorithmConfigs[version]
	if !ok {
		return AlgorithmConfig{}, apperrors.NewValidationError(
			fmt.Sprintf("unknown match algorithm version %q", version))
	}
	return cfg, nil
}

// locationFeature is one normalized lane endpoint.
type locationFeature struct {
	City    string
	Country string
	Lat     *float64
	Lon     *float64
}

func (l locationFeature) present() bool {
	return l.Country != ""
}

// FeatureSet is a quote reduced to its comparable criteria. Missing source
// fields stay missing here (nil pointers, empty category) so the scorer can
// tell "absent" apart from "zero".
type FeatureSet struct {
	Origin          locationFeature
	Destination     locationFeature
	WeightKg        *float64
	VolumeM3        *float64
	ServiceCategory string
	Hazmat          *bool
}

// ExtractFeatures normalizes a quote into its feature set. Pure function:
// no I/O, no clock, no randomness.
func ExtractFeatures(q *entities.Quote) FeatureSet {
	fs := FeatureSet{
		Origin:          extractLocation(q.Origin),
		Destination:     extractLocation(q.Destination),
		ServiceCategory: utils.NormalizeServiceType(q.ServiceType),
		Hazmat:          q.Hazmat,
	}

	if q.WeightKg != nil && *q.WeightKg > 0 {
		w := *q.WeightKg
		fs.WeightKg = &w
	}

	// Volume needs all three dimensions; a zero dimension means the field
	// was never filled in, not a zero-volume shipment.
	if q.LengthCm != nil && q.WidthCm != nil && q.HeightCm != nil &&
		*q.LengthCm > 0 && *q.WidthCm > 0 && *q.HeightCm > 0 {
		v := (*q.LengthCm / 100) * (*q.WidthCm / 100) * (*q.HeightCm / 100)
		fs.VolumeM3 = &v
	}

	return fs
}

func extractLocation(loc entities.Location) locationFeature {
	return locationFeature{
		City:    strings.ToLower(strings.TrimSpace(loc.City)),
		Country: strings.ToLower(strings.TrimSpace(loc.Country)),
		Lat:     loc.Latitude,
		Lon:     loc.Longitude,
	}
}

// MatchScoringService computes per-criterion and aggregate similarity
// between two feature sets under one algorithm version.
type MatchScoringService struct {
	cfg AlgorithmConfig
}

// NewMatchScoringService creates a scoring service for an algorithm version.
func NewMatchScoringService(version string) (*MatchScoringService, error) {
	cfg, err := LookupAlgorithm(version)
	if err != nil {
		return nil, err
	}
	return &MatchScoringService{cfg: cfg}, nil
}

// Version returns the algorithm version this scorer was built for.
func (s *MatchScoringService) Version() string {
	return s.cfg.Version
}

// Score compares two feature sets. It returns the aggregate similarity in
// [0,1], the per-criterion breakdown (present criteria only), and whether
// the pair was scoreable at all. A pair with zero present criteria returns
// scoreable=false and must be excluded by the caller, never recorded as a
// zero score.
func (s *MatchScoringService) Score(a, b FeatureSet) (float64, map[string]float64, bool) {
	criteria := make(map[string]float64)

	if score, ok := geographyScore(a, b); ok {
		criteria[CriterionGeography] = score
	}
	if score, ok := magnitudeScore(a.WeightKg, b.WeightKg); ok {
		criteria[CriterionWeight] = score
	}
	if score, ok := magnitudeScore(a.VolumeM3, b.VolumeM3); ok {
		criteria[CriterionVolume] = score
	}
	if a.ServiceCategory != "" && b.ServiceCategory != "" {
		criteria[CriterionServiceType] = categorical(a.ServiceCategory == b.ServiceCategory)
	}
	if a.Hazmat != nil && b.Hazmat != nil {
		criteria[CriterionHazmat] = categorical(*a.Hazmat == *b.Hazmat)
	}

	if len(criteria) == 0 {
		return 0, nil, false
	}

	// Weighted average over present criteria only; weights renormalize to
	// sum 1 so absent criteria cost nothing.
	var weightSum, total float64
	for name, score := range criteria {
		w := s.cfg.Weights[name]
		weightSum += w
		total += w * score
	}
	if weightSum == 0 {
		return 0, nil, false
	}

	return clamp01(total / weightSum), criteria, true
}

// geographyScore scores the lane as the mean of its two endpoints. The
// criterion is present only when both quotes carry both endpoints.
func geographyScore(a, b FeatureSet) (float64, bool) {
	if !a.Origin.present() || !a.Destination.present() ||
		!b.Origin.present() || !b.Destination.present() {
		return 0, false
	}
	return (endpointScore(a.Origin, b.Origin) + endpointScore(a.Destination, b.Destination)) / 2, true
}

// endpointScore: exact city+country is 1.0; same country is at least 0.5;
// beyond that the score decays with great-circle distance when both sides
// are geocoded, and bottoms out at 0 for different countries with no
// coordinates.
func endpointScore(a, b locationFeature) float64 {
	if a.Country == b.Country && a.City != "" && a.City == b.City {
		return 1.0
	}

	decay := -1.0
	if a.Lat != nil && a.Lon != nil && b.Lat != nil && b.Lon != nil {
		dist := haversineKm(*a.Lat, *a.Lon, *b.Lat, *b.Lon)
		// Half score at 500 km.
		decay = 1.0 / (1.0 + dist/500.0)
	}

	if a.Country == b.Country {
		if decay > 0.5 {
			return decay
		}
		return 0.5
	}
	if decay >= 0 {
		return decay
	}
	return 0.0
}

// magnitudeScore scores two positive magnitudes as 1 − |Δ|/max(a,b),
// clamped to [0,1]. Absent on either side means the criterion is absent.
func magnitudeScore(a, b *float64) (float64, bool) {
	if a == nil || b == nil {
		return 0, false
	}
	maxVal := math.Max(*a, *b)
	if maxVal <= 0 {
		return 0, false
	}
	return clamp01(1 - math.Abs(*a-*b)/maxVal), true
}

func categorical(equal bool) float64 {
	if equal {
		return 1.0
	}
	return 0.0
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func haversineKm(lat1, lon1, lat2, lon2 float64) float64 {
	p := 0.017453292519943295
	a := 0.5 - math.Cos((lat2-lat1)*p)/2 + math.Cos(lat1*p)*math.Cos(lat2*p)*(1-math.Cos((lon2-lon1)*p))/2
	return 12742 * math.Asin(math.Sqrt(a))
}
