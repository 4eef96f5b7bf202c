package trust

import (
	"math"
	"time"

	"github.com/GNS-Foundation/gns-go/pkg/models"
)

// Tier labels ordered from least to most trusted.
const (
	TierSeedling    = "seedling"
	TierRooted      = "rooted"
	TierEstablished = "established"
	TierTrusted     = "trusted"
	TierVerified    = "verified"
)

// Evidence is the accumulated, independently verifiable history a score is
// computed from. Counts must only include breadcrumbs and epochs that passed
// verification.
type Evidence struct {
	BreadcrumbCount   int
	EpochCount        int
	LatestEpochAt     time.Time
	HandleClaimed     bool
	IdentityCreatedAt time.Time
}

// Weights is the scoring policy table: every signal maps to an explicit
// weight and cap so deployments can tune the policy and test suites can pin
// concrete outputs. All contributions are non-negative, which keeps the
// score monotonic in evidence.
type Weights struct {
	PerBreadcrumb float64       `yaml:"perBreadcrumb"`
	BreadcrumbMax float64       `yaml:"breadcrumbMax"`
	PerEpoch      float64       `yaml:"perEpoch"`
	EpochMax      float64       `yaml:"epochMax"`
	RecencyMax    float64       `yaml:"recencyMax"`
	RecencyWindow time.Duration `yaml:"recencyWindow"`
	HandleBonus   float64       `yaml:"handleBonus"`
	PerDay        float64       `yaml:"perDay"`
	AgeMax        float64       `yaml:"ageMax"`
}

// DefaultWeights sums to a ceiling of exactly 100.
func DefaultWeights() Weights {
	return Weights{
		PerBreadcrumb: 0.2,
		BreadcrumbMax: 30,
		PerEpoch:      2,
		EpochMax:      20,
		RecencyMax:    10,
		RecencyWindow: 30 * 24 * time.Hour,
		HandleBonus:   10,
		PerDay:        0.5,
		AgeMax:        30,
	}
}

// Score maps evidence to a bounded 0-100 score and tier. It is a pure
// function of its arguments: no signatures are checked and nothing is
// fetched, so two verifiers with the same evidence agree on the result.
func Score(ev Evidence, w Weights, now time.Time) models.TrustScore {
	total := capped(float64(ev.BreadcrumbCount)*w.PerBreadcrumb, w.BreadcrumbMax)
	total += capped(float64(ev.EpochCount)*w.PerEpoch, w.EpochMax)
	total += recencyPoints(ev, w, now)
	if ev.HandleClaimed {
		total += w.HandleBonus
	}
	if !ev.IdentityCreatedAt.IsZero() && now.After(ev.IdentityCreatedAt) {
		days := now.Sub(ev.IdentityCreatedAt).Hours() / 24
		total += capped(days*w.PerDay, w.AgeMax)
	}

	score := int(math.Floor(total))
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return models.TrustScore{Score: score, Tier: TierFromScore(score)}
}

// recencyPoints rewards a fresh latest epoch, decaying linearly to zero over
// the recency window. Publishing a new epoch can only move LatestEpochAt
// forward, so this term never drops when evidence grows.
func recencyPoints(ev Evidence, w Weights, now time.Time) float64 {
	if ev.EpochCount == 0 || ev.LatestEpochAt.IsZero() || w.RecencyWindow <= 0 {
		return 0
	}
	age := now.Sub(ev.LatestEpochAt)
	if age < 0 {
		age = 0
	}
	if age >= w.RecencyWindow {
		return 0
	}
	return w.RecencyMax * (1 - float64(age)/float64(w.RecencyWindow))
}

// TierFromScore buckets a score into the ordered tier labels.
func TierFromScore(score int) string {
	switch {
	case score < 20:
		return TierSeedling
	case score < 40:
		return TierRooted
	case score < 60:
		return TierEstablished
	case score < 80:
		return TierTrusted
	default:
		return TierVerified
	}
}

func capped(v, max float64) float64 {
	if max > 0 && v > max {
		return max
	}
	if v < 0 {
		return 0
	}
	return v
}
