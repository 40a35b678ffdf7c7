package riskanalysis

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/lexatlas/lexatlas/internal/domain/attorney"
	"github.com/lexatlas/lexatlas/internal/infrastructure/monitoring/logging"
	"github.com/lexatlas/lexatlas/internal/infrastructure/monitoring/prometheus"
	"github.com/lexatlas/lexatlas/pkg/types/legal"
)

// AttorneyLister is the candidate-pool contract the ranker consumes.
type AttorneyLister interface {
	List(ctx context.Context, filter attorney.ListFilter) ([]*attorney.Attorney, int64, error)
}

// historicalIDPattern matches attorney identifiers cited in historical
// engagement documents.
var historicalIDPattern = regexp.MustCompile(`ATT-[A-Z0-9]{8}`)

// Scoring weights. A score is reproducible from the profile, the practice
// area, and the historical-ID set alone.
var (
	proficiencyBonus = map[legal.Proficiency]int{
		legal.ProficiencyExpert:       20,
		legal.ProficiencyAdvanced:     15,
		legal.ProficiencyIntermediate: 10,
		legal.ProficiencyBeginner:     5,
	}
	seniorityBonus = map[legal.Seniority]int{
		legal.SenioritySeniorPartner:   20,
		legal.SeniorityPartner:         15,
		legal.SenioritySeniorAssociate: 10,
		legal.SeniorityAssociate:       5,
	}
)

const (
	practiceAreaMatchScore = 40
	experienceCapYears     = 20
	historicalMatchScore   = 30
)

// ExtractHistoricalIDs scans historical document content for attorney
// identifiers and returns the set of distinct matches.
func ExtractHistoricalIDs(docs []legal.RetrievedDocument) map[string]struct{} {
	ids := make(map[string]struct{})
	for _, doc := range docs {
		for _, id := range historicalIDPattern.FindAllString(doc.Content, -1) {
			ids[id] = struct{}{}
		}
	}
	return ids
}

// Score computes one attorney's match score against a practice area and the
// historical-ID evidence set.
func Score(a *attorney.Attorney, practiceArea string, historicalIDs map[string]struct{}) int {
	score := 0
	for _, entry := range a.PracticeAreas {
		if entry.Area == practiceArea {
			score += practiceAreaMatchScore
			score += proficiencyBonus[entry.Proficiency]
		}
	}
	score += seniorityBonus[a.Seniority]
	if a.Years < experienceCapYears {
		score += a.Years
	} else {
		score += experienceCapYears
	}
	if _, ok := historicalIDs[a.ID]; ok {
		score += historicalMatchScore
	}
	return score
}

// AttorneyRanker scores and ranks the candidate pool for a practice area.
type AttorneyRanker struct {
	attorneys AttorneyLister
	topN      int
	metrics   *prometheus.AppMetrics
	logger    logging.Logger
}

// NewAttorneyRanker creates a ranker returning the top topN attorneys.
// metrics may be nil.
func NewAttorneyRanker(attorneys AttorneyLister, topN int, metrics *prometheus.AppMetrics, log logging.Logger) *AttorneyRanker {
	if topN <= 0 {
		topN = 3
	}
	return &AttorneyRanker{
		attorneys: attorneys,
		topN:      topN,
		metrics:   metrics,
		logger:    log,
	}
}

// Rank fetches the candidate pool, scores it against the practice area and
// the historical-engagement evidence, and returns the top entries sorted by
// score descending. Ties keep the fetch order. Rank never fails: fetch
// errors degrade to the sentinel recommendation.
func (r *AttorneyRanker) Rank(ctx context.Context, practiceArea string, historicalDocs []legal.RetrievedDocument) []legal.RecommendedAttorney {
	pool := r.candidatePool(ctx, practiceArea)
	if len(pool) == 0 {
		r.logger.Warn("no attorneys available, substituting sentinel recommendation",
			logging.String("practice_area", practiceArea))
		if r.metrics != nil {
			r.metrics.EmptyPoolTotal.WithLabelValues().Inc()
		}
		return []legal.RecommendedAttorney{sentinelRecommendation()}
	}

	historicalIDs := ExtractHistoricalIDs(historicalDocs)

	type scored struct {
		attorney *attorney.Attorney
		score    int
	}
	candidates := make([]scored, 0, len(pool))
	for _, a := range pool {
		candidates = append(candidates, scored{attorney: a, score: Score(a, practiceArea, historicalIDs)})
	}

	// Stable: equal scores keep the order the pool was fetched in.
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})

	n := r.topN
	if n > len(candidates) {
		n = len(candidates)
	}

	recommended := make([]legal.RecommendedAttorney, 0, n)
	for _, c := range candidates[:n] {
		_, historical := historicalIDs[c.attorney.ID]
		recommended = append(recommended, recommend(c.attorney, c.score, historical))
	}
	return recommended
}

// candidatePool lists attorneys practicing in the target area, falling back
// to the full pool when none match.
func (r *AttorneyRanker) candidatePool(ctx context.Context, practiceArea string) []*attorney.Attorney {
	pool, _, err := r.attorneys.List(ctx, attorney.ListFilter{PracticeArea: practiceArea})
	if err != nil {
		r.logger.Error("attorney pool fetch failed", logging.Error(err))
		return nil
	}
	if len(pool) > 0 {
		return pool
	}

	r.logger.Debug("no attorneys in practice area, widening to full pool",
		logging.String("practice_area", practiceArea))
	pool, _, err = r.attorneys.List(ctx, attorney.ListFilter{})
	if err != nil {
		r.logger.Error("attorney pool fetch failed", logging.Error(err))
		return nil
	}
	return pool
}

func recommend(a *attorney.Attorney, score int, historical bool) legal.RecommendedAttorney {
	areas := strings.Join(a.AreaNames(), ", ")
	if areas == "" {
		areas = "General Practice"
	}

	reason := fmt.Sprintf("Specializes in %s with %d years of experience.", areas, a.Years)
	if historical {
		reason += " Has handled similar matters based on historical engagements."
	}

	return legal.RecommendedAttorney{
		ID:     a.ID,
		Name:   a.Name,
		Role:   fmt.Sprintf("%s, %s", a.Seniority, areas),
		Score:  score,
		Reason: reason,
	}
}

func sentinelRecommendation() legal.RecommendedAttorney {
	return legal.RecommendedAttorney{
		Name:   "General Counsel",
		Role:   "Partner",
		Score:  0,
		Reason: "No attorneys available in the system",
	}
}
