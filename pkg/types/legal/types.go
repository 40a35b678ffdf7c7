// Package legal defines the shared value types of the LexAtlas risk-analysis
// domain: attorney classification enums, retrieval snippets, and the
// request/result shapes of the analysis pipeline.  These types are pure data;
// behaviour lives in internal/domain and internal/application.
package legal

// Seniority is an attorney rank from a fixed ordered set.
type Seniority string

const (
	SeniorityAssociate       Seniority = "Associate"
	SenioritySeniorAssociate Seniority = "Senior Associate"
	SeniorityPartner         Seniority = "Partner"
	SenioritySeniorPartner   Seniority = "Senior Partner"
)

// Valid reports whether s is one of the known seniority levels.
func (s Seniority) Valid() bool {
	switch s {
	case SeniorityAssociate, SenioritySeniorAssociate, SeniorityPartner, SenioritySeniorPartner:
		return true
	}
	return false
}

// Proficiency describes skill depth within a single practice area.
type Proficiency string

const (
	ProficiencyBeginner     Proficiency = "Beginner"
	ProficiencyIntermediate Proficiency = "Intermediate"
	ProficiencyAdvanced     Proficiency = "Advanced"
	ProficiencyExpert       Proficiency = "Expert"
)

// Valid reports whether p is one of the known proficiency levels.
func (p Proficiency) Valid() bool {
	switch p {
	case ProficiencyBeginner, ProficiencyIntermediate, ProficiencyAdvanced, ProficiencyExpert:
		return true
	}
	return false
}

// ImpactLevel classifies the severity of a public legal development.
type ImpactLevel string

const (
	ImpactLow      ImpactLevel = "Low"
	ImpactMedium   ImpactLevel = "Medium"
	ImpactHigh     ImpactLevel = "High"
	ImpactCritical ImpactLevel = "Critical"
)

// EnrichmentStatus tracks the annotation lifecycle of a public source.
// Only completed records are eligible for use by the analysis pipeline.
type EnrichmentStatus string

const (
	EnrichmentPending    EnrichmentStatus = "pending"
	EnrichmentProcessing EnrichmentStatus = "processing"
	EnrichmentCompleted  EnrichmentStatus = "completed"
	EnrichmentFailed     EnrichmentStatus = "failed"
)

// Valid reports whether s is one of the known enrichment states.
func (s EnrichmentStatus) Valid() bool {
	switch s {
	case EnrichmentPending, EnrichmentProcessing, EnrichmentCompleted, EnrichmentFailed:
		return true
	}
	return false
}

// PracticeAreaEntry is one specialty on an attorney's profile.
type PracticeAreaEntry struct {
	Area        string      `json:"area"`
	Proficiency Proficiency `json:"proficiency"`
	Years       int         `json:"years"`
}

// RetrievedDocument is a ranked snippet returned by a text-search collection.
// Score uses the collection's native relevance scale and is not comparable
// across collections.
type RetrievedDocument struct {
	Content string  `json:"content"`
	Source  string  `json:"source"`
	Path    string  `json:"path"`
	Score   float64 `json:"score"`
}

// RetrievedContext is the joined output of querying both collections.
type RetrievedContext struct {
	Internal   []RetrievedDocument `json:"internal"`
	Historical []RetrievedDocument `json:"historical"`
}

// AnalysisRequest is the immutable input of the risk-analysis pipeline.
// ContactEmail and ContactPhone are optional.
type AnalysisRequest struct {
	CompanyName  string `json:"companyName"`
	ContactEmail string `json:"companyemail,omitempty"`
	ContactPhone string `json:"companyphonenumber,omitempty"`
	PracticeArea string `json:"practicearea"`
}

// ReferenceItem is one label/url citation attached to an analysis result.
type ReferenceItem struct {
	Label string `json:"label"`
	URL   string `json:"url"`
}

// RecommendedAttorney is one ranked entry of the recommendation list.
type RecommendedAttorney struct {
	ID     string `json:"id,omitempty"`
	Name   string `json:"name"`
	Role   string `json:"role"`
	Score  int    `json:"score"`
	Reason string `json:"reason"`
}

// RiskAnalysisResult is the complete pipeline output.  Risks and References
// may be empty but are always non-nil; RecommendedAttorneys always holds at
// least one entry; Confidence is bounded to [1, 100].
type RiskAnalysisResult struct {
	CompanyName          string                `json:"company_name"`
	PracticeArea         string                `json:"practice_area"`
	Risks                []string              `json:"risks"`
	References           []ReferenceItem       `json:"references"`
	RecommendedAttorneys []RecommendedAttorney `json:"recommended_attorneys"`
	EmailTemplate        string                `json:"email_template"`
	Confidence           int                   `json:"confidence_score"`
}
