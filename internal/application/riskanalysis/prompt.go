package riskanalysis

import (
	"fmt"
	"strings"

	"github.com/lexatlas/lexatlas/internal/domain/source"
	"github.com/lexatlas/lexatlas/pkg/types/legal"
)

// PromptBuilder assembles the retrieval context and the request into one
// bounded instruction for the generative model.
type PromptBuilder struct {
	docCharBudget int
}

// NewPromptBuilder creates a builder truncating each document's content to
// docCharBudget characters.
func NewPromptBuilder(docCharBudget int) *PromptBuilder {
	if docCharBudget <= 0 {
		docCharBudget = 2000
	}
	return &PromptBuilder{docCharBudget: docCharBudget}
}

// Build renders the prompt: company fields, then the internal-knowledge,
// historical-engagement, and public-developments sections in that order, then
// the task directive. Sections with no content are omitted entirely.
func (b *PromptBuilder) Build(req legal.AnalysisRequest, ragCtx legal.RetrievedContext, sources []*source.PublicSource) string {
	var sb strings.Builder

	sb.WriteString("You are a legal risk analysis expert. Analyze potential legal risks for a company based on the provided context.\n\n")
	sb.WriteString("COMPANY INFORMATION:\n")
	fmt.Fprintf(&sb, "- Company Name: %s\n", req.CompanyName)
	fmt.Fprintf(&sb, "- Practice Area of Interest: %s\n", req.PracticeArea)
	fmt.Fprintf(&sb, "- Contact Email: %s\n", req.ContactEmail)
	fmt.Fprintf(&sb, "- Contact Phone: %s\n\n", req.ContactPhone)

	sb.WriteString(b.documentSection("INTERNAL LEGAL KNOWLEDGE BASE", "Internal Document", ragCtx.Internal))
	sb.WriteString(b.documentSection("HISTORICAL ENGAGEMENT DATA", "Historical Engagement", ragCtx.Historical))
	sb.WriteString(publicSection(sources))

	sb.WriteString("TASK:\n")
	fmt.Fprintf(&sb, "Based on the above context, identify 3-5 specific legal risks this company might face in the %q practice area.\n\n", req.PracticeArea)
	sb.WriteString("IMPORTANT INSTRUCTIONS:\n")
	sb.WriteString("1. Be specific and actionable in describing each risk\n")
	fmt.Fprintf(&sb, "2. Focus on risks relevant to the %q practice area\n", req.PracticeArea)
	sb.WriteString("3. If you have internal knowledge base or historical data, use those insights to provide company-specific risks\n")
	sb.WriteString("4. If you only have public source data, focus on general industry risks based on recent legal developments\n")
	sb.WriteString("5. Consider the company's likely jurisdiction and operations based on available context\n\n")
	sb.WriteString("Return your analysis as a JSON object with this structure:\n")
	sb.WriteString(`{
    "risks": [
        "Specific risk 1 with clear description",
        "Specific risk 2 with clear description",
        "Specific risk 3 with clear description"
    ],
    "confidence_score": 85,
    "reasoning": "Brief explanation of your analysis approach and data sources used"
}`)
	sb.WriteString("\n\nIMPORTANT: Return ONLY valid JSON, no additional text or markdown formatting.")

	return sb.String()
}

// documentSection renders one retrieved-document section, or "" when no
// document has content.
func (b *PromptBuilder) documentSection(heading, docLabel string, docs []legal.RetrievedDocument) string {
	var blocks []string
	for _, doc := range docs {
		if doc.Content == "" {
			continue
		}
		blocks = append(blocks, fmt.Sprintf("[%s: %s]\n%s", docLabel, doc.Source, truncate(doc.Content, b.docCharBudget)))
	}
	if len(blocks) == 0 {
		return ""
	}
	return heading + ":\n" + strings.Join(blocks, "\n\n") + "\n\n"
}

func publicSection(sources []*source.PublicSource) string {
	if len(sources) == 0 {
		return ""
	}
	blocks := make([]string, 0, len(sources))
	for _, src := range sources {
		blocks = append(blocks, fmt.Sprintf("[Public Source: %s]\nRisk Area: %s\nSummary: %s\nImpact: %s\nJurisdiction: %s",
			src.Title,
			valueOrNA(src.RiskArea),
			valueOrNA(src.Summary),
			valueOrNA(string(src.Impact)),
			valueOrNA(src.Jurisdiction)))
	}
	return "RECENT PUBLIC LEGAL DEVELOPMENTS:\n" + strings.Join(blocks, "\n\n") + "\n\n"
}

// truncate caps s at max characters, counting runes so multi-byte text is
// never split mid-character.
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}

func valueOrNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
