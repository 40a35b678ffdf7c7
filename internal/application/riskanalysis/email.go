package riskanalysis

import (
	"fmt"
	"strings"

	"github.com/lexatlas/lexatlas/pkg/types/legal"
)

// ComposeEmail renders the plain-text outreach message for the top-ranked
// attorney. Contact lines for absent fields are omitted, not blanked.
// Deterministic given its inputs; no I/O.
func ComposeEmail(req legal.AnalysisRequest, top legal.RecommendedAttorney, risks []string) string {
	bullets := make([]string, 0, len(risks))
	for _, risk := range risks {
		bullets = append(bullets, "• "+risk)
	}

	contact := []string{fmt.Sprintf("- Company: %s", req.CompanyName)}
	if req.ContactEmail != "" {
		contact = append(contact, fmt.Sprintf("- Email: %s", req.ContactEmail))
	}
	if req.ContactPhone != "" {
		contact = append(contact, fmt.Sprintf("- Phone: %s", req.ContactPhone))
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Dear %s,\n\n", top.Name)
	fmt.Fprintf(&sb, "I hope this email finds you well. I am reaching out regarding %s, a client seeking legal counsel in the %s practice area.\n\n",
		req.CompanyName, req.PracticeArea)
	sb.WriteString("Based on our preliminary analysis, we have identified the following potential legal risk areas that require attention:\n\n")
	sb.WriteString(strings.Join(bullets, "\n"))
	sb.WriteString("\n\n")
	fmt.Fprintf(&sb, "Given your expertise in %s and your track record handling similar matters, we believe you would be an excellent fit for this engagement.\n\n",
		req.PracticeArea)
	sb.WriteString("Client Contact Information:\n")
	sb.WriteString(strings.Join(contact, "\n"))
	sb.WriteString("\n\n")
	sb.WriteString("Would you be available for an initial consultation to discuss these matters in more detail? Please let me know your availability, and I will coordinate with the client.\n\n")
	sb.WriteString("Best regards,\nLegal Services Team\n")

	return sb.String()
}
