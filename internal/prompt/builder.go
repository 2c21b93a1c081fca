package prompt

import (
	"fmt"
	"strings"

	"github.com/arthurmateu/throxy-project/internal/domain"
	"github.com/arthurmateu/throxy-project/internal/domain/models"
)

// instructionBlock is the fixed response contract appended to every ranking
// request. The parser depends on the JSON shape demanded here.
const instructionBlock = `Respond with a single JSON object in exactly this shape:
{"rankings":[{"leadId":"<id>","rank":<1-10 or null>,"reasoning":"<text>"}]}

Rules:
- Include every lead exactly once, using the lead id given in brackets.
- rank is an integer from 1 to 10. Lower numbers mean a better fit.
- Use null (not a number) for leads in hard-exclusion categories.
- reasoning must be at most two sentences.
- Output only the JSON object, no surrounding prose.`

// BuildRankingPrompt assembles the request text for one company's lead
// group: the base prompt verbatim, the company metadata, an enumerated lead
// list, and the fixed instruction block. An empty group is a programming
// error on the caller's side.
func BuildRankingPrompt(basePrompt string, leads []*models.Lead) (string, error) {
	if len(leads) == 0 {
		return "", domain.NewDomainError(domain.ErrEmptyLeadGroup, "ranking prompt requires at least one lead")
	}

	company := leads[0]

	var b strings.Builder
	b.WriteString(basePrompt)
	b.WriteString("\n\n")

	fmt.Fprintf(&b, "Company: %s\n", company.CompanyName)
	if company.EmployeeRange != "" {
		fmt.Fprintf(&b, "Size: %s employees\n", company.EmployeeRange)
	}
	if company.Industry != "" {
		fmt.Fprintf(&b, "Industry: %s\n", company.Industry)
	}

	b.WriteString("\nLeads:\n")
	for i, lead := range leads {
		fmt.Fprintf(&b, "%d. [%s] %s - %s\n", i+1, lead.ID, lead.FullName(), lead.JobTitle)
	}

	b.WriteString("\n")
	b.WriteString(instructionBlock)

	return b.String(), nil
}
