package advisor

import (
	"fmt"
	"strings"
)

// BuildPrompt combines the user's figures and question into the model prompt.
func BuildPrompt(message string, s Summary) string {
	var b strings.Builder
	b.WriteString("You are a helpful and knowledgeable personal finance advisor.\n\n")
	b.WriteString("Based on the following financial data for the user, provide practical, actionable, and empathetic financial advice:\n\n")
	b.WriteString("User's Financial Summary:\n")
	fmt.Fprintf(&b, "- Total Income: ₹%s\n", FormatINR(s.Income))
	fmt.Fprintf(&b, "- Total Expenses: ₹%s\n", FormatINR(s.Expenses))
	fmt.Fprintf(&b, "- Current Balance: ₹%s\n", FormatINR(s.Balance))
	fmt.Fprintf(&b, "- Top Spending Category: %s\n", s.TopCategory)
	fmt.Fprintf(&b, "- Recent Activity: %s\n\n", s.Recent)
	fmt.Fprintf(&b, "User's Question: %s\n\n", message)
	b.WriteString("IMPORTANT: Keep your response SHORT and CRISP - maximum 2-3 sentences. Be direct and actionable. No lengthy explanations.")
	return b.String()
}
