package parser

import (
	"fmt"
	"strings"
	"time"

	"nido/internal/core"
)

const DefaultModelName = "gemini-2.0-flash"

func buildPrompt(input string, now time.Time) string {
	var sb strings.Builder

	sb.WriteString("You are a transaction entry parser for a household finance tracker.\n\n")
	sb.WriteString("Task:\n")
	sb.WriteString("- Parse the user's free-text note into ONE transaction draft.\n")
	sb.WriteString("- Output STRICT JSON only (no comments, no trailing commas, no extra text).\n")
	sb.WriteString("- Output a single JSON object.\n\n")
	sb.WriteString("The object must have these fields:\n")
	sb.WriteString("- \"amount\": string, decimal with up to two fraction digits, e.g. \"45.50\"\n")
	sb.WriteString("- \"type\": string, one of \"income\", \"expense\", \"debt\", \"repayment\"\n")
	sb.WriteString("- \"category\": string (one of the predefined categories below)\n")
	sb.WriteString("- \"note\": string, a short cleaned-up description\n")
	sb.WriteString("- \"date\": string, ISO format \"YYYY-MM-DD\"\n")
	sb.WriteString("- \"due_date\": string \"YYYY-MM-DD\" or null (bills only)\n")
	sb.WriteString("- \"baby_name\": string or null (only when the text names a child)\n\n")

	sb.WriteString("Categories:\n")
	for _, code := range []core.CategoryCode{
		core.CodeFood, core.CodeTransport, core.CodeMedical, core.CodeEducation,
		core.CodeBabyCare, core.CodeToys, core.CodeClothing, core.CodeEntertainment,
		core.CodeUtilities, core.CodeHousing, core.CodeSalary, core.CodeBonus,
		core.CodeInvestment, core.CodeCreditCard, core.CodeMortgage,
		core.CodeCarLoan, core.CodeConsumerLoan, core.CodeOther,
	} {
		sb.WriteString("- ")
		sb.WriteString(string(code))
		sb.WriteString("\n")
	}

	sb.WriteString("\nRules:\n")
	fmt.Fprintf(&sb, "- Today is %s. Resolve relative dates (\"yesterday\", \"last Friday\") against it.\n",
		now.Format("2006-01-02"))
	sb.WriteString("- When no date is mentioned, use today.\n")
	sb.WriteString("- Paying off a card or loan is \"repayment\"; charging a card is \"debt\".\n")
	sb.WriteString("- When no category fits, use \"other\".\n")
	sb.WriteString("- Return ONLY valid raw JSON.\n")
	sb.WriteString("- Do NOT wrap the response in code fences.\n")
	sb.WriteString("- Do NOT use ```json or any Markdown.\n")
	sb.WriteString("- Output must begin with \"{\" and end with \"}\".\n\n")

	sb.WriteString("Text:\n")
	sb.WriteString(input)

	return sb.String()
}
