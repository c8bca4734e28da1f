package gemini

import (
	"strings"

	"github.com/dvloznov/bill2csv/internal/batch"
	"github.com/dvloznov/bill2csv/internal/category"
)

// BuildPrompt renders the extraction instructions for one request: the
// table-extraction rules for the schema's column layout plus the taxonomy
// the model may draw categories from.
func BuildPrompt(schema batch.Schema, categories *category.Index) string {
	header := strings.Join(schema.Columns(), ",")

	var b strings.Builder
	b.WriteString("You read the attached multi-page bill PDF and extract ONLY the expense detail table(s).\n")
	b.WriteString("Ignore dashboards, charts, summaries, totals, advertisements, and cover pages.\n\n")
	b.WriteString("Output ONLY raw CSV with this exact header:\n")
	b.WriteString(header + "\n\n")

	b.WriteString("Column rules:\n")
	b.WriteString("- Date: transaction date preferred, otherwise posting date; format DD-MM-YYYY.\n")
	b.WriteString("- Description: the full transaction description as shown; one line; quote the field if it contains commas.\n")
	if schema.HasPayee() {
		b.WriteString("- Payee: the merchant/vendor name extracted from the description, original language/script preserved, store numbers and transaction codes removed.\n")
	}
	b.WriteString("- Amount: signed decimal, '.' as decimal separator, no thousands separators; charges NEGATIVE, payments/credits/refunds POSITIVE.\n")
	b.WriteString("- Category: use ONLY the categories listed below, as \"Main > Sub\" when a subcategory fits.\n\n")

	b.WriteString("Scope:\n")
	b.WriteString("- Extract ALL rows from the expense detail table(s) across ALL pages.\n")
	b.WriteString("- If the bill contains NO itemized rows, output ONE row using the total due as a charge (negative).\n")
	b.WriteString("- If a field is unknown, leave it empty.\n")
	b.WriteString("- Output only CSV text: no explanations, no markdown, no code fences, no extra columns.\n\n")

	writeCategoriesBlock(&b, categories)
	return b.String()
}

// writeCategoriesBlock renders the taxonomy in the nested-list form the
// index itself consumes, so prompt and lookup can never drift apart.
func writeCategoriesBlock(b *strings.Builder, categories *category.Index) {
	b.WriteString("## Available Categories\n")
	b.WriteString("Use ONLY these categories for the Category column:\n\n")
	for _, main := range categories.Tree() {
		b.WriteString("- " + main.Name + "\n")
		for _, sub := range main.Subs {
			b.WriteString("  - " + sub + "\n")
		}
	}
	b.WriteString("\nIf no category fits, use \"" + categories.Default() + "\".\n")
}
