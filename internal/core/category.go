package core

import "strings"

// CategoryCode is the closed set of categories the application understands.
// Free-form labels (typically out of the AI parser) are kept as CodeOther
// with the original text preserved in Category.Raw.
type CategoryCode string

const (
	CodeFood          CategoryCode = "food"
	CodeTransport     CategoryCode = "transport"
	CodeMedical       CategoryCode = "medical"
	CodeEducation     CategoryCode = "education"
	CodeBabyCare      CategoryCode = "baby_care"
	CodeToys          CategoryCode = "toys"
	CodeClothing      CategoryCode = "clothing"
	CodeEntertainment CategoryCode = "entertainment"
	CodeUtilities     CategoryCode = "utilities"
	CodeHousing       CategoryCode = "housing"
	CodeSalary        CategoryCode = "salary"
	CodeBonus         CategoryCode = "bonus"
	CodeInvestment    CategoryCode = "investment"
	CodeCreditCard    CategoryCode = "credit_card"
	CodeMortgage      CategoryCode = "mortgage"
	CodeCarLoan       CategoryCode = "car_loan"
	CodeConsumerLoan  CategoryCode = "consumer_loan"
	CodeOther         CategoryCode = "other"
)

// Category pairs a known code with the raw label it was parsed from. Raw is
// only meaningful when Code is CodeOther.
type Category struct {
	Code CategoryCode
	Raw  string
}

var knownCodes = map[CategoryCode]struct{}{
	CodeFood: {}, CodeTransport: {}, CodeMedical: {}, CodeEducation: {},
	CodeBabyCare: {}, CodeToys: {}, CodeClothing: {}, CodeEntertainment: {},
	CodeUtilities: {}, CodeHousing: {}, CodeSalary: {}, CodeBonus: {},
	CodeInvestment: {}, CodeCreditCard: {}, CodeMortgage: {}, CodeCarLoan: {},
	CodeConsumerLoan: {}, CodeOther: {},
}

// ParseCategory maps a label to its code. Unrecognized labels become
// CodeOther with the original text kept verbatim.
func ParseCategory(s string) Category {
	code := CategoryCode(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := knownCodes[code]; ok {
		return Category{Code: code}
	}
	return Category{Code: CodeOther, Raw: strings.TrimSpace(s)}
}

func NewCategory(code CategoryCode) Category {
	if _, ok := knownCodes[code]; !ok {
		return Category{Code: CodeOther, Raw: string(code)}
	}
	return Category{Code: code}
}

// Label returns the display/storage form: the code name for known
// categories, the preserved raw text for unrecognized ones.
func (c Category) Label() string {
	if c.Code == CodeOther && c.Raw != "" {
		return c.Raw
	}
	if c.Code == "" {
		return string(CodeOther)
	}
	return string(c.Code)
}

func (c Category) MarshalText() ([]byte, error) {
	return []byte(c.Label()), nil
}

func (c *Category) UnmarshalText(b []byte) error {
	*c = ParseCategory(string(b))
	return nil
}

// DebtRelated reports whether the category describes borrowed money flows.
func (c Category) DebtRelated() bool {
	switch c.Code {
	case CodeCreditCard, CodeMortgage, CodeCarLoan, CodeConsumerLoan:
		return true
	}
	return false
}

// BabyRelated reports whether the category is used for baby spend
// attribution when a transaction carries no explicit baby reference.
func (c Category) BabyRelated() bool {
	switch c.Code {
	case CodeBabyCare, CodeToys, CodeEducation:
		return true
	}
	return false
}
