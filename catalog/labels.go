package catalog

import (
	"strings"

	"github.com/KrushanthAmalanathan/SkillShareCyberFrondend/models"
	"github.com/shopspring/decimal"
)

// PriceLabel renders "Free" for a missing or zero price and "Rs. <n>"
// otherwise, dropping a ".00" tail.
func PriceLabel(price decimal.NullDecimal) string {
	if !price.Valid || price.Decimal.IsZero() {
		return "Free"
	}
	return "Rs. " + strings.TrimSuffix(price.Decimal.StringFixed(2), ".00")
}

type ExamButton struct {
	Label    string `json:"label"`
	Disabled bool   `json:"disabled"`
}

// ExamButtonFor is the call to action on the course page.
func ExamButtonFor(s models.Status, questionCount int) ExamButton {
	var b ExamButton
	switch s {
	case models.Completed:
		b = ExamButton{Label: "Completed", Disabled: true}
	case models.InProgress:
		b = ExamButton{Label: "Try Again"}
	default:
		b = ExamButton{Label: "Take Test"}
	}
	if questionCount == 0 {
		b.Disabled = true
	}
	return b
}

type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// StatusOptions feeds the catalog's status dropdown.
var StatusOptions = []Option{
	{Value: "all", Label: "All"},
	{Value: "new", Label: "New course"},
	{Value: "continue", Label: "Continue Course"},
	{Value: "completed", Label: "Completed course"},
}
