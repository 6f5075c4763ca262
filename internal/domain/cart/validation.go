package cart

import "github.com/google/uuid"

// IssueCode classifies a discrepancy between a cart line's snapshot and the
// live catalog record. Per line at most one issue is reported; existence
// dominates stock dominates price.
type IssueCode string

const (
	IssueProductUnavailable IssueCode = "PRODUCT_UNAVAILABLE"
	IssueOutOfStock         IssueCode = "OUT_OF_STOCK"
	IssuePriceChanged       IssueCode = "PRICE_CHANGED"
)

// SuggestedAction tells the caller how to auto-remediate an issue.
type SuggestedAction string

const (
	ActionRemove         SuggestedAction = "REMOVE"
	ActionUpdateQuantity SuggestedAction = "UPDATE_QUANTITY"
	ActionUpdatePrice    SuggestedAction = "UPDATE_PRICE"
)

type ValidationIssue struct {
	ItemID          uuid.UUID       `json:"item_id"`
	ProductID       uuid.UUID       `json:"product_id"`
	Code            IssueCode       `json:"code"`
	Message         string          `json:"message"`
	SuggestedAction SuggestedAction `json:"suggested_action"`
	CurrentStock    *int            `json:"current_stock,omitempty"`
	CurrentPrice    *int64          `json:"current_price,omitempty"`
}

// ValidationResult is data, not an error: the UI drives remediation from it
// and only checkout's own re-validation escalates it.
type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Issues []ValidationIssue `json:"errors"`
}
