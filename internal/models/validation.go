package models

// User-facing outcomes for code validation. The exact wording is part of the
// storefront contract.
const (
	MsgInvalidCode = "Invalid code - please enter a valid referral or coupon code"
	MsgNotAssigned = "This coupon code is not available for your account"
	MsgAlreadyUsed = "You have already used this coupon code"
	MsgCodeApplied = "code_applied"
)

// ValidationResult is returned by both the read-only validate and the
// combined validate-and-redeem operations.
type ValidationResult struct {
	Valid              bool    `json:"valid"`
	DiscountPercentage float64 `json:"discount_percentage,omitempty"`
	IsCoupon           bool    `json:"is_coupon"`
	IsUnlimited        bool    `json:"is_unlimited,omitempty"`
	Message            string  `json:"message,omitempty"`
}

func InvalidResult(message string) ValidationResult {
	return ValidationResult{Valid: false, Message: message}
}
