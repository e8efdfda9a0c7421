package payment

// PrecheckDTO carries the raw card fields from the form.
type PrecheckDTO struct {
	CardNumber string `json:"card_number"`
	Expiry     string `json:"expiry"`
	CVV        string `json:"cvv"`
}

// PrecheckResponse reports the detected brand and any field problems; the
// form surfaces them inline next to the offending field.
type PrecheckResponse struct {
	Brand  Brand             `json:"brand"`
	Valid  bool              `json:"valid"`
	Errors map[string]string `json:"errors,omitempty"`
}
