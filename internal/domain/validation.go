package domain

// Validation is the clamp-and-flag result of checking a numeric input.
// When Valid is false, Value holds the nearest allowed value.
type Validation struct {
	Valid   bool   `json:"isValid"`
	Message string `json:"message,omitempty"`
	Value   int64  `json:"value"`
}

// Err converts an invalid result into a KindInvalidRange error.
func (v Validation) Err() error {
	if v.Valid {
		return nil
	}
	return &Error{Kind: KindInvalidRange, Message: v.Message, Limit: v.Value}
}
