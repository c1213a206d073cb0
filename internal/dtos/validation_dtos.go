package dtos

// ValidationErrorDetail describes a single failed field validation.
type ValidationErrorDetail struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}
