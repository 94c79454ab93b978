package rendering

// TemplateError reports why a base document was rejected.
type TemplateError struct {
	Code    string
	Message string
	Cause   error
}

func (e *TemplateError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *TemplateError) Unwrap() error {
	return e.Cause
}

// Error codes for template failures
const (
	ErrCodeTemplateUnavailable = "TEMPLATE_UNAVAILABLE"
	ErrCodeTemplateIncomplete  = "TEMPLATE_INCOMPLETE"
	ErrCodeTemplateMissingSlot = "TEMPLATE_MISSING_SLOT"
	ErrCodeTemplateTooLarge    = "TEMPLATE_TOO_LARGE"
)

// NewTemplateError creates a new TemplateError
func NewTemplateError(code, message string, cause error) *TemplateError {
	return &TemplateError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}
