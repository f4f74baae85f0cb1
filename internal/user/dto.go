package user

// UpdateProfileDTO is the transport shape for profile updates. Email changes
// are deliberately not supported here: the email is the token subject claim,
// so changing it would orphan every live session.
type UpdateProfileDTO struct {
	Name string `json:"name"`
}

// ValidationError represents a simple validation error from DTO validation.
type ValidationError struct {
	Msg string
}

func (v ValidationError) Error() string { return v.Msg }

func (d UpdateProfileDTO) Validate() error {
	if d.Name == "" {
		return ValidationError{Msg: "name is required"}
	}
	return nil
}
