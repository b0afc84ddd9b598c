package dto

// SaveProfileRequest replaces the caller's profile.
type SaveProfileRequest struct {
	Name string `json:"name" validate:"required,max=200"`
}
