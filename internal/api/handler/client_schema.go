package handler

type createClientRequest struct {
	Name           string `json:"name"            validate:"required"`
	Email          string `json:"email"           validate:"required,email"`
	Phone          string `json:"phone"           validate:"required"`
	Status         string `json:"status"          validate:"omitempty,oneof=Active Inactive"`
	SensitiveNotes string `json:"sensitive_notes"`
}

// updateClientRequest is a partial update; absent fields stay unchanged.
type updateClientRequest struct {
	Name           *string `json:"name"`
	Email          *string `json:"email"           validate:"omitempty,email"`
	Phone          *string `json:"phone"`
	Status         *string `json:"status"          validate:"omitempty,oneof=Active Inactive"`
	SensitiveNotes *string `json:"sensitive_notes"`
}
