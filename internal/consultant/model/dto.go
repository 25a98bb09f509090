package model

// UpsertRequest syncs a consultant from the external directory.
type UpsertRequest struct {
	Name      string `json:"name"      validate:"required,max=255"`
	Email     string `json:"email"     validate:"required,email,max=255"`
	Specialty string `json:"specialty" validate:"max=255"`
	IsActive  *bool  `json:"isActive"`
}

// ListFilter narrows a directory listing.
type ListFilter struct {
	// ActiveOnly hides consultants marked inactive in the directory.
	ActiveOnly bool
	// Search matches a case-insensitive substring of name or email.
	Search string
	Limit  int
	Offset int
}

// ListResponse is the body of GET /consultants.
type ListResponse struct {
	Consultants []Consultant `json:"consultants"`
	Count       int          `json:"count"`
}
