package domain

// Status represents a lightweight state value.
type Status string

// FieldError is one field-level validation failure returned by the API.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Pagination carries paging params and totals.
type Pagination struct {
	Page     int `json:"page"`
	PageSize int `json:"pageSize"`
	Total    int `json:"total,omitempty"`
}

// Sort defines sorting preference.
type Sort struct {
	Field     string `json:"field"`
	Direction string `json:"direction"` // asc / desc
}

// RequestContext carries authenticated user info when available.
type RequestContext struct {
	UserID string `json:"userId"`
	Role   string `json:"role"`
}
