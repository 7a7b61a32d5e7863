package transport

// RegisterRequest mirrors the registration form fields.
type RegisterRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Country  string `json:"country" validate:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type ProjectCreateRequest struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description" validate:"required"`
}

// ProjectUpdateRequest uses pointer fields so "absent" and "explicitly
// set" stay distinguishable; nil means keep the stored value.
type ProjectUpdateRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

type TaskCreateRequest struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description" validate:"required"`
	Status      string `json:"status" validate:"omitempty,oneof='To Do' 'In Progress' 'Completed'"`
}

// TaskUpdateRequest uses pointer fields for the same presence semantics
// as ProjectUpdateRequest.
type TaskUpdateRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Status      *string `json:"status"`
}
