package domain

// Student is the identity collaborator's result, consumed as opaque
// trusted input. No re-validation happens past this point.
type Student struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}
