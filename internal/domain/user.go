package domain

// User is a registered customer or admin account.
type User struct {
	ID        int64  `json:"id"`
	Name      string `json:"nombre"`
	Email     string `json:"email"`
	Direccion string `json:"direccion,omitempty"`
	Telefono  string `json:"telefono,omitempty"`
	IsAdmin   bool   `json:"is_admin"`
}
