package domain

// Product is a catalog product as served by the backend.
type Product struct {
	ID          int64    `json:"id"`
	Name        string   `json:"nombre"`
	Description string   `json:"descripcion,omitempty"`
	Price       int64    `json:"precio"`
	Available   bool     `json:"disponible"`
	Stock       int      `json:"stock"`
	Tags        []string `json:"tags,omitempty"`
	ImageRef    string   `json:"img,omitempty"`
}
