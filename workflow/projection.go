package workflow

import "github.com/kvbsystems/kvbbackend/models"

// PublicProduct is the reduced view served on the unauthenticated product
// listing: name, description and the first image. Price, stock and
// specifications are for signed-in surfaces only.
type PublicProduct struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Image       string `json:"image,omitempty"`
}

func PublicProductView(p models.Product) PublicProduct {
	view := PublicProduct{
		ID:          p.ID.Hex(),
		Name:        p.Name,
		Description: p.Description,
	}
	if len(p.ImageUrls) > 0 {
		view.Image = p.ImageUrls[0]
	}
	return view
}
