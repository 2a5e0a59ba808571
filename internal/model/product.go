package model

// Product is a catalog entry owned by the content repository. The bot never mutates it.
type Product struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Price       int    `json:"price"`
	State       string `json:"state"`
	// ImageURL is the path of the small image format relative to the repository host, empty if none.
	ImageURL string `json:"image_url,omitempty"`
}

func (p Product) HasImage() bool { return p.ImageURL != "" }
