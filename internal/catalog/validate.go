package catalog

import (
	"net/url"
	"strconv"
	"strings"
)

// PlaceholderImage substitutes for an omitted image URL on submission.
const PlaceholderImage = "https://via.placeholder.com/300x300?text=Product+Image"

// Form carries raw product form input as entered, before any parsing.
type Form struct {
	Title       string `json:"title"`
	Price       string `json:"price"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Image       string `json:"image"`
}

// Validate checks every field independently and returns one message per
// failing field. An empty map means the form is valid.
func Validate(f Form) map[string]string {
	errs := make(map[string]string)

	title := strings.TrimSpace(f.Title)
	if title == "" {
		errs["title"] = "Product title is required"
	} else if len(title) < 3 {
		errs["title"] = "Title must be at least 3 characters long"
	}

	if strings.TrimSpace(f.Price) == "" {
		errs["price"] = "Price is required"
	} else if price, err := strconv.ParseFloat(strings.TrimSpace(f.Price), 64); err != nil || price <= 0 {
		errs["price"] = "Price must be a valid positive number"
	}

	desc := strings.TrimSpace(f.Description)
	if desc == "" {
		errs["description"] = "Description is required"
	} else if len(desc) < 10 {
		errs["description"] = "Description must be at least 10 characters long"
	}

	if f.Category == "" {
		errs["category"] = "Please select a category"
	} else if !validCategory(f.Category) {
		errs["category"] = "Please select a category"
	}

	if f.Image != "" && !validURL(f.Image) {
		errs["image"] = "Please enter a valid URL"
	}

	return errs
}

func validURL(raw string) bool {
	u, err := url.Parse(raw)
	return err == nil && u.Scheme != "" && u.Host != ""
}
