package controller

// Home is the landing page. It reads nothing remote; the content is the
// static storefront pitch.
type Home struct{}

// NewHome returns the Home controller.
func NewHome() *Home { return &Home{} }

// HomeContent is what the landing page renders.
type HomeContent struct {
	Title    string   `json:"title"`
	Tagline  string   `json:"tagline"`
	Features []string `json:"features"`
}

// Content returns the landing page content.
func (h *Home) Content() HomeContent {
	return HomeContent{
		Title:   "Welcome to Fake Store",
		Tagline: "Your One-Stop Shop for Everything Amazing",
		Features: []string{
			"Free Shipping",
			"Top Quality",
			"Secure Payment",
		},
	}
}
