package domain

import "time"

// Business is the tenant profile whose brand context is folded into every
// generation prompt.
type Business struct {
	ID           string
	Name         string
	Industry     string
	Description  string
	LogoURL      string
	ColorPalette []string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// HasLogo reports whether a logo reference image is available.
func (b Business) HasLogo() bool {
	return b.LogoURL != ""
}
