package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/Abdurahmanit/GroupProject/virtucasa-service/internal/browsing/domain"
)

const (
	// DescriptionFallbackText replaces the generated text when the generator fails.
	DescriptionFallbackText = "Sorry, we couldn't generate a description at this time. Please try again later."
	// MissingAPIKeyText is what UnconfiguredGenerator resolves to.
	MissingAPIKeyText = "API Key not configured. Please set up your environment variables."
)

// BuildDescriptionPrompt renders the copywriter prompt for property.
func BuildDescriptionPrompt(p domain.Property) string {
	listing := "property for sale"
	suffix := ""
	if p.Kind == domain.KindRent {
		listing = "rental property"
		suffix = "/month"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "You are a professional real estate copywriter. Write a compelling and attractive property listing description for a %s.\n\n", listing)
	b.WriteString("Highlight its best features in a warm and inviting tone. Do not just list the features; weave them into a narrative.\n")
	b.WriteString("The description should be approximately 3-4 paragraphs long.\n\n")
	b.WriteString("Here are the property details:\n")
	fmt.Fprintf(&b, "- Title: %s\n", p.Title)
	fmt.Fprintf(&b, "- Location: %s, %s\n", p.Address.Street, p.Address.City)
	fmt.Fprintf(&b, "- Price: $%s%s\n", humanize.Commaf(p.Price), suffix)
	fmt.Fprintf(&b, "- Bedrooms: %d\n", p.Bedrooms)
	fmt.Fprintf(&b, "- Bathrooms: %d\n", p.Bathrooms)
	fmt.Fprintf(&b, "- Area: %d sqft\n\n", p.Area)
	fmt.Fprintf(&b, "Base your writing on this brief initial description: \"%s\"\n\n", p.Description)
	b.WriteString("Generate the description now.")
	return b.String()
}

// UnconfiguredGenerator stands in when no API key is configured.
type UnconfiguredGenerator struct{}

func (UnconfiguredGenerator) Generate(context.Context, domain.Property) (string, error) {
	return MissingAPIKeyText, nil
}
