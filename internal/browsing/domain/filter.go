package domain

import (
	"fmt"
	"strconv"
	"strings"
)

type KindSelector string

const (
	KindAll      KindSelector = "all"
	KindSaleOnly KindSelector = KindSelector(KindSale)
	KindRentOnly KindSelector = KindSelector(KindRent)
)

func ParseKindSelector(s string) (KindSelector, error) {
	switch KindSelector(strings.ToLower(s)) {
	case "", KindAll:
		return KindAll, nil
	case KindSaleOnly:
		return KindSaleOnly, nil
	case KindRentOnly:
		return KindRentOnly, nil
	}
	return "", fmt.Errorf("%w: unknown listing type %q", ErrInvalidFilter, s)
}

func (k KindSelector) Matches(kind ListingKind) bool {
	return k == KindAll || k == "" || ListingKind(k) == kind
}

// BedroomSelector is either "any" (the zero value) or a minimum bedroom count.
type BedroomSelector int

const AnyBedrooms BedroomSelector = 0

func ParseBedroomSelector(s string) (BedroomSelector, error) {
	if s == "" || strings.EqualFold(s, "any") {
		return AnyBedrooms, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return AnyBedrooms, fmt.Errorf("%w: bedrooms must be \"any\" or a non-negative integer, got %q", ErrInvalidFilter, s)
	}
	return BedroomSelector(n), nil
}

func (b BedroomSelector) Matches(bedrooms int) bool {
	return b == AnyBedrooms || bedrooms >= int(b)
}

func (b BedroomSelector) String() string {
	if b == AnyBedrooms {
		return "any"
	}
	return strconv.Itoa(int(b))
}

func (b BedroomSelector) MarshalText() ([]byte, error) {
	return []byte(b.String()), nil
}

func (b *BedroomSelector) UnmarshalText(text []byte) error {
	v, err := ParseBedroomSelector(string(text))
	if err != nil {
		return err
	}
	*b = v
	return nil
}

// FilterCriteria is the session's current filter selection.
type FilterCriteria struct {
	SearchTerm string          `json:"searchTerm"`
	Kind       KindSelector    `json:"type"`
	MinPrice   float64         `json:"minPrice"`
	MaxPrice   float64         `json:"maxPrice"`
	Bedrooms   BedroomSelector `json:"bedrooms"`
}

type PriceRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}
