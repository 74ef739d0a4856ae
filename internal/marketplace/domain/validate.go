package domain

import (
	"strconv"
	"strings"
	"unicode/utf8"
)

// Validate checks the input and returns the parsed price and the attribute
// list in display order.
func (in OfferInput) Validate() (int, []Attribute, error) {
	required := []struct{ name, value string }{
		{"title", in.Title},
		{"description", in.Description},
		{"price", in.Price},
		{AttrCondition, in.Condition},
		{AttrLocation, in.Location},
		{AttrBrand, in.Brand},
		{AttrSize, in.Size},
		{AttrColor, in.Color},
	}
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			return 0, nil, MissingField(f.name)
		}
	}

	if utf8.RuneCountInString(in.Title) > MaxTitleLength {
		return 0, nil, FieldTooLong("title", MaxTitleLength)
	}
	if utf8.RuneCountInString(in.Description) > MaxDescriptionLength {
		return 0, nil, FieldTooLong("description", MaxDescriptionLength)
	}

	price, err := ParsePrice(in.Price)
	if err != nil {
		return 0, nil, err
	}

	attrs := []Attribute{
		{Label: AttrCondition, Value: in.Condition},
		{Label: AttrLocation, Value: in.Location},
		{Label: AttrBrand, Value: in.Brand},
		{Label: AttrSize, Value: in.Size},
		{Label: AttrColor, Value: in.Color},
	}
	return price, attrs, nil
}

func ParsePrice(s string) (int, error) {
	price, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || price < MinPrice || price > MaxPrice {
		return 0, ErrInvalidPrice
	}
	return price, nil
}
