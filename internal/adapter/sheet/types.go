package sheet

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/smartdeal/storefront/internal/core/domain"
)

// writeRequest is the POST body. Product is set for create and
// update, ID for delete.
type writeRequest struct {
	Action  string        `json:"action"`
	Product *sheetProduct `json:"product,omitempty"`
	ID      string        `json:"id,omitempty"`
}

// sheetProduct mirrors one spreadsheet row. The script returns cell
// values as typed by the sheet, so numeric-looking columns may come
// back as numbers or as strings.
type sheetProduct struct {
	ID            flexString `json:"id"`
	Code          flexString `json:"code"`
	Name          string     `json:"name"`
	Description   string     `json:"description"`
	Highlights    []string   `json:"highlights"`
	Images        []string   `json:"images"`
	AffiliateLink string     `json:"affiliateLink"`
	Platform      string     `json:"platform"`
	Categories    []string   `json:"categories"`
	Price         flexString `json:"price"`
	MRP           flexString `json:"mrp"`
	Offer         string     `json:"offer"`
	Likes         flexInt    `json:"likes"`
	Dislikes      flexInt    `json:"dislikes"`
	Timestamp     flexInt64  `json:"timestamp"`

	// Video is a vestigial column the script still expects on writes.
	Video string `json:"video"`
}

func (s sheetProduct) toDomain() domain.Product {
	categories := make([]domain.Category, 0, len(s.Categories))
	for _, c := range s.Categories {
		categories = append(categories, domain.Category(c))
	}
	return domain.Product{
		ID:            string(s.ID),
		Code:          string(s.Code),
		Name:          s.Name,
		Description:   s.Description,
		Highlights:    s.Highlights,
		Images:        s.Images,
		AffiliateLink: s.AffiliateLink,
		Platform:      s.Platform,
		Categories:    categories,
		Price:         string(s.Price),
		MRP:           string(s.MRP),
		Offer:         s.Offer,
		Likes:         int(s.Likes),
		Dislikes:      int(s.Dislikes),
		Timestamp:     int64(s.Timestamp),
	}
}

func toSheet(p domain.Product) *sheetProduct {
	categories := make([]string, 0, len(p.Categories))
	for _, c := range p.Categories {
		categories = append(categories, string(c))
	}
	return &sheetProduct{
		ID:            flexString(p.ID),
		Code:          flexString(p.Code),
		Name:          p.Name,
		Description:   p.Description,
		Highlights:    p.Highlights,
		Images:        p.Images,
		AffiliateLink: p.AffiliateLink,
		Platform:      p.Platform,
		Categories:    categories,
		Price:         flexString(p.Price),
		MRP:           flexString(p.MRP),
		Offer:         p.Offer,
		Likes:         flexInt(p.Likes),
		Dislikes:      flexInt(p.Dislikes),
		Timestamp:     flexInt64(p.Timestamp),
	}
}

// flexString accepts a JSON string, number or null.
type flexString string

func (s *flexString) UnmarshalJSON(b []byte) error {
	raw := strings.TrimSpace(string(b))
	if raw == "null" {
		*s = ""
		return nil
	}
	if strings.HasPrefix(raw, `"`) {
		var v string
		if err := json.Unmarshal(b, &v); err != nil {
			return err
		}
		*s = flexString(v)
		return nil
	}
	*s = flexString(raw)
	return nil
}

// flexInt accepts a JSON number, numeric string or null.
type flexInt int

func (i *flexInt) UnmarshalJSON(b []byte) error {
	n, err := parseFlexInt(b)
	*i = flexInt(n)
	return err
}

type flexInt64 int64

func (i *flexInt64) UnmarshalJSON(b []byte) error {
	n, err := parseFlexInt(b)
	*i = flexInt64(n)
	return err
}

func parseFlexInt(b []byte) (int64, error) {
	raw := strings.TrimSpace(string(b))
	if raw == "null" || raw == `""` {
		return 0, nil
	}
	if strings.HasPrefix(raw, `"`) {
		var v string
		if err := json.Unmarshal(b, &v); err != nil {
			return 0, err
		}
		raw = strings.TrimSpace(v)
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return int64(f), nil
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, err
	}
	return n, nil
}
