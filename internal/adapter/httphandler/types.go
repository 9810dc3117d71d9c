package httphandler

import "github.com/smartdeal/storefront/internal/core/domain"

type (
	Product struct {
		ID            string   `json:"id"`
		Code          string   `json:"code"`
		Name          string   `json:"name"`
		Description   string   `json:"description"`
		Highlights    []string `json:"highlights"`
		Images        []string `json:"images"`
		DisplayImage  string   `json:"display_image"`
		AffiliateLink string   `json:"affiliate_link"`
		Platform      string   `json:"platform"`
		Categories    []string `json:"categories"`
		Price         string   `json:"price"`
		MRP           string   `json:"mrp"`
		Offer         string   `json:"offer"`
		Discount      int      `json:"discount"`
		Likes         int      `json:"likes"`
		Dislikes      int      `json:"dislikes"`
		Timestamp     int64    `json:"timestamp"`
	}

	ProductPayload struct {
		Name          string   `json:"name"`
		Description   string   `json:"description"`
		Highlights    []string `json:"highlights"`
		Images        []string `json:"images"`
		AffiliateLink string   `json:"affiliate_link"`
		Categories    []string `json:"categories"`
		Price         string   `json:"price"`
		MRP           string   `json:"mrp"`
		Offer         string   `json:"offer"`
	}

	ProductsResponse struct {
		Products []Product `json:"products"`
	}

	SaveResponse struct {
		Products []Product `json:"products"`
		Stored   bool      `json:"stored"`
	}

	ReactionRequest struct {
		Action string `json:"action"`
		Prior  string `json:"prior"`
	}

	ReactionResponse struct {
		Product Product `json:"product"`
		State   string  `json:"state"`
	}
)

func fromDomain(p domain.Product, placeholder string) Product {
	categories := make([]string, 0, len(p.Categories))
	for _, c := range p.Categories {
		categories = append(categories, string(c))
	}
	return Product{
		ID:            p.ID,
		Code:          p.Code,
		Name:          p.Name,
		Description:   p.Description,
		Highlights:    p.Highlights,
		Images:        p.Images,
		DisplayImage:  p.DisplayImage(placeholder),
		AffiliateLink: p.AffiliateLink,
		Platform:      p.PlatformName(),
		Categories:    categories,
		Price:         p.Price,
		MRP:           p.MRP,
		Offer:         p.Offer,
		Discount:      int(p.Discount()),
		Likes:         p.Likes,
		Dislikes:      p.Dislikes,
		Timestamp:     p.Timestamp,
	}
}

func fromDomainList(ps []domain.Product, placeholder string) []Product {
	out := make([]Product, 0, len(ps))
	for _, p := range ps {
		out = append(out, fromDomain(p, placeholder))
	}
	return out
}

func (p ProductPayload) toDomain(id string) domain.Product {
	categories := make([]domain.Category, 0, len(p.Categories))
	for _, c := range p.Categories {
		categories = append(categories, domain.Category(c))
	}
	return domain.Product{
		ID:            id,
		Name:          p.Name,
		Description:   p.Description,
		Highlights:    p.Highlights,
		Images:        p.Images,
		AffiliateLink: p.AffiliateLink,
		Categories:    categories,
		Price:         p.Price,
		MRP:           p.MRP,
		Offer:         p.Offer,
	}
}
