package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var ErrMissingField = errors.New("missing product field")

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Browse lists the whole catalog grouped by category and sub-category. The
// home facets are always present, possibly empty.
func (s *Service) Browse(ctx context.Context) (Listing, error) {
	products, err := s.repo.List(ctx)
	if err != nil {
		return Listing{}, err
	}
	return Group(products), nil
}

func (s *Service) Get(ctx context.Context, id int64) (Product, error) {
	return s.repo.Get(ctx, id)
}

// Create validates and stores a new product. The price must parse to a
// non-negative amount.
func (s *Service) Create(ctx context.Context, in NewProduct) (Product, error) {
	in = NewProduct{
		Category:    strings.TrimSpace(in.Category),
		SubCategory: strings.TrimSpace(in.SubCategory),
		Name:        strings.TrimSpace(in.Name),
		Price:       strings.TrimSpace(in.Price),
		ImageURL:    strings.TrimSpace(in.ImageURL),
	}
	for field, v := range map[string]string{
		"category": in.Category,
		"sub_cat":  in.SubCategory,
		"name":     in.Name,
		"price":    in.Price,
		"img_url":  in.ImageURL,
	} {
		if v == "" {
			return Product{}, fmt.Errorf("%w: %s", ErrMissingField, field)
		}
	}
	if _, err := ParsePrice(in.Price); err != nil {
		return Product{}, err
	}
	return s.repo.Create(ctx, in)
}

func Group(products []Product) Listing {
	l := Listing{
		Products:      products,
		Categories:    make(map[string][]Product),
		SubCategories: make(map[string][]Product),
	}
	if l.Products == nil {
		l.Products = []Product{}
	}
	for _, c := range HomeCategories {
		l.Categories[c] = []Product{}
	}
	for _, sc := range HomeSubCategories {
		l.SubCategories[sc] = []Product{}
	}
	for _, p := range products {
		l.Categories[p.Category] = append(l.Categories[p.Category], p)
		l.SubCategories[p.SubCategory] = append(l.SubCategories[p.SubCategory], p)
	}
	return l
}
