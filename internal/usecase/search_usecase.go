package usecase

import (
	"context"
	"strings"
	"time"

	"storefront-bff/internal/domain"
)

// ProductSearcher runs a full-text product search on the backend.
type ProductSearcher interface {
	Search(ctx context.Context, query string) ([]domain.Product, error)
}

type searchUsecase struct {
	searcher ProductSearcher
	timeout  time.Duration
}

func NewSearchUsecase(searcher ProductSearcher, timeout time.Duration) domain.SearchUsecase {
	return &searchUsecase{
		searcher: searcher,
		timeout:  timeout,
	}
}

func (u *searchUsecase) Search(ctx context.Context, query string) ([]domain.Product, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []domain.Product{}, nil
	}

	ctx, cancel := context.WithTimeout(ctx, u.timeout)
	defer cancel()

	products, err := u.searcher.Search(ctx, query)
	if err != nil {
		return nil, err
	}
	if products == nil {
		products = []domain.Product{}
	}
	return products, nil
}
