package domain

import "context"

type SearchUsecase interface {
	Search(ctx context.Context, query string) ([]Product, error)
}
