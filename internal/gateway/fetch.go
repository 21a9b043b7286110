package gateway

import (
	"context"
	"fmt"
	"log"

	"github.com/andrevicentegoncalves/pulwave-sub000/internal/models"
)

// FetchAll pages through ListTranslations until every matching record is
// loaded. The page and page size of f are used as the starting point.
func FetchAll(ctx context.Context, r Reader, f Filter) ([]*models.Translation, error) {
	f = f.Normalize()

	var all []*models.Translation
	for {
		select {
		case <-ctx.Done():
			return all, ctx.Err()
		default:
		}

		page, err := r.ListTranslations(ctx, f)
		if err != nil {
			return nil, fmt.Errorf("list translations page %d: %w", f.Page, err)
		}
		all = append(all, page.Records...)

		if len(page.Records) == 0 || len(all) >= page.TotalCount {
			break
		}
		f.Page++
	}

	log.Printf("Fetched %d translations", len(all))
	return all, nil
}
