package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"blog-service/internal/domain"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
)

// OpenBun opens a bun DB over the pgdriver connector.
func OpenBun(dsn string) *bun.DB {
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	return bun.NewDB(sqldb, pgdialect.New())
}

type articleRow struct {
	bun.BaseModel `bun:"table:articles"`

	Slug     string         `bun:"slug,pk"`
	Position int            `bun:"position"`
	Category string         `bun:"category"`
	Title    string         `bun:"title"`
	Data     domain.Article `bun:"data,type:jsonb"`
}

// Seeder upserts article content into the articles table.
type Seeder struct {
	db *bun.DB
}

func NewSeeder(db *bun.DB) *Seeder {
	return &Seeder{db: db}
}

// Seed writes every article in a single transaction and returns the number of rows written.
func (s *Seeder) Seed(ctx context.Context, articles []domain.Article) (int, error) {
	const op = "postgres.Seeder.Seed"

	if len(articles) == 0 {
		return 0, nil
	}
	rows := make([]articleRow, 0, len(articles))
	for _, a := range articles {
		if err := a.Validate(); err != nil {
			return 0, fmt.Errorf("%s: %w", op, err)
		}
		rows = append(rows, articleRow{
			Slug:     a.Slug,
			Position: a.Position,
			Category: a.Category,
			Title:    a.Title,
			Data:     a,
		})
	}

	err := s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		_, err := tx.NewInsert().
			Model(&rows).
			On("CONFLICT (slug) DO UPDATE").
			Set("position = EXCLUDED.position").
			Set("category = EXCLUDED.category").
			Set("title = EXCLUDED.title").
			Set("data = EXCLUDED.data").
			Set("updated_at = now()").
			Exec(ctx)
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return len(rows), nil
}
