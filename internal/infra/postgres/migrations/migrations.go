package migrations

import (
	"context"
	"embed"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/migrate"
)

//go:embed *.sql
var sqlFiles embed.FS

// Migrations holds the blog schema, applied in name order.
var Migrations = migrate.NewMigrations()

type step struct {
	name  string
	file  string
	table string
}

var steps = []step{
	{name: "2024112201", file: "0001_create_articles.sql", table: "articles"},
	{name: "2024112202", file: "0002_create_bookmarks.sql", table: "bookmarks"},
}

func init() {
	for _, s := range steps {
		up, err := sqlFiles.ReadFile(s.file)
		if err != nil {
			panic(err)
		}
		Migrations.Add(migrate.Migration{
			Name:    s.name,
			Comment: s.file,
			Up:      execSQL(string(up)),
			Down:    execSQL(`DROP TABLE IF EXISTS ` + s.table),
		})
	}
}

func execSQL(query string) migrate.MigrationFunc {
	return func(ctx context.Context, db *bun.DB) error {
		_, err := db.ExecContext(ctx, query)
		return err
	}
}
