package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/extra/bundebug"

	"readerschat/internal/config"
	"readerschat/internal/models"
)

// ChunkRow is one embedded chunk persisted in the pgvector-backed table.
// The embedding dimension must match the configured embedding model.
type ChunkRow struct {
	bun.BaseModel `bun:"table:chunks,alias:c"`
	ID            int64     `bun:"id,pk,autoincrement"`
	Source        string    `bun:"source,notnull"`
	ChunkID       int       `bun:"chunk_id,notnull"`
	Content       string    `bun:"content,notnull"`
	Embedding     []float32 `bun:"embedding,notnull,type:vector(768)"`
}

func ConnectPostgres(cfg *config.PostgresConfig) *bun.DB {
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(cfg.DSN)))
	db := bun.NewDB(sqldb, pgdialect.New())
	if cfg.Debug {
		db.AddQueryHook(bundebug.NewQueryHook(bundebug.WithVerbose(true)))
	}
	return db
}

// PostgresBuilder rebuilds the chunks table on each upload. The rebuild runs
// in one transaction, so a failure rolls back to the previously indexed
// document.
type PostgresBuilder struct {
	db *bun.DB
}

func NewPostgresBuilder(db *bun.DB) *PostgresBuilder {
	return &PostgresBuilder{db: db}
}

func (b *PostgresBuilder) Build(ctx context.Context, filename string, chunks []models.Chunk, vectors [][]float32) (Index, error) {
	if len(chunks) != len(vectors) {
		return nil, fmt.Errorf("chunks and vectors length mismatch: %d != %d", len(chunks), len(vectors))
	}

	rows := make([]ChunkRow, len(chunks))
	for i, chunk := range chunks {
		rows[i] = ChunkRow{
			Source:    filename,
			ChunkID:   chunk.Index,
			Content:   chunk.Content,
			Embedding: vectors[i],
		}
	}

	err := b.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewDropTable().Model((*ChunkRow)(nil)).IfExists().Exec(ctx); err != nil {
			return fmt.Errorf("dropping chunks table: %w", err)
		}
		if _, err := tx.NewCreateTable().Model((*ChunkRow)(nil)).Exec(ctx); err != nil {
			return fmt.Errorf("creating chunks table: %w", err)
		}
		if _, err := tx.NewInsert().Model(&rows).Exec(ctx); err != nil {
			return fmt.Errorf("inserting chunks: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &pgIndex{db: b.db, count: len(rows)}, nil
}

type pgIndex struct {
	db    *bun.DB
	count int
}

func (ix *pgIndex) Len() int {
	return ix.count
}

func (ix *pgIndex) Search(ctx context.Context, vector []float32, k int) ([]string, error) {
	if k > ix.count {
		k = ix.count
	}
	if k <= 0 {
		return nil, nil
	}
	var rows []ChunkRow
	err := ix.db.NewSelect().
		Model(&rows).
		Column("content").
		OrderExpr("embedding <-> ?", vector).
		Limit(k).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("searching chunks: %w", err)
	}
	texts := make([]string, len(rows))
	for i, r := range rows {
		texts[i] = r.Content
	}
	return texts, nil
}
