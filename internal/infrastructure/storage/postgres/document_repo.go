// Package postgres provides the PostgreSQL document repository. Records are
// stored as a JSON snapshot next to a few extracted columns used for listing
// and lookups; large snapshots are zstd-compressed.
package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/klauspost/compress/zstd"

	"docpress/internal/core/apperror"
	"docpress/internal/core/id"
	"docpress/internal/domain/document"
)

// Querier is the pgx surface the repository needs. Satisfied by
// *pgxpool.Pool and pgx.Tx alike.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// CompressionAlgo marks how a snapshot column is encoded.
type CompressionAlgo string

const (
	CompressionNone CompressionAlgo = "none"
	CompressionZstd CompressionAlgo = "zstd"
)

const documentsTable = "documents"

var documentCols = []string{
	"id", "number", "doc_type", "status", "customer_name", "issued_date",
	"snapshot", "snapshot_compressed", "compression_algo",
	"created_at", "updated_at",
}

// documentRow is the scan target for the documents table.
type documentRow struct {
	ID                 id.ID           `db:"id"`
	Number             string          `db:"number"`
	DocType            string          `db:"doc_type"`
	Status             string          `db:"status"`
	CustomerName       string          `db:"customer_name"`
	IssuedDate         time.Time       `db:"issued_date"`
	Snapshot           json.RawMessage `db:"snapshot"`
	SnapshotCompressed []byte          `db:"snapshot_compressed"`
	CompressionAlgo    CompressionAlgo `db:"compression_algo"`
	CreatedAt          time.Time       `db:"created_at"`
	UpdatedAt          time.Time       `db:"updated_at"`
}

// DocumentRepo implements document.Repository over PostgreSQL.
type DocumentRepo struct {
	db                Querier
	encoder           *zstd.Encoder
	decoder           *zstd.Decoder
	compressThreshold int // bytes
}

// NewDocumentRepo creates the repository over an open connection pool.
func NewDocumentRepo(db Querier) (*DocumentRepo, error) {
	encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("create zstd encoder: %w", err)
	}

	decoder, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("create zstd decoder: %w", err)
	}

	return &DocumentRepo{
		db:                db,
		encoder:           encoder,
		decoder:           decoder,
		compressThreshold: 10 * 1024,
	}, nil
}

// EnsureSchema creates the documents table when it does not exist yet.
func (r *DocumentRepo) EnsureSchema(ctx context.Context) error {
	_, err := r.db.Exec(ctx, `
        CREATE TABLE IF NOT EXISTS documents (
            id                  uuid PRIMARY KEY,
            number              text NOT NULL DEFAULT '',
            doc_type            text NOT NULL,
            status              text NOT NULL,
            customer_name       text NOT NULL,
            issued_date         timestamptz NOT NULL,
            snapshot            jsonb,
            snapshot_compressed bytea,
            compression_algo    text NOT NULL DEFAULT 'none',
            created_at          timestamptz NOT NULL,
            updated_at          timestamptz NOT NULL
        )
	`)
	if err != nil {
		return fmt.Errorf("ensure documents: %w", err)
	}

	_, err = r.db.Exec(ctx, `
        CREATE UNIQUE INDEX IF NOT EXISTS documents_number_uniq
        ON documents (number) WHERE number <> ''
	`)
	if err != nil {
		return fmt.Errorf("ensure documents number index: %w", err)
	}
	return nil
}

func (r *DocumentRepo) builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

func (r *DocumentRepo) toRow(rec *document.Record) (documentRow, error) {
	snapshot, err := json.Marshal(rec)
	if err != nil {
		return documentRow{}, fmt.Errorf("marshal record: %w", err)
	}

	row := documentRow{
		ID:              rec.ID,
		Number:          rec.Number,
		DocType:         string(rec.Type),
		Status:          string(rec.Status),
		CustomerName:    rec.Customer.Name,
		IssuedDate:      rec.IssuedDate,
		Snapshot:        snapshot,
		CompressionAlgo: CompressionNone,
		CreatedAt:       rec.CreatedAt,
		UpdatedAt:       rec.UpdatedAt,
	}

	if len(snapshot) > r.compressThreshold {
		row.SnapshotCompressed = r.encoder.EncodeAll(snapshot, nil)
		row.Snapshot = nil
		row.CompressionAlgo = CompressionZstd
	}
	return row, nil
}

func (r *DocumentRepo) fromRow(row *documentRow) (*document.Record, error) {
	snapshot := []byte(row.Snapshot)
	if row.CompressionAlgo == CompressionZstd {
		decoded, err := r.decoder.DecodeAll(row.SnapshotCompressed, nil)
		if err != nil {
			return nil, fmt.Errorf("decompress snapshot %s: %w", row.ID, err)
		}
		snapshot = decoded
	}

	var rec document.Record
	if err := json.Unmarshal(snapshot, &rec); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot %s: %w", row.ID, err)
	}
	return &rec, nil
}

func (r *DocumentRepo) rowToMap(row documentRow) map[string]any {
	return map[string]any{
		"id":                  row.ID,
		"number":              row.Number,
		"doc_type":            row.DocType,
		"status":              row.Status,
		"customer_name":       row.CustomerName,
		"issued_date":         row.IssuedDate,
		"snapshot":            row.Snapshot,
		"snapshot_compressed": row.SnapshotCompressed,
		"compression_algo":    row.CompressionAlgo,
		"created_at":          row.CreatedAt,
		"updated_at":          row.UpdatedAt,
	}
}

// Create inserts a new record.
func (r *DocumentRepo) Create(ctx context.Context, rec *document.Record) error {
	row, err := r.toRow(rec)
	if err != nil {
		return err
	}

	sql, args, err := r.builder().
		Insert(documentsTable).
		SetMap(r.rowToMap(row)).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert document: %w", err)
	}
	return nil
}

// Update overwrites an existing record.
func (r *DocumentRepo) Update(ctx context.Context, rec *document.Record) error {
	row, err := r.toRow(rec)
	if err != nil {
		return err
	}

	data := r.rowToMap(row)
	delete(data, "id")
	delete(data, "created_at")

	sql, args, err := r.builder().
		Update(documentsTable).
		SetMap(data).
		Where(squirrel.Eq{"id": rec.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	result, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update document: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound("document", rec.ID.String())
	}
	return nil
}

// GetByID loads a record by its identifier.
func (r *DocumentRepo) GetByID(ctx context.Context, recID id.ID) (*document.Record, error) {
	sql, args, err := r.builder().
		Select(documentCols...).
		From(documentsTable).
		Where(squirrel.Eq{"id": recID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var row documentRow
	if err := pgxscan.Get(ctx, r.db, &row, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("document", recID.String())
		}
		return nil, fmt.Errorf("get document: %w", err)
	}

	return r.fromRow(&row)
}

// List returns records, optionally narrowed to one type, newest first.
func (r *DocumentRepo) List(ctx context.Context, t document.Type) ([]*document.Record, error) {
	q := r.builder().
		Select(documentCols...).
		From(documentsTable).
		OrderBy("created_at DESC")

	if t != "" {
		q = q.Where(squirrel.Eq{"doc_type": string(t)})
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var rows []documentRow
	if err := pgxscan.Select(ctx, r.db, &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}

	records := make([]*document.Record, 0, len(rows))
	for i := range rows {
		rec, err := r.fromRow(&rows[i])
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}
