package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/joseph-ayodele/quotation-engine/constants"
	"github.com/joseph-ayodele/quotation-engine/internal/common"
	"github.com/joseph-ayodele/quotation-engine/internal/entity"
)

type QuotationRepository interface {
	Create(ctx context.Context, q *entity.Quotation) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Quotation, error)
	List(ctx context.Context, limit int) ([]*entity.Quotation, error)
}

type quotationRepo struct {
	db  *DB
	log *slog.Logger
}

func NewQuotationRepository(db *DB, log *slog.Logger) QuotationRepository {
	if log == nil {
		log = slog.Default()
	}
	return &quotationRepo{db: db, log: log}
}

// createdAtLayout is fixed width so created_at sorts lexically in both dialects.
const createdAtLayout = "2006-01-02T15:04:05.000000000Z"

const quotationColumns = `id, document_path, cedant, broker, period_of_cover, gross_fees, amount, status, error_message, created_at`

func (r *quotationRepo) Create(ctx context.Context, q *entity.Quotation) error {
	if q.ID == uuid.Nil {
		q.ID = uuid.New()
	}
	if q.CreatedAt.IsZero() {
		q.CreatedAt = time.Now().UTC()
	}
	query := r.db.rebind(`INSERT INTO quotations (` + quotationColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	_, err := r.db.ExecContext(ctx, query,
		q.ID.String(),
		q.DocumentPath,
		q.Cedant,
		q.Broker,
		q.PeriodOfCover,
		q.GrossFees,
		q.Amount.StringFixed(2),
		string(q.Status),
		q.ErrorMessage,
		q.CreatedAt.UTC().Format(createdAtLayout),
	)
	if err != nil {
		r.log.Error("quotation create failed", "quotation_id", q.ID, "err", err)
		return fmt.Errorf("%w: insert quotation: %v", common.ErrDatabase, err)
	}
	r.log.Info("quotation stored", "quotation_id", q.ID, "status", q.Status)
	return nil
}

func (r *quotationRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Quotation, error) {
	query := r.db.rebind(`SELECT ` + quotationColumns + ` FROM quotations WHERE id = ?`)
	q, err := scanQuotation(r.db.QueryRowContext(ctx, query, id.String()))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.NewAppError("QUOTATION_NOT_FOUND", id.String(), common.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: get quotation: %v", common.ErrDatabase, err)
	}
	return q, nil
}

// List returns quotations newest first; limit <= 0 means all.
func (r *quotationRepo) List(ctx context.Context, limit int) ([]*entity.Quotation, error) {
	query := `SELECT ` + quotationColumns + ` FROM quotations ORDER BY created_at DESC, id`
	var args []any
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := r.db.QueryContext(ctx, r.db.rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("%w: list quotations: %v", common.ErrDatabase, err)
	}
	defer rows.Close()

	var out []*entity.Quotation
	for rows.Next() {
		q, err := scanQuotation(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scan quotation: %v", common.ErrDatabase, err)
		}
		out = append(out, q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: list quotations: %v", common.ErrDatabase, err)
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanQuotation(s rowScanner) (*entity.Quotation, error) {
	var (
		q                        entity.Quotation
		id, amount, status, when string
		errMsg                   sql.NullString
	)
	if err := s.Scan(&id, &q.DocumentPath, &q.Cedant, &q.Broker, &q.PeriodOfCover, &q.GrossFees,
		&amount, &status, &errMsg, &when); err != nil {
		return nil, err
	}
	var err error
	if q.ID, err = uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("parse id %q: %w", id, err)
	}
	if q.Amount, err = decimal.NewFromString(amount); err != nil {
		return nil, fmt.Errorf("parse amount %q: %w", amount, err)
	}
	if q.CreatedAt, err = time.Parse(createdAtLayout, when); err != nil {
		return nil, fmt.Errorf("parse created_at %q: %w", when, err)
	}
	q.Status = constants.QuotationStatus(status)
	if errMsg.Valid {
		q.ErrorMessage = &errMsg.String
	}
	return &q, nil
}
