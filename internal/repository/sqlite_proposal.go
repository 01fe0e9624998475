package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/pkoziel/dayflow/internal/db"
	"github.com/pkoziel/dayflow/internal/domain"
)

// SQLiteProposalRepo implements ProposalRepo using a SQLite database.
// Actions serialize as JSON; expiry is enforced at read time.
type SQLiteProposalRepo struct {
	db db.DBTX
}

// NewSQLiteProposalRepo creates a new SQLiteProposalRepo.
func NewSQLiteProposalRepo(conn db.DBTX) *SQLiteProposalRepo {
	return &SQLiteProposalRepo{db: conn}
}

func (r *SQLiteProposalRepo) Create(ctx context.Context, p *domain.Proposal) error {
	primary, err := json.Marshal(p.Primary)
	if err != nil {
		return fmt.Errorf("encoding primary action: %w", err)
	}
	alternatives, err := json.Marshal(p.Alternatives)
	if err != nil {
		return fmt.Errorf("encoding alternatives: %w", err)
	}

	query := `INSERT INTO proposals (id, type, reason, primary_action, alternatives,
		status, created_at, expires_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	_, err = r.db.ExecContext(ctx, query,
		p.ID,
		string(p.Type),
		p.Reason,
		string(primary),
		string(alternatives),
		string(p.Status),
		p.CreatedAt.UTC().Format(time.RFC3339),
		p.ExpiresAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting proposal: %w", err)
	}
	return nil
}

func (r *SQLiteProposalRepo) GetByID(ctx context.Context, id string) (*domain.Proposal, error) {
	query := `SELECT id, type, reason, primary_action, alternatives, status, created_at, expires_at
		FROM proposals WHERE id = ?`
	return r.scanProposal(r.db.QueryRowContext(ctx, query, id))
}

// ListPending returns pending proposals that have not yet expired,
// newest first.
func (r *SQLiteProposalRepo) ListPending(ctx context.Context, now time.Time) ([]*domain.Proposal, error) {
	query := `SELECT id, type, reason, primary_action, alternatives, status, created_at, expires_at
		FROM proposals
		WHERE status = 'pending' AND expires_at > ?
		ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, query, now.UTC().Format(time.RFC3339))
	if err != nil {
		return nil, fmt.Errorf("listing pending proposals: %w", err)
	}
	defer rows.Close()

	var proposals []*domain.Proposal
	for rows.Next() {
		p, err := r.scanProposalRow(rows)
		if err != nil {
			return nil, err
		}
		proposals = append(proposals, p)
	}
	return proposals, rows.Err()
}

func (r *SQLiteProposalRepo) UpdateStatus(ctx context.Context, id string, status domain.ProposalStatus) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE proposals SET status = ? WHERE id = ?`, string(status), id)
	if err != nil {
		return fmt.Errorf("updating proposal status: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking proposal update: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("proposal %s: %w", id, ErrNotFound)
	}
	return nil
}

// ExpireStale flips pending proposals past their expiry to expired and
// reports how many were touched.
func (r *SQLiteProposalRepo) ExpireStale(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE proposals SET status = 'expired' WHERE status = 'pending' AND expires_at <= ?`,
		now.UTC().Format(time.RFC3339))
	if err != nil {
		return 0, fmt.Errorf("expiring proposals: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("counting expired proposals: %w", err)
	}
	return affected, nil
}

func (r *SQLiteProposalRepo) scanProposal(row *sql.Row) (*domain.Proposal, error) {
	var p domain.Proposal
	var typ, status, primary, alternatives, createdAt, expiresAt string

	err := row.Scan(&p.ID, &typ, &p.Reason, &primary, &alternatives, &status, &createdAt, &expiresAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("proposal: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning proposal: %w", err)
	}
	return r.hydrate(&p, typ, status, primary, alternatives, createdAt, expiresAt)
}

func (r *SQLiteProposalRepo) scanProposalRow(rows *sql.Rows) (*domain.Proposal, error) {
	var p domain.Proposal
	var typ, status, primary, alternatives, createdAt, expiresAt string

	err := rows.Scan(&p.ID, &typ, &p.Reason, &primary, &alternatives, &status, &createdAt, &expiresAt)
	if err != nil {
		return nil, fmt.Errorf("scanning proposal row: %w", err)
	}
	return r.hydrate(&p, typ, status, primary, alternatives, createdAt, expiresAt)
}

func (r *SQLiteProposalRepo) hydrate(p *domain.Proposal, typ, status, primary, alternatives, createdAt, expiresAt string) (*domain.Proposal, error) {
	p.Type = domain.RecommendationType(typ)
	p.Status = domain.ProposalStatus(status)

	if err := json.Unmarshal([]byte(primary), &p.Primary); err != nil {
		return nil, fmt.Errorf("decoding primary action: %w", err)
	}
	if err := json.Unmarshal([]byte(alternatives), &p.Alternatives); err != nil {
		return nil, fmt.Errorf("decoding alternatives: %w", err)
	}

	var err error
	if p.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
		return nil, fmt.Errorf("parsing proposal created_at: %w", err)
	}
	if p.ExpiresAt, err = time.Parse(time.RFC3339, expiresAt); err != nil {
		return nil, fmt.Errorf("parsing proposal expires_at: %w", err)
	}
	return p, nil
}
