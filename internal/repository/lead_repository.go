package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/lead-service/internal/domain"
	"github.com/spec-kit/lead-service/internal/persistence"
)

// LeadFilter captures dashboard search parameters.
type LeadFilter struct {
	Statuses      []domain.LeadStatus
	SearchTerm    *string
	SubmittedFrom *time.Time
	SubmittedTo   *time.Time
	Limit         int
	Offset        int
}

// LeadRepository encapsulates lead persistence.
type LeadRepository interface {
	Create(ctx context.Context, lead *domain.Lead) error
	Update(ctx context.Context, lead *domain.Lead) error
	UpdateStatus(ctx context.Context, id string, status domain.LeadStatus) error
	UpdateRecording(ctx context.Context, id string, recording *string) error
	UpdateReview(ctx context.Context, id string, status domain.LeadStatus, recording *string) error
	DeleteCascade(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Lead, error)
	ExistsByLeadRef(ctx context.Context, leadRef string) (bool, error)
	ListWithFilter(ctx context.Context, filter LeadFilter) ([]domain.Lead, error)
}

type leadRepository struct {
	pool *pgxpool.Pool
}

// NewLeadRepository instantiates repository.
func NewLeadRepository(pool *pgxpool.Pool) LeadRepository {
	return &leadRepository{pool: pool}
}

const leadColumns = `id, lead_ref, first_name, last_name, phone_number, email_address,
               property_address, city, state, zip_code, is_home_owner, property_value,
               has_realtor_contract, status, recording, submission_date, created_at, updated_at`

func (r *leadRepository) Create(ctx context.Context, lead *domain.Lead) error {
	const query = `
        INSERT INTO leads (lead_ref, first_name, last_name, phone_number, email_address,
            property_address, city, state, zip_code, is_home_owner, property_value,
            has_realtor_contract, status)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
        RETURNING id, submission_date, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		lead.LeadRef,
		lead.FirstName,
		lead.LastName,
		lead.PhoneNumber,
		lead.EmailAddress,
		lead.PropertyAddress,
		lead.City,
		lead.State,
		lead.ZipCode,
		lead.IsHomeOwner,
		lead.PropertyValue,
		lead.HasRealtorContract,
		lead.Status,
	).Scan(&lead.ID, &lead.SubmissionDate, &lead.CreatedAt, &lead.UpdatedAt)
}

// Update overwrites the editable field set. lead_ref and submission_date are
// never touched.
func (r *leadRepository) Update(ctx context.Context, lead *domain.Lead) error {
	const query = `
        UPDATE leads SET first_name=$1, last_name=$2, phone_number=$3, email_address=$4,
            property_address=$5, city=$6, state=$7, zip_code=$8, is_home_owner=$9,
            property_value=$10, has_realtor_contract=$11, status=$12, updated_at=NOW()
        WHERE id=$13`
	cmd, err := r.pool.Exec(ctx, query,
		lead.FirstName,
		lead.LastName,
		lead.PhoneNumber,
		lead.EmailAddress,
		lead.PropertyAddress,
		lead.City,
		lead.State,
		lead.ZipCode,
		lead.IsHomeOwner,
		lead.PropertyValue,
		lead.HasRealtorContract,
		lead.Status,
		lead.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *leadRepository) UpdateStatus(ctx context.Context, id string, status domain.LeadStatus) error {
	const query = `UPDATE leads SET status=$1, updated_at=NOW() WHERE id=$2`
	cmd, err := r.pool.Exec(ctx, query, status, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *leadRepository) UpdateRecording(ctx context.Context, id string, recording *string) error {
	const query = `UPDATE leads SET recording=$1, updated_at=NOW() WHERE id=$2`
	cmd, err := r.pool.Exec(ctx, query, recording, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// UpdateReview writes status and recording together in one statement.
func (r *leadRepository) UpdateReview(ctx context.Context, id string, status domain.LeadStatus, recording *string) error {
	const query = `UPDATE leads SET status=$1, recording=$2, updated_at=NOW() WHERE id=$3`
	cmd, err := r.pool.Exec(ctx, query, status, recording, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// DeleteCascade removes the lead and its assignment rows in one transaction.
func (r *leadRepository) DeleteCascade(ctx context.Context, id string) error {
	return persistence.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM lead_assignments WHERE lead_id=$1`, id); err != nil {
			return err
		}
		cmd, err := tx.Exec(ctx, `DELETE FROM leads WHERE id=$1`, id)
		if err != nil {
			return err
		}
		if cmd.RowsAffected() == 0 {
			return pgx.ErrNoRows
		}
		return nil
	})
}

func (r *leadRepository) GetByID(ctx context.Context, id string) (*domain.Lead, error) {
	const query = `SELECT ` + leadColumns + ` FROM leads WHERE id=$1`
	var lead domain.Lead
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&lead.ID,
		&lead.LeadRef,
		&lead.FirstName,
		&lead.LastName,
		&lead.PhoneNumber,
		&lead.EmailAddress,
		&lead.PropertyAddress,
		&lead.City,
		&lead.State,
		&lead.ZipCode,
		&lead.IsHomeOwner,
		&lead.PropertyValue,
		&lead.HasRealtorContract,
		&lead.Status,
		&lead.Recording,
		&lead.SubmissionDate,
		&lead.CreatedAt,
		&lead.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &lead, nil
}

func (r *leadRepository) ExistsByLeadRef(ctx context.Context, leadRef string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM leads WHERE lead_ref=$1)`
	var exists bool
	if err := r.pool.QueryRow(ctx, query, leadRef).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *leadRepository) ListWithFilter(ctx context.Context, filter LeadFilter) ([]domain.Lead, error) {
	base := `SELECT ` + leadColumns + ` FROM leads`
	clauses := []string{"1=1"}
	args := []any{}

	if len(filter.Statuses) > 0 {
		placeholders := make([]string, len(filter.Statuses))
		for i, status := range filter.Statuses {
			args = append(args, status)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("status IN (%s)", strings.Join(placeholders, ",")))
	}
	if filter.SubmittedFrom != nil {
		args = append(args, *filter.SubmittedFrom)
		clauses = append(clauses, fmt.Sprintf("submission_date >= $%d", len(args)))
	}
	if filter.SubmittedTo != nil {
		args = append(args, *filter.SubmittedTo)
		clauses = append(clauses, fmt.Sprintf("submission_date <= $%d", len(args)))
	}
	if filter.SearchTerm != nil && strings.TrimSpace(*filter.SearchTerm) != "" {
		search := "%" + strings.ToLower(strings.TrimSpace(*filter.SearchTerm)) + "%"
		args = append(args, search)
		placeholder := fmt.Sprintf("$%d", len(args))
		clauses = append(clauses, fmt.Sprintf(
			"(LOWER(first_name) LIKE %s OR LOWER(last_name) LIKE %s OR LOWER(email_address) LIKE %s OR phone_number LIKE %s)",
			placeholder, placeholder, placeholder, placeholder))
	}

	query := fmt.Sprintf(`%s WHERE %s ORDER BY submission_date DESC`, base, strings.Join(clauses, " AND "))
	if filter.Limit > 0 {
		offset := filter.Offset
		if offset < 0 {
			offset = 0
		}
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", filter.Limit, offset)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanLeads(rows)
}

func scanLeads(rows pgx.Rows) ([]domain.Lead, error) {
	var result []domain.Lead
	for rows.Next() {
		var lead domain.Lead
		if err := rows.Scan(
			&lead.ID,
			&lead.LeadRef,
			&lead.FirstName,
			&lead.LastName,
			&lead.PhoneNumber,
			&lead.EmailAddress,
			&lead.PropertyAddress,
			&lead.City,
			&lead.State,
			&lead.ZipCode,
			&lead.IsHomeOwner,
			&lead.PropertyValue,
			&lead.HasRealtorContract,
			&lead.Status,
			&lead.Recording,
			&lead.SubmissionDate,
			&lead.CreatedAt,
			&lead.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, lead)
	}
	return result, rows.Err()
}
