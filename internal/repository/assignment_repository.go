package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/lead-service/internal/domain"
)

// AssignmentRepository encapsulates lead assignment persistence.
type AssignmentRepository interface {
	Create(ctx context.Context, assignment *domain.LeadAssignment) error
	UpdateFollowUp(ctx context.Context, id string, status domain.AssignmentStatus, comments string) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.LeadAssignment, error)
	ListByLead(ctx context.Context, leadID string) ([]domain.AssignmentRecord, error)
	ListByRealtorWithLead(ctx context.Context, userID string) ([]domain.AssignmentWithLead, error)
	CountByUser(ctx context.Context, userID string) (int, error)
}

type assignmentRepository struct {
	pool *pgxpool.Pool
}

// NewAssignmentRepository instantiates repository.
func NewAssignmentRepository(pool *pgxpool.Pool) AssignmentRepository {
	return &assignmentRepository{pool: pool}
}

func (r *assignmentRepository) Create(ctx context.Context, assignment *domain.LeadAssignment) error {
	const query = `
        INSERT INTO lead_assignments (lead_id, user_id, status, comments)
        VALUES ($1,$2,$3,$4)
        RETURNING id, sent_date, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		assignment.LeadID,
		assignment.UserID,
		assignment.Status,
		assignment.Comments,
	).Scan(&assignment.ID, &assignment.SentDate, &assignment.CreatedAt, &assignment.UpdatedAt)
}

// UpdateFollowUp writes status and comments together in one statement.
func (r *assignmentRepository) UpdateFollowUp(ctx context.Context, id string, status domain.AssignmentStatus, comments string) error {
	const query = `UPDATE lead_assignments SET status=$1, comments=$2, updated_at=NOW() WHERE id=$3`
	cmd, err := r.pool.Exec(ctx, query, status, comments, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *assignmentRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM lead_assignments WHERE id=$1`
	cmd, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *assignmentRepository) GetByID(ctx context.Context, id string) (*domain.LeadAssignment, error) {
	const query = `
        SELECT id, lead_id, user_id, sent_date, status, comments, created_at, updated_at
        FROM lead_assignments WHERE id=$1`
	var assignment domain.LeadAssignment
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&assignment.ID,
		&assignment.LeadID,
		&assignment.UserID,
		&assignment.SentDate,
		&assignment.Status,
		&assignment.Comments,
		&assignment.CreatedAt,
		&assignment.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &assignment, nil
}

// ListByLead returns the assignment history of a lead decorated with the
// receiving realtor's name.
func (r *assignmentRepository) ListByLead(ctx context.Context, leadID string) ([]domain.AssignmentRecord, error) {
	const query = `
        SELECT a.id, u.first_name, u.last_name, a.sent_date, a.status
        FROM lead_assignments a
        JOIN users u ON u.id = a.user_id
        WHERE a.lead_id=$1
        ORDER BY a.sent_date DESC`

	rows, err := r.pool.Query(ctx, query, leadID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.AssignmentRecord
	for rows.Next() {
		var record domain.AssignmentRecord
		if err := rows.Scan(
			&record.ID,
			&record.RealtorFirstName,
			&record.RealtorLastName,
			&record.SentDate,
			&record.Status,
		); err != nil {
			return nil, err
		}
		result = append(result, record)
	}
	return result, rows.Err()
}

// ListByRealtorWithLead returns a realtor's assignments joined with parent leads.
func (r *assignmentRepository) ListByRealtorWithLead(ctx context.Context, userID string) ([]domain.AssignmentWithLead, error) {
	const query = `
        SELECT a.id, a.lead_id, a.user_id, a.sent_date, a.status, a.comments, a.created_at, a.updated_at,
               l.id, l.lead_ref, l.first_name, l.last_name, l.phone_number, l.email_address,
               l.property_address, l.city, l.state, l.zip_code, l.is_home_owner, l.property_value,
               l.has_realtor_contract, l.status, l.recording, l.submission_date, l.created_at, l.updated_at
        FROM lead_assignments a
        JOIN leads l ON l.id = a.lead_id
        WHERE a.user_id=$1
        ORDER BY a.sent_date DESC`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.AssignmentWithLead
	for rows.Next() {
		var item domain.AssignmentWithLead
		if err := rows.Scan(
			&item.ID,
			&item.LeadID,
			&item.UserID,
			&item.SentDate,
			&item.Status,
			&item.Comments,
			&item.CreatedAt,
			&item.UpdatedAt,
			&item.Lead.ID,
			&item.Lead.LeadRef,
			&item.Lead.FirstName,
			&item.Lead.LastName,
			&item.Lead.PhoneNumber,
			&item.Lead.EmailAddress,
			&item.Lead.PropertyAddress,
			&item.Lead.City,
			&item.Lead.State,
			&item.Lead.ZipCode,
			&item.Lead.IsHomeOwner,
			&item.Lead.PropertyValue,
			&item.Lead.HasRealtorContract,
			&item.Lead.Status,
			&item.Lead.Recording,
			&item.Lead.SubmissionDate,
			&item.Lead.CreatedAt,
			&item.Lead.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	return result, rows.Err()
}

func (r *assignmentRepository) CountByUser(ctx context.Context, userID string) (int, error) {
	const query = `SELECT COUNT(*) FROM lead_assignments WHERE user_id=$1`
	var count int
	if err := r.pool.QueryRow(ctx, query, userID).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}
