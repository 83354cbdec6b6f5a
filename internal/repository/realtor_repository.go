package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/lead-service/internal/domain"
	"github.com/spec-kit/lead-service/internal/persistence"
)

// RealtorRepository encapsulates realtor profile persistence.
type RealtorRepository interface {
	// CreateWithUser inserts the profile and its login record atomically.
	CreateWithUser(ctx context.Context, profile *domain.RealtorProfile, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.RealtorProfile, error)
	ListWithActivation(ctx context.Context) ([]domain.RealtorListing, error)
}

type realtorRepository struct {
	pool *pgxpool.Pool
}

// NewRealtorRepository instantiates repository.
func NewRealtorRepository(pool *pgxpool.Pool) RealtorRepository {
	return &realtorRepository{pool: pool}
}

const profileColumns = `id, user_id, agent_code, first_name, last_name, phone_number, email_address,
               brokerage, state, central_zip_code, radius, sign_up_category, team_members,
               created_at, updated_at`

func (r *realtorRepository) CreateWithUser(ctx context.Context, profile *domain.RealtorProfile, user *domain.User) error {
	return persistence.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		const userQuery = `
            INSERT INTO users (email, first_name, last_name, password_hash, role, is_active)
            VALUES ($1,$2,$3,$4,$5,$6)
            RETURNING id, created_at, updated_at`
		if err := tx.QueryRow(ctx, userQuery,
			user.Email,
			user.FirstName,
			user.LastName,
			user.PasswordHash,
			user.Role,
			user.IsActive,
		).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt); err != nil {
			return err
		}

		profile.UserID = user.ID
		const profileQuery = `
            INSERT INTO realtor_profiles (user_id, agent_code, first_name, last_name, phone_number,
                email_address, brokerage, state, central_zip_code, radius, sign_up_category, team_members)
            VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
            RETURNING id, created_at, updated_at`
		return tx.QueryRow(ctx, profileQuery,
			profile.UserID,
			profile.AgentCode,
			profile.FirstName,
			profile.LastName,
			profile.PhoneNumber,
			profile.EmailAddress,
			profile.Brokerage,
			profile.State,
			profile.CentralZipCode,
			profile.Radius,
			profile.SignUpCategory,
			profile.TeamMembers,
		).Scan(&profile.ID, &profile.CreatedAt, &profile.UpdatedAt)
	})
}

func (r *realtorRepository) GetByID(ctx context.Context, id string) (*domain.RealtorProfile, error) {
	const query = `SELECT ` + profileColumns + ` FROM realtor_profiles WHERE id=$1`
	var profile domain.RealtorProfile
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&profile.ID,
		&profile.UserID,
		&profile.AgentCode,
		&profile.FirstName,
		&profile.LastName,
		&profile.PhoneNumber,
		&profile.EmailAddress,
		&profile.Brokerage,
		&profile.State,
		&profile.CentralZipCode,
		&profile.Radius,
		&profile.SignUpCategory,
		&profile.TeamMembers,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &profile, nil
}

// ListWithActivation joins each profile with its user's is_active flag.
func (r *realtorRepository) ListWithActivation(ctx context.Context) ([]domain.RealtorListing, error) {
	const query = `
        SELECT p.id, p.user_id, p.agent_code, p.first_name, p.last_name, p.phone_number,
               p.email_address, p.brokerage, p.state, p.central_zip_code, p.radius,
               p.sign_up_category, p.team_members, p.created_at, p.updated_at,
               COALESCE(u.is_active, FALSE)
        FROM realtor_profiles p
        LEFT JOIN users u ON u.id = p.user_id
        ORDER BY p.created_at DESC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.RealtorListing
	for rows.Next() {
		var listing domain.RealtorListing
		if err := rows.Scan(
			&listing.ID,
			&listing.UserID,
			&listing.AgentCode,
			&listing.FirstName,
			&listing.LastName,
			&listing.PhoneNumber,
			&listing.EmailAddress,
			&listing.Brokerage,
			&listing.State,
			&listing.CentralZipCode,
			&listing.Radius,
			&listing.SignUpCategory,
			&listing.TeamMembers,
			&listing.CreatedAt,
			&listing.UpdatedAt,
			&listing.IsActive,
		); err != nil {
			return nil, err
		}
		result = append(result, listing)
	}
	return result, rows.Err()
}
