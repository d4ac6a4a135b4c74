package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/edudesk/school-api/internal/models"
)

// AccountRepository provides database access for account management.
type AccountRepository struct {
	db *sqlx.DB
}

// NewAccountRepository creates a new instance of AccountRepository.
func NewAccountRepository(db *sqlx.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

const accountColumns = `id, email, password_hash, first_name, last_name, phone, role, department, division, salary, active, staff, date_joined, created_at, updated_at`

// FindByEmail returns an account by email address.
func (r *AccountRepository) FindByEmail(ctx context.Context, email string) (*models.Account, error) {
	query := fmt.Sprintf(`SELECT %s FROM accounts WHERE email = $1 LIMIT 1`, accountColumns)
	var account models.Account
	if err := r.db.GetContext(ctx, &account, query, email); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find account by email: %w", err)
	}
	return &account, nil
}

// FindByID returns an account by identifier.
func (r *AccountRepository) FindByID(ctx context.Context, id string) (*models.Account, error) {
	query := fmt.Sprintf(`SELECT %s FROM accounts WHERE id = $1 LIMIT 1`, accountColumns)
	var account models.Account
	if err := r.db.GetContext(ctx, &account, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find account by id: %w", err)
	}
	return &account, nil
}

// ExistsByEmail checks if an account with the given email exists.
func (r *AccountRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	const query = `SELECT 1 FROM accounts WHERE email = $1 LIMIT 1`
	var exists int
	if err := r.db.GetContext(ctx, &exists, query, email); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check email: %w", err)
	}
	return true, nil
}

// Create inserts a new account. Unique email violations surface as a
// conflict even when the pre-check raced another writer.
func (r *AccountRepository) Create(ctx context.Context, account *models.Account) error {
	if account.ID == "" {
		account.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if account.CreatedAt.IsZero() {
		account.CreatedAt = now
	}
	if account.DateJoined.IsZero() {
		account.DateJoined = now
	}
	account.UpdatedAt = now

	const query = `INSERT INTO accounts (id, email, password_hash, first_name, last_name, phone, role, department, division, salary, active, staff, date_joined, created_at, updated_at)
        VALUES (:id, :email, :password_hash, :first_name, :last_name, :phone, :role, :department, :division, :salary, :active, :staff, :date_joined, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, account); err != nil {
		return conflictOr(err, "email already registered", "create account")
	}
	return nil
}

// Update updates mutable fields of an account.
func (r *AccountRepository) Update(ctx context.Context, account *models.Account) error {
	account.UpdatedAt = time.Now().UTC()
	const query = `UPDATE accounts SET first_name = :first_name, last_name = :last_name, phone = :phone, role = :role, department = :department, division = :division, salary = :salary, active = :active, staff = :staff, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, account); err != nil {
		return fmt.Errorf("update account: %w", err)
	}
	return nil
}

// Delete removes an account and everything hanging off it: refresh tokens,
// the student or teacher profile, and the profile's dependent ledger rows.
func (r *AccountRepository) Delete(ctx context.Context, id string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin account delete: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, `DELETE FROM refresh_tokens WHERE account_id = $1`, id); err != nil {
		return fmt.Errorf("delete refresh tokens: %w", err)
	}

	var studentID string
	err = tx.GetContext(ctx, &studentID, `SELECT id FROM students WHERE account_id = $1`, id)
	if err != nil && err != sql.ErrNoRows {
		return fmt.Errorf("find student profile: %w", err)
	}
	if studentID != "" {
		if err := deleteStudentRows(ctx, tx, studentID); err != nil {
			return err
		}
	}

	var teacherID string
	err = tx.GetContext(ctx, &teacherID, `SELECT id FROM teachers WHERE account_id = $1`, id)
	if err != nil && err != sql.ErrNoRows {
		return fmt.Errorf("find teacher profile: %w", err)
	}
	if teacherID != "" {
		if err := deleteTeacherRows(ctx, tx, teacherID); err != nil {
			return err
		}
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM accounts WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete account: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit account delete: %w", err)
	}
	return nil
}

// CreateRefreshToken persists a refresh token entry.
func (r *AccountRepository) CreateRefreshToken(ctx context.Context, token *models.RefreshToken) error {
	if token.ID == "" {
		token.ID = uuid.NewString()
	}
	if token.CreatedAt.IsZero() {
		token.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO refresh_tokens (id, account_id, token, expires_at, created_at, revoked, revoked_at, ip_address, user_agent)
        VALUES (:id, :account_id, :token, :expires_at, :created_at, :revoked, :revoked_at, :ip_address, :user_agent)`
	if _, err := r.db.NamedExecContext(ctx, query, token); err != nil {
		return fmt.Errorf("create refresh token: %w", err)
	}
	return nil
}

// FindRefreshToken returns a refresh token by token string.
func (r *AccountRepository) FindRefreshToken(ctx context.Context, token string) (*models.RefreshToken, error) {
	const query = `SELECT id, account_id, token, expires_at, created_at, revoked, revoked_at, ip_address, user_agent FROM refresh_tokens WHERE token = $1 LIMIT 1`
	var rt models.RefreshToken
	if err := r.db.GetContext(ctx, &rt, query, token); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find refresh token: %w", err)
	}
	return &rt, nil
}

// RevokeRefreshToken marks a token as revoked, denylisting it.
func (r *AccountRepository) RevokeRefreshToken(ctx context.Context, id string, revokedAt time.Time) error {
	const query = `UPDATE refresh_tokens SET revoked = TRUE, revoked_at = $2 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, revokedAt); err != nil {
		return fmt.Errorf("revoke refresh token: %w", err)
	}
	return nil
}

// RevokeAccountRefreshTokens revokes all refresh tokens for an account.
func (r *AccountRepository) RevokeAccountRefreshTokens(ctx context.Context, accountID string) error {
	const query = `UPDATE refresh_tokens SET revoked = TRUE, revoked_at = $2 WHERE account_id = $1 AND revoked = FALSE`
	if _, err := r.db.ExecContext(ctx, query, accountID, time.Now().UTC()); err != nil {
		return fmt.Errorf("revoke account refresh tokens: %w", err)
	}
	return nil
}

// CreateAuditLog stores an audit log entry.
func (r *AccountRepository) CreateAuditLog(ctx context.Context, log *models.AuditLog) error {
	if log.ID == "" {
		log.ID = uuid.NewString()
	}
	if log.CreatedAt.IsZero() {
		log.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO audit_logs (id, account_id, action, resource, resource_id, new_values, ip_address, user_agent, created_at)
        VALUES (:id, :account_id, :action, :resource, :resource_id, :new_values, :ip_address, :user_agent, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, log); err != nil {
		return fmt.Errorf("create audit log: %w", err)
	}
	return nil
}

func deleteStudentRows(ctx context.Context, tx *sqlx.Tx, studentID string) error {
	steps := []struct {
		name  string
		query string
	}{
		{"attendance", `DELETE FROM attendance WHERE student_id = $1`},
		{"exam results", `DELETE FROM exam_results WHERE student_id = $1`},
		{"fees", `DELETE FROM fees WHERE student_id = $1`},
		{"student", `DELETE FROM students WHERE id = $1`},
	}
	for _, step := range steps {
		if _, err := tx.ExecContext(ctx, step.query, studentID); err != nil {
			return fmt.Errorf("delete %s: %w", step.name, err)
		}
	}
	return nil
}

func deleteTeacherRows(ctx context.Context, tx *sqlx.Tx, teacherID string) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM teacher_subjects WHERE teacher_id = $1`, teacherID); err != nil {
		return fmt.Errorf("delete teacher subjects: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `UPDATE class_sections SET class_teacher_id = NULL WHERE class_teacher_id = $1`, teacherID); err != nil {
		return fmt.Errorf("detach homerooms: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM teachers WHERE id = $1`, teacherID); err != nil {
		return fmt.Errorf("delete teacher: %w", err)
	}
	return nil
}
