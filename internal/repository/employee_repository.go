package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/break-planner/internal/domain"
)

// ErrEmployeeExists is returned by Create when the id is already on the roster.
var ErrEmployeeExists = errors.New("employee already exists")

const uniqueViolation = "23505"

// EmployeeRepository handles persistence for the roster.
type EmployeeRepository interface {
	Create(ctx context.Context, member *domain.RosterMember) error
	Update(ctx context.Context, member *domain.RosterMember) error
	GetByID(ctx context.Context, id string) (*domain.RosterMember, error)
	List(ctx context.Context, filter EmployeeFilter) ([]domain.RosterMember, error)
	Delete(ctx context.Context, id string) error
}

// EmployeeFilter defines query params for roster listing. A zero Limit lists
// everyone.
type EmployeeFilter struct {
	Role   *string
	Limit  int
	Offset int
}

type employeeRepository struct {
	pool *pgxpool.Pool
}

// NewEmployeeRepository instantiates the repository.
func NewEmployeeRepository(pool *pgxpool.Pool) EmployeeRepository {
	return &employeeRepository{pool: pool}
}

func (r *employeeRepository) Create(ctx context.Context, member *domain.RosterMember) error {
	const query = `
        INSERT INTO employees (id, name, roles, start_time, end_time)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING created_at, updated_at`

	err := r.pool.QueryRow(ctx, query,
		member.ID,
		member.Name,
		rolesOf(member),
		member.StartTime,
		member.EndTime,
	).Scan(&member.CreatedAt, &member.UpdatedAt)

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return ErrEmployeeExists
	}
	return err
}

// Update returns pgx.ErrNoRows when the id is unknown.
func (r *employeeRepository) Update(ctx context.Context, member *domain.RosterMember) error {
	const query = `
        UPDATE employees
        SET name=$1, roles=$2, start_time=$3, end_time=$4, updated_at=NOW()
        WHERE id=$5
        RETURNING created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		member.Name,
		rolesOf(member),
		member.StartTime,
		member.EndTime,
		member.ID,
	).Scan(&member.CreatedAt, &member.UpdatedAt)
}

func (r *employeeRepository) GetByID(ctx context.Context, id string) (*domain.RosterMember, error) {
	const query = `
        SELECT id, name, roles, start_time, end_time, created_at, updated_at
        FROM employees WHERE id=$1`

	var member domain.RosterMember
	if err := scanMember(r.pool.QueryRow(ctx, query, id), &member); err != nil {
		return nil, err
	}
	return &member, nil
}

func (r *employeeRepository) List(ctx context.Context, filter EmployeeFilter) ([]domain.RosterMember, error) {
	query := `
        SELECT id, name, roles, start_time, end_time, created_at, updated_at
        FROM employees`
	args := []any{}
	clauses := []string{}

	if filter.Role != nil {
		args = append(args, *filter.Role)
		clauses = append(clauses, fmt.Sprintf("$%d = ANY(roles)", len(args)))
	}
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}

	query += " ORDER BY name, id"
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

	var result []domain.RosterMember
	for rows.Next() {
		var member domain.RosterMember
		if err := scanMember(rows, &member); err != nil {
			return nil, err
		}
		result = append(result, member)
	}
	return result, rows.Err()
}

// Delete returns pgx.ErrNoRows when the id is unknown.
func (r *employeeRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM employees WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func scanMember(row pgx.Row, member *domain.RosterMember) error {
	return row.Scan(
		&member.ID,
		&member.Name,
		&member.Roles,
		&member.StartTime,
		&member.EndTime,
		&member.CreatedAt,
		&member.UpdatedAt,
	)
}

// rolesOf keeps the NOT NULL roles column satisfied for role-less employees.
func rolesOf(member *domain.RosterMember) []string {
	if member.Roles == nil {
		return []string{}
	}
	return member.Roles
}
