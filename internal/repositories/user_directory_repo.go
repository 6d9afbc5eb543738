package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/arcanehq/realmgate/internal/database"
	"github.com/arcanehq/realmgate/internal/models"
	"github.com/arcanehq/realmgate/internal/search"
	"github.com/jackc/pgx/v5"
)

// UserDirectoryRepository is the persisted user directory. It resolves the
// normalized search criteria against the users table; exact vs substring
// matching and case handling are decided here, not by callers.
type UserDirectoryRepository struct {
	db *database.DB
}

// NewUserDirectoryRepository creates a new UserDirectoryRepository
func NewUserDirectoryRepository(db *database.DB) *UserDirectoryRepository {
	return &UserDirectoryRepository{db: db}
}

const userColumns = `
	u.id, u.realm_id, u.username, u.email, u.first_name, u.last_name,
	u.enabled, u.email_verified, u.service_account, u.attributes,
	COALESCE((SELECT array_agg(m.group_id) FROM user_group_memberships m WHERE m.user_id = u.id), '{}'),
	u.created_at, u.updated_at
`

// rowScanner interface for scanning user rows (single row or result set)
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanUserRow(scanner rowScanner) (*models.UserRecord, error) {
	var user models.UserRecord
	var attrs []byte

	err := scanner.Scan(
		&user.ID, &user.RealmID, &user.Username, &user.Email,
		&user.FirstName, &user.LastName,
		&user.Enabled, &user.EmailVerified, &user.ServiceAccount, &attrs,
		&user.GroupIDs,
		&user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		return nil, database.MapPostgresError(err)
	}

	if len(attrs) > 0 {
		if err := json.Unmarshal(attrs, &user.Attributes); err != nil {
			return nil, fmt.Errorf("failed to decode user attributes: %w", err)
		}
	}

	return &user, nil
}

func scanUserRows(rows pgx.Rows) ([]*models.UserRecord, error) {
	defer rows.Close()

	users := make([]*models.UserRecord, 0)

	for rows.Next() {
		user, err := scanUserRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return users, nil
}

// GetByID looks up a single user by exact id within a realm.
func (r *UserDirectoryRepository) GetByID(ctx context.Context, realmID, id string) (*models.UserRecord, error) {
	query := fmt.Sprintf(`SELECT %s FROM users u WHERE u.realm_id = $1 AND u.id = $2`, userColumns)

	return scanUserRow(r.db.Pool.QueryRow(ctx, query, realmID, id))
}

// Search resolves the criteria into a SQL query. Ordering is stable for a
// fixed criteria and directory state (username, then id).
func (r *UserDirectoryRepository) Search(ctx context.Context, realmID string, criteria search.Criteria) ([]*models.UserRecord, error) {
	if criteria.Mode == search.ModeByID {
		user, err := r.GetByID(ctx, realmID, criteria.ID)
		if err != nil {
			return nil, err
		}
		return []*models.UserRecord{user}, nil
	}

	q := newUserQuery(realmID)

	switch criteria.Mode {
	case search.ModeFreeText:
		q.freeText(criteria.Term)
		if v, ok := criteria.Attributes[search.FieldEnabled]; ok {
			q.where("u.enabled = "+q.arg(v == "true"))
		}
	case search.ModeAttributes:
		q.attributeFilters(criteria.Attributes)
	}

	if !criteria.IncludeServiceAccounts {
		q.where("u.service_account = false")
	}

	if len(criteria.GroupIDs) > 0 {
		q.where(fmt.Sprintf(
			"EXISTS (SELECT 1 FROM user_group_memberships m WHERE m.user_id = u.id AND m.group_id = ANY(%s))",
			q.arg(criteria.GroupIDs)))
	}

	sql, args := q.build(criteria.First, criteria.Max)

	rows, err := r.db.Pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}

	return scanUserRows(rows)
}

// userQuery accumulates WHERE clauses with positional arguments.
type userQuery struct {
	clauses []string
	args    []interface{}
}

func newUserQuery(realmID string) *userQuery {
	q := &userQuery{}
	q.where("u.realm_id = "+q.arg(realmID))
	return q
}

// arg registers a positional argument and returns its placeholder.
func (q *userQuery) arg(v interface{}) string {
	q.args = append(q.args, v)
	return fmt.Sprintf("$%d", len(q.args))
}

func (q *userQuery) where(clause string) {
	q.clauses = append(q.clauses, clause)
}

// freeText matches the term as a substring of username, email or name.
func (q *userQuery) freeText(term string) {
	p := q.arg("%" + term + "%")
	q.where(fmt.Sprintf(
		"(u.username ILIKE %[1]s OR u.email ILIKE %[1]s OR u.first_name ILIKE %[1]s OR u.last_name ILIKE %[1]s)", p))
}

// columnFields map attribute filter fields onto plain columns.
var columnFields = map[string]string{
	search.FieldUsername:  "u.username",
	search.FieldEmail:     "u.email",
	search.FieldFirstName: "u.first_name",
	search.FieldLastName:  "u.last_name",
}

// boolFields map attribute filter fields onto boolean columns.
var boolFields = map[string]string{
	search.FieldEnabled:       "u.enabled",
	search.FieldEmailVerified: "u.email_verified",
}

func (q *userQuery) attributeFilters(attrs map[string]string) {
	exact := attrs[search.FieldExact] == "true"

	for field, value := range attrs {
		switch {
		case field == search.FieldExact:
			// match-mode switch, not a predicate
		case columnFields[field] != "":
			q.textMatch(columnFields[field], value, exact)
		case boolFields[field] != "":
			q.where(boolFields[field]+" = "+q.arg(value == "true"))
		default:
			// extended attributes live in the jsonb column; field names
			// come from the closed recognized set, never raw input
			q.textMatch(fmt.Sprintf("u.attributes->>'%s'", field), value, exact)
		}
	}
}

func (q *userQuery) textMatch(column, value string, exact bool) {
	if exact {
		q.where(fmt.Sprintf("LOWER(%s) = LOWER(%s)", column, q.arg(value)))
		return
	}
	q.where(fmt.Sprintf("%s ILIKE %s", column, q.arg("%"+value+"%")))
}

func (q *userQuery) build(first, max int) (string, []interface{}) {
	var b strings.Builder
	b.WriteString("SELECT ")
	b.WriteString(userColumns)
	b.WriteString(" FROM users u WHERE ")
	b.WriteString(strings.Join(q.clauses, " AND "))
	b.WriteString(" ORDER BY u.username, u.id")

	if max >= 0 {
		b.WriteString(" LIMIT " + q.arg(max))
	}
	if first > 0 {
		b.WriteString(" OFFSET " + q.arg(first))
	}

	return b.String(), q.args
}
