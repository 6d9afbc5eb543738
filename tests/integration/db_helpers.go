package integration

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/arcanehq/realmgate/internal/database"
	"github.com/arcanehq/realmgate/internal/models"
	"github.com/arcanehq/realmgate/internal/repositories"
)

// TestDB manages PostgreSQL testcontainer and database operations
type TestDB struct {
	Container  testcontainers.Container
	ConnString string
	Pool       *pgxpool.Pool
	DB         *database.DB
}

// SetupTestDatabase creates a PostgreSQL testcontainer, runs migrations, returns TestDB
func SetupTestDatabase(ctx context.Context) (*TestDB, error) {
	container, err := postgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:16-alpine"),
		postgres.WithDatabase("realmgate"),
		postgres.WithUsername("postgres"),
		postgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to start postgres container: %w", err)
	}

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		container.Terminate(ctx)
		return nil, fmt.Errorf("failed to get connection string: %w", err)
	}

	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		container.Terminate(ctx)
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		container.Terminate(ctx)
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if err := runMigrations(ctx, pool); err != nil {
		pool.Close()
		container.Terminate(ctx)
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	dbWrapper := &database.DB{
		Pool: pool,
	}

	return &TestDB{
		Container:  container,
		ConnString: connStr,
		Pool:       pool,
		DB:         dbWrapper,
	}, nil
}

// runMigrations executes all goose migrations
func runMigrations(ctx context.Context, pool *pgxpool.Pool) error {
	migrationsDir, err := filepath.Abs("../../migrations")
	if err != nil {
		return fmt.Errorf("failed to get migrations path: %w", err)
	}

	goose.SetLogger(log.New(io.Discard, "", 0))

	// Goose needs a stdlib DB connection
	sqlDB := stdlib.OpenDB(*pool.Config().ConnConfig)
	defer sqlDB.Close()

	if err := goose.UpContext(ctx, sqlDB, migrationsDir); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	return nil
}

// Teardown stops the container and closes the connection pool
func (db *TestDB) Teardown(ctx context.Context) error {
	if db.Pool != nil {
		db.Pool.Close()
	}
	if db.Container != nil {
		return db.Container.Terminate(ctx)
	}
	return nil
}

// CleanupTables truncates all tables for test isolation
func (db *TestDB) CleanupTables(ctx context.Context) error {
	tables := []string{
		"group_view_grants",
		"login_failures",
		"user_group_memberships",
		"groups",
		"users",
		"admin_accounts",
		"realms",
	}

	for _, table := range tables {
		if _, err := db.Pool.Exec(ctx, fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table)); err != nil {
			return fmt.Errorf("failed to truncate table %s: %w", table, err)
		}
	}

	return nil
}

// InitializeRepositories creates all repository instances from database wrapper
func InitializeRepositories(db *database.DB) (
	*repositories.RealmRepository,
	*repositories.UserDirectoryRepository,
	*repositories.LoginFailureRepository,
	*repositories.GroupGrantRepository,
) {
	return repositories.NewRealmRepository(db),
		repositories.NewUserDirectoryRepository(db),
		repositories.NewLoginFailureRepository(db),
		repositories.NewGroupGrantRepository(db)
}

// SeedRealm inserts a realm and returns it
func SeedRealm(ctx context.Context, pool *pgxpool.Pool, name string, protected bool) (*models.Realm, error) {
	realm := &models.Realm{
		ID:                  uuid.New().String(),
		Name:                name,
		Enabled:             true,
		BruteForceProtected: protected,
	}

	query := `
		INSERT INTO realms (id, name, enabled, brute_force_protected)
		VALUES ($1, $2, $3, $4)
	`
	if _, err := pool.Exec(ctx, query, realm.ID, realm.Name, realm.Enabled, realm.BruteForceProtected); err != nil {
		return nil, fmt.Errorf("failed to insert realm: %w", err)
	}

	return realm, nil
}

// SeedUser inserts a directory user with optional extended attributes
func SeedUser(ctx context.Context, pool *pgxpool.Pool, realmID, username string, attrs map[string]string) (*models.UserRecord, error) {
	if attrs == nil {
		attrs = map[string]string{}
	}
	attrJSON, err := json.Marshal(attrs)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal attributes: %w", err)
	}

	user := &models.UserRecord{
		ID:         uuid.New().String(),
		RealmID:    realmID,
		Username:   username,
		Email:      username + "@example.com",
		FirstName:  "Test",
		LastName:   "User",
		Enabled:    true,
		Attributes: attrs,
	}

	query := `
		INSERT INTO users (id, realm_id, username, email, first_name, last_name, enabled, attributes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err = pool.Exec(ctx, query,
		user.ID, user.RealmID, user.Username, user.Email,
		user.FirstName, user.LastName, user.Enabled, attrJSON,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert user: %w", err)
	}

	return user, nil
}

// SeedGroup inserts a group and returns its id
func SeedGroup(ctx context.Context, pool *pgxpool.Pool, realmID, name string) (string, error) {
	id := uuid.New().String()

	query := `INSERT INTO groups (id, realm_id, name) VALUES ($1, $2, $3)`
	if _, err := pool.Exec(ctx, query, id, realmID, name); err != nil {
		return "", fmt.Errorf("failed to insert group: %w", err)
	}

	return id, nil
}

// SeedMembership adds a user to a group
func SeedMembership(ctx context.Context, pool *pgxpool.Pool, userID, groupID string) error {
	query := `INSERT INTO user_group_memberships (user_id, group_id) VALUES ($1, $2)`
	if _, err := pool.Exec(ctx, query, userID, groupID); err != nil {
		return fmt.Errorf("failed to insert membership: %w", err)
	}
	return nil
}

// SeedLoginFailure inserts a failure record for a user
func SeedLoginFailure(ctx context.Context, pool *pgxpool.Pool, rec *models.LoginFailureRecord) error {
	query := `
		INSERT INTO login_failures (realm_id, user_id, num_failures, last_failure, last_ip_failure, failed_login_not_before)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := pool.Exec(ctx, query,
		rec.RealmID, rec.UserID, rec.NumFailures,
		rec.LastFailure, rec.LastIPFailure, rec.FailedLoginNotBefore,
	)
	if err != nil {
		return fmt.Errorf("failed to insert login failure: %w", err)
	}
	return nil
}

// SeedGroupGrant lets callers holding role view members of the group
func SeedGroupGrant(ctx context.Context, pool *pgxpool.Pool, realmID, role, groupID string) error {
	query := `INSERT INTO group_view_grants (realm_id, role, group_id) VALUES ($1, $2, $3)`
	if _, err := pool.Exec(ctx, query, realmID, role, groupID); err != nil {
		return fmt.Errorf("failed to insert group grant: %w", err)
	}
	return nil
}
