package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/arcanehq/realmgate/internal/models"
	"github.com/arcanehq/realmgate/internal/permissions"
	"github.com/arcanehq/realmgate/internal/search"
)

// UserDirectory is the directory contract this service consumes. Attribute
// match semantics (exact vs substring, case handling) belong to the
// directory; ordering is stable for a fixed criteria and directory state.
type UserDirectory interface {
	GetByID(ctx context.Context, realmID, id string) (*models.UserRecord, error)
	Search(ctx context.Context, realmID string, criteria search.Criteria) ([]*models.UserRecord, error)
}

// UserRepresentation is the projected view of a user returned to admin
// callers. Brief projections carry identity fields only.
type UserRepresentation struct {
	ID               string            `json:"id"`
	Username         string            `json:"username"`
	FirstName        string            `json:"firstName,omitempty"`
	LastName         string            `json:"lastName,omitempty"`
	Email            string            `json:"email,omitempty"`
	Enabled          bool              `json:"enabled"`
	EmailVerified    *bool             `json:"emailVerified,omitempty"`
	ServiceAccount   *bool             `json:"serviceAccount,omitempty"`
	Attributes       map[string]string `json:"attributes,omitempty"`
	Groups           []string          `json:"groups,omitempty"`
	CreatedTimestamp int64             `json:"createdTimestamp,omitempty"`
}

// DecoratedUser is the unit returned to the caller: a projection plus the
// caller's capability summary plus the current lockout status.
type DecoratedUser struct {
	UserRepresentation
	Access           map[string]bool         `json:"access"`
	BruteForceStatus models.BruteForceStatus `json:"bruteForceStatus"`
}

// SearchService resolves an admin user search: raw directory results,
// narrowed to what the caller may view, each decorated with lockout
// status. Requests are stateless read-only computations; concurrent
// searches need no coordination.
type SearchService struct {
	directory UserDirectory
	lockout   *LockoutService
	logger    *slog.Logger
}

// NewSearchService creates a new SearchService
func NewSearchService(directory UserDirectory, lockout *LockoutService, logger *slog.Logger) *SearchService {
	return &SearchService{
		directory: directory,
		lockout:   lockout,
		logger:    logger,
	}
}

// Search runs one admin search request. The caller must already have
// passed the evaluator's query precondition. Data flows strictly forward:
// criteria, raw users, visible users, decorated users.
func (s *SearchService) Search(ctx context.Context, realm *models.Realm, eval permissions.UserEvaluator, criteria search.Criteria, brief bool) ([]*DecoratedUser, error) {
	// The view scope must be established before any result iteration so
	// the no-permission fallback sees the caller's full grant picture.
	canViewAll, scope := permissions.ScopeFor(eval)

	users, err := s.rawUsers(ctx, realm, criteria, scope)
	if err != nil {
		return nil, err
	}

	decorated := make([]*DecoratedUser, 0, len(users))
	for _, user := range users {
		if !canViewAll && !eval.CanViewUser(user, scope) {
			continue
		}

		status, err := s.lockout.Resolve(ctx, realm, user.ID)
		if err != nil {
			return nil, err
		}

		decorated = append(decorated, &DecoratedUser{
			UserRepresentation: project(user, brief),
			Access:             eval.Access(user),
			BruteForceStatus:   status,
		})
	}

	s.logger.Debug("user search resolved",
		slog.String("realm", realm.Name),
		slog.String("mode", criteria.Mode.String()),
		slog.Int("raw", len(users)),
		slog.Int("visible", len(decorated)),
	)

	return decorated, nil
}

// rawUsers fetches the unfiltered result window. An id lookup miss is a
// valid empty result, not an error.
func (s *SearchService) rawUsers(ctx context.Context, realm *models.Realm, criteria search.Criteria, scope permissions.ViewScope) ([]*models.UserRecord, error) {
	if criteria.Mode == search.ModeByID {
		user, err := s.directory.GetByID(ctx, realm.ID, criteria.ID)
		if err != nil {
			if errors.Is(err, models.ErrNotFound) {
				return nil, nil
			}
			return nil, err
		}
		return []*models.UserRecord{user}, nil
	}

	// Group-scoped callers get the narrowing pushed into the directory
	// scan itself, not just the per-user filter.
	criteria.GroupIDs = scope.GroupIDs

	return s.directory.Search(ctx, realm.ID, criteria)
}

// project builds the brief or full representation. The switch applies
// uniformly to the whole request, never per user.
func project(user *models.UserRecord, brief bool) UserRepresentation {
	rep := UserRepresentation{
		ID:        user.ID,
		Username:  user.Username,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Email:     user.Email,
		Enabled:   user.Enabled,
	}
	if brief {
		return rep
	}

	emailVerified := user.EmailVerified
	serviceAccount := user.ServiceAccount
	rep.EmailVerified = &emailVerified
	rep.ServiceAccount = &serviceAccount
	rep.Attributes = user.Attributes
	rep.Groups = user.GroupIDs
	rep.CreatedTimestamp = user.CreatedAt.Unix()
	return rep
}
