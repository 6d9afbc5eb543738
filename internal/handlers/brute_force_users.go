package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"github.com/arcanehq/realmgate/internal/auth"
	"github.com/arcanehq/realmgate/internal/metrics"
	"github.com/arcanehq/realmgate/internal/models"
	"github.com/arcanehq/realmgate/internal/permissions"
	"github.com/arcanehq/realmgate/internal/search"
	"github.com/arcanehq/realmgate/internal/services"
	pkghttp "github.com/arcanehq/realmgate/pkg/http"
	pkglogger "github.com/arcanehq/realmgate/pkg/logger"
	"github.com/go-chi/chi/v5"
)

// RealmService resolves realm configuration for incoming requests
type RealmService interface {
	GetRealmByName(ctx context.Context, name string) (*models.Realm, error)
}

// UserSearchService defines the interface for the search business logic
type UserSearchService interface {
	Search(ctx context.Context, realm *models.Realm, eval permissions.UserEvaluator, criteria search.Criteria, brief bool) ([]*services.DecoratedUser, error)
}

// EvaluatorFactory builds a permission evaluator for one request
type EvaluatorFactory interface {
	ForRequest(ctx context.Context, claims *models.TokenClaims, realm *models.Realm) (permissions.UserEvaluator, error)
}

// BruteForceUsersHandler serves the admin user search decorated with
// brute-force lockout status.
type BruteForceUsersHandler struct {
	realms     RealmService
	searcher   UserSearchService
	evaluators EvaluatorFactory
	audit      *pkglogger.AuditLogger
}

// NewBruteForceUsersHandler creates a new BruteForceUsersHandler
func NewBruteForceUsersHandler(realms RealmService, searcher UserSearchService, evaluators EvaluatorFactory, audit *pkglogger.AuditLogger) *BruteForceUsersHandler {
	return &BruteForceUsersHandler{
		realms:     realms,
		searcher:   searcher,
		evaluators: evaluators,
		audit:      audit,
	}
}

// RegisterRoutes registers the brute-force user search routes
func (h *BruteForceUsersHandler) RegisterRoutes(router chi.Router) {
	router.Get("/admin/realms/{realm}/brute-force-users", h.SearchUsers)
}

// SearchUsers finds users matching the query parameters and adds whether
// each one is currently locked by brute force protection.
//
// @Summary Search users with brute force lockout status
// @Param realm path string true "Realm name"
// @Param search query string false "Free text term, or id:<id> for exact lookup"
// @Param q query string false "Structured query, space-separated key:value pairs"
// @Produce json
// @Success 200 {array} services.DecoratedUser
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /admin/realms/{realm}/brute-force-users [get]
func (h *BruteForceUsersHandler) SearchUsers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	claims := auth.GetUserFromContext(r)
	if claims == nil {
		pkghttp.WriteUnauthorized(w, "Authentication required")
		return
	}

	realm, err := h.realms.GetRealmByName(ctx, chi.URLParam(r, "realm"))
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			pkghttp.WriteNotFound(w, "Realm not found")
			return
		}
		pkghttp.WriteInternalError(w, "Internal server error")
		return
	}

	eval, err := h.evaluators.ForRequest(ctx, claims, realm)
	if err != nil {
		pkghttp.WriteInternalError(w, "Internal server error")
		return
	}

	// Baseline query capability gates everything; no directory access
	// happens for callers that fail here.
	if err := eval.RequireQuery(); err != nil {
		metrics.SearchDenied.Inc()
		h.audit.LogAdminQuery(pkglogger.AuditEvent{
			EventType: "user_search",
			CallerID:  claims.UserID,
			Realm:     realm.Name,
			IPAddress: pkghttp.ExtractClientIP(r, nil),
			Success:   false,
		})
		pkghttp.WriteForbidden(w, "Forbidden: user query capability required")
		return
	}

	query := r.URL.Query()
	criteria := search.Build(searchParams(query))
	brief := false
	if b := boolParam(query, "briefRepresentation"); b != nil {
		brief = *b
	}

	users, err := h.searcher.Search(ctx, realm, eval, criteria, brief)
	if err != nil {
		pkghttp.WriteInternalError(w, "Internal server error")
		return
	}

	metrics.UserSearches.WithLabelValues(realm.Name, criteria.Mode.String()).Inc()
	for _, u := range users {
		if u.BruteForceStatus.Disabled {
			metrics.LockedUsersObserved.WithLabelValues(realm.Name).Inc()
		}
	}

	h.audit.LogAdminQuery(pkglogger.AuditEvent{
		EventType: "user_search",
		CallerID:  claims.UserID,
		Realm:     realm.Name,
		IPAddress: pkghttp.ExtractClientIP(r, nil),
		Success:   true,
		Metadata:  map[string]string{"mode": criteria.Mode.String()},
	})

	pkghttp.WriteJSON(w, http.StatusOK, users)
}

// searchParams maps raw query values onto builder params. Malformed bool
// and int values are treated as absent rather than failing the request.
func searchParams(query url.Values) search.Params {
	return search.Params{
		Search:              stringParam(query, "search"),
		LastName:            stringParam(query, "lastName"),
		FirstName:           stringParam(query, "firstName"),
		Email:               stringParam(query, "email"),
		Username:            stringParam(query, "username"),
		EmailVerified:       boolParam(query, "emailVerified"),
		PhoneNumber:         stringParam(query, "phoneNumber"),
		PhoneNumberLocale:   stringParam(query, "phoneNumberLocale"),
		PhoneNumberVerified: boolParam(query, "phoneNumberVerified"),
		IDPAlias:            stringParam(query, "idpAlias"),
		IDPUserID:           stringParam(query, "idpUserId"),
		Enabled:             boolParam(query, "enabled"),
		Exact:               boolParam(query, "exact"),
		Query:               stringParam(query, "q"),
		First:               intParam(query, "first"),
		Max:                 intParam(query, "max"),
	}
}

func stringParam(query url.Values, name string) *string {
	if !query.Has(name) {
		return nil
	}
	v := query.Get(name)
	return &v
}

func boolParam(query url.Values, name string) *bool {
	if !query.Has(name) {
		return nil
	}
	v, err := strconv.ParseBool(query.Get(name))
	if err != nil {
		return nil
	}
	return &v
}

func intParam(query url.Values, name string) *int {
	if !query.Has(name) {
		return nil
	}
	v, err := strconv.Atoi(query.Get(name))
	if err != nil {
		return nil
	}
	return &v
}
