package permissions

import (
	"context"
	"log/slog"

	"github.com/arcanehq/realmgate/internal/models"
)

// Factory builds a role-based evaluator per request from the caller's
// token claims and the realm's stored group grants.
type Factory struct {
	grants GroupGrantRepository
	logger *slog.Logger
}

// NewFactory creates a new Factory
func NewFactory(grants GroupGrantRepository, logger *slog.Logger) *Factory {
	return &Factory{
		grants: grants,
		logger: logger,
	}
}

func (f *Factory) ForRequest(ctx context.Context, claims *models.TokenClaims, realm *models.Realm) (UserEvaluator, error) {
	eval, err := NewRoleEvaluator(ctx, claims, realm, f.grants, f.logger)
	if err != nil {
		return nil, err
	}
	return eval, nil
}
