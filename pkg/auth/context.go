package auth

import (
	"context"

	"github.com/showcase-labs/showcase-engine/pkg/models"
)

// GetViewer extracts the viewer from JWT claims in the context.
// Returns nil for unauthenticated callers; queries treat a nil viewer as an
// anonymous guest who only sees approved projects.
func GetViewer(ctx context.Context) *models.Viewer {
	claims, ok := GetClaims(ctx)
	if !ok || claims == nil {
		return nil
	}
	return claims.Viewer()
}
