package ports

import (
	"context"

	"github.com/llmnexus/nexus/internal/domain"
)

// ModelClient issues one backend call. It is synchronous from the
// dispatcher's viewpoint; the dispatcher layers its own deadline and
// cancellation on top regardless of client-internal timeouts.
type ModelClient interface {
	Call(ctx context.Context, model domain.ModelID, prompt string) (string, error)
}
