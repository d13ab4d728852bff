package processor

import (
	"fmt"

	"github.com/woozymasta/geocrs/internal/config"
	"github.com/woozymasta/geocrs/pkg/geocrs"

	"github.com/rs/zerolog/log"
)

// RegisterProjections defines every configured projection on the engine.
func RegisterProjections(engine geocrs.Engine, projections []config.Projection) error {
	for _, p := range projections {
		if err := engine.Define(p.ID, p.Definition); err != nil {
			return fmt.Errorf("projection %s: %w", p.ID, err)
		}

		log.Debug().
			Str("id", p.ID).
			Str("definition", p.Definition).
			Msg("Projection registered")
	}

	if len(projections) > 0 {
		log.Info().Int("count", len(projections)).Msg("Custom projections registered")
	}

	return nil
}
