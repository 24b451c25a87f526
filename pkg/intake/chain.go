package intake

import (
	"context"

	"github.com/goliatone/go-leadform/pkg/lead"
)

// Chain runs intakes in order and stops at the first error.
func Chain(intakes ...lead.Intake) lead.Intake {
	return lead.IntakeFunc(func(ctx context.Context, l lead.Lead) error {
		for _, in := range intakes {
			if in == nil {
				continue
			}
			if err := in.Submit(ctx, l); err != nil {
				return err
			}
		}
		return nil
	})
}
