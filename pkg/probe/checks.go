package probe

import (
	"context"
	"errors"
	"fmt"

	"killick/pkg/config"
	"killick/pkg/store"
	"killick/pkg/telemetry"
)

// Storage reads the settings blob key. A failure is not critical: the
// settings store falls back to defaults.
func Storage(st store.StateStore) Probe {
	return Probe{
		Name: "Settings storage",
		Check: func(ctx context.Context) error {
			if st == nil {
				return store.ErrUnavailable
			}
			if _, _, err := st.GetState(ctx, config.KeySettings); err != nil {
				return fmt.Errorf("read %s: %w", config.KeySettings, err)
			}
			return nil
		},
	}
}

// Source checks that the telemetry source answers. A source that is up but
// has no sample yet passes.
func Source(src telemetry.Source) Probe {
	return Probe{
		Name:     "Telemetry source",
		Critical: true,
		Check: func(ctx context.Context) error {
			if src == nil {
				return errors.New("no telemetry source configured")
			}
			_, err := src.Sample(ctx)
			if err != nil && !errors.Is(err, telemetry.ErrNoSample) {
				return err
			}
			return nil
		},
	}
}
