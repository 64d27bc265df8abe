package deploy

import (
	"context"
	"fmt"

	"github.com/soverxos/swiftdevbot-deploy/internal/logger"
)

// Step is one named stage of an installation pipeline. Each step's
// postcondition is the next step's precondition; steps are individually
// idempotent so a manual re-invocation after a failure is safe.
type Step struct {
	// Name identifies the step in logs and error messages.
	Name string
	// Run executes the step.
	Run func(ctx context.Context) error
}

// RunSteps executes steps strictly in order, recording the last completed
// step. On failure the pipeline stops immediately and the error names the
// failing step; completed work is left in place for manual remediation.
func RunSteps(ctx context.Context, steps []Step) error {
	var lastCompleted string

	for _, step := range steps {
		logger.InfoKV(ctx, "Running step", "step", step.Name)

		if err := step.Run(ctx); err != nil {
			logger.ErrorKV(ctx, "Pipeline aborted",
				"failed_step", step.Name, "last_completed_step", lastCompleted)

			return fmt.Errorf("step %q: %w", step.Name, err)
		}

		lastCompleted = step.Name
	}

	return nil
}
