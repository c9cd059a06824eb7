package sqlrunner

import (
	"context"
	"errors"

	"github.com/goldensql/goldensql/internal/domain/golden"
)

// Unavailable is installed when no execution engine is configured. Every
// call fails with a stable engine message instead of panicking.
type Unavailable struct{}

// Execute implements golden.SQLRunner.
func (Unavailable) Execute(context.Context, string) (golden.TableResult, error) {
	return golden.TableResult{}, errors.New("no sql execution engine configured")
}

var _ golden.SQLRunner = Unavailable{}
