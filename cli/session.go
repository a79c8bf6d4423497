package cli

import (
	"github.com/edaniels/golog"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"go.viam.com/sculpt/action"
	"go.viam.com/sculpt/config"
	"go.viam.com/sculpt/winged"
)

// session is the editor state a command works on.
type session struct {
	logger  golog.Logger
	mesh    *winged.Mesh
	history *action.History
}

func newSession(c *cli.Context) (*session, error) {
	cfg := config.Default()
	if path := c.String(generalFlagConfig); path != "" {
		read, err := config.Read(path)
		if err != nil {
			return nil, err
		}
		cfg = *read
	}

	var logger golog.Logger
	if c.Bool(generalFlagDebug) || cfg.Debug {
		logger = golog.NewDebugLogger("meshindex")
	} else {
		logger = zap.NewNop().Sugar()
	}

	mesh, err := winged.Icosphere(cfg.Octree, logger, c.Int(generalFlagSubdivisions), c.Float64(generalFlagRadius))
	if err != nil {
		return nil, err
	}
	return &session{
		logger:  logger,
		mesh:    mesh,
		history: action.NewHistory(cfg.History.Limit, logger),
	}, nil
}
