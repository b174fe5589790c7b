package engine

import (
	"context"
	"path/filepath"

	"github.com/fyrsmithlabs/leakgate/internal/scan"
)

// Fixture values reproduced by the simulation.
const (
	SimulatedRuleID      = "telegram-bot-api-token"
	SimulatedDescription = "Telegram Bot Token"
	SimulatedFile        = "config.py"
	SimulatedLine        = 2
	SimulatedSecret      = "7341852096:AAF3zKpL8mNqR2tVxW0yZ1dCeJ4gHiUoPs6"
	SimulatedEntropy     = 4.418
)

// Simulator stands in for an engine that could not run. With ExpectBlock
// it reports one fixed Telegram token finding under root; otherwise it
// reports a clean scan.
type Simulator struct {
	ExpectBlock bool
}

func (s Simulator) Scan(ctx context.Context, root string) (scan.Outcome, error) {
	if err := ctx.Err(); err != nil {
		return scan.Outcome{}, err
	}
	if !s.ExpectBlock {
		return scan.NewOutcome(EngineSimulation, 0, nil), nil
	}
	return scan.NewOutcome(EngineSimulation, 1, []scan.Finding{{
		RuleID:      SimulatedRuleID,
		Description: SimulatedDescription,
		File:        filepath.Join(root, SimulatedFile),
		StartLine:   SimulatedLine,
		Secret:      SimulatedSecret,
		Entropy:     SimulatedEntropy,
	}}), nil
}
