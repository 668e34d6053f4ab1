// Package autopilot plays a game without a human: after every day it
// restocks products that hit their reorder point and buys the first store
// item it can afford while keeping a cash cushion.
package autopilot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"shelfwise/internal/game"
	"shelfwise/internal/inventory"

	"github.com/shopspring/decimal"
)

// Game is the subset of *game.Service the autopilot drives.
type Game interface {
	Advance(ctx context.Context, gameID string) (game.DayReport, game.StateView, error)
	Restock(gameID, product string, qty int) (game.RestockResult, game.StateView, error)
	Unlock(gameID, item string) (game.UnlockResult, game.StateView, error)
}

type ActionKind string

const (
	ActionRestock ActionKind = "restock"
	ActionUnlock  ActionKind = "unlock"
)

type Action struct {
	Kind     ActionKind
	Target   string
	Quantity int
}

func (a Action) String() string {
	if a.Kind == ActionRestock {
		return fmt.Sprintf("restock %s +%d", a.Target, a.Quantity)
	}
	return fmt.Sprintf("unlock %s", a.Target)
}

// Policy decides what to do with a snapshot. RestockBelow limits restocking
// to critical products holding fewer units than it; zero restocks every
// critical product. Reserve is the budget that must remain after an unlock.
type Policy struct {
	RestockBelow int
	Unlock       bool
	Reserve      decimal.Decimal
}

func DefaultPolicy() Policy {
	return Policy{
		RestockBelow: 10,
		Unlock:       true,
		Reserve:      decimal.NewFromInt(game.LowBudgetThreshold),
	}
}

// Plan lists the actions for a snapshot: restocks in product order, then at
// most one unlock. The reserve is checked against the budget left after the
// planned restocks are paid for. It does not touch the game.
func (p Policy) Plan(v game.StateView) []Action {
	fees := make(map[string]decimal.Decimal, len(v.Products))
	for _, pr := range v.Products {
		fees[pr.Name] = pr.CostRestock.Mul(v.CurrentEvent.RestockMultiplier())
	}

	budget := v.Budget
	var out []Action
	for _, rec := range v.Recommendations {
		if rec.Status != inventory.StatusCritical {
			continue
		}
		if p.RestockBelow > 0 && rec.CurrentStock >= p.RestockBelow {
			continue
		}
		out = append(out, Action{Kind: ActionRestock, Target: rec.Product, Quantity: inventory.OrderQuantity(rec.EOQ)})
		budget = budget.Sub(fees[rec.Product])
	}
	if !p.Unlock {
		return out
	}
	for _, it := range v.StoreItems {
		if it.Unlocked || !it.Affordable {
			continue
		}
		if budget.Sub(it.UnlockPrice).LessThan(p.Reserve) {
			continue
		}
		out = append(out, Action{Kind: ActionUnlock, Target: it.Name})
		break
	}
	return out
}

// Player advances one game and applies its policy after every day.
type Player struct {
	game   Game
	policy Policy
	log    *slog.Logger
}

func NewPlayer(g Game, policy Policy, logger *slog.Logger) *Player {
	if logger == nil {
		logger = slog.Default()
	}
	return &Player{game: g, policy: policy, log: logger}
}

// Step plays one day of gameID and then acts on the resulting state. Actions
// the game rejects for lack of funds are skipped.
func (p *Player) Step(ctx context.Context, gameID string) (game.DayReport, []Action, error) {
	report, view, err := p.game.Advance(ctx, gameID)
	if err != nil {
		return game.DayReport{}, nil, err
	}

	var done []Action
	for _, a := range p.policy.Plan(view) {
		switch a.Kind {
		case ActionRestock:
			_, _, err = p.game.Restock(gameID, a.Target, a.Quantity)
		case ActionUnlock:
			_, _, err = p.game.Unlock(gameID, a.Target)
		}
		if errors.Is(err, game.ErrInsufficientFunds) {
			p.log.Warn("autopilot skipped action", "action", a.String(), "err", err)
			continue
		}
		if err != nil {
			return report, done, fmt.Errorf("%s: %w", a, err)
		}
		done = append(done, a)
	}
	return report, done, nil
}
