package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	mathrand "math/rand"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"shelfwise/internal/catalog"
	cl "shelfwise/internal/cli"
	"shelfwise/internal/config"
	"shelfwise/internal/game"
	"shelfwise/internal/tui"

	"github.com/spf13/cobra"
)

func main() {
	cfg := config.LoadCLIFromEnv()
	apiBase := cfg.APIBaseURL

	root := &cobra.Command{
		Use:          "shelf",
		Short:        "Shelfwise inventory game client",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&apiBase, "api", apiBase, "shelfwise API base URL")

	root.AddCommand(
		newHealthCmd(&apiBase),
		newNewGameCmd(&apiBase),
		newNextCmd(&apiBase),
		newStateCmd(&apiBase),
		newReportCmd(&apiBase),
		newRestockCmd(&apiBase),
		newUnlockCmd(&apiBase),
		newStoreCmd(&apiBase),
		newCatalogCmd(&apiBase),
		newOptimizeCmd(&apiBase),
		newSimulateCmd(&apiBase),
		newPreviewCmd(&apiBase),
		newPlayCmd(cfg),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newClient(apiBase *string) *cl.Client {
	return cl.NewClient(strings.TrimRight(strings.TrimSpace(*apiBase), "/"))
}

// sessionGameID returns the saved game id, or "" when no game was saved so
// the server acts on whatever game is live.
func sessionGameID() (string, error) {
	sess, err := cl.LoadSession()
	if errors.Is(err, cl.ErrNoSession) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return sess.GameID, nil
}

// explain turns the conflict responses into something actionable.
func explain(err error) error {
	if cl.IsStatus(err, http.StatusConflict) {
		printWarn("Run `shelf new` to start a fresh game.")
	}
	return err
}

func newHealthCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check that the API is reachable",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
			defer cancel()
			out, err := newClient(apiBase).Health(ctx)
			if err != nil {
				return err
			}
			if active, _ := out["game_active"].(bool); active {
				printSuccess("API is up, a game is running.")
			} else {
				printSuccess("API is up, no game yet.")
			}
			return nil
		},
	}
}

func newNewGameCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "new",
		Short: "Start a new game, replacing any running one",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			out, err := newClient(apiBase).NewGame(ctx)
			if err != nil {
				return err
			}
			if err := cl.SaveSession(cl.Session{
				GameID:     out.GameID,
				APIBaseURL: *apiBase,
				StartedAt:  time.Now().UTC(),
			}); err != nil {
				return err
			}
			printSuccess(fmt.Sprintf("%s. Game %s saved.", out.Message, out.GameID))
			renderState(out.State)
			return nil
		},
	}
}

func newNextCmd(apiBase *string) *cobra.Command {
	var days int
	cmd := &cobra.Command{
		Use:   "next",
		Short: "Advance the game by one or more days",
		RunE: func(cmd *cobra.Command, args []string) error {
			if days < 1 {
				return fmt.Errorf("--days must be at least 1")
			}
			gameID, err := sessionGameID()
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 60*time.Second)
			defer cancel()
			client := newClient(apiBase)

			var last cl.NextDayResponse
			for i := 0; i < days; i++ {
				out, err := client.NextDay(ctx, gameID)
				if err != nil {
					return explain(err)
				}
				renderDaySummary(out.DaySummary)
				last = out
			}
			renderState(last.State)
			return nil
		},
	}
	cmd.Flags().IntVar(&days, "days", 1, "number of days to simulate")
	return cmd
}

func newStateCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "state",
		Short: "Show the current game state",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			view, err := newClient(apiBase).State(ctx)
			if err != nil {
				return explain(err)
			}
			renderState(view)
			return nil
		},
	}
}

func newReportCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "report",
		Short: "Show the most recent day report",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			out, err := newClient(apiBase).Report(ctx)
			if err != nil {
				return explain(err)
			}
			if out.Report == nil {
				printInfo(out.Message)
				return nil
			}
			renderDaySummary(*out.Report)
			return nil
		},
	}
}

func newRestockCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "restock [product] [quantity]",
		Short: "Order more units of a product",
		Args:  cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			product, err := argOrPrompt(args, 0, "Product")
			if err != nil {
				return err
			}
			qty, err := intFromArgOrPrompt(args, 1, "Quantity")
			if err != nil {
				return err
			}
			gameID, err := sessionGameID()
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			out, err := newClient(apiBase).Restock(ctx, gameID, product, qty)
			if err != nil {
				return explain(err)
			}
			renderRestock(out.RestockResult)
			return nil
		},
	}
}

func newUnlockCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "unlock [item]",
		Short: "Buy a store item and put it on the shelves",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			item, err := argOrPrompt(args, 0, "Item")
			if err != nil {
				return err
			}
			gameID, err := sessionGameID()
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			out, err := newClient(apiBase).Unlock(ctx, gameID, item)
			if err != nil {
				return explain(err)
			}
			renderUnlock(out.UnlockResult)
			return nil
		},
	}
}

func newStoreCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "store",
		Short: "List store items and whether you can afford them",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			view, err := newClient(apiBase).State(ctx)
			if err != nil {
				return explain(err)
			}
			renderStore(view)
			return nil
		},
	}
}

func newCatalogCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "catalog",
		Short: "Show the products, store items and events the server plays with",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			out, err := newClient(apiBase).Catalog(ctx)
			if err != nil {
				return err
			}
			renderCatalog(out)
			return nil
		},
	}
}

func newOptimizeCmd(apiBase *string) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "optimize",
		Short: "Compute EOQ and reorder points for a product list",
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := readJSONFile(file)
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			out, err := newClient(apiBase).Recommend(ctx, body)
			if err != nil {
				return err
			}
			renderRecommendations(out.Recommendations)
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", `JSON file shaped like {"products": [...]}, "-" for stdin`)
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func newSimulateCmd(apiBase *string) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Run what-if scenarios over a product list",
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := readJSONFile(file)
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			out, err := newClient(apiBase).Simulate(ctx, body)
			if err != nil {
				return err
			}
			for _, sc := range out.Scenarios {
				accent.Printf("\n== %s ==\n", sc.Scenario.Name)
				fmt.Printf("demand x%.2f  storage x%.2f  restock x%.2f\n",
					sc.Scenario.DemandMultiplier, sc.Scenario.CostStorageMultiplier, sc.Scenario.CostRestockMultiplier)
				renderRecommendations(sc.Recommendations)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", `JSON file shaped like {"scenarios": [...]}, "-" for stdin`)
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func newPreviewCmd(apiBase *string) *cobra.Command {
	var demand, storage, restock float64
	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Preview the live products under scaled demand and costs",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			pv, err := newClient(apiBase).Preview(ctx, demand, storage, restock)
			if err != nil {
				return explain(err)
			}
			renderPreview(pv)
			return nil
		},
	}
	cmd.Flags().Float64Var(&demand, "demand", 1, "demand factor")
	cmd.Flags().Float64Var(&storage, "storage", 1, "storage cost factor")
	cmd.Flags().Float64Var(&restock, "restock", 1, "restock cost factor")
	return cmd
}

func newPlayCmd(cfg config.CLIConfig) *cobra.Command {
	var seed int64
	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play a local game in the terminal, no server needed",
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := catalog.Load(cfg.CatalogFile)
			if err != nil {
				return err
			}
			if seed == 0 {
				seed = time.Now().UnixNano()
			}
			logger := slog.New(slog.NewTextHandler(io.Discard, nil))
			svc := game.NewService(cat, mathrand.New(mathrand.NewSource(seed)), nil, logger)
			return tui.Run(cmd.Context(), svc)
		},
	}
	cmd.Flags().Int64Var(&seed, "seed", 0, "random seed, 0 picks one from the clock")
	return cmd
}

func readJSONFile(path string) (json.RawMessage, error) {
	var (
		raw []byte
		err error
	)
	if path == "-" {
		raw, err = io.ReadAll(os.Stdin)
	} else {
		raw, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, err
	}
	if !json.Valid(raw) {
		return nil, fmt.Errorf("%s is not valid JSON", path)
	}
	return json.RawMessage(raw), nil
}

func argOrPrompt(args []string, idx int, label string) (string, error) {
	if len(args) > idx {
		if v := strings.TrimSpace(args[idx]); v != "" {
			return v, nil
		}
	}
	return promptRequired(label)
}

func intFromArgOrPrompt(args []string, idx int, label string) (int, error) {
	if len(args) > idx {
		v, err := strconv.Atoi(strings.TrimSpace(args[idx]))
		if err != nil || v <= 0 {
			return 0, fmt.Errorf("invalid %s", strings.ToLower(label))
		}
		return v, nil
	}
	return promptInt(label, 1)
}
