package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/lfl-lab/dutybot/internal/config"
	"github.com/lfl-lab/dutybot/pkg/clients/calendarclient"
	"github.com/lfl-lab/dutybot/pkg/clients/gmailclient"
	"github.com/lfl-lab/dutybot/pkg/clients/slackclient"
	"github.com/lfl-lab/dutybot/pkg/core/dispatch"
	"github.com/lfl-lab/dutybot/pkg/core/holiday"
	"github.com/lfl-lab/dutybot/pkg/core/model"
	"github.com/lfl-lab/dutybot/pkg/core/roster"
	"github.com/lfl-lab/dutybot/pkg/core/services"
	"github.com/lfl-lab/dutybot/pkg/tracker"
	"github.com/lfl-lab/dutybot/pkg/utils"
	"github.com/lfl-lab/dutybot/pkg/utils/logging"
)

// App holds the application dependencies
type App struct {
	cfg        *config.Config
	gmail      *gmailclient.Client
	calendar   *calendarclient.Client
	slack      *slackclient.Client
	index      *roster.Index
	oracle     *holiday.Oracle
	store      services.TrackerStore
	dispatcher *dispatch.Dispatcher
	location   *time.Location
	logger     *zap.Logger
	ctx        context.Context
}

var (
	env string
	app *App
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "cli",
		Short: "Lab duty rotation CLI - rotate duties and send reminders",
		Long:  `A CLI tool that rotates lab duties (presentation, maintenance, snacks) over the roster and sends reminders via email, chat and calendar.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initApp()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if app != nil && app.logger != nil {
				app.logger.Sync()
			}
		},
	}

	// Add persistent environment flag
	rootCmd.PersistentFlags().StringVarP(&env, "env", "e", "", "Environment (required: test, prod, etc.)")
	rootCmd.MarkPersistentFlagRequired("env")

	// Add all commands
	rootCmd.AddCommand(runCmd())
	rootCmd.AddCommand(previewCmd())
	rootCmd.AddCommand(statusCmd())
	rootCmd.AddCommand(listMembersCmd())

	if err := rootCmd.Execute(); err != nil {
		// Initialization and run errors alike must page the operator
		// before the non-zero exit, as long as enough of the app came up
		// to send email.
		if canAlertOperator(app) {
			app.alertOperator(err)
		}
		os.Exit(1)
	}
}

// canAlertOperator reports whether the operator alert can be sent: the
// config (for the address) and the gmail client must both have
// initialized. Anything failing before that point can only be logged.
func canAlertOperator(a *App) bool {
	return a != nil && a.cfg != nil && a.gmail != nil
}

// initApp sets up logger, config, clients, roster and tracker
func initApp() error {
	var err error
	app = &App{
		ctx: context.Background(),
	}

	// Initialize logger
	app.logger, err = logging.InitLogger(env)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	app.logger.Info("Starting application", zap.String("environment", env))

	// Load .env for channel credentials (SLACK_TOKEN)
	if err := godotenv.Load(); err != nil {
		app.logger.Debug("No .env file found, relying on process environment")
	}

	// Load configuration
	app.logger.Info("Loading configuration")
	app.cfg, err = config.LoadWithEnv(env)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	app.logger.Debug("Configuration loaded successfully")

	app.location, err = time.LoadLocation(app.cfg.Timezone)
	if err != nil {
		return fmt.Errorf("failed to load timezone: %w", err)
	}

	// Load OAuth client configuration
	app.logger.Info("Loading OAuth client configuration")
	oauthCfg, err := config.LoadOAuthClientWithEnv(env)
	if err != nil {
		return fmt.Errorf("failed to load OAuth client config: %w", err)
	}

	oauthConfig, err := utils.GetOAuthConfig(oauthCfg)
	if err != nil {
		return fmt.Errorf("failed to build oauth config: %w", err)
	}

	token, err := utils.GetTokenWithFlow(app.ctx, oauthConfig)
	if err != nil {
		return fmt.Errorf("failed to obtain oauth token: %w", err)
	}
	app.logger.Debug("OAuth token obtained")

	// Initialize gmail client
	app.logger.Info("Initializing gmail client")
	app.gmail, err = gmailclient.NewClient(app.ctx, oauthCfg, token)
	if err != nil {
		return fmt.Errorf("failed to create gmail client: %w", err)
	}

	// Initialize calendar client (uses same OAuth token)
	app.logger.Info("Initializing calendar client")
	app.calendar, err = calendarclient.NewClient(app.ctx, oauthCfg, token, app.cfg.Timezone)
	if err != nil {
		return fmt.Errorf("failed to create calendar client: %w", err)
	}

	// Initialize slack client
	app.logger.Info("Initializing slack client")
	app.slack, err = slackclient.NewClient(os.Getenv("SLACK_TOKEN"))
	if err != nil {
		return fmt.Errorf("failed to create slack client: %w", err)
	}

	// Load roster
	app.logger.Info("Loading roster", zap.String("path", app.cfg.RosterPath))
	members, err := roster.LoadMembers(app.cfg.RosterPath)
	if err != nil {
		return fmt.Errorf("failed to load roster: %w", err)
	}
	app.index = roster.NewIndex(members)
	app.logger.Info("Roster loaded", zap.Int("members", len(members)))

	// Holiday oracle
	app.oracle = holiday.NewOracle(holiday.NewUSCalendar(), app.cfg.PresentationWeekday())

	// Duty tracker store
	if app.cfg.TrackerDSN != "" {
		app.logger.Info("Using Postgres duty tracker")
		app.store, err = tracker.NewPostgresStore(app.ctx, app.cfg.TrackerDSN)
		if err != nil {
			return fmt.Errorf("failed to create tracker store: %w", err)
		}
	} else {
		var syncer tracker.Syncer
		if app.cfg.SyncTracker {
			syncer = tracker.NewGitSyncer(".", app.cfg.TrackerPath)
		}
		app.store = tracker.NewFileStore(app.cfg.TrackerPath, syncer)
		app.logger.Info("Using file duty tracker", zap.String("path", app.cfg.TrackerPath))
	}

	// Notification dispatcher
	app.dispatcher = dispatch.New(app.gmail, app.slack, app.calendar, dispatch.Options{
		ChatChannel:               app.cfg.SlackChannel,
		Location:                  app.cfg.Location,
		PresentationTime:          app.cfg.PresentationTime,
		SendPresentationReminders: app.cfg.SendPresentationReminders,
	}, app.logger)

	app.logger.Info("Application initialized successfully")
	return nil
}

// alertOperator emails the operator before a non-zero exit so a failed
// daily run never goes unnoticed.
func (a *App) alertOperator(runErr error) {
	bar := strings.Repeat("=", 30)
	body := fmt.Sprintf("System generated error message:\n%s\n\n%v\n\nThe run will be retried by the external scheduler tomorrow; a failed duty is skipped, not re-attempted today.", bar, runErr)
	if err := a.gmail.Send([]string{a.cfg.OperatorEmail}, "Lab Duty Rotation Error", body); err != nil {
		a.logger.Error("Failed to send operator alert", zap.Error(err))
	}
}

// Command definitions

func runCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run the daily duty evaluation and send reminders",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			today := time.Now().In(app.location)

			// The returned error reaches main, which sends the operator
			// alert before exiting.
			results, err := services.RunDuties(app.ctx, app.index, app.oracle, app.store,
				app.dispatcher, app.slack, app.cfg, app.logger, today)
			if err != nil {
				return err
			}

			fmt.Printf("\n✓ Daily run completed!\n\n")
			for _, result := range results {
				printDutyResult(result)
			}
			return nil
		},
	}
}

func previewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "preview <duty>",
		Short: "Preview a duty's decision without sending anything",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			duty := model.DutyType(args[0])
			if !duty.IsValid() {
				return fmt.Errorf("unknown duty %q (want presentation, maintenance or snacks)", args[0])
			}

			date := time.Now().In(app.location)
			if dateStr, _ := cmd.Flags().GetString("date"); dateStr != "" {
				parsed, err := time.ParseInLocation("2006-01-02", dateStr, app.location)
				if err != nil {
					return fmt.Errorf("invalid date (want YYYY-MM-DD): %w", err)
				}
				date = parsed
			}

			decision, err := services.PreviewDuty(app.ctx, duty, app.index, app.oracle,
				app.store, app.cfg, app.logger, date)
			if err != nil {
				return err
			}

			fmt.Printf("\nDecision for %s on %s:\n\n", duty, date.Format("2006-01-02 (Monday)"))
			printDecision(decision)
			return nil
		},
	}

	cmd.Flags().String("date", "", "Evaluate for this date instead of today (YYYY-MM-DD)")
	return cmd
}

func statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show tracker state and who is up next for each duty",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			statuses, err := services.Status(app.ctx, app.index, app.store, app.cfg, app.logger)
			if err != nil {
				return err
			}

			fmt.Println()
			for _, status := range statuses {
				last := status.LastAssignedID
				if last == "" {
					last = "(never assigned)"
				}
				fmt.Printf("%-12s fires %-9s last: %-20s next up: %s\n",
					status.Duty, status.FireWeekday, last,
					strings.Join(memberLines(status.NextUp), ", "))
			}
			fmt.Println()
			return nil
		},
	}
}

func listMembersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "listMembers",
		Short: "List all roster members in rotation order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			members := app.index.Members()
			fmt.Printf("\nFound %d members:\n\n", len(members))
			for _, m := range members {
				fmt.Printf("- %s (%s) - %s - %s\n", m.Name, m.ID, m.Role, m.Email)
			}
			fmt.Println()
			return nil
		},
	}
}

func printDutyResult(result services.DutyResult) {
	switch {
	case result.Err != nil:
		fmt.Printf("  ✗ %-12s %v\n", result.Duty, result.Err)
	case result.Advanced:
		fmt.Printf("  ✓ %-12s assigned to %s\n", result.Duty,
			strings.Join(memberLines(result.Decision.Selected), ", "))
	case result.Decision.SuppressedReason != model.SuppressedNone:
		fmt.Printf("  - %-12s suppressed (%s: %s)\n", result.Duty,
			result.Decision.SuppressedReason, result.Decision.SuppressedLabel)
	default:
		fmt.Printf("  - %-12s not scheduled today\n", result.Duty)
	}
}

func printDecision(decision model.RotationDecision) {
	if !decision.Fires {
		if decision.SuppressedReason != model.SuppressedNone {
			fmt.Printf("Suppressed: %s (%s)\n", decision.SuppressedReason, decision.SuppressedLabel)
		} else {
			fmt.Println("Does not fire (not this duty's weekday)")
		}
		return
	}

	fmt.Printf("Fires:        yes\n")
	fmt.Printf("Selected:     %s\n", strings.Join(memberLines(decision.Selected), ", "))
	fmt.Printf("Next tracker: %s\n", decision.NextTrackerValue)
	fmt.Printf("Event date:   %s\n", decision.EventDate.Format("2006-01-02"))
	if !decision.EventEndDate.IsZero() {
		fmt.Printf("Event end:    %s\n", decision.EventEndDate.Format("2006-01-02"))
	}
}

func memberLines(members []model.Member) []string {
	lines := make([]string, len(members))
	for i, m := range members {
		lines[i] = fmt.Sprintf("%s (%s)", m.Name, m.ID)
	}
	return lines
}
