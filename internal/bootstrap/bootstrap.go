package bootstrap

import (
	"context"
	"fmt"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	achievementinadapter "vigil/internal/modules/achievement/adapter/in"
	achievementoutadapter "vigil/internal/modules/achievement/adapter/out"
	achievementservice "vigil/internal/modules/achievement/service"
	achievementusecase "vigil/internal/modules/achievement/usecase"
	alertinadapter "vigil/internal/modules/alert/adapter/in"
	alertoutadapter "vigil/internal/modules/alert/adapter/out"
	alertservice "vigil/internal/modules/alert/service"
	alertusecase "vigil/internal/modules/alert/usecase"
	sessioninadapter "vigil/internal/modules/session/adapter/in"
	sessionoutadapter "vigil/internal/modules/session/adapter/out"
	sessionservice "vigil/internal/modules/session/service"
	sessionusecase "vigil/internal/modules/session/usecase"
	"vigil/internal/platform/clock"
	"vigil/internal/platform/config"
	"vigil/internal/platform/id"
	uiapp "vigil/internal/ui/app"
)

type App struct {
	SessionCLI     sessioninadapter.CLIHandler
	AchievementCLI achievementinadapter.CLIHandler
	AlertCLI       *alertinadapter.CLIHandler

	categories []string
}

func New(cfg config.Config) (*App, error) {
	clk := clock.SystemClock{}
	ids := id.RandomHex{}
	logger := log.New(os.Stderr, "vigil: ", log.LstdFlags)

	catalog, err := achievementoutadapter.LoadCatalog(cfg.CatalogPath)
	if err != nil {
		return nil, fmt.Errorf("load achievement catalog: %w", err)
	}
	achievementUC := achievementusecase.NewInteractor(
		achievementservice.NewLedgerService(catalog),
		achievementoutadapter.NewFileLedgerStore(cfg.LedgerPath, logger),
		achievementoutadapter.NewWriterUnlockSink(os.Stdout),
		clk,
		logger,
	)

	alertUC := alertusecase.NewInteractor(alertservice.NewAlertService(
		alertoutadapter.NewFileManifestStore(cfg.AlertsPath),
		alertoutadapter.NewGRPCHost(),
		clk,
	))

	projector, err := sessionoutadapter.NewSQLiteHistoryStore(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("new history projector: %w", err)
	}
	repeater := sessionoutadapter.NewRepeater(
		logger,
		sessionoutadapter.NewBellPulser(os.Stdout),
		sessionoutadapter.NewPluginPulser(alertUC),
	)
	categories, err := achievementUC.CreditableCategories(context.Background())
	if err != nil {
		return nil, fmt.Errorf("list creditable categories: %w", err)
	}
	sessionUC := sessionusecase.NewInteractor(
		sessionservice.NewSessionService(clk, ids),
		sessionoutadapter.NewFileSnapshotStore(cfg.StatePath, logger),
		sessionoutadapter.NewJournalStore(cfg.JournalPath),
		projector,
		repeater,
		sessionoutadapter.NewWriterExpirySink(os.Stdout),
		achievementUC,
		clk,
		cfg.Timer,
		logger,
		categories,
	)

	return &App{
		SessionCLI:     sessioninadapter.NewCLIHandler(sessionUC),
		AchievementCLI: achievementinadapter.NewCLIHandler(achievementUC),
		AlertCLI:       alertinadapter.NewCLIHandler(alertUC),
		categories:     categories,
	}, nil
}

func RunTUI(app *App) error {
	model := uiapp.NewModel(app.SessionCLI, app.AchievementCLI, app.categories)
	program := tea.NewProgram(model, tea.WithAltScreen())
	_, err := program.Run()
	return err
}
