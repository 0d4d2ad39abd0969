package cmd

import (
	"log/slog"

	httpadapter "freightsim/internal/adapters/in/http"
	"freightsim/internal/adapters/in/scenario"
	"freightsim/internal/adapters/out/postgres"
	"freightsim/internal/core/application/usecases/commands"
	"freightsim/internal/core/application/usecases/queries"
	"freightsim/internal/jobs"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

type CompositionRoot struct {
	cfg        Config
	gormDB     *gorm.DB
	uowFactory postgres.GormUnitOfWorkFactory
	logger     *slog.Logger
}

func NewCompositionRoot(cfg Config, gormDB *gorm.DB, logger *slog.Logger) CompositionRoot {
	return CompositionRoot{
		cfg:        cfg,
		gormDB:     gormDB,
		uowFactory: *postgres.NewGormUnitOfWorkFactory(gormDB),
		logger:     logger,
	}
}

func (c *CompositionRoot) CreateRunSimulationCommandHandler() *commands.RunSimulationCommandHandler {
	var f commands.RunUoWFactory = FuncRunUoWFactory(func() commands.RunUoW {
		return c.uowFactory.Create()
	})
	h := commands.NewRunSimulationCommandHandler(f, c.logger)
	return &h
}

func (c *CompositionRoot) CreateGetRunQueryHandler() queries.GetRunQueryHandler {
	return queries.NewGetRunQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetAllRunsQueryHandler() queries.GetAllRunsQueryHandler {
	return queries.NewGetAllRunsQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateEcho() (*echo.Echo, error) {
	server := httpadapter.NewServer(
		c.CreateRunSimulationCommandHandler(),
		c.CreateGetRunQueryHandler(),
		c.CreateGetAllRunsQueryHandler(),
	)
	return httpadapter.NewEcho(server, c.logger)
}

// CreateJobManager schedules the configured scenario file. Without both
// SCENARIO_FILE and SCENARIO_CRON the manager has no jobs.
func (c *CompositionRoot) CreateJobManager() (*jobs.JobManager, error) {
	schedules, err := c.ScenarioSchedules()
	if err != nil {
		return nil, err
	}
	return jobs.NewJobManager(c.CreateRunSimulationCommandHandler(), schedules, c.logger), nil
}

func (c *CompositionRoot) ScenarioSchedules() ([]jobs.Schedule, error) {
	if c.cfg.ScenarioFile == "" || c.cfg.ScenarioCron == "" {
		return nil, nil
	}

	sc, err := scenario.LoadFile(c.cfg.ScenarioFile)
	if err != nil {
		return nil, err
	}
	return []jobs.Schedule{{Scenario: sc, Spec: c.cfg.ScenarioCron}}, nil
}

type FuncRunUoWFactory func() commands.RunUoW

func (f FuncRunUoWFactory) Create() commands.RunUoW {
	return f()
}
