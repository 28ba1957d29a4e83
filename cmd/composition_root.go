package cmd

import (
	"log/slog"

	"haulboard/internal/adapters/in/reactions"
	"haulboard/internal/adapters/out/postgres"
	"haulboard/internal/adapters/out/webhook"
	"haulboard/internal/core/application/usecases/commands"
	"haulboard/internal/core/application/usecases/queries"
	"haulboard/internal/core/ports"
	"haulboard/internal/pkg/locks"

	"gorm.io/gorm"
)

// CompositionRoot wires adapters into use case handlers. The submit guard
// and the webhook sender are shared across handlers; unit of work instances
// are created per operation through the factory.
type CompositionRoot struct {
	configs     Config
	gormDB      *gorm.DB
	uowFactory  postgres.GormUnitOfWorkFactory
	submitGuard *locks.SubmitGuard
	sender      ports.NotificationSender
	logger      *slog.Logger
}

func NewCompositionRoot(configs Config, gormDB *gorm.DB, logger *slog.Logger) CompositionRoot {
	return CompositionRoot{
		configs:     configs,
		gormDB:      gormDB,
		uowFactory:  *postgres.NewGormUnitOfWorkFactory(gormDB),
		submitGuard: locks.NewSubmitGuard(),
		sender:      webhook.NewClient(),
		logger:      logger,
	}
}

func (c *CompositionRoot) jobUoWFactory() commands.JobUoWFactory {
	return FuncJobUoWFactory(func() commands.JobUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) UnitOfWorkFactory() ports.UnitOfWorkFactory {
	return &c.uowFactory
}

func (c *CompositionRoot) CreateCreateJobCommandHandler() commands.CreateJobCommandHandler {
	return commands.NewCreateJobCommandHandler(c.jobUoWFactory())
}

func (c *CompositionRoot) CreateClaimJobCommandHandler() commands.ClaimJobCommandHandler {
	return commands.NewClaimJobCommandHandler(c.jobUoWFactory(), c.submitGuard)
}

func (c *CompositionRoot) CreateAdvanceStatusCommandHandler() commands.AdvanceStatusCommandHandler {
	return commands.NewAdvanceStatusCommandHandler(c.jobUoWFactory(), c.submitGuard)
}

func (c *CompositionRoot) CreateHoldJobCommandHandler() commands.HoldJobCommandHandler {
	return commands.NewHoldJobCommandHandler(c.jobUoWFactory())
}

func (c *CompositionRoot) CreateResumeJobCommandHandler() commands.ResumeJobCommandHandler {
	return commands.NewResumeJobCommandHandler(c.jobUoWFactory())
}

func (c *CompositionRoot) CreateSelectTripCommandHandler() commands.SelectTripCommandHandler {
	return commands.NewSelectTripCommandHandler(c.jobUoWFactory())
}

func (c *CompositionRoot) CreateDispatchNotificationCommandHandler() commands.DispatchNotificationCommandHandler {
	return commands.NewDispatchNotificationCommandHandler(c.jobUoWFactory(), c.sender, c.logger)
}

func (c *CompositionRoot) CreateSweepNotificationsCommandHandler() commands.SweepNotificationsCommandHandler {
	return commands.NewSweepNotificationsCommandHandler(
		c.jobUoWFactory(),
		c.CreateDispatchNotificationCommandHandler(),
		c.configs.WebhookScheduledURL,
		c.logger,
	)
}

func (c *CompositionRoot) CreateReactor() *reactions.Reactor {
	return reactions.NewReactor(
		c.CreateDispatchNotificationCommandHandler(),
		reactions.Endpoints{
			Scheduled:   c.configs.WebhookScheduledURL,
			GettingLoad: c.configs.WebhookGettingLoadURL,
		},
		c.logger,
	)
}

func (c *CompositionRoot) CreateGetActiveJobsQueryHandler() queries.GetActiveJobsQueryHandler {
	return queries.NewGetActiveJobsQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetDriverJobsQueryHandler() queries.GetDriverJobsQueryHandler {
	return queries.NewGetDriverJobsQueryHandler(c.gormDB)
}

type FuncJobUoWFactory func() commands.JobUoW

func (f FuncJobUoWFactory) Create() commands.JobUoW {
	return f()
}
