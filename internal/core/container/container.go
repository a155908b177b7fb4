package container

import (
	"database/sql"

	"go.uber.org/zap"

	auditLogRepo "github.com/AsonyaGh/Bina/internal/auditlog"
	"github.com/AsonyaGh/Bina/internal/locations"
	"github.com/AsonyaGh/Bina/internal/motorcycles"
	"github.com/AsonyaGh/Bina/internal/reports"
	"github.com/AsonyaGh/Bina/internal/repository"
	"github.com/AsonyaGh/Bina/internal/sales"
	"github.com/AsonyaGh/Bina/internal/transfers"
	"github.com/AsonyaGh/Bina/internal/users"
	"github.com/AsonyaGh/Bina/pkg/auditlog"
	"github.com/AsonyaGh/Bina/pkg/security"
)

type Container struct {
	Repository        *repository.Repository
	AuditLog          *auditlog.Auditlog
	LoginHandler      *security.LoginHandler
	LocationHandler   *locations.LocationHandler
	MotorcycleHandler *motorcycles.MotorcycleHandler
	TransferHandler   *transfers.TransferHandler
	SaleHandler       *sales.SaleHandler
	UserHandler       *users.UserHandler
	ReportHandler     *reports.ReportHandler
	AuditLogHandler   *auditLogRepo.AuditLogHandler
}

func NewAppContainer(db *sql.DB, logger *zap.Logger) *Container {
	repo := repository.NewRepository(db)

	logRepo := auditLogRepo.NewRepository(repo)
	auditLog := auditlog.NewAuditLog(logRepo, logger)

	locationRepo := locations.NewLocationRepository(repo)
	motorcycleRepo := motorcycles.NewRepository(repo)
	transferRepo := transfers.NewRepository(repo)
	saleRepo := sales.NewRepository(repo)
	userRepo := users.NewRepository(repo)
	reportRepo := reports.NewRepository(repo)

	transferService := transfers.NewTransferService(repo, transferRepo, motorcycleRepo, locationRepo)
	saleService := sales.NewSaleService(repo, saleRepo, motorcycleRepo)

	return &Container{
		Repository:        repo,
		AuditLog:          auditLog,
		LoginHandler:      security.NewLoginHandler(repo),
		LocationHandler:   locations.NewLocationHandler(locationRepo, auditLog),
		MotorcycleHandler: motorcycles.NewMotorcycleHandler(repo, motorcycleRepo, locationRepo, auditLog),
		TransferHandler:   transfers.NewHandler(transferService, auditLog),
		SaleHandler:       sales.NewHandler(saleService, auditLog),
		UserHandler:       users.NewUserHandler(userRepo, locationRepo, auditLog),
		ReportHandler:     reports.NewReportHandler(reportRepo),
		AuditLogHandler:   auditLogRepo.NewAuditLogHandler(logRepo),
	}
}
