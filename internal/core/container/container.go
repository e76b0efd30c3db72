package container

import (
	"database/sql"
	"os"

	auditLogRepo "github.com/lance0/RubyRidge/internal/auditlog"
	"github.com/lance0/RubyRidge/internal/catalog"
	"github.com/lance0/RubyRidge/internal/firearms"
	"github.com/lance0/RubyRidge/internal/importer"
	"github.com/lance0/RubyRidge/internal/reports"
	"github.com/lance0/RubyRidge/internal/repository"
	"github.com/lance0/RubyRidge/internal/stocks"
	"github.com/lance0/RubyRidge/internal/trips"
	"github.com/lance0/RubyRidge/internal/users"
	"github.com/lance0/RubyRidge/pkg/auditlog"
	"github.com/lance0/RubyRidge/pkg/security"
)

type Container struct {
	Repository     *repository.Repository
	AuditLog       *auditlog.Auditlog
	LoginHandler   *security.LoginHandler
	StockHandler   *stocks.StockHandler
	TripHandler    *trips.TripHandler
	FirearmHandler *firearms.FirearmHandler
	UpcHandler     *catalog.UpcHandler
	ReportHandler  *reports.ReportHandler
	CsvHandler     *importer.CsvHandler
	UserHandler    *users.UsersHandler
}

func NewAppContainer(db *sql.DB) *Container {
	repo := repository.NewRepository(db)
	auditRepo := auditLogRepo.NewRepository(repo)
	auditLog := auditlog.NewAuditLog(auditRepo)

	stockRepo := stocks.NewRepository(repo)
	tripRepo := trips.NewRepository(repo)
	tripService := trips.NewService(repo, tripRepo, stockRepo)
	firearmRepo := firearms.NewRepository(repo)
	upcRepo := catalog.NewRepository(repo)
	upcClient := catalog.NewHTTPLookupClient(os.Getenv("UPC_LOOKUP_URL"))
	upcService := catalog.NewService(upcRepo, upcClient)
	thresholdRepo := reports.NewRepository(repo)
	reportService := reports.NewService(thresholdRepo, stockRepo)
	csvService := importer.NewCsvService(stockRepo)
	userRepo := users.NewRepository(repo)

	return &Container{
		Repository:     repo,
		AuditLog:       auditLog,
		LoginHandler:   security.NewLoginHandler(repo),
		StockHandler:   stocks.NewStockHandler(stockRepo, auditLog),
		TripHandler:    trips.NewHandler(tripService, auditLog),
		FirearmHandler: firearms.NewHandler(firearmRepo, auditLog),
		UpcHandler:     catalog.NewHandler(upcService),
		ReportHandler:  reports.NewReportHandler(reportService),
		CsvHandler:     importer.NewCsvHandler(csvService),
		UserHandler:    users.NewHandler(userRepo),
	}
}
