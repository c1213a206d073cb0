package main

import (
	"context"
	"net/http"
	"time"
	_ "time/tzdata"

	"github.com/gorilla/mux"
	cron "github.com/robfig/cron/v3"
	"github.com/rs/cors"
	"github.com/sendgrid/sendgrid-go"
	twilio "github.com/twilio/twilio-go"

	"github.com/upravdom/facility-service/internal/app"
	"github.com/upravdom/facility-service/internal/config"
	"github.com/upravdom/facility-service/internal/controllers"
	"github.com/upravdom/facility-service/internal/middleware"
	"github.com/upravdom/facility-service/internal/repositories"
	"github.com/upravdom/facility-service/internal/routes"
	"github.com/upravdom/facility-service/internal/services"
	"github.com/upravdom/facility-service/internal/utils"
	"github.com/upravdom/facility-service/internal/utils/firepanel"
)

// purgeRetention: soft-deleted rows older than this are removed by the
// nightly maintenance job.
const purgeRetention = 30 * 24 * time.Hour

func main() {
	utils.InitLogger(config.AppName)
	cfg := config.LoadConfig()

	application, err := app.NewApp(cfg)
	if err != nil {
		utils.Logger.Fatal("Failed to initialize facility-service:", err)
	}
	defer application.Close()

	bldgRepo := repositories.NewBuildingRepository(application.DB)
	aptRepo := repositories.NewApartmentRepository(application.DB)
	workerRepo := repositories.NewWorkerRepository(application.DB)
	issueRepo := repositories.NewPhoneIssueRepository(application.DB)
	overrideRepo := repositories.NewDeviceOverrideRepository(application.DB)

	var twClient *twilio.RestClient
	if cfg.TwilioAccountSID != "" && cfg.TwilioAuthToken != "" {
		twClient = twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: cfg.TwilioAccountSID,
			Password: cfg.TwilioAuthToken,
		})
	} else {
		utils.Logger.Warn("Twilio credentials missing; SMS notifications disabled")
	}

	var sgClient *sendgrid.Client
	if cfg.SendGridAPIKey != "" {
		sgClient = sendgrid.NewSendClient(cfg.SendGridAPIKey)
	} else {
		utils.Logger.Warn("SendGrid API key missing; email notifications disabled")
	}

	panelClient, err := firepanel.NewHTTPClient(cfg.PanelBaseURL, cfg.PanelAPIKey, 0)
	if err != nil {
		utils.Logger.Fatal("Failed to create fire-panel client:", err)
	}

	notifier := services.NewNotificationService(
		twClient,
		sgClient,
		cfg.OrganizationName,
		cfg.LDFlag_TwilioFromPhone,
		cfg.LDFlag_SendgridFromEmail,
		cfg.LDFlag_SendgridSandboxMode,
	)

	workerService := services.NewWorkerService(workerRepo)
	buildingService := services.NewBuildingService(bldgRepo)
	apartmentService := services.NewApartmentService(aptRepo, bldgRepo)
	phoneIssueService := services.NewPhoneIssueService(issueRepo, aptRepo, workerRepo, notifier)
	bulkImportService := services.NewBulkImportService(bldgRepo, aptRepo, issueRepo)
	firePanelService := services.NewFirePanelService(panelClient, bldgRepo, overrideRepo)

	if cfg.LDFlag_SeedDbWithTestData {
		if err := app.SeedTestData(context.Background(), bldgRepo, aptRepo, workerRepo); err != nil {
			utils.Logger.WithError(err).Fatal("Failed to seed test data")
		} else {
			utils.Logger.Info("Seeded test data successfully")
		}
	}

	healthController := controllers.NewHealthController(application)
	workerController := controllers.NewWorkerController(workerService)
	buildingController := controllers.NewBuildingController(buildingService)
	apartmentController := controllers.NewApartmentController(apartmentService)
	phoneIssueController := controllers.NewPhoneIssueController(phoneIssueService)
	bulkImportController := controllers.NewBulkImportController(bulkImportService)
	firePanelController := controllers.NewFirePanelController(firePanelService)

	router := mux.NewRouter()

	// Public
	router.HandleFunc(routes.Health, healthController.HealthCheckHandler).Methods(http.MethodGet)

	secured := router.NewRoute().Subrouter()
	secured.Use(middleware.AdminAuthMiddleware(cfg.RSAPublicKey))

	secured.HandleFunc(routes.WorkersBase, workerController.CreateWorkerHandler).Methods(http.MethodPost)
	secured.HandleFunc(routes.WorkersBase, workerController.ListWorkersHandler).Methods(http.MethodGet)
	secured.HandleFunc(routes.WorkerByID, workerController.GetWorkerHandler).Methods(http.MethodGet)
	secured.HandleFunc(routes.WorkerByID, workerController.UpdateWorkerHandler).Methods(http.MethodPatch)
	secured.HandleFunc(routes.WorkerByID, workerController.DeleteWorkerHandler).Methods(http.MethodDelete)

	secured.HandleFunc(routes.BuildingsBase, buildingController.CreateBuildingHandler).Methods(http.MethodPost)
	secured.HandleFunc(routes.BuildingsBase, buildingController.ListBuildingsHandler).Methods(http.MethodGet)
	secured.HandleFunc(routes.BuildingByID, buildingController.GetBuildingHandler).Methods(http.MethodGet)
	secured.HandleFunc(routes.BuildingByID, buildingController.UpdateBuildingHandler).Methods(http.MethodPatch)
	secured.HandleFunc(routes.BuildingByID, buildingController.DeleteBuildingHandler).Methods(http.MethodDelete)

	secured.HandleFunc(routes.ApartmentsBase, apartmentController.CreateApartmentHandler).Methods(http.MethodPost)
	secured.HandleFunc(routes.ApartmentsBase, apartmentController.ListApartmentsHandler).Methods(http.MethodGet)
	secured.HandleFunc(routes.ApartmentByID, apartmentController.GetApartmentHandler).Methods(http.MethodGet)
	secured.HandleFunc(routes.ApartmentByID, apartmentController.UpdateApartmentHandler).Methods(http.MethodPatch)
	secured.HandleFunc(routes.ApartmentByID, apartmentController.DeleteApartmentHandler).Methods(http.MethodDelete)

	secured.HandleFunc(routes.PhoneIssuesBase, phoneIssueController.CreatePhoneIssueHandler).Methods(http.MethodPost)
	secured.HandleFunc(routes.PhoneIssuesBase, phoneIssueController.ListPhoneIssuesHandler).Methods(http.MethodGet)
	secured.HandleFunc(routes.PhoneIssueByID, phoneIssueController.GetPhoneIssueHandler).Methods(http.MethodGet)
	secured.HandleFunc(routes.PhoneIssueStatus, phoneIssueController.UpdatePhoneIssueStatusHandler).Methods(http.MethodPatch, http.MethodPut)
	secured.HandleFunc(routes.PhoneIssueWorker, phoneIssueController.AssignWorkerHandler).Methods(http.MethodPatch, http.MethodPut)
	secured.HandleFunc(routes.PhoneIssueByID, phoneIssueController.DeletePhoneIssueHandler).Methods(http.MethodDelete)

	secured.HandleFunc(routes.ImportDirectory, bulkImportController.DirectoryHandler).Methods(http.MethodGet)
	secured.HandleFunc(routes.ImportPreview, bulkImportController.PreviewHandler).Methods(http.MethodPost)
	secured.HandleFunc(routes.ImportPhoneIssues, bulkImportController.SubmitHandler).Methods(http.MethodPost)

	secured.HandleFunc(routes.PanelBuildingDevices, firePanelController.BuildingDevicesHandler).Methods(http.MethodGet)
	secured.HandleFunc(routes.PanelDeviceOverride, firePanelController.SetDeviceOverrideHandler).Methods(http.MethodPut)
	secured.HandleFunc(routes.PanelDeviceOverride, firePanelController.ClearDeviceOverrideHandler).Methods(http.MethodDelete)

	c := cron.New()
	if cfg.LDFlag_PanelPollingEnabled {
		_, pollErr := c.AddFunc("@every 2m", func() {
			if e := firePanelService.RefreshAll(context.Background()); e != nil {
				utils.Logger.WithError(e).Error("Panel snapshot refresh failed")
			}
		})
		if pollErr != nil {
			utils.Logger.WithError(pollErr).Fatal("Failed to schedule panel refresh cron")
		}
	}

	_, purgeErr := c.AddFunc("5 0 * * *", func() {
		cutoff := time.Now().Add(-purgeRetention)
		ctx := context.Background()
		if _, e := issueRepo.PurgeDeletedBefore(ctx, cutoff); e != nil {
			utils.Logger.WithError(e).Error("Nightly issue purge failed")
		}
		if _, e := aptRepo.PurgeDeletedBefore(ctx, cutoff); e != nil {
			utils.Logger.WithError(e).Error("Nightly apartment purge failed")
		}
		if _, e := bldgRepo.PurgeDeletedBefore(ctx, cutoff); e != nil {
			utils.Logger.WithError(e).Error("Nightly building purge failed")
		}
		if _, e := workerRepo.PurgeDeletedBefore(ctx, cutoff); e != nil {
			utils.Logger.WithError(e).Error("Nightly worker purge failed")
		}
	})
	if purgeErr != nil {
		utils.Logger.WithError(purgeErr).Fatal("Failed to schedule nightly purge cron")
	}
	c.Start()

	allowedOrigins := []string{cfg.AppUrl}
	if !cfg.LDFlag_CORSHighSecurity {
		allowedOrigins = append(allowedOrigins, "http://localhost:3000")
	}

	co := cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	utils.Logger.Infof("Starting %s on port: %s", cfg.AppName, cfg.AppPort)
	if err := http.ListenAndServe(":"+cfg.AppPort, co.Handler(router)); err != nil {
		utils.Logger.Fatal("facility-service failed to start:", err)
	}
}
