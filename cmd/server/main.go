package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"accident-service/config"
	"accident-service/internal/accident"
	"accident-service/internal/api"
	"accident-service/internal/geo"
	"accident-service/internal/notify"
	"accident-service/internal/responder"
	"accident-service/internal/user"
	"accident-service/pkg/consul"
	"accident-service/pkg/firebase"
	"accident-service/pkg/zap"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	uberzap "go.uber.org/zap"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	cfg := config.LoadConfig()

	logger, err := zap.New(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	if !cfg.IsDev() {
		gin.SetMode(gin.ReleaseMode)
	}

	consulConn := consul.NewConsulConn(logger, cfg)
	consulConn.Connect()
	defer consulConn.Deregister()

	mongoClient, err := connectToMongoDB(cfg.MongoURI)
	if err != nil {
		logger.Fatalf("Failed to connect to MongoDB: %v", err)
	}

	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			logger.Error(err)
		}
	}()

	app, err := firebase.SetUpFireBase(context.Background(), cfg)
	if err != nil {
		logger.Errorf("Firebase disabled: %v", err)
	}
	pusher := notify.NewPusher(context.Background(), app, logger)

	db := mongoClient.Database(cfg.MongoDB)
	userRepository := user.NewUserRepository(db.Collection("users"))
	userService := user.NewUserService(userRepository, logger)
	userHandler := user.NewUserHandler(userService)

	gateway := notify.NewGateway(notify.NewTwilioTransport(notify.TwilioConfig{
		BaseURL:    cfg.TwilioBaseURL,
		AccountSID: cfg.TwilioAccountSID,
		AuthToken:  cfg.TwilioAuthToken,
		FromNumber: cfg.TwilioPhoneNumber,
	}), cfg.TwilioVoice, logger)

	accidentRepository := accident.NewAccidentRepository(db.Collection("accidents"))
	accidentService := accident.NewAccidentService(accident.Dependencies{
		Accidents: accidentRepository,
		Users:     userService,
		Directory: newDirectory(cfg, logger),
		Notifier:  gateway,
		Pusher:    pusher,
		Locator:   geo.NewClient(cfg.NominatimURL, cfg.OSRMURL),
		Logger:    logger,
	}, accident.Options{
		GracePeriod:           cfg.GracePeriod,
		RequireRegisteredUser: cfg.RequireRegisteredUser,
		MapLinkFormat:         cfg.MapLinkFormat,
	})
	defer accidentService.Shutdown()
	accidentHandler := accident.NewAccidentHandler(accidentService)

	router := api.NewRouter(logger, userHandler, accidentHandler)

	// Setup cron
	c := cron.New(cron.WithSeconds())
	_, err = c.AddFunc(cfg.RecoverySchedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		n, err := accidentService.RecoverPendingAlerts(ctx)
		if err != nil {
			logger.Errorf("RecoverPendingAlerts failed: %v", err)
			return
		}
		if n > 0 {
			logger.Infof("🔄 Recovered %d pending accidents", n)
		}
	})
	if err != nil {
		logger.Fatalf("AddFunc error: %v", err)
	}

	c.Start()
	defer c.Stop()

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		logger.Infof("Server running on port %s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Error starting server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Errorf("Error shutting down server: %v", err)
	}
	logger.Info("Server stopped")
}

func newDirectory(cfg *config.Config, logger *uberzap.SugaredLogger) responder.Directory {
	static := responder.StaticConfig{
		PoliceName:     cfg.PoliceName,
		PolicePhone:    cfg.PolicePhone,
		HospitalNames:  cfg.HospitalNames,
		HospitalPhones: cfg.HospitalPhones,
	}
	if cfg.ResponderMode == "overpass" {
		logger.Infof("Resolving responders through Overpass at %s", cfg.OverpassURL)
		return responder.NewOverpassDirectory(cfg.OverpassURL, cfg.SearchRadiusM, static, logger)
	}
	return responder.NewStaticDirectory(static)
}

func connectToMongoDB(uri string) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		log.Println("Failed to connect to MongoDB")
		return nil, err
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		log.Println("Failed to ping MongoDB")
		return nil, err
	}

	log.Println("Successfully connected to MongoDB")
	return client, nil
}
