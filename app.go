package main

import (
	"context"
	"fmt"
	"os"

	"go-shopping/config"
	"go-shopping/controllers"
	"go-shopping/gateway"
	"go-shopping/middleware"
	"go-shopping/prefs"
	"go-shopping/routes"
	"go-shopping/usecase"
	"go-shopping/utils"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

// application holds every long lived client and the wired router
type application struct {
	log    *logrus.Logger
	gw     *gateway.Gateway
	prefs  prefs.Store
	router *mux.Router

	auth     *usecase.AuthUsecase
	profile  *usecase.ProfileUsecase
	products *usecase.ProductUsecase
}

func newLogger(cfg config.Config) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stdout)
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetLevel(cfg.LogLevel)
	return log
}

func newApplication(ctx context.Context, cfg config.Config, log *logrus.Logger) (*application, error) {
	store, blobs, err := openStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	p, err := openPrefs(ctx, cfg)
	if err != nil {
		_ = store.Close(ctx)
		return nil, err
	}

	gw := gateway.New(store, blobs)
	tokens := utils.NewTokenIssuer(cfg.JWTSecret)
	mailer := newMailer(cfg, log)

	app := &application{
		log:      log,
		gw:       gw,
		prefs:    p,
		auth:     usecase.NewAuthUsecase(gw, p, tokens, mailer, cfg.PublicBaseURL, log),
		profile:  usecase.NewProfileUsecase(gw, p, log),
		products: usecase.NewProductUsecase(gw, p, log),
	}
	cart := usecase.NewCartUsecase(gw, cfg.ShippingCharge)

	ctrls := routes.Controllers{
		Users:        controllers.NewUserController(app.auth, app.profile),
		Products:     controllers.NewProductController(app.products, cart),
		Carts:        controllers.NewCartController(cart),
		Addresses:    controllers.NewAddressController(usecase.NewAddressUsecase(gw)),
		Orders:       controllers.NewOrderController(usecase.NewCheckoutUsecase(gw, cfg.ShippingCharge, log), usecase.NewOrderUsecase(gw)),
		SoldProducts: controllers.NewSoldProductController(usecase.NewSalesUsecase(gw, log)),
		Images:       controllers.NewImageController(blobs),
	}

	// Set up the router
	app.router = mux.NewRouter()
	app.router.Use(middleware.RequestLogger(log), middleware.Timeout(cfg.RequestTimeout))
	routes.RegisterRoutes(app.router, ctrls, middleware.AuthMiddleware(tokens))
	return app, nil
}

func (a *application) Close(ctx context.Context) {
	if err := a.prefs.Close(); err != nil {
		a.log.WithError(err).Warn("close prefs")
	}
	if err := a.gw.Close(ctx); err != nil {
		a.log.WithError(err).Warn("close store")
	}
}

func openStore(ctx context.Context, cfg config.Config) (gateway.Store, gateway.BlobStore, error) {
	switch cfg.StoreBackend {
	case config.BackendMongo:
		store, err := gateway.ConnectMongo(ctx, cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			return nil, nil, err
		}
		if err := store.EnsureIndexes(ctx); err != nil {
			_ = store.Close(ctx)
			return nil, nil, err
		}
		if cfg.BlobBackend == config.BackendDisk {
			return store, gateway.NewDiskStore(cfg.UploadDir, cfg.PublicBaseURL), nil
		}
		blobs, err := gateway.NewGridFSStore(store.Database(), cfg.PublicBaseURL)
		if err != nil {
			_ = store.Close(ctx)
			return nil, nil, err
		}
		return store, blobs, nil
	case config.BackendFirestore:
		store, err := gateway.ConnectFirestore(ctx, cfg.FirestoreProjectID)
		if err != nil {
			return nil, nil, err
		}
		return store, gateway.NewDiskStore(cfg.UploadDir, cfg.PublicBaseURL), nil
	case config.BackendMemory:
		return gateway.NewMemoryStore(), gateway.NewDiskStore(cfg.UploadDir, cfg.PublicBaseURL), nil
	}
	return nil, nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
}

func openPrefs(ctx context.Context, cfg config.Config) (prefs.Store, error) {
	if cfg.PrefsBackend == config.BackendRedis {
		return prefs.ConnectRedis(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	}
	return prefs.NewMemoryStore(), nil
}

func newMailer(cfg config.Config, log logrus.FieldLogger) utils.Mailer {
	switch cfg.MailProvider {
	case config.MailPostmark:
		return utils.NewPostmarkMailer(cfg.PostmarkAPIToken, cfg.EmailSender)
	case config.MailSendgrid:
		return utils.NewSendgridMailer(cfg.SendgridAPIKey, cfg.EmailSender)
	}
	return utils.LogMailer{Log: log}
}
