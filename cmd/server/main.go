package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-print"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"

	userrequests "github.com/factscub/user-requests-api"
	"github.com/factscub/user-requests-api/config"
	"github.com/factscub/user-requests-api/middleware/jwtware"
	"github.com/factscub/user-requests-api/notify"
)

type App struct {
	config   *config.Config
	bunDB    *bun.DB
	repo     userrequests.RepositoryManager
	auth     *userrequests.Auther
	notifier userrequests.Notifier
	srv      *fiber.App
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println("============")
	fmt.Println(print.MaybeHighlightJSON(cfg))
	fmt.Println("============")

	app := &App{config: cfg}

	ctx := context.Background()

	if err := WithPersistence(ctx, app); err != nil {
		log.Fatal(err)
	}

	if err := WithNotifier(app); err != nil {
		log.Fatal(err)
	}

	if err := WithHTTPServer(app); err != nil {
		log.Fatal(err)
	}

	go func() {
		if err := app.srv.Listen(cfg.ServerAddr()); err != nil {
			log.Fatal(err)
		}
	}()

	WaitExitSignal()

	if err := app.srv.Shutdown(); err != nil {
		log.Printf("shutdown error: %v", err)
	}
}

func WithPersistence(ctx context.Context, app *App) error {
	db, err := sql.Open(sqliteshim.ShimName, app.config.DBPath)
	if err != nil {
		return err
	}

	if err := userrequests.RunMigrations(ctx, db); err != nil {
		return err
	}

	app.bunDB = bun.NewDB(db, sqlitedialect.New())
	app.repo = userrequests.NewRepositoryManager(app.bunDB)

	return app.repo.Validate()
}

func WithNotifier(app *App) error {
	if app.config.UseSMTP() {
		notifier, err := notify.NewSMTPNotifier(notify.SMTPConfig{
			Host:     app.config.MailerHost,
			Port:     app.config.MailerPort,
			Username: app.config.MailerUser,
			Password: app.config.MailerPassword,
			From:     app.config.FromEmail,
		})
		if err != nil {
			return err
		}
		app.notifier = notifier
		return nil
	}

	notifier, err := notify.NewCaptureNotifier(app.config.EmailDir)
	if err != nil {
		return err
	}
	app.notifier = notifier
	return nil
}

func WithHTTPServer(app *App) error {
	userProvider := userrequests.NewUserProvider(app.repo.Users())
	app.auth = userrequests.NewAuthenticator(userProvider, app.repo.Users(), app.config)

	service := userrequests.NewApplicationService(app.repo.Applications(), app.notifier)

	app.srv = fiber.New(fiber.Config{
		AppName: "user-requests-api",
	})

	validator := userrequests.TokenValidatorAdapter(app.auth.TokenService())

	authenticated := jwtware.New(jwtware.Config{
		TokenValidator:  validator,
		ContextKey:      userrequests.PrincipalContextKey,
		ContextEnricher: userrequests.ContextEnricherAdapter,
	})

	adminOnly := jwtware.New(jwtware.Config{
		TokenValidator:  validator,
		ContextKey:      userrequests.PrincipalContextKey,
		ContextEnricher: userrequests.ContextEnricherAdapter,
		Policy: jwtware.AccessPolicy{
			Roles: []string{string(userrequests.RoleAdmin)},
		},
	})

	api := app.srv.Group("/api")

	authCtrl := userrequests.NewAuthController(app.auth)
	authCtrl.RegisterRoutes(api.Group("/auth"))

	requestsCtrl := userrequests.NewRequestsController(service)
	requestsCtrl.RegisterRoutes(api.Group("/requests"), authenticated, adminOnly)

	return nil
}

func WaitExitSignal() os.Signal {
	ch := make(chan os.Signal, 3)
	signal.Notify(ch,
		syscall.SIGINT,
		syscall.SIGQUIT,
		syscall.SIGTERM,
	)
	return <-ch
}
