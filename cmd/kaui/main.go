package main

import (
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	fiberlog "github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/fiber/v2/middleware/favicon"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/template/html/v2"

	"github.com/kitty-tang-hs/killbill-admin-ui/app/controllers"
	"github.com/kitty-tang-hs/killbill-admin-ui/app/repository"
	"github.com/kitty-tang-hs/killbill-admin-ui/internal/pkg/cache"
	"github.com/kitty-tang-hs/killbill-admin-ui/internal/pkg/database"
	"github.com/kitty-tang-hs/killbill-admin-ui/internal/pkg/env"
	"github.com/kitty-tang-hs/killbill-admin-ui/internal/pkg/killbill"
	"github.com/kitty-tang-hs/killbill-admin-ui/internal/pkg/router"
)

func main() {
	app := NewApplication()
	err := app.Listen(fmt.Sprintf("%s:%s", env.GetEnv("APP_HOST", "localhost"), env.GetEnv("APP_PORT", "4000")))
	log.Fatal(err)
}

func NewApplication() *fiber.App {
	env.SetupEnvFile()
	database.SetupDatabase()
	cache.SetupCache()
	repository.InitializeFactory(database.GetDB())

	kbConfig, err := killbill.ConfigFromEnv()
	if err != nil {
		log.Fatalf("Invalid Kill Bill configuration: %v", err)
	}
	kb := killbill.NewClient(kbConfig, killbill.WithCache(cache.NewStore(cache.GetClient())))
	controllers.InitializeControllers(kb, repository.GetGlobalRepositories())

	// Define possible base paths
	basePaths := []string{
		"./",        // Current directory
		"../../",    // From cmd/kaui to project root
		"../../../", // Fallback
	}

	// Find the correct base path
	basePath := ""
	for _, path := range basePaths {
		if _, err := os.Stat(path + "views"); !os.IsNotExist(err) {
			basePath = path
			break
		}
	}

	if basePath == "" {
		panic("Could not find project root directory")
	}

	// init fiber app
	app := fiber.New(fiber.Config{
		Views:        html.New(basePath+"views/templates", ".html"),
		ErrorHandler: errorHandler,
	})

	// answer favicon requests without hitting the router
	app.Use(favicon.New())

	// recovery and logging
	app.Use(recover.New(), logger.New())

	// static files
	app.Static("/", basePath+"public/assets", fiber.Static{
		CacheDuration: 15 * time.Second,
		Compress:      true,
	})

	// ROUTER
	router.InstallRouter(app)

	// SWAGGER / OPENAPI, behind the operator login installed by the router
	openAPICfg := swagger.Config{
		BasePath: "/docs/api/",
		FilePath: basePath + "public/docs/v1/openapi.yml",
		Path:     "v1",
	}
	app.Use(swagger.New(openAPICfg))

	return app
}

// errorHandler renders errors that escaped the controllers
func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Something went wrong"

	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
		message = e.Message
	}
	if code >= fiber.StatusInternalServerError {
		fiberlog.Error(fmt.Sprintf("[App] %s %s: %v", c.Method(), c.Path(), err))
	}

	return c.Status(code).Render("error", fiber.Map{
		"Status":  code,
		"Message": message,
	})
}
