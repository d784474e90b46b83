// Copyright 2025 Arcade Team
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package bootstrap

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-arcade/teamhub/internal/engine/config"
	"github.com/go-arcade/teamhub/internal/engine/repo"
	"github.com/go-arcade/teamhub/internal/engine/router"
	"github.com/go-arcade/teamhub/pkg/database"
	"github.com/go-arcade/teamhub/pkg/log"
	"github.com/go-arcade/teamhub/pkg/safe"
	"github.com/go-arcade/teamhub/pkg/version"
	"github.com/gofiber/fiber/v2"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

const defaultShutdownTimeout = 30 * time.Second

type App struct {
	HttpApp *fiber.App
	Logger  *log.Logger
	AppConf *config.AppConfig
	Tracer  *sdktrace.TracerProvider
}

// InitAppFunc init app function type
type InitAppFunc func(configPath string) (*App, func(), error)

func NewApp(
	rt *router.Router,
	logger *log.Logger,
	appConf *config.AppConfig,
	db database.IDatabase,
	tp *sdktrace.TracerProvider,
) (*App, func(), error) {
	if appConf.Database.AutoMigrate {
		if err := repo.AutoMigrate(db); err != nil {
			return nil, nil, err
		}
		logger.Log.Info("database schema migrated")
	}

	httpApp := rt.Router()

	cleanup := func() {
		if err := log.Sync(); err != nil {
			logger.Log.Debugw("failed to sync logger", "error", err)
		}
	}

	app := &App{
		HttpApp: httpApp,
		Logger:  logger,
		AppConf: appConf,
		Tracer:  tp,
	}
	return app, cleanup, nil
}

// Bootstrap init app, return App instance and cleanup function
func Bootstrap(configFile string, initApp InitAppFunc) (*App, func(), error) {
	app, cleanup, err := initApp(configFile)
	if err != nil {
		return nil, nil, err
	}
	return app, cleanup, nil
}

// Run start app and wait for exit signal, then gracefully shutdown
func Run(app *App, cleanup func()) {
	logger := app.Logger.Log
	httpConf := app.AppConf.Http

	// set signal listener (graceful shutdown)
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	// start HTTP server (async)
	safe.Go("http-listener", func() {
		addr := httpConf.Addr()
		logger.Infow("HTTP listener started", "address", addr, "build", version.GetVersion().String())
		var err error
		if httpConf.TLS.CertFile != "" && httpConf.TLS.KeyFile != "" {
			err = app.HttpApp.ListenTLS(addr, httpConf.TLS.CertFile, httpConf.TLS.KeyFile)
		} else {
			err = app.HttpApp.Listen(addr)
		}
		if err != nil {
			logger.Errorw("HTTP listener failed", "address", addr, "error", err)
			quit <- syscall.SIGTERM
		}
	})

	sig := <-quit
	logger.Infof("Received signal: %v, shutting down gracefully...", sig)

	timeout := defaultShutdownTimeout
	if httpConf.ShutdownTimeout > 0 {
		timeout = time.Duration(httpConf.ShutdownTimeout) * time.Second
	}
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), timeout)
	defer shutdownCancel()
	if err := app.HttpApp.ShutdownWithContext(shutdownCtx); err != nil {
		logger.Errorf("HTTP server shutdown error: %v", err)
	} else {
		logger.Info("HTTP server shut down gracefully")
	}

	// close database, redis and other resources
	cleanup()

	logger.Info("Server shutdown complete")
}
