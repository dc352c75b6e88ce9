package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"MessAPI/internal/auth"
	"MessAPI/internal/common"
	"MessAPI/internal/databases"
	"MessAPI/internal/env"
	"MessAPI/internal/logger"
	"MessAPI/internal/meals"
	"MessAPI/internal/metrics"
	v0common "MessAPI/internal/v0/common"
	"MessAPI/internal/v0/mess"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}
	logg := logger.NewLogger("mess-api", env.GetEnv(env.EnvLogLevel, "info"))

	messPath := env.GetEnv(env.EnvMessDBPath, "./internal/databases/mess.db")
	authPath := env.GetEnv(env.EnvAuthDBPath, "./internal/databases/auth.db")

	// Bring both schemas up to date before serving
	for set, path := range map[string]string{databases.Mess: messPath, databases.Auth: authPath} {
		if err := databases.Migrate(path, set); err != nil {
			logg.Entry().WithError(err).Fatal("migration failed")
		}
	}

	// Mess database
	messDB, err := databases.Open(messPath)
	if err != nil {
		logg.Entry().WithError(err).Fatal("failed to open mess database")
	}
	defer messDB.Close()

	// Auth database
	authDB, err := databases.Open(authPath)
	if err != nil {
		logg.Entry().WithError(err).Fatal("failed to open auth database")
	}
	defer authDB.Close()

	// The cutoff is a wall clock hour in the mess's own time zone
	loc := env.GetLocation(env.EnvMessTimezone)
	clock := func() time.Time { return time.Now().In(loc) }
	policy := meals.NewPolicy(env.GetInt(env.EnvMealCutoffHour, meals.DefaultCutoffHour))

	m := metrics.NewMetrics()

	// Initialize mess components
	messRepo := mess.NewRepository(messDB)
	messService := mess.NewService(messRepo, policy, clock)
	messHandler := mess.NewHandler(
		messRepo,
		messService,
		env.GetInt(env.EnvItemsPerPage, mess.DefaultItemsPerPage),
		m,
		logg,
	)

	// Initialize auth components
	authRepo := auth.NewRepository(authDB)
	sessionStore := auth.NewSessionStore(
		env.MustGetEnv(env.EnvJWTSignSecret),
		env.GetDuration(env.EnvSessionDuration, auth.DefaultSessionDuration),
		env.GetBool(env.EnvSecureCookies, false),
	)
	tokenStore := auth.NewTokenStore(authRepo)

	// Superuser is tried before the manager
	authHandler := auth.NewHandler(
		messRepo,
		messRepo,
		sessionStore,
		tokenStore,
		auth.StaffAccount{
			Login:        env.GetEnv(env.EnvSuperuserLogin, ""),
			PasswordHash: env.GetEnv(env.EnvSuperuserPasswordHash, ""),
			Role:         auth.RoleSuperuser,
		},
		auth.StaffAccount{
			Login:        env.GetEnv(env.EnvManagerLogin, ""),
			PasswordHash: env.GetEnv(env.EnvManagerPasswordHash, ""),
			Role:         auth.RoleManager,
		},
	)
	authMiddleware := auth.NewMiddleware(tokenStore, sessionStore)

	router := gin.New()
	router.Use(
		gin.Recovery(),
		v0common.RequestID(),
		logger.Middleware(logg),
		m.Middleware(),
	)
	router.GET("/metrics", m.Handler())

	// Global routes
	global := router.Group("/api")
	common.RegisterRoutes(global, common.NewStatusHandler(map[string]*sql.DB{
		databases.Mess: messDB,
		databases.Auth: authDB,
	}))

	// Auth routes (public + session-protected)
	auth.RegisterRoutes(global, authHandler, authMiddleware)

	// v0 API routes
	v0Group := router.Group("/api/v0")
	{
		mess.RegisterRoutes(global, v0Group, messHandler, authMiddleware, authHandler)
	}

	srv := &http.Server{
		Addr:              ":" + env.GetEnv(env.EnvPort, "9237"),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful shutdown handling
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		logg.Entry().Info("Shutting down...")

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			logg.Entry().WithError(err).Error("shutdown failed")
		}
	}()

	logg.Entry().WithField("addr", srv.Addr).WithField("timezone", loc.String()).Info("listening")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logg.Entry().WithError(err).Fatal("server failed")
	}
}

/*
This project is the backend API for the hostel mess meal tracker. Residents mark the meals they skip, managers see the counts.
Mess API Copyright (C) 2025 Mess API contributors
    This program is free software: you can redistribute it and/or modify
    it under the terms of the GNU General Public License as published by
    the Free Software Foundation, either version 3 of the License, or
    (at your option) any later version.

    This program is distributed in the hope that it will be useful,
    but WITHOUT ANY WARRANTY; without even the implied warranty of
    MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
    GNU General Public License for more details.

    You should have received a copy of the GNU General Public License
    along with this program.  If not, see <https://www.gnu.org/licenses/>.
*/
