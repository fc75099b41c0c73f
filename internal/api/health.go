// Copyright (c) 2026 Cinemateca. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/taibuivan/cinemateca/internal/platform/constants"
	"github.com/taibuivan/cinemateca/internal/platform/respond"
)

// readinessTimeout bounds each dependency ping.
const readinessTimeout = 2 * time.Second

// Check pings one dependency.
type Check func(context context.Context) error

// HealthDependencies holds the injectable dependency checkers for the /ready endpoint.
type HealthDependencies struct {
	// Database pings the PostgreSQL pool.
	Database Check

	// Cache pings the Redis client. Nil when Redis is not configured.
	Cache Check
}

type healthHandler struct {
	checks []namedCheck
	logger *slog.Logger
}

type namedCheck struct {
	name  string
	check Check
}

type checkResult struct {
	Name  string `json:"name"`
	IsOK  bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

// NewHealthHandlers creates the /health and /ready http.HandlerFuncs.
func NewHealthHandlers(deps HealthDependencies, logger *slog.Logger) (liveness, readiness http.HandlerFunc) {
	handler := &healthHandler{logger: logger}
	if deps.Database != nil {
		handler.checks = append(handler.checks, namedCheck{name: "postgres", check: deps.Database})
	}
	if deps.Cache != nil {
		handler.checks = append(handler.checks, namedCheck{name: "redis", check: deps.Cache})
	}
	return handler.liveness, handler.readiness
}

// liveness handles GET /health.
func (handler *healthHandler) liveness(writer http.ResponseWriter, _ *http.Request) {
	respond.OK(writer, map[string]string{
		constants.FieldStatus:  "ok",
		constants.FieldApp:     constants.AppName,
		constants.FieldVersion: constants.AppVersion,
	})
}

// readiness handles GET /ready.
func (handler *healthHandler) readiness(writer http.ResponseWriter, request *http.Request) {
	results := make([]checkResult, 0, len(handler.checks))
	isSystemReady := true

	for _, dependency := range handler.checks {
		context, cancel := context.WithTimeout(request.Context(), readinessTimeout)
		err := dependency.check(context)
		cancel()

		result := checkResult{Name: dependency.name, IsOK: err == nil}
		if err != nil {
			result.Error = err.Error()
			isSystemReady = false
			handler.logger.Error("readiness_check_failed", slog.String("dependency", dependency.name), slog.Any("error", err))
		}
		results = append(results, result)
	}

	status, httpStatus := "ready", http.StatusOK
	if !isSystemReady {
		status, httpStatus = "degraded", http.StatusServiceUnavailable
	}

	respond.JSON(writer, httpStatus, respond.SuccessEnvelope{Data: map[string]any{
		constants.FieldStatus: status,
		constants.FieldChecks: results,
	}})
}
