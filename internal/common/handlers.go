package common

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	v0common "MessAPI/internal/v0/common"

	"github.com/gin-gonic/gin"
)

type StatusResponse struct {
	InternalServerLatency string            `json:"internal_server_latency"`
	Uptime                string            `json:"uptime"`
	Databases             map[string]string `json:"databases"`
}

// Uptime Logic
var startTime time.Time

func uptime() time.Duration {
	return time.Since(startTime)
}

func init() {
	startTime = time.Now()
}

// StatusHandler reports uptime and pings the named databases
type StatusHandler struct {
	databases map[string]*sql.DB
}

func NewStatusHandler(databases map[string]*sql.DB) *StatusHandler {
	return &StatusHandler{databases: databases}
}

func (h *StatusHandler) Status(c *gin.Context) {
	start := time.Now()
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	status := http.StatusOK
	dbs := make(map[string]string, len(h.databases))
	for name, db := range h.databases {
		if err := db.PingContext(ctx); err != nil {
			dbs[name] = err.Error()
			status = http.StatusServiceUnavailable
			continue
		}
		dbs[name] = "ok"
	}

	data := StatusResponse{
		InternalServerLatency: time.Since(start).String(),
		Uptime:                uptime().Truncate(time.Second).String(),
		Databases:             dbs,
	}
	v0common.Success(c, status, data)
}

func RegisterRoutes(rg *gin.RouterGroup, h *StatusHandler) {
	rg.GET("/status", h.Status)
}

//This project is the backend API for the hostel mess meal tracker. Residents mark the meals they skip, managers see the counts.
//Mess API Copyright (C) 2025 Mess API contributors
//This program is free software: you can redistribute it and/or modify
//it under the terms of the GNU General Public License as published by
//the Free Software Foundation, either version 3 of the License, or
//(at your option) any later version.
//
//This program is distributed in the hope that it will be useful,
//but WITHOUT ANY WARRANTY; without even the implied warranty of
//MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
//GNU General Public License for more details.
//
//You should have received a copy of the GNU General Public License
//along with this program.  If not, see <https://www.gnu.org/licenses/>.
