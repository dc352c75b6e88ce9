package env

import (
	"log"
	"os"
	"strconv"
	"time"
)

func GetEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func GetInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func GetBool(key string, defaultValue bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func GetDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// GetLocation loads an IANA time zone name such as "Asia/Kolkata". Unset,
// empty or unknown names fall back to the server's local zone.
func GetLocation(key string) *time.Location {
	name, exists := os.LookupEnv(key)
	if !exists || name == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		log.Printf("Unknown time zone %q in %s, using local time", name, key)
		return time.Local
	}
	return loc
}

// MustGetEnv returns the value of key or exits when it is unset.
func MustGetEnv(key string) string {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		log.Fatalf("%s is not set", key)
	}
	return value
}

// Server and storage
const (
	EnvPort       = "PORT"
	EnvMessDBPath = "MESS_DB_PATH"
	EnvAuthDBPath = "AUTH_DB_PATH"
	EnvLogLevel   = "LOG_LEVEL"
)

// Mess rules
const (
	EnvMessTimezone   = "MESS_TIMEZONE"
	EnvMealCutoffHour = "MEAL_CUTOFF_HOUR"
	EnvItemsPerPage   = "ITEMS_PER_PAGE"
)

// Auth configuration
const (
	EnvJWTSignSecret         = "JWT_SIGN_SECRET"
	EnvSessionDuration       = "SESSION_DURATION"
	EnvSecureCookies         = "SECURE_COOKIES"
	EnvManagerLogin          = "MANAGER_LOGIN"
	EnvManagerPasswordHash   = "MANAGER_PASSWORD_HASH"
	EnvSuperuserLogin        = "SUPERUSER_LOGIN"
	EnvSuperuserPasswordHash = "SUPERUSER_PASSWORD_HASH"
)

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
