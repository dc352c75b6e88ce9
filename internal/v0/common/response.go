package common

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// RequestIDKey is the gin context key holding the request id
	RequestIDKey = "request_id"

	// HeaderRequestID carries the request id in and out
	HeaderRequestID = "X-Request-ID"

	APIVersion = "v0"
)

// Structs for the API response format

type Metadata struct {
	Timestamp time.Time `json:"timestamp"`
	Version   string    `json:"version"`
	RequestID string    `json:"requestId"`
}

type APIResponse struct {
	Data     interface{} `json:"data"`
	Errors   []string    `json:"errors"`
	Metadata Metadata    `json:"metadata"`
}

// Response functions

func CreateAPIResponse(data interface{}, errors []string, requestID string) APIResponse {
	// If the requestID is blank and not cascading from other functions generate a new one
	if requestID == "" {
		requestID = uuid.New().String()
	}
	if errors == nil {
		errors = []string{}
	}
	return APIResponse{
		Data:   data,
		Errors: errors,
		Metadata: Metadata{
			Timestamp: time.Now(),
			Version:   APIVersion,
			RequestID: requestID,
		},
	}
}

func CreateSuccessResponse(data interface{}) APIResponse {
	return CreateAPIResponse(data, []string{}, "")
}

func CreateErrorResponse(errors []string) APIResponse {
	return CreateAPIResponse(nil, errors, "")
}

// RequestID assigns every request an id, reusing a well formed incoming
// X-Request-ID header.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(HeaderRequestID)
		if _, err := uuid.Parse(requestID); err != nil {
			requestID = uuid.New().String()
		}
		c.Set(RequestIDKey, requestID)
		c.Header(HeaderRequestID, requestID)
		c.Next()
	}
}

// Success writes data in the envelope under the request's id
func Success(c *gin.Context, status int, data interface{}) {
	c.JSON(status, CreateAPIResponse(data, []string{}, c.GetString(RequestIDKey)))
}

// Fail writes the errors in the envelope under the request's id
func Fail(c *gin.Context, status int, errors ...string) {
	c.JSON(status, CreateAPIResponse(nil, errors, c.GetString(RequestIDKey)))
}

// Abort is Fail for middleware: the remaining handlers are skipped
func Abort(c *gin.Context, status int, errors ...string) {
	c.AbortWithStatusJSON(status, CreateAPIResponse(nil, errors, c.GetString(RequestIDKey)))
}

//   This project is the backend API for the hostel mess meal tracker. Residents mark the meals they skip, managers see the counts.
//   Mess API Copyright (C) 2025 Mess API contributors
//       This program is free software: you can redistribute it and/or modify
//       it under the terms of the GNU General Public License as published by
//       the Free Software Foundation, either version 3 of the License, or
//       (at your option) any later version.

//       This program is distributed in the hope that it will be useful,
//       but WITHOUT ANY WARRANTY; without even the implied warranty of
//       MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
//       GNU General Public License for more details.

//       You should have received a copy of the GNU General Public License
//       along with this program.  If not, see <https://www.gnu.org/licenses/>.
