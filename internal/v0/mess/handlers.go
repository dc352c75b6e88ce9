package mess

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"

	"MessAPI/internal/auth"
	"MessAPI/internal/logger"
	"MessAPI/internal/meals"
	"MessAPI/internal/metrics"
	"MessAPI/internal/v0/common"

	"github.com/gin-gonic/gin"
)

const DefaultItemsPerPage = 20

// Handler holds the stores and the clock-bound service behind the mess routes
type Handler struct {
	repo         *Repository
	service      *Service
	itemsPerPage int
	metrics      *metrics.Metrics
	log          *logger.Logger
}

func NewHandler(repo *Repository, service *Service, itemsPerPage int, m *metrics.Metrics, log *logger.Logger) *Handler {
	if itemsPerPage <= 0 {
		itemsPerPage = DefaultItemsPerPage
	}
	return &Handler{repo: repo, service: service, itemsPerPage: itemsPerPage, metrics: m, log: log}
}

// internalError logs err with the request id and answers 500
func (h *Handler) internalError(c *gin.Context, err error) {
	_ = c.Error(err)
	if h.log != nil {
		h.log.FromContext(c).WithError(err).Error("mess request failed")
	}
	common.Fail(c, http.StatusInternalServerError, "Something went wrong.")
}

// monthQuery reads the 1-based year and month query parameters, defaulting
// to the current month
func (h *Handler) monthQuery(c *gin.Context) (meals.MonthQuery, error) {
	today := h.service.Today()
	year, month := today.Year, today.Month+1

	var err error
	if v := c.Query("year"); v != "" {
		if year, err = strconv.Atoi(v); err != nil {
			return meals.MonthQuery{}, fmt.Errorf("%w: %q", meals.ErrInvalidYear, v)
		}
	}
	if v := c.Query("month"); v != "" {
		if month, err = strconv.Atoi(v); err != nil {
			return meals.MonthQuery{}, fmt.Errorf("%w: %q", meals.ErrInvalidMonth, v)
		}
	}
	return meals.NewMonthQuery(year, month-1)
}

// hostel reads and checks the hostel query parameter
func (h *Handler) hostel(c *gin.Context) (string, bool) {
	hostel := strings.TrimSpace(c.Query("hostel"))
	if hostel == "" {
		common.Fail(c, http.StatusBadRequest, "hostel is required")
		return "", false
	}
	exists, err := h.repo.HostelExists(c.Request.Context(), hostel)
	if err != nil {
		h.internalError(c, err)
		return "", false
	}
	if !exists {
		common.Fail(c, http.StatusBadRequest, meals.RuleHostelInvalid.Message())
		return "", false
	}
	return hostel, true
}

// resident returns the session user when it is a resident. Staff accounts
// have no roster entry and cannot hold preferences.
func resident(c *gin.Context) (*auth.User, bool) {
	user := auth.GetUserFromContext(c)
	if user == nil || user.Role != auth.RoleResident {
		common.Fail(c, http.StatusForbidden, "only residents have meal preferences")
		return nil, false
	}
	return user, true
}

// --- Resident ---

// GetCalendar returns the month grid of the current resident
// GET /mess/calendar?year=&month=
func (h *Handler) GetCalendar(c *gin.Context) {
	user, ok := resident(c)
	if !ok {
		return
	}
	q, err := h.monthQuery(c)
	if err != nil {
		common.Fail(c, http.StatusBadRequest, err.Error())
		return
	}

	cal, err := h.service.Calendar(c.Request.Context(), user.ID, q)
	if err != nil {
		h.internalError(c, err)
		return
	}
	common.Success(c, http.StatusOK, cal)
}

// GetMarkings returns the resident's markings of a month, or of one day
// when day is given
// GET /mess/markings?year=&month=&day=
func (h *Handler) GetMarkings(c *gin.Context) {
	user, ok := resident(c)
	if !ok {
		return
	}
	q, err := h.monthQuery(c)
	if err != nil {
		common.Fail(c, http.StatusBadRequest, err.Error())
		return
	}

	if v := c.Query("day"); v != "" {
		day, err := strconv.Atoi(v)
		if err != nil {
			common.Fail(c, http.StatusBadRequest, meals.ErrInvalidDay.Error())
			return
		}
		dq, err := meals.NewDayQuery(q.Date(day))
		if err != nil {
			common.Fail(c, http.StatusBadRequest, err.Error())
			return
		}
		pref, err := h.service.DayPreference(c.Request.Context(), user.ID, dq)
		if err != nil {
			h.internalError(c, err)
			return
		}
		common.Success(c, http.StatusOK, []DayPreference{pref})
		return
	}

	prefs, err := h.service.MonthPreferences(c.Request.Context(), user.ID, q)
	if err != nil {
		h.internalError(c, err)
		return
	}
	common.Success(c, http.StatusOK, prefs)
}

// PutMarking stores the full meal status of one day
// PUT /mess/markings
func (h *Handler) PutMarking(c *gin.Context) {
	user, ok := resident(c)
	if !ok {
		return
	}
	var req MarkingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Fail(c, http.StatusBadRequest, "Invalid request")
		return
	}

	d := req.Date.Date()
	err := h.service.SaveMarking(c.Request.Context(), user.ID, user.Hostel, d, req.Meals.Status())
	switch {
	case errors.Is(err, meals.ErrDateLocked):
		if h.metrics != nil {
			h.metrics.LockedWrites.Inc()
		}
		common.Fail(c, http.StatusForbidden, "Preferences cannot be edited for the day anymore.")
		return
	case errors.Is(err, ErrUnknownResident):
		common.Fail(c, http.StatusUnauthorized, "Couldn't find a resident with the credentials")
		return
	case errors.Is(err, meals.ErrInvalidYear), errors.Is(err, meals.ErrInvalidMonth), errors.Is(err, meals.ErrInvalidDay):
		common.Fail(c, http.StatusBadRequest, err.Error())
		return
	case err != nil:
		h.internalError(c, err)
		return
	}

	if h.metrics != nil {
		h.metrics.MarkingsWritten.Inc()
	}
	common.Success(c, http.StatusOK, DayPreference{Date: d, Meals: req.Meals.Status()})
}

// ChangePassword replaces the resident's password after checking the
// current one
// POST /mess/password
func (h *Handler) ChangePassword(c *gin.Context) {
	user, ok := resident(c)
	if !ok {
		return
	}
	var req PasswordChangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Fail(c, http.StatusBadRequest, "Invalid request")
		return
	}

	ctx := c.Request.Context()
	_, hash, err := h.repo.GetResidentByAdmission(ctx, user.Admission)
	if err != nil {
		h.internalError(c, err)
		return
	}
	if ok, _ := auth.VerifyPassword(req.CurrentPassword, hash); !ok {
		common.Fail(c, http.StatusUnauthorized, "Wrong credentials")
		return
	}
	if req.NewPassword == req.CurrentPassword {
		common.Fail(c, http.StatusBadRequest, "New password must be different from the current one")
		return
	}
	if rules := meals.ValidatePassword(req.NewPassword); len(rules) > 0 {
		common.Fail(c, http.StatusBadRequest, meals.Messages(rules)...)
		return
	}

	h.setPassword(c, user.Admission, req.NewPassword)
}

func (h *Handler) setPassword(c *gin.Context, admission, password string) {
	newHash, err := auth.HashPassword(password)
	if err != nil {
		h.internalError(c, err)
		return
	}
	updated, err := h.repo.UpdatePasswordHash(c.Request.Context(), admission, newHash)
	if err != nil {
		h.internalError(c, err)
		return
	}
	if !updated {
		common.Fail(c, http.StatusNotFound, "resident not found")
		return
	}
	common.Success(c, http.StatusOK, nil)
}

// --- Registration and validation ---

// addResident validates and stores a roster entry, answering the request
func (h *Handler) addResident(c *gin.Context) {
	var in meals.ResidentInput
	if err := c.ShouldBindJSON(&in); err != nil {
		common.Fail(c, http.StatusBadRequest, "Invalid request")
		return
	}

	ctx := c.Request.Context()
	hostels, err := h.repo.GetHostels(ctx)
	if err != nil {
		h.internalError(c, err)
		return
	}
	if rules := meals.ValidateResident(in, hostels); len(rules) > 0 {
		common.Fail(c, http.StatusBadRequest, meals.Messages(rules)...)
		return
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		h.internalError(c, err)
		return
	}
	res, err := h.repo.CreateResident(ctx, in, hash)
	if errors.Is(err, ErrAdmissionTaken) {
		common.Fail(c, http.StatusConflict, "Resident already exists")
		return
	}
	if err != nil {
		h.internalError(c, err)
		return
	}
	common.Success(c, http.StatusCreated, res)
}

// Register is resident self-registration
// POST /auth/register
func (h *Handler) Register(c *gin.Context) {
	h.addResident(c)
}

// Validate runs the resident rules without storing anything
// POST /mess/validate
func (h *Handler) Validate(c *gin.Context) {
	var in meals.ResidentInput
	if err := c.ShouldBindJSON(&in); err != nil {
		common.Fail(c, http.StatusBadRequest, "Invalid request")
		return
	}
	hostels, err := h.repo.GetHostels(c.Request.Context())
	if err != nil {
		h.internalError(c, err)
		return
	}
	rules := meals.ValidateResident(in, hostels)
	common.Success(c, http.StatusOK, ValidationResponse{
		OK:     len(rules) == 0,
		Rules:  rules,
		Errors: meals.Messages(rules),
	})
}

// --- Manager ---

// GetHostels returns hostel id -> display name
// GET /mess/hostels
func (h *Handler) GetHostels(c *gin.Context) {
	hostels, err := h.repo.GetHostels(c.Request.Context())
	if err != nil {
		h.internalError(c, err)
		return
	}
	common.Success(c, http.StatusOK, hostels)
}

// GetTomorrowCount returns tomorrow's head count of a hostel
// GET /mess/count/tomorrow?hostel=
func (h *Handler) GetTomorrowCount(c *gin.Context) {
	hostel, ok := h.hostel(c)
	if !ok {
		return
	}
	h.tomorrowCount(c, hostel)
}

func (h *Handler) tomorrowCount(c *gin.Context, hostel string) {
	count, err := h.service.TomorrowCount(c.Request.Context(), hostel)
	if err != nil {
		h.internalError(c, err)
		return
	}
	common.Success(c, http.StatusOK, count)
}

// GetMonthCount returns the head count of each day of a month
// GET /mess/count/month?hostel=&year=&month=
func (h *Handler) GetMonthCount(c *gin.Context) {
	hostel, ok := h.hostel(c)
	if !ok {
		return
	}
	q, err := h.monthQuery(c)
	if err != nil {
		common.Fail(c, http.StatusBadRequest, err.Error())
		return
	}
	count, err := h.service.MonthCount(c.Request.Context(), hostel, q)
	if err != nil {
		h.internalError(c, err)
		return
	}
	common.Success(c, http.StatusOK, count)
}

// GetResidents returns one page of the roster
// GET /mess/residents?hostel=&page=
func (h *Handler) GetResidents(c *gin.Context) {
	hostel, ok := h.hostel(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	total, err := h.repo.CountResidents(ctx, hostel)
	if err != nil {
		h.internalError(c, err)
		return
	}
	totalPages := int(math.Ceil(float64(total) / float64(h.itemsPerPage)))
	if totalPages < 1 {
		totalPages = 1
	}

	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil {
		page = 1
	}
	page = max(1, min(page, totalPages))

	residents, err := h.repo.ListResidents(ctx, hostel, h.itemsPerPage, (page-1)*h.itemsPerPage)
	if err != nil {
		h.internalError(c, err)
		return
	}
	common.Success(c, http.StatusOK, ResidentPage{
		Page:           page,
		TotalPages:     totalPages,
		TotalResidents: total,
		Residents:      residents,
	})
}

// GetReport returns days eaten per resident for a month
// GET /mess/report?hostel=&year=&month=
func (h *Handler) GetReport(c *gin.Context) {
	hostel, ok := h.hostel(c)
	if !ok {
		return
	}
	q, err := h.monthQuery(c)
	if err != nil {
		common.Fail(c, http.StatusBadRequest, err.Error())
		return
	}
	report, err := h.service.Report(c.Request.Context(), hostel, q)
	if err != nil {
		h.internalError(c, err)
		return
	}
	common.Success(c, http.StatusOK, report)
}

// ExportReport downloads the month report as CSV
// GET /mess/export?hostel=&year=&month=&detailed=
func (h *Handler) ExportReport(c *gin.Context) {
	hostel, ok := h.hostel(c)
	if !ok {
		return
	}
	q, err := h.monthQuery(c)
	if err != nil {
		common.Fail(c, http.StatusBadRequest, err.Error())
		return
	}
	info, err := q.Info()
	if err != nil {
		common.Fail(c, http.StatusBadRequest, err.Error())
		return
	}
	detailed, _ := strconv.ParseBool(c.DefaultQuery("detailed", "false"))

	var buf bytes.Buffer
	if err := h.service.Export(c.Request.Context(), &buf, hostel, q, detailed); err != nil {
		h.internalError(c, err)
		return
	}

	if h.metrics != nil {
		form := "summary"
		if detailed {
			form = "detailed"
		}
		h.metrics.CSVExports.WithLabelValues(form).Inc()
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", meals.ExportFileName(hostel, info)))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

// --- Kitchen display ---

// GetKitchenTomorrow returns tomorrow's head count of the token's hostel
// GET /kitchen/tomorrow
func (h *Handler) GetKitchenTomorrow(c *gin.Context) {
	token := auth.GetTokenFromContext(c)
	if token == nil {
		common.Fail(c, http.StatusUnauthorized, "missing token")
		return
	}
	h.tomorrowCount(c, token.HostelID)
}

// --- Superuser ---

// PutHostels replaces the hostel list
// PUT /mess/hostels
func (h *Handler) PutHostels(c *gin.Context) {
	var req HostelsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Fail(c, http.StatusBadRequest, "Invalid request")
		return
	}
	if err := h.repo.ReplaceHostels(c.Request.Context(), req.Hostels); err != nil {
		common.Fail(c, http.StatusBadRequest, err.Error())
		return
	}
	common.Success(c, http.StatusOK, req.Hostels)
}

// PostResident adds a resident on their behalf
// POST /mess/residents
func (h *Handler) PostResident(c *gin.Context) {
	h.addResident(c)
}

// DeleteResident removes a resident and their markings
// DELETE /mess/residents/:admission
func (h *Handler) DeleteResident(c *gin.Context) {
	deleted, err := h.repo.DeleteResident(c.Request.Context(), c.Param("admission"))
	if err != nil {
		h.internalError(c, err)
		return
	}
	if !deleted {
		common.Fail(c, http.StatusNotFound, "resident not found")
		return
	}
	common.Success(c, http.StatusOK, nil)
}

// ResetPassword sets a resident's password without the current one
// POST /mess/residents/:admission/password
func (h *Handler) ResetPassword(c *gin.Context) {
	var req PasswordResetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Fail(c, http.StatusBadRequest, "Invalid request")
		return
	}
	if rules := meals.ValidatePassword(req.Password); len(rules) > 0 {
		common.Fail(c, http.StatusBadRequest, meals.Messages(rules)...)
		return
	}
	h.setPassword(c, c.Param("admission"), req.Password)
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
