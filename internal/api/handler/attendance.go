package handler

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/insighted-labs/presence/internal/domain"
)

// AttendanceService interface for attendance queries
type AttendanceService interface {
	GetDay(ctx context.Context, userID uuid.UUID, day time.Time) (*domain.AttendanceDay, error)
	Summary(ctx context.Context, userID uuid.UUID, from, to time.Time) (domain.AttendanceSummary, error)
}

// StudentService interface for student lookups
type StudentService interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Student, error)
}

// AttendanceHandler handles attendance and student-profile requests
type AttendanceHandler struct {
	attendance AttendanceService
	students   StudentService
	logger     *slog.Logger
}

func NewAttendanceHandler(attendance AttendanceService, students StudentService, logger *slog.Logger) *AttendanceHandler {
	return &AttendanceHandler{
		attendance: attendance,
		students:   students,
		logger:     logger,
	}
}

// DayResponse response for the per-day attendance endpoint
type DayResponse struct {
	UserID  string   `json:"user_id"`
	Day     string   `json:"day"`
	Periods []string `json:"periods"`
}

// SummaryResponse response for the attendance summary endpoint
type SummaryResponse struct {
	Present    int     `json:"present"`
	Total      int     `json:"total"`
	Percentage float64 `json:"percentage"`
}

// GetDay GET /v1/attendance/:user_id/:day - per-period presence for one date
func (h *AttendanceHandler) GetDay(c *fiber.Ctx) error {
	userID, err := uuid.Parse(c.Params("user_id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid user id")
	}

	day, err := time.Parse("2006-01-02", c.Params("day"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid day, expected YYYY-MM-DD")
	}

	record, err := h.attendance.GetDay(c.Context(), userID, day)
	if err != nil {
		return err
	}

	return c.JSON(DayResponse{
		UserID:  record.UserID.String(),
		Day:     record.Day.Format("2006-01-02"),
		Periods: record.Periods[:],
	})
}

// GetSummary GET /v1/attendance/:user_id/summary?from=...&to=... - range aggregate
func (h *AttendanceHandler) GetSummary(c *fiber.Ctx) error {
	userID, err := uuid.Parse(c.Params("user_id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid user id")
	}

	from, err := time.Parse("2006-01-02", c.Query("from"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid from date, expected YYYY-MM-DD")
	}
	to, err := time.Parse("2006-01-02", c.Query("to"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid to date, expected YYYY-MM-DD")
	}
	if to.Before(from) {
		return fiber.NewError(fiber.StatusBadRequest, "to precedes from")
	}

	summary, err := h.attendance.Summary(c.Context(), userID, from, to)
	if err != nil {
		return err
	}

	return c.JSON(SummaryResponse{
		Present:    summary.Present,
		Total:      summary.Total,
		Percentage: summary.Percentage(),
	})
}

// GetStudent GET /v1/students/:id - dashboard profile record
func (h *AttendanceHandler) GetStudent(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid student id")
	}

	student, err := h.students.GetByID(c.Context(), id)
	if err != nil {
		var appErr *domain.AppError
		if !errors.As(err, &appErr) {
			h.logger.Error("student lookup failed", slog.Any("error", err))
		}
		return err
	}

	return c.JSON(student)
}
