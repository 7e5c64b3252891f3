package handler

import (
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/insighted-labs/presence/internal/schedule"
	"github.com/insighted-labs/presence/internal/service"
)

// GateStatusSource exposes the verification pipeline's current state.
type GateStatusSource interface {
	Status() service.Status
}

// StatusHandler serves pipeline diagnostics for the on-device console.
type StatusHandler struct {
	gate   GateStatusSource
	logger *slog.Logger
	now    func() time.Time
}

func NewStatusHandler(gate GateStatusSource, logger *slog.Logger) *StatusHandler {
	return &StatusHandler{gate: gate, logger: logger, now: time.Now}
}

type StatusResponse struct {
	State         string  `json:"state"`
	Decision      string  `json:"decision"`
	StatusText    string  `json:"status_text"`
	LastDistance  float64 `json:"last_distance"`
	HasSession    bool    `json:"has_session"`
	CurrentPeriod int     `json:"current_period,omitempty"`
}

// Status GET /v1/status - pipeline state snapshot
func (h *StatusHandler) Status(c *fiber.Ctx) error {
	s := h.gate.Status()

	resp := StatusResponse{
		State:        s.State.String(),
		Decision:     s.Decision.String(),
		StatusText:   s.StatusText,
		LastDistance: s.LastDistance,
		HasSession:   s.HasSession,
	}
	if period, ok := schedule.CurrentPeriod(h.now()); ok {
		resp.CurrentPeriod = period
	}

	return c.JSON(resp)
}

type PeriodResponse struct {
	Number int    `json:"number"`
	Start  string `json:"start"`
	End    string `json:"end"`
}

type ScheduleResponse struct {
	Periods []PeriodResponse `json:"periods"`
	Current int              `json:"current,omitempty"`
}

// Schedule GET /v1/schedule - the fixed period timetable
func (h *StatusHandler) Schedule(c *fiber.Ctx) error {
	resp := ScheduleResponse{}
	for _, p := range schedule.Timetable {
		resp.Periods = append(resp.Periods, PeriodResponse{
			Number: p.Number,
			Start:  p.Start,
			End:    p.End,
		})
	}
	if period, ok := schedule.CurrentPeriod(h.now()); ok {
		resp.Current = period
	}

	return c.JSON(resp)
}
