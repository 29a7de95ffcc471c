package api

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"os-scheduler/config"
	"os-scheduler/internal/logger"
	"os-scheduler/internal/requests"
	"os-scheduler/internal/schedulers"
)

type SchedulerHandler interface {
	FirstComeFirstServe(ctx *fiber.Ctx) error
	RoundRobin(ctx *fiber.Ctx) error
	ShortestJobFirst(ctx *fiber.Ctx) error
	AllAlgorithms(ctx *fiber.Ctx) error
}

type SchedulerHandlerImpl struct {
	config *config.SchedulerConfig
	log    *slog.Logger
}

func NewSchedulerHandlerImpl(config *config.SchedulerConfig, log *slog.Logger) *SchedulerHandlerImpl {
	if log == nil {
		log = slog.Default()
	}
	return &SchedulerHandlerImpl{config: config, log: log}
}

func (s *SchedulerHandlerImpl) FirstComeFirstServe(ctx *fiber.Ctx) error {
	return s.schedule(ctx, schedulers.FirstComeFirstServe)
}

func (s *SchedulerHandlerImpl) RoundRobin(ctx *fiber.Ctx) error {
	return s.schedule(ctx, schedulers.RoundRobin)
}

func (s *SchedulerHandlerImpl) ShortestJobFirst(ctx *fiber.Ctx) error {
	return s.schedule(ctx, schedulers.ShortestJobFirst)
}

func (s *SchedulerHandlerImpl) AllAlgorithms(ctx *fiber.Ctx) error {
	var request requests.ScheduleRequests
	if err := ctx.BodyParser(&request); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request format"})
	}
	response, err := schedulers.ScheduleAll(&request, s.quantum(&request), s.log)
	if err != nil {
		return s.fail(ctx, err)
	}
	return ctx.JSON(response)
}

func (s *SchedulerHandlerImpl) schedule(ctx *fiber.Ctx, policy schedulers.Policy) error {
	var request requests.ScheduleRequests
	if err := ctx.BodyParser(&request); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request format"})
	}
	cfg := schedulers.Config{Policy: policy, Logger: s.log}
	if policy == schedulers.RoundRobin {
		cfg.RoundRobin.Quantum = s.quantum(&request)
	}
	response, err := schedulers.Schedule(&request, cfg)
	if err != nil {
		return s.fail(ctx, err)
	}
	return ctx.JSON(response)
}

// quantum falls back to the configured quantum when the request omits it.
func (s *SchedulerHandlerImpl) quantum(request *requests.ScheduleRequests) int {
	if request.Quantum != 0 {
		return request.Quantum
	}
	return s.config.RoundRobinTimeQuantum
}

func (s *SchedulerHandlerImpl) fail(ctx *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	if errors.Is(err, schedulers.ErrInvalidQuantum) || errors.Is(err, requests.ErrInvalidJob) {
		status = fiber.StatusBadRequest
	}
	s.log.Warn("schedule request failed", slog.Int("status", status), logger.ErrAttr(err))
	return ctx.Status(status).JSON(fiber.Map{"error": err.Error()})
}
