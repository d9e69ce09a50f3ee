package handlers

import (
	"runtime"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/spec-kit/gallery-service/internal/api/dto"
	"github.com/spec-kit/gallery-service/internal/observability"
	"github.com/spec-kit/gallery-service/internal/service"
)

// AdminHandler serves the dashboard aggregates and the system-status view.
type AdminHandler struct {
	users     *service.UserService
	catalog   *service.CatalogService
	inquiries *service.InquiryService
	metrics   *observability.Metrics
	startedAt time.Time
}

// NewAdminHandler constructs handler.
func NewAdminHandler(users *service.UserService, catalog *service.CatalogService, inquiries *service.InquiryService, metrics *observability.Metrics) *AdminHandler {
	return &AdminHandler{
		users:     users,
		catalog:   catalog,
		inquiries: inquiries,
		metrics:   metrics,
		startedAt: time.Now(),
	}
}

// Dashboard handles GET /admin/dashboard.
func (h *AdminHandler) Dashboard(c *fiber.Ctx) error {
	stats, err := h.users.Stats(c.Context())
	if err != nil {
		return err
	}
	productCount, err := h.catalog.Count(c.Context())
	if err != nil {
		return err
	}
	inquiryTotal, inquiryPending, err := h.inquiries.Counts(c.Context())
	if err != nil {
		return err
	}

	return c.JSON(dto.OK(fiber.Map{
		"users":             stats,
		"total_products":    productCount,
		"total_inquiries":   inquiryTotal,
		"pending_inquiries": inquiryPending,
	}))
}

// System handles GET /admin/system. Host metrics are best-effort; a probe
// failure leaves its field absent rather than failing the request.
func (h *AdminHandler) System(c *fiber.Ctx) error {
	system := fiber.Map{
		"goroutines":     runtime.NumGoroutine(),
		"uptime_seconds": int64(time.Since(h.startedAt).Seconds()),
	}

	if cpuPercent, err := cpu.Percent(0, false); err == nil && len(cpuPercent) > 0 {
		system["cpu_percent"] = cpuPercent[0]
	}
	if memInfo, err := mem.VirtualMemory(); err == nil {
		system["memory_percent"] = memInfo.UsedPercent
		system["memory_used_bytes"] = memInfo.Used
	}
	if hostUptime, err := host.Uptime(); err == nil {
		system["host_uptime_seconds"] = hostUptime
	}

	return c.JSON(dto.OK(system))
}

// Metrics handles GET /admin/metrics with the in-memory request and
// error counters.
func (h *AdminHandler) Metrics(c *fiber.Ctx) error {
	requests, errors := h.metrics.Snapshot()
	return c.JSON(dto.OK(fiber.Map{
		"requests": requests,
		"errors":   errors,
	}))
}
