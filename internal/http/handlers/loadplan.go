package handlers

import (
	"context"
	_ "embed"
	"net/url"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"

	"loadplan/internal/access"
	"loadplan/internal/domain"
	"loadplan/internal/http/middleware"
	log "loadplan/internal/infra/logging"
	"loadplan/internal/infra/stats"
)

//go:embed form.html
var formHTML []byte

// Renderer turns a validated request into a PDF.
type Renderer interface {
	Render(req domain.DocumentRequest) (*domain.RenderedDocument, error)
}

// LoadPlanService serves the form and generates loading plans.
type LoadPlanService struct {
	Renderer Renderer
	Gate     *access.Gate
	Stats    *stats.Counter
	Now      func() time.Time
}

func NewLoadPlanService(r Renderer, gate *access.Gate, counter *stats.Counter) *LoadPlanService {
	return &LoadPlanService{Renderer: r, Gate: gate, Stats: counter, Now: time.Now}
}

// HandleForm serves the input form.
func (svc *LoadPlanService) HandleForm(c *fiber.Ctx) error {
	c.Type("html", "utf-8")
	return c.Send(formHTML)
}

// HandleGenerate checks access, validates the form, renders the plan and
// returns it as a PDF attachment.
func (svc *LoadPlanService) HandleGenerate(c *fiber.Ctx) error {
	if err := svc.Gate.Authorize(c.FormValue("password"), middleware.HasAPIKey(c)); err != nil {
		log.Warn("Access denied", "path", c.Path(), "ip", c.IP())
		return fiber.NewError(fiber.StatusForbidden, "Access denied")
	}

	req := extractRequest(c)
	if err := req.Validate(); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	doc, err := svc.Renderer.Render(req)
	if err != nil {
		log.Error("PDF generation failed", "error", err, "request_id", c.GetRespHeader(fiber.HeaderXRequestID))
		return fiber.NewError(fiber.StatusInternalServerError, "PDF generation failed")
	}

	if svc.Stats != nil {
		ctx, cancel := context.WithTimeout(c.Context(), time.Second)
		if err := svc.Stats.Incr(ctx, svc.Now()); err != nil {
			log.Warn("Stats update failed", "error", err)
		}
		cancel()
	}

	log.Info("Loading plan generated", "filename", doc.FileName, "bytes", len(doc.Data),
		"request_id", c.GetRespHeader(fiber.HeaderXRequestID))

	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, contentDisposition(doc.FileName))
	return c.Send(doc.Data)
}

// HandleStats reports how many plans were issued today.
func (svc *LoadPlanService) HandleStats(c *fiber.Ctx) error {
	now := svc.Now()
	if svc.Stats == nil {
		return c.JSON(fiber.Map{"enabled": false, "date": now.Format("2006-01-02"), "issued": 0})
	}
	ctx, cancel := context.WithTimeout(c.Context(), time.Second)
	defer cancel()
	n, err := svc.Stats.Count(ctx, now)
	if err != nil {
		log.Warn("Stats read failed", "error", err)
		return fiber.NewError(fiber.StatusServiceUnavailable, "Stats unavailable")
	}
	return c.JSON(fiber.Map{"enabled": true, "date": now.Format("2006-01-02"), "issued": n})
}

// extractRequest reads the form, accepting the older order_no and datetime
// field names. Values are copied out of the fasthttp request buffer.
func extractRequest(c *fiber.Ctx) domain.DocumentRequest {
	return domain.DocumentRequest{
		CustomerName: formValue(c, "customer_name"),
		QueueNo:      formValue(c, "queue_no", "order_no"),
		ProductType:  formValue(c, "product_type"),
		LoadDate:     formValue(c, "load_date", "datetime"),
		TimeSlot:     formValue(c, "time_slot"),
	}
}

func formValue(c *fiber.Ctx, keys ...string) string {
	for _, k := range keys {
		if v := c.FormValue(k); v != "" {
			return utils.CopyString(v)
		}
	}
	return ""
}

// contentDisposition offers an ASCII fallback name and the exact UTF-8 name.
func contentDisposition(name string) string {
	return `attachment; filename="` + domain.ASCIIName(name) + `"; filename*=UTF-8''` + url.PathEscape(name)
}
