package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/liuwy-dev/tuimian-go-api/internal/config"
	"github.com/liuwy-dev/tuimian-go-api/internal/utils"
)

// HealthResponse is the payload of the health endpoint. ProgramCutoff is
// surfaced so operators can verify which submission window a deployment
// enforces without reading its environment.
type HealthResponse struct {
	Status        string    `json:"status"`
	Timestamp     time.Time `json:"timestamp"`
	Service       string    `json:"service"`
	Environment   string    `json:"environment"`
	ProgramCutoff time.Time `json:"program_cutoff"`
}

// HealthCheck returns a handler that reports application health information.
func HealthCheck(cfg config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		payload := HealthResponse{
			Status:        "ok",
			Timestamp:     time.Now().UTC(),
			Service:       cfg.AppName,
			Environment:   cfg.AppEnv,
			ProgramCutoff: cfg.ProgramCutoff,
		}

		return utils.SendSuccess(c, "service healthy", payload)
	}
}
