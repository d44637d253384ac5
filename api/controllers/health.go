package controllers

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/multierr"

	"github.com/tigraytip/storefront-backend/api/responses"
	pkgerrors "github.com/tigraytip/storefront-backend/pkg/errors"
	"github.com/tigraytip/storefront-backend/pkg/logger"
)

type pinger interface {
	Ping(ctx context.Context) error
}

// HealthController reports readiness of the platform dependencies.
type HealthController struct {
	db     pinger
	redis  pinger
	pubsub pinger
	logg   *logger.Logger
}

// NewHealthController wires the dependency pingers.
func NewHealthController(db, redis, pubsub pinger, logg *logger.Logger) *HealthController {
	return &HealthController{db: db, redis: redis, pubsub: pubsub, logg: logg}
}

// Live reports the process is up.
func (c *HealthController) Live(w http.ResponseWriter, r *http.Request) {
	responses.WriteSuccess(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Ready checks every dependency and reports the combined result.
func (c *HealthController) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var err error
	status := map[string]string{}
	for name, dep := range map[string]pinger{
		"database": c.db,
		"redis":    c.redis,
		"pubsub":   c.pubsub,
	} {
		if dep == nil {
			status[name] = "skipped"
			continue
		}
		if pingErr := dep.Ping(ctx); pingErr != nil {
			status[name] = "down"
			err = multierr.Append(err, pingErr)
			continue
		}
		status[name] = "ok"
	}

	if err != nil {
		responses.WriteError(r.Context(), w, c.logg,
			pkgerrors.Wrap(pkgerrors.CodeDependency, err, "dependency check failed").WithDetails(status))
		return
	}
	responses.WriteSuccess(w, http.StatusOK, status)
}
