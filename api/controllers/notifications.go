package controllers

import (
	"net/http"

	"github.com/tigraytip/storefront-backend/api/responses"
	"github.com/tigraytip/storefront-backend/internal/notifications"
	"github.com/tigraytip/storefront-backend/pkg/logger"
	"github.com/tigraytip/storefront-backend/pkg/pagination"
)

// NotificationsController serves the back-office notification inbox.
type NotificationsController struct {
	svc  notifications.Service
	logg *logger.Logger
}

// NewNotificationsController wires the notifications service.
func NewNotificationsController(svc notifications.Service, logg *logger.Logger) *NotificationsController {
	return &NotificationsController{svc: svc, logg: logg}
}

// List returns notifications newest-first with the unread count.
func (c *NotificationsController) List(w http.ResponseWriter, r *http.Request) {
	page, err := c.svc.List(r.Context(), pagination.Params{
		Cursor: queryCursor(r),
		Limit:  queryLimit(r),
	})
	if err != nil {
		responses.WriteError(r.Context(), w, c.logg, err)
		return
	}
	responses.WriteSuccess(w, http.StatusOK, page)
}

// MarkRead stamps one notification as read.
func (c *NotificationsController) MarkRead(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "notificationID")
	if err != nil {
		responses.WriteError(r.Context(), w, c.logg, err)
		return
	}
	if err := c.svc.MarkRead(r.Context(), id); err != nil {
		responses.WriteError(r.Context(), w, c.logg, err)
		return
	}
	responses.WriteSuccess(w, http.StatusOK, map[string]string{"status": "read"})
}

// MarkAllRead stamps every unread notification.
func (c *NotificationsController) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	if err := c.svc.MarkAllRead(r.Context()); err != nil {
		responses.WriteError(r.Context(), w, c.logg, err)
		return
	}
	responses.WriteSuccess(w, http.StatusOK, map[string]string{"status": "all read"})
}
