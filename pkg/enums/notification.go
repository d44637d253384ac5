package enums

// NotificationType categorizes back-office notifications.
type NotificationType string

const (
	NotificationTypeOrder  NotificationType = "order"
	NotificationTypeSystem NotificationType = "system"
)

func (t NotificationType) IsValid() bool {
	switch t {
	case NotificationTypeOrder, NotificationTypeSystem:
		return true
	}
	return false
}
