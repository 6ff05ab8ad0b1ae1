package models

// NotificationInfo bundles what a notification needs to render; it is never stored
type NotificationInfo struct {
	Patient  *Patient
	Decision *Decision
	Consumer *Consumer
}
