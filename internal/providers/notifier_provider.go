package providers

import (
	"github.com/gen2brain/beeep"

	"pad/internal/structures"
)

type NotifierInterface interface {
	Notify(title, message string)
}

// DesktopNotifier raises an OS notification for operator-facing events
// such as a VIP coming online.
type DesktopNotifier struct {
	logger Logger
}

func NewNotifierProvider(conf *structures.Config, logger Logger) NotifierInterface {
	if !conf.Notifier.Enabled {
		logger.Infof(TypeApp, "Notifications disabled")
		return &noopNotifier{}
	}
	beeep.AppName = conf.AppName
	return &DesktopNotifier{logger: logger}
}

func (d *DesktopNotifier) Notify(title, message string) {
	if err := beeep.Notify(title, message, ""); err != nil {
		d.logger.Warnf(TypeApp, "Notification failed: %s", err)
	}
}

type noopNotifier struct{}

func (n *noopNotifier) Notify(_, _ string) {}
