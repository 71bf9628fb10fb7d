package notify

import (
	"log"

	"github.com/taskdesk/taskdesk-api/internal/models"
)

// Notifier announces task assignments to the assignee. Delivery is not
// implemented; the production deployment wires mail in at a higher level.
type Notifier interface {
	TaskAssigned(task *models.Task, assignee *models.User)
}

// LogNotifier is the stub implementation: it only records the event.
type LogNotifier struct{}

func NewLogNotifier() *LogNotifier {
	return &LogNotifier{}
}

func (n *LogNotifier) TaskAssigned(task *models.Task, assignee *models.User) {
	log.Printf("notify: task %d assigned to %s (delivery not implemented)", task.ID, assignee.Email)
}
