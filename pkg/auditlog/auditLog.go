package auditlog

import (
	"log"

	auditlogrepo "github.com/lance0/RubyRidge/internal/auditlog"
	"github.com/lance0/RubyRidge/pkg/models"
)

type Auditlog struct {
	r *auditlogrepo.AuditLogRepository
}

// Auditable is implemented by every model the audit trail can describe.
type Auditable interface {
	CreateLogView() models.AuditLog
}

// Sink is what handlers log through.
type Sink interface {
	Log(action string, data interface{}, item Auditable)
}

func NewAuditLog(repository *auditlogrepo.AuditLogRepository) *Auditlog {
	return &Auditlog{r: repository}
}

// Log persists one audit entry. Callers run it in a goroutine; a failed
// entry is logged and dropped, never failing the mutation it describes.
func (a *Auditlog) Log(action string, data interface{}, item Auditable) {
	auditLog := item.CreateLogView()
	auditLog.Action = action

	if err := a.r.PersistLog(auditLog, data); err != nil {
		log.Println("Unable to create AuditLog entry for id ", auditLog.ResourceID)
		return
	}
}
