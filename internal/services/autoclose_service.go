package services

import (
	"time"

	"github.com/feriahub/feria-backend/internal/models"
	"gorm.io/gorm"
)

// AutoCloseService resolves incidences that stopped receiving reports. The
// whole sweep is one conditional UPDATE: nothing is loaded into memory and
// UNDER_REVIEW/APPEALED cases are never touched, those need a human decision.
type AutoCloseService struct {
	db *gorm.DB
}

func NewAutoCloseService(db *gorm.DB) *AutoCloseService {
	return &AutoCloseService{db: db}
}

// Run closes every OPEN incidence whose last report is older than the
// inactivity window and returns the number of rows affected. Running it again
// immediately affects zero rows.
func (s *AutoCloseService) Run(inactivity time.Duration) (int64, error) {
	cutoff := time.Now().UTC().Add(-inactivity)
	result := s.db.Model(&models.Incidence{}).
		Where("status = ? AND last_report_at < ?", models.IncidenceOpen, cutoff).
		Updates(map[string]interface{}{
			"status":      models.IncidenceResolved,
			"auto_closed": true,
		})
	return result.RowsAffected, result.Error
}
