package utils

import (
	"fmt"

	"github.com/Lucifergene/bookswap-connect/internal/models"
)

func ExportData(logs []models.AuditLog) error {
	for _, log := range logs {
		//change with actual calls
		fmt.Println(log.Timestamp, log.Entity, log.Action, log.PerformedBy)
	}
	return nil
}
