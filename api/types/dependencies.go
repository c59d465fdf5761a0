package types

import (
	"github.com/killallgit/corpus-api/internal/database"
	"github.com/killallgit/corpus-api/internal/services/records"
	"github.com/killallgit/corpus-api/pkg/config"
)

// Dependencies holds all the dependencies needed by handlers
type Dependencies struct {
	DB            *database.DB
	RecordService records.Service
	Config        *config.Config
}
