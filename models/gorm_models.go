// models/gorm_models.go
package models

import (
	"gorm.io/gorm"
)

// GormSnapshot stores the full player mapping as one jsonb document. The
// snapshot is rewritten in full on every mutating event, so there is exactly
// one live row per snapshot name.
type GormSnapshot struct {
	gorm.Model
	Name    string                  `gorm:"uniqueIndex;not null"`
	Players map[string]PlayerRecord `gorm:"serializer:json;type:jsonb;not null"`
}
