package models

import (
	"time"

	"github.com/centrex-inc/centrex/internal/shared/constants"
)

// DIDAssignmentModel represents the database persistence model for DID
// assignments. The unique index on PhoneNumberID enforces the 1:1
// number-to-assignment invariant at the storage level; its violation is
// mapped to did.ErrAlreadyAssigned by the repository.
type DIDAssignmentModel struct {
	ID            uint   `gorm:"primarykey"`
	PhoneNumberID uint   `gorm:"column:phone_number_id;not null;uniqueIndex:idx_did_assignment_phone_number_id"`
	TargetType    string `gorm:"column:target_type;not null;size:20"`
	TargetID      *uint  `gorm:"column:target_id"`
	TargetContext string `gorm:"column:target_context;size:100"`
	CreatedAt     time.Time
}

// TableName specifies the table name for GORM.
func (DIDAssignmentModel) TableName() string {
	return constants.TableDIDAssignments
}
