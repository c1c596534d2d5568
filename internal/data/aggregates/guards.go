package aggregates

import (
	"strings"

	"github.com/google/uuid"
	"github.com/yungbote/coursehub-backend/internal/platform/dbctx"
	"gorm.io/gorm"
)

// CASGuard runs compare-and-set updates for rows that may only move forward once,
// such as a request being decided.
type CASGuard struct {
	db *gorm.DB
}

func NewCASGuard(db *gorm.DB) CASGuard {
	return CASGuard{db: db}
}

// Transition applies Set to the row with ID only while Column still holds one of From.
type Transition struct {
	Table  string
	ID     uuid.UUID
	Column string
	From   []any
	Set    map[string]any
	// Stale is the conflict message when another writer moved the row first.
	Stale string
}

func (t Transition) validate() error {
	switch {
	case strings.TrimSpace(t.Table) == "" || strings.TrimSpace(t.Column) == "":
		return ValidationError("transition needs table and column")
	case t.ID == uuid.Nil:
		return ValidationError("transition needs a row id")
	case len(t.From) == 0 || len(t.Set) == 0:
		return ValidationError("transition needs from values and updates")
	}
	return nil
}

// Apply returns a conflict error when no row matched.
func (g CASGuard) Apply(dbc dbctx.Context, t Transition) error {
	if err := t.validate(); err != nil {
		return err
	}
	if dbc.Tx == nil && g.db == nil {
		return ValidationError("transition outside any db handle")
	}
	res := dbc.DB(g.db).
		Table(t.Table).
		Where("id = ?", t.ID).
		Where(t.Column+" IN ?", t.From).
		Updates(t.Set)
	if res.Error != nil {
		return res.Error
	}
	return expectAffected(res.RowsAffected > 0, t.Stale)
}

// expectAffected turns a write that matched nothing into a conflict.
func expectAffected(ok bool, stale string) error {
	if ok {
		return nil
	}
	if stale = strings.TrimSpace(stale); stale == "" {
		stale = "row changed concurrently"
	}
	return ConflictError(stale)
}
