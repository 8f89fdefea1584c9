package deal

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

var (
	ErrNotFound     = errors.New("deal not found")
	ErrUnknownAgent = errors.New("unknown agent")
	ErrUnknownBrand = errors.New("unknown brand")
)

const (
	defaultLimit = 50
	maxLimit     = 200
)

// StageRequest is the body of PATCH /deals/{id}/stage.
type StageRequest struct {
	Stage string `json:"stage" validate:"required,oneof='Initial Outreach' 'Negotiation' 'Terms Agreed Upon' 'Closed Won'"`
}

// Filter narrows GET /deals. VisibleTo, when set, restricts the result to
// deals the agent owns or participates in.
type Filter struct {
	Stage     string
	Division  string
	OwnerID   uint
	Query     string
	VisibleTo uint
	Limit     int
	Offset    int
}

// Apply adds the filter's conditions, ordering and paging to db.
func (f Filter) Apply(db *gorm.DB) *gorm.DB {
	if f.Stage != "" {
		db = db.Where("stage = ?", f.Stage)
	}
	if f.Division != "" {
		db = db.Where("division = ?", f.Division)
	}
	if f.OwnerID != 0 {
		db = db.Where("owner_id = ?", f.OwnerID)
	}
	if q := strings.TrimSpace(f.Query); q != "" {
		like := "%" + q + "%"
		db = db.Where("(name ILIKE ? OR description ILIKE ?)", like, like)
	}
	if f.VisibleTo != 0 {
		members := db.Session(&gorm.Session{NewDB: true}).
			Table("deal_agents").
			Select("deal_id").
			Where("agent_id = ?", f.VisibleTo)
		db = db.Where("(owner_id = ? OR id IN (?))", f.VisibleTo, members)
	}

	limit := f.Limit
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	db = db.Order("created_at DESC").Limit(limit)
	if f.Offset > 0 {
		db = db.Offset(f.Offset)
	}
	return db
}
