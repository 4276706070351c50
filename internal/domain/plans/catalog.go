package plans

import (
	"errors"

	"gorm.io/gorm"
)

// ListActive is the public catalog: cheapest first.
func ListActive(db *gorm.DB) ([]Plan, error) {
	var out []Plan
	err := db.Where("is_active = ?", true).
		Order("price_cents ASC, id ASC").
		Find(&out).Error
	return out, err
}

func ListAll(db *gorm.DB) ([]Plan, error) {
	var out []Plan
	err := db.Order("id ASC").Find(&out).Error
	return out, err
}

func GetByID(db *gorm.DB, planID uint) (*Plan, error) {
	var plan Plan
	if err := db.First(&plan, planID).Error; err != nil {
		return nil, err
	}
	return &plan, nil
}

// ActiveByCode resolves a plan for binding to a subscription.
func ActiveByCode(db *gorm.DB, code string) (*Plan, error) {
	var plan Plan
	err := db.Where("code = ?", code).First(&plan).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &NotFoundError{PlanCode: code}
	}
	if err != nil {
		return nil, err
	}
	if !plan.IsActive {
		return nil, &InactiveError{PlanCode: code}
	}
	return &plan, nil
}

func Create(db *gorm.DB, plan *Plan) error {
	// duplicate code surfaces as gorm.ErrDuplicatedKey
	return db.Create(plan).Error
}

// UpdateParams carries only the fields present in the PATCH body.
type UpdateParams struct {
	Code       *string `json:"code"`
	Name       *string `json:"name"`
	PriceCents *int    `json:"price_cents"`
	Currency   *string `json:"currency"`
	MaxServers *int    `json:"max_servers"`
	MaxDevices *int    `json:"max_devices"`
}

func Update(db *gorm.DB, plan *Plan, p UpdateParams) error {
	// code is a stable identifier, never rewritten
	if p.Code != nil && *p.Code != plan.Code {
		return &CodeImmutableError{Current: plan.Code, Requested: *p.Code}
	}

	if p.Name != nil {
		plan.Name = *p.Name
	}
	if p.PriceCents != nil {
		plan.PriceCents = *p.PriceCents
	}
	if p.Currency != nil {
		plan.Currency = *p.Currency
	}
	if p.MaxServers != nil {
		plan.MaxServers = *p.MaxServers
	}
	if p.MaxDevices != nil {
		plan.MaxDevices = *p.MaxDevices
	}

	return db.Save(plan).Error
}

func Activate(db *gorm.DB, plan *Plan) error {
	if plan.IsActive {
		return nil
	}
	plan.IsActive = true
	return db.Save(plan).Error
}

func Deactivate(db *gorm.DB, plan *Plan) error {
	if IsSystemCode(plan.Code) {
		return &SystemPlanProtectedError{PlanCode: plan.Code}
	}
	if !plan.IsActive {
		return nil
	}
	plan.IsActive = false
	return db.Save(plan).Error
}
