package servers

import (
	"errors"
	"time"

	"vpn-backend/internal/domain/limits"

	"gorm.io/gorm"
)

var ErrNotFound = errors.New("server not found")

func enforceMaxServers(db *gorm.DB, ownerID uint) error {
	plan, err := limits.ActivePlanForUser(db, ownerID)
	if err != nil {
		return err
	}

	// limit <= 0 means unlimited
	if plan.MaxServers <= 0 {
		return nil
	}

	var used int64
	if err := db.Model(&Server{}).
		Where("owner_id = ? AND deleted_at IS NULL", ownerID).
		Count(&used).Error; err != nil {
		return err
	}

	if int(used) >= plan.MaxServers {
		return &limits.LimitExceededError{
			Resource: "servers",
			Limit:    plan.MaxServers,
			Current:  int(used),
		}
	}
	return nil
}

// ---------- user scope ----------

func ListOwnedLive(db *gorm.DB, ownerID uint) ([]Server, error) {
	var out []Server
	err := db.Where("owner_id = ? AND deleted_at IS NULL", ownerID).
		Order("id DESC").
		Find(&out).Error
	return out, err
}

func GetOwnedLive(db *gorm.DB, serverID, ownerID uint) (*Server, error) {
	var srv Server
	err := db.Where("id = ? AND owner_id = ? AND deleted_at IS NULL", serverID, ownerID).
		First(&srv).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &srv, nil
}

// CreateOwned checks the quota, then inserts. A concurrent duplicate
// (owner, host, port) loses at commit with gorm.ErrDuplicatedKey, which
// the HTTP boundary turns into a 409.
func CreateOwned(db *gorm.DB, srv *Server, ownerID, actorID uint) error {
	if err := enforceMaxServers(db, ownerID); err != nil {
		return err
	}

	srv.OwnerID = ownerID
	srv.CreatedBy = &actorID
	srv.UpdatedBy = &actorID
	return db.Create(srv).Error
}

// UpdateParams carries only the fields present in the PATCH body.
type UpdateParams struct {
	Name     *string `json:"name"`
	Host     *string `json:"host"`
	Port     *int    `json:"port"`
	Country  *string `json:"country"`
	IsActive *bool   `json:"is_active"`
	Notes    *string `json:"notes"`
}

func UpdateOwned(db *gorm.DB, srv *Server, p UpdateParams, actorID uint) error {
	if p.Name != nil {
		srv.Name = *p.Name
	}
	if p.Host != nil {
		srv.Host = *p.Host
	}
	if p.Port != nil {
		srv.Port = *p.Port
	}
	if p.Country != nil {
		srv.Country = p.Country
	}
	if p.IsActive != nil {
		srv.IsActive = *p.IsActive
	}
	if p.Notes != nil {
		srv.Notes = p.Notes
	}
	srv.UpdatedBy = &actorID

	return db.Save(srv).Error
}

func SoftDeleteOwned(db *gorm.DB, srv *Server, actorID uint) error {
	now := time.Now().UTC()
	srv.DeletedAt = &now
	srv.DeletedBy = &actorID
	srv.UpdatedBy = &actorID
	return db.Save(srv).Error
}

// ---------- admin scope ----------

func ListAllAdmin(db *gorm.DB) ([]Server, error) {
	var out []Server
	err := db.Order("id DESC").Find(&out).Error
	return out, err
}

func GetAny(db *gorm.DB, serverID uint) (*Server, error) {
	var srv Server
	err := db.First(&srv, serverID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &srv, nil
}

func AdminSoftDelete(db *gorm.DB, serverID, actorID uint) (*Server, error) {
	srv, err := GetAny(db, serverID)
	if err != nil {
		return nil, err
	}
	if srv.DeletedAt != nil {
		return srv, nil
	}

	now := time.Now().UTC()
	srv.DeletedAt = &now
	srv.DeletedBy = &actorID
	srv.UpdatedBy = &actorID

	if err := db.Save(srv).Error; err != nil {
		return nil, err
	}
	return srv, nil
}

// AdminRestore undoes a soft delete. The partial unique index re-applies:
// restoring collides with a live duplicate endpoint and surfaces as a 409.
func AdminRestore(db *gorm.DB, serverID, actorID uint) (*Server, error) {
	srv, err := GetAny(db, serverID)
	if err != nil {
		return nil, err
	}
	if srv.DeletedAt == nil {
		return srv, nil
	}

	srv.DeletedAt = nil
	srv.RestoredBy = &actorID
	srv.UpdatedBy = &actorID

	if err := db.Save(srv).Error; err != nil {
		return nil, err
	}
	return srv, nil
}
