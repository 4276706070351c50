package servers

import (
	"time"

	"vpn-backend/internal/domain/servers"
)

type ServerDTO struct {
	ID        uint       `json:"id"`
	Name      string     `json:"name"`
	Host      string     `json:"host"`
	Port      int        `json:"port"`
	Country   *string    `json:"country"`
	IsActive  bool       `json:"is_active"`
	Notes     *string    `json:"notes"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"`
}

func toServerDTO(s *servers.Server) ServerDTO {
	return ServerDTO{
		ID:        s.ID,
		Name:      s.Name,
		Host:      s.Host,
		Port:      s.Port,
		Country:   s.Country,
		IsActive:  s.IsActive,
		Notes:     s.Notes,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
		DeletedAt: s.DeletedAt,
	}
}
