package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// MeetingStatus represents the current status of a meeting
type MeetingStatus string

const (
	MeetingStatusPending MeetingStatus = "pending"
	MeetingStatusActive  MeetingStatus = "active"
	MeetingStatusEnded   MeetingStatus = "ended"
)

// ProductContext describes the product being pitched in the meeting
type ProductContext struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// CompanyContext describes the prospect company the personas represent
type CompanyContext struct {
	URL      string `json:"url,omitempty"`
	Industry string `json:"industry,omitempty"`
	Size     string `json:"size,omitempty"`
	Revenue  string `json:"revenue,omitempty"`
}

// Meeting is a simulated sales meeting owning a roster of personas
type Meeting struct {
	ID        uuid.UUID      `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Title     string         `gorm:"type:varchar(255);not null" json:"title"`
	Status    MeetingStatus  `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	Goal      string         `gorm:"type:text" json:"goal,omitempty"`
	Product   ProductContext `gorm:"type:jsonb;serializer:json" json:"product"`
	Company   CompanyContext `gorm:"type:jsonb;serializer:json" json:"company"`
	Metadata  datatypes.JSON `gorm:"type:jsonb;default:'{}'" json:"metadata,omitempty"`
	Personas  []Persona      `gorm:"foreignKey:MeetingID" json:"personas,omitempty"`
	StartedAt *time.Time     `json:"started_at,omitempty"`
	EndedAt   *time.Time     `json:"ended_at,omitempty"`
	CreatedAt time.Time      `gorm:"default:now()" json:"created_at"`
	UpdatedAt time.Time      `gorm:"default:now()" json:"updated_at"`
}

// TableName specifies the table name for Meeting
func (Meeting) TableName() string {
	return "meetings"
}

// NewMeeting creates a pending meeting
func NewMeeting(title string) *Meeting {
	return &Meeting{
		ID:        uuid.New(),
		Title:     title,
		Status:    MeetingStatusPending,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
}

// IsActive checks if the meeting is currently active
func (m *Meeting) IsActive() bool {
	return m.Status == MeetingStatusActive
}

// Start marks the meeting as active
func (m *Meeting) Start() {
	now := time.Now()
	m.Status = MeetingStatusActive
	m.StartedAt = &now
}

// End marks the meeting as ended
func (m *Meeting) End() {
	now := time.Now()
	m.Status = MeetingStatusEnded
	m.EndedAt = &now
}
