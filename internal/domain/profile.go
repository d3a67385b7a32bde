package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Role discriminates the two profile variants. Every site that branches on
// role must handle both cases explicitly.
type Role string

const (
	RoleStudent Role = "student"
	RoleMentor  Role = "mentor"
)

func (r Role) Valid() bool {
	return r == RoleStudent || r == RoleMentor
}

// Opposite returns the role a profile is matched against.
func (r Role) Opposite() Role {
	if r == RoleStudent {
		return RoleMentor
	}
	return RoleStudent
}

type StudentProfile struct {
	ID             uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Name           string         `gorm:"not null;column:name" json:"name"`
	Major          string         `gorm:"column:major" json:"major"`
	Skills         datatypes.JSON `gorm:"column:skills" json:"skills"`
	Goals          string         `gorm:"column:goals" json:"goals"`
	Bio            string         `gorm:"column:bio" json:"bio"`
	Availability   string         `gorm:"column:availability" json:"availability"`
	InMatchingPool bool           `gorm:"not null;default:false;column:in_matching_pool" json:"in_matching_pool"`

	CreatedAt time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (StudentProfile) TableName() string { return "student_profile" }

type MentorProfile struct {
	ID             uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Name           string         `gorm:"not null;column:name" json:"name"`
	Industry       string         `gorm:"column:industry" json:"industry"`
	Expertise      datatypes.JSON `gorm:"column:expertise" json:"expertise"`
	Bio            string         `gorm:"column:bio" json:"bio"`
	Availability   string         `gorm:"column:availability" json:"availability"`
	InMatchingPool bool           `gorm:"not null;default:false;column:in_matching_pool" json:"in_matching_pool"`

	// Capacity invariant: 0 <= current_mentees <= max_mentees. The counter is
	// only ever moved through capacity-guarded UPDATEs, never cached in process.
	MaxMentees     int `gorm:"not null;default:3;column:max_mentees" json:"max_mentees"`
	CurrentMentees int `gorm:"not null;default:0;column:current_mentees" json:"current_mentees"`

	CreatedAt time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (MentorProfile) TableName() string { return "mentor_profile" }

// DimensionScore is one entry of a candidate's reasoning breakdown.
type DimensionScore struct {
	Score  float64 `json:"score"`
	Reason string  `json:"reason"`
}

// CandidateScore is a scorer result. Transient: persisted only as part of
// the batch slot it ends up in.
type CandidateScore struct {
	CandidateID uuid.UUID                 `json:"candidate_id"`
	Aggregate   float64                   `json:"aggregate"`
	Dimensions  map[string]DimensionScore `json:"dimensions"`
}

const (
	DimensionSkills       = "skills"
	DimensionDomain       = "domain"
	DimensionSemantic     = "semantic"
	DimensionAvailability = "availability"
)
