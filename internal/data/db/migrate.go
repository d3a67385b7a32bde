package db

import (
	types "github.com/yungbote/mentorbridge-backend/internal/domain"
	"gorm.io/gorm"
)

func (s *PostgresService) AutoMigrateAll() error {
	return AutoMigrateAll(s.db)
}

func AutoMigrateAll(db *gorm.DB) error {
	return db.AutoMigrate(
		&types.StudentProfile{},
		&types.MentorProfile{},

		&types.MatchBatch{},
		&types.MatchBatchSlot{},
		&types.ActiveMatch{},

		&types.MeetingLog{},
		&types.Feedback{},

		&types.MiniSessionRequest{},
	)
}
