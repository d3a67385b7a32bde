package repos

import (
	"gorm.io/gorm"

	"github.com/yungbote/mentorbridge-backend/internal/data/repos/ledger"
	"github.com/yungbote/mentorbridge-backend/internal/data/repos/matching"
	"github.com/yungbote/mentorbridge-backend/internal/data/repos/minisession"
	"github.com/yungbote/mentorbridge-backend/internal/data/repos/profiles"
	"github.com/yungbote/mentorbridge-backend/internal/platform/logger"
)

type StudentRepo = profiles.StudentRepo
type MentorRepo = profiles.MentorRepo

type BatchRepo = matching.BatchRepo
type MatchRepo = matching.MatchRepo

type MeetingRepo = ledger.MeetingRepo
type FeedbackRepo = ledger.FeedbackRepo

type MiniSessionRepo = minisession.RequestRepo
type MiniSessionFilter = minisession.ListFilter

func NewStudentRepo(db *gorm.DB, baseLog *logger.Logger) StudentRepo {
	return profiles.NewStudentRepo(db, baseLog)
}
func NewMentorRepo(db *gorm.DB, baseLog *logger.Logger) MentorRepo {
	return profiles.NewMentorRepo(db, baseLog)
}

func NewBatchRepo(db *gorm.DB, baseLog *logger.Logger) BatchRepo {
	return matching.NewBatchRepo(db, baseLog)
}
func NewMatchRepo(db *gorm.DB, baseLog *logger.Logger) MatchRepo {
	return matching.NewMatchRepo(db, baseLog)
}

func NewMeetingRepo(db *gorm.DB, baseLog *logger.Logger) MeetingRepo {
	return ledger.NewMeetingRepo(db, baseLog)
}
func NewFeedbackRepo(db *gorm.DB, baseLog *logger.Logger) FeedbackRepo {
	return ledger.NewFeedbackRepo(db, baseLog)
}

func NewMiniSessionRepo(db *gorm.DB, baseLog *logger.Logger) MiniSessionRepo {
	return minisession.NewRequestRepo(db, baseLog)
}
