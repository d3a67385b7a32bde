package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/mentorbridge-backend/internal/data/repos"
	"github.com/yungbote/mentorbridge-backend/internal/platform/logger"
)

type Repos struct {
	Student     repos.StudentRepo
	Mentor      repos.MentorRepo
	Batch       repos.BatchRepo
	Match       repos.MatchRepo
	Meeting     repos.MeetingRepo
	Feedback    repos.FeedbackRepo
	MiniSession repos.MiniSessionRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		Student:     repos.NewStudentRepo(db, log),
		Mentor:      repos.NewMentorRepo(db, log),
		Batch:       repos.NewBatchRepo(db, log),
		Match:       repos.NewMatchRepo(db, log),
		Meeting:     repos.NewMeetingRepo(db, log),
		Feedback:    repos.NewFeedbackRepo(db, log),
		MiniSession: repos.NewMiniSessionRepo(db, log),
	}
}
