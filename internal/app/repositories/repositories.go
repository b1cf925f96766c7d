package repositories

import (
	"github.com/yigit/clubsite/internal/db"
)

// Repositories holds all the repository instances
type Repositories struct {
	AdminRepository           *AdminRepository
	MembershipRepository      *MembershipRepository
	ContactRepository         *ContactRepository
	JobPostRepository         *JobPostRepository
	JobApplicationRepository  *JobApplicationRepository
	ActivityRepository        *ActivityRepository
	BoardRepository           *BoardRepository
	CareerGuidelineRepository *CareerGuidelineRepository
	InterviewTipRepository    *InterviewTipRepository
	CVTemplateRepository      *CVTemplateRepository
	SuccessStoryRepository    *SuccessStoryRepository
	MediaCleanupRepository    *MediaCleanupRepository
	StatsRepository           *StatsRepository
}

// NewRepositories initializes all repositories on one connection handle
func NewRepositories(conn db.DBTX) *Repositories {
	return &Repositories{
		AdminRepository:           NewAdminRepository(conn),
		MembershipRepository:      NewMembershipRepository(conn),
		ContactRepository:         NewContactRepository(conn),
		JobPostRepository:         NewJobPostRepository(conn),
		JobApplicationRepository:  NewJobApplicationRepository(conn),
		ActivityRepository:        NewActivityRepository(conn),
		BoardRepository:           NewBoardRepository(conn),
		CareerGuidelineRepository: NewCareerGuidelineRepository(conn),
		InterviewTipRepository:    NewInterviewTipRepository(conn),
		CVTemplateRepository:      NewCVTemplateRepository(conn),
		SuccessStoryRepository:    NewSuccessStoryRepository(conn),
		MediaCleanupRepository:    NewMediaCleanupRepository(conn),
		StatsRepository:           NewStatsRepository(conn),
	}
}
