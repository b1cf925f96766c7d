package services

import (
	"github.com/rs/zerolog"
	"github.com/yigit/clubsite/internal/app/repositories"
	"github.com/yigit/clubsite/internal/pkg/email"
	"github.com/yigit/clubsite/internal/pkg/filestorage"
	"github.com/yigit/clubsite/internal/pkg/logger"
	"github.com/yigit/clubsite/internal/pkg/richtext"
)

// Dependencies are the shared handles every service is built from
type Dependencies struct {
	Repos    *repositories.Repositories
	Store    filestorage.MediaStore
	Notifier email.Notifier
	Sessions SessionIssuer
	Text     *richtext.Renderer
	TempDir  string
	Cleanup  MediaCleanupConfig
	Logger   zerolog.Logger
}

// Services holds all the service instances
type Services struct {
	Auth           *AuthService
	Membership     *MembershipService
	Contact        *ContactService
	JobPost        *JobPostService
	JobApplication *JobApplicationService
	Activity       *ActivityService
	Board          *BoardService
	Career         *CareerService
	SuccessStory   *SuccessStoryService
	Stats          *StatsService
	MediaCleanup   *MediaCleanupService
}

// NewServices wires every service on top of the repositories
func NewServices(d Dependencies) *Services {
	r := d.Repos
	queue := r.MediaCleanupRepository
	log := func(component string) zerolog.Logger {
		return logger.Component(d.Logger, component)
	}

	return &Services{
		Auth:           NewAuthService(r.AdminRepository, d.Sessions, log("auth")),
		Membership:     NewMembershipService(r.MembershipRepository, d.Text, log("membership")),
		Contact:        NewContactService(r.ContactRepository, d.Notifier, d.Text, log("contact")),
		JobPost:        NewJobPostService(r.JobPostRepository, log("job_post")),
		JobApplication: NewJobApplicationService(r.JobApplicationRepository, r.JobPostRepository, d.Store, queue, d.Text, d.TempDir, log("job_application")),
		Activity:       NewActivityService(r.ActivityRepository, d.Store, queue, log("activity")),
		Board:          NewBoardService(r.BoardRepository, d.Store, queue, log("board")),
		Career: NewCareerService(
			r.CareerGuidelineRepository,
			r.InterviewTipRepository,
			r.CVTemplateRepository,
			d.Store,
			queue,
			d.Text,
			log("career"),
		),
		SuccessStory: NewSuccessStoryService(r.SuccessStoryRepository, d.Store, queue, log("success_story")),
		Stats:        NewStatsService(r.StatsRepository),
		MediaCleanup: NewMediaCleanupService(queue, d.Store, d.Cleanup, log("media_cleanup")),
	}
}
