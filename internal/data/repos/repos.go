package repos

import (
	"gorm.io/gorm"

	"github.com/yungbote/coursehub-backend/internal/data/repos/assessment"
	"github.com/yungbote/coursehub-backend/internal/data/repos/auth"
	"github.com/yungbote/coursehub-backend/internal/data/repos/community"
	"github.com/yungbote/coursehub-backend/internal/data/repos/learning"
	"github.com/yungbote/coursehub-backend/internal/data/repos/user"
	"github.com/yungbote/coursehub-backend/internal/platform/logger"
)

type UserRepo = user.UserRepo
type TeacherRatingRepo = user.TeacherRatingRepo
type UserTokenRepo = auth.UserTokenRepo

type CourseRepo = learning.CourseRepo
type CategoryRepo = learning.CategoryRepo
type CatalogFilter = learning.CatalogFilter
type LessonRepo = learning.LessonRepo
type EnrollmentRepo = learning.EnrollmentRepo
type JoinRequestRepo = learning.JoinRequestRepo
type CommentRepo = learning.CommentRepo
type ReactionRepo = learning.ReactionRepo
type ProgressRepo = learning.ProgressRepo

type TestRepo = assessment.TestRepo
type QuestionRepo = assessment.QuestionRepo
type AttemptRepo = assessment.AttemptRepo

type NewsRepo = community.NewsRepo
type ContactMessageRepo = community.ContactMessageRepo
type ContactToTeacherRepo = community.ContactToTeacherRepo
type TeacherApplicationRepo = community.TeacherApplicationRepo
type BecomeTeacherRequestRepo = community.BecomeTeacherRequestRepo
type CertificateRepo = community.CertificateRepo

func NewUserRepo(db *gorm.DB, baseLog *logger.Logger) UserRepo { return user.NewUserRepo(db, baseLog) }
func NewTeacherRatingRepo(db *gorm.DB, baseLog *logger.Logger) TeacherRatingRepo {
	return user.NewTeacherRatingRepo(db, baseLog)
}
func NewUserTokenRepo(db *gorm.DB, baseLog *logger.Logger) UserTokenRepo {
	return auth.NewUserTokenRepo(db, baseLog)
}

func NewCourseRepo(db *gorm.DB, baseLog *logger.Logger) CourseRepo {
	return learning.NewCourseRepo(db, baseLog)
}
func NewCategoryRepo(db *gorm.DB, baseLog *logger.Logger) CategoryRepo {
	return learning.NewCategoryRepo(db, baseLog)
}
func NewLessonRepo(db *gorm.DB, baseLog *logger.Logger) LessonRepo {
	return learning.NewLessonRepo(db, baseLog)
}
func NewEnrollmentRepo(db *gorm.DB, baseLog *logger.Logger) EnrollmentRepo {
	return learning.NewEnrollmentRepo(db, baseLog)
}
func NewJoinRequestRepo(db *gorm.DB, baseLog *logger.Logger) JoinRequestRepo {
	return learning.NewJoinRequestRepo(db, baseLog)
}
func NewCommentRepo(db *gorm.DB, baseLog *logger.Logger) CommentRepo {
	return learning.NewCommentRepo(db, baseLog)
}
func NewReactionRepo(db *gorm.DB, baseLog *logger.Logger) ReactionRepo {
	return learning.NewReactionRepo(db, baseLog)
}
func NewProgressRepo(db *gorm.DB, baseLog *logger.Logger) ProgressRepo {
	return learning.NewProgressRepo(db, baseLog)
}

func NewTestRepo(db *gorm.DB, baseLog *logger.Logger) TestRepo {
	return assessment.NewTestRepo(db, baseLog)
}
func NewQuestionRepo(db *gorm.DB, baseLog *logger.Logger) QuestionRepo {
	return assessment.NewQuestionRepo(db, baseLog)
}
func NewAttemptRepo(db *gorm.DB, baseLog *logger.Logger) AttemptRepo {
	return assessment.NewAttemptRepo(db, baseLog)
}

func NewNewsRepo(db *gorm.DB, baseLog *logger.Logger) NewsRepo {
	return community.NewNewsRepo(db, baseLog)
}
func NewContactMessageRepo(db *gorm.DB, baseLog *logger.Logger) ContactMessageRepo {
	return community.NewContactMessageRepo(db, baseLog)
}
func NewContactToTeacherRepo(db *gorm.DB, baseLog *logger.Logger) ContactToTeacherRepo {
	return community.NewContactToTeacherRepo(db, baseLog)
}
func NewTeacherApplicationRepo(db *gorm.DB, baseLog *logger.Logger) TeacherApplicationRepo {
	return community.NewTeacherApplicationRepo(db, baseLog)
}
func NewBecomeTeacherRequestRepo(db *gorm.DB, baseLog *logger.Logger) BecomeTeacherRequestRepo {
	return community.NewBecomeTeacherRequestRepo(db, baseLog)
}
func NewCertificateRepo(db *gorm.DB, baseLog *logger.Logger) CertificateRepo {
	return community.NewCertificateRepo(db, baseLog)
}

// Set bundles every table repo for wiring.
type Set struct {
	Users                 UserRepo
	Ratings               TeacherRatingRepo
	Tokens                UserTokenRepo
	Courses               CourseRepo
	Categories            CategoryRepo
	Lessons               LessonRepo
	Enrollments           EnrollmentRepo
	JoinRequests          JoinRequestRepo
	Comments              CommentRepo
	Reactions             ReactionRepo
	Progress              ProgressRepo
	Tests                 TestRepo
	Questions             QuestionRepo
	Attempts              AttemptRepo
	News                  NewsRepo
	ContactMessages       ContactMessageRepo
	TeacherContacts       ContactToTeacherRepo
	TeacherApplications   TeacherApplicationRepo
	BecomeTeacherRequests BecomeTeacherRequestRepo
	Certificates          CertificateRepo
}

func NewSet(db *gorm.DB, baseLog *logger.Logger) Set {
	return Set{
		Users:                 NewUserRepo(db, baseLog),
		Ratings:               NewTeacherRatingRepo(db, baseLog),
		Tokens:                NewUserTokenRepo(db, baseLog),
		Courses:               NewCourseRepo(db, baseLog),
		Categories:            NewCategoryRepo(db, baseLog),
		Lessons:               NewLessonRepo(db, baseLog),
		Enrollments:           NewEnrollmentRepo(db, baseLog),
		JoinRequests:          NewJoinRequestRepo(db, baseLog),
		Comments:              NewCommentRepo(db, baseLog),
		Reactions:             NewReactionRepo(db, baseLog),
		Progress:              NewProgressRepo(db, baseLog),
		Tests:                 NewTestRepo(db, baseLog),
		Questions:             NewQuestionRepo(db, baseLog),
		Attempts:              NewAttemptRepo(db, baseLog),
		News:                  NewNewsRepo(db, baseLog),
		ContactMessages:       NewContactMessageRepo(db, baseLog),
		TeacherContacts:       NewContactToTeacherRepo(db, baseLog),
		TeacherApplications:   NewTeacherApplicationRepo(db, baseLog),
		BecomeTeacherRequests: NewBecomeTeacherRequestRepo(db, baseLog),
		Certificates:          NewCertificateRepo(db, baseLog),
	}
}
