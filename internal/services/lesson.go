package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/coursehub-backend/internal/data/repos"
	domainagg "github.com/yungbote/coursehub-backend/internal/domain/aggregates"
	"github.com/yungbote/coursehub-backend/internal/domain/assessment"
	"github.com/yungbote/coursehub-backend/internal/domain/community"
	"github.com/yungbote/coursehub-backend/internal/domain/learning"
	"github.com/yungbote/coursehub-backend/internal/platform/dbctx"
	"github.com/yungbote/coursehub-backend/internal/platform/logger"
)

const lessonCommentLimit = 100

type LessonDetail struct {
	Lesson          *learning.Lesson       `json:"lesson"`
	Course          *learning.Course       `json:"course"`
	NextLesson      *learning.Lesson       `json:"next_lesson,omitempty"`
	IsLast          bool                   `json:"is_last"`
	IsCompleted     bool                   `json:"is_completed"`
	Likes           int64                  `json:"likes"`
	Dislikes        int64                  `json:"dislikes"`
	Reaction        learning.ReactionState `json:"reaction"`
	Comments        []*learning.Comment    `json:"comments"`
	ProgressPercent int                    `json:"progress_percent"`
	// FinalTest and FinalAttempt are only set on the last lesson.
	FinalTest    *assessment.CourseTest  `json:"final_test,omitempty"`
	FinalAttempt *assessment.StudentTest `json:"final_attempt,omitempty"`
}

type CompleteLessonResult struct {
	domainagg.MarkCompleteResult
	Certificate *community.Certificate `json:"certificate,omitempty"`
}

type LessonService interface {
	Detail(ctx context.Context, lessonID uuid.UUID) (LessonDetail, error)
	React(ctx context.Context, lessonID uuid.UUID, like bool) (domainagg.ToggleReactionResult, error)
	Complete(ctx context.Context, lessonID uuid.UUID) (CompleteLessonResult, error)
	Comment(ctx context.Context, lessonID uuid.UUID, content string) (*learning.Comment, error)
}

type lessonService struct {
	db             *gorm.DB
	log            *logger.Logger
	courseRepo     repos.CourseRepo
	lessonRepo     repos.LessonRepo
	enrollmentRepo repos.EnrollmentRepo
	reactionRepo   repos.ReactionRepo
	commentRepo    repos.CommentRepo
	progressRepo   repos.ProgressRepo
	testRepo       repos.TestRepo
	attemptRepo    repos.AttemptRepo
	reactions      domainagg.ReactionAggregate
	progress       domainagg.ProgressAggregate
	certificates   CertificateService
}

func NewLessonService(
	db *gorm.DB,
	baseLog *logger.Logger,
	r repos.Set,
	reactions domainagg.ReactionAggregate,
	progress domainagg.ProgressAggregate,
	certificates CertificateService,
) LessonService {
	return &lessonService{
		db:             db,
		log:            baseLog.With("service", "LessonService"),
		courseRepo:     r.Courses,
		lessonRepo:     r.Lessons,
		enrollmentRepo: r.Enrollments,
		reactionRepo:   r.Reactions,
		commentRepo:    r.Comments,
		progressRepo:   r.Progress,
		testRepo:       r.Tests,
		attemptRepo:    r.Attempts,
		reactions:      reactions,
		progress:       progress,
		certificates:   certificates,
	}
}

// gate loads the lesson and checks the caller's enrollment in its course.
func (ls *lessonService) gate(ctx context.Context, op string, lessonID uuid.UUID) (learning.Actor, *learning.Lesson, error) {
	actor, err := actorFromContext(ctx)
	if err != nil {
		return learning.Actor{}, nil, err
	}
	dbc := dbctx.Context{Ctx: ctx}
	lesson, err := ls.lessonRepo.GetByID(dbc, lessonID)
	if err != nil {
		return actor, nil, internal(op, err)
	}
	if lesson == nil {
		return actor, nil, notFound(op, "lesson")
	}
	enrolled, err := ls.enrollmentRepo.Exists(dbc, actor.ID, lesson.CourseID)
	if err != nil {
		return actor, nil, internal(op, err)
	}
	if !learning.CanViewLesson(enrolled) {
		return actor, nil, ErrNotEnrolled
	}
	return actor, lesson, nil
}

func (ls *lessonService) Detail(ctx context.Context, lessonID uuid.UUID) (LessonDetail, error) {
	const op = "Lesson.Detail"
	actor, lesson, err := ls.gate(ctx, op, lessonID)
	if err != nil {
		return LessonDetail{}, err
	}
	dbc := dbctx.Context{Ctx: ctx}
	out := LessonDetail{Lesson: lesson, Reaction: learning.ReactionNone}

	if out.Course, err = ls.courseRepo.GetByID(dbc, lesson.CourseID); err != nil {
		return LessonDetail{}, internal(op, err)
	}
	if out.NextLesson, err = ls.lessonRepo.Next(dbc, lesson.CourseID, lesson.Order); err != nil {
		return LessonDetail{}, internal(op, err)
	}
	out.IsLast = out.NextLesson == nil

	if out.Likes, out.Dislikes, err = ls.reactionRepo.Counts(dbc, lesson.ID); err != nil {
		return LessonDetail{}, internal(op, err)
	}
	mine, err := ls.reactionRepo.Get(dbc, actor.ID, lesson.ID)
	if err != nil {
		return LessonDetail{}, internal(op, err)
	}
	if mine != nil {
		out.Reaction = learning.StateOf(mine.IsLike)
	}

	if out.Comments, err = ls.commentRepo.ListByCourse(dbc, lesson.CourseID, lessonCommentLimit); err != nil {
		return LessonDetail{}, internal(op, err)
	}

	completed, err := ls.progressRepo.CompletedLessonIDs(dbc, actor.ID, lesson.CourseID)
	if err != nil {
		return LessonDetail{}, internal(op, err)
	}
	for _, id := range completed {
		if id == lesson.ID {
			out.IsCompleted = true
			break
		}
	}
	total, err := ls.lessonRepo.CountByCourse(dbc, lesson.CourseID)
	if err != nil {
		return LessonDetail{}, internal(op, err)
	}
	out.ProgressPercent = learning.ProgressPercent(int64(len(completed)), total)

	if out.IsLast {
		if out.FinalTest, err = ls.testRepo.FirstByCourse(dbc, lesson.CourseID); err != nil {
			return LessonDetail{}, internal(op, err)
		}
		if out.FinalTest != nil {
			if out.FinalAttempt, err = ls.attemptRepo.Get(dbc, actor.ID, out.FinalTest.ID); err != nil {
				return LessonDetail{}, internal(op, err)
			}
		}
	}
	return out, nil
}

func (ls *lessonService) React(ctx context.Context, lessonID uuid.UUID, like bool) (domainagg.ToggleReactionResult, error) {
	actor, lesson, err := ls.gate(ctx, "Lesson.React", lessonID)
	if err != nil {
		return domainagg.ToggleReactionResult{}, err
	}
	return ls.reactions.Toggle(ctx, domainagg.ToggleReactionInput{UserID: actor.ID, LessonID: lesson.ID, Like: like})
}

func (ls *lessonService) Complete(ctx context.Context, lessonID uuid.UUID) (CompleteLessonResult, error) {
	actor, lesson, err := ls.gate(ctx, "Lesson.Complete", lessonID)
	if err != nil {
		return CompleteLessonResult{}, err
	}
	res, err := ls.progress.MarkComplete(ctx, domainagg.MarkCompleteInput{
		UserID:   actor.ID,
		LessonID: lesson.ID,
		CourseID: lesson.CourseID,
		At:       time.Now().UTC(),
	})
	if err != nil {
		return CompleteLessonResult{}, err
	}
	out := CompleteLessonResult{MarkCompleteResult: res}
	if res.ProgressPercent == 100 && ls.certificates != nil {
		cert, _, err := ls.certificates.IssueIfComplete(ctx, actor.ID, lesson.CourseID)
		if err != nil {
			// Completion is committed; the certificate is retried on the next completion call.
			ls.log.Warn("Certificate issue failed", "user_id", actor.ID, "course_id", lesson.CourseID, "error", err)
		}
		out.Certificate = cert
	}
	return out, nil
}

func (ls *lessonService) Comment(ctx context.Context, lessonID uuid.UUID, content string) (*learning.Comment, error) {
	const op = "Lesson.Comment"
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, validation(op, "comment content is required")
	}
	actor, lesson, err := ls.gate(ctx, op, lessonID)
	if err != nil {
		return nil, err
	}
	c := &learning.Comment{UserID: actor.ID, CourseID: lesson.CourseID, LessonID: &lesson.ID, Content: content}
	if err := ls.commentRepo.Create(dbctx.Context{Ctx: ctx}, c); err != nil {
		return nil, internal(op, err)
	}
	return c, nil
}
