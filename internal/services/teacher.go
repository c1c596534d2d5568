package services

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/yungbote/coursehub-backend/internal/data/repos"
	domainagg "github.com/yungbote/coursehub-backend/internal/domain/aggregates"
	"github.com/yungbote/coursehub-backend/internal/domain/community"
	"github.com/yungbote/coursehub-backend/internal/domain/learning"
	"github.com/yungbote/coursehub-backend/internal/domain/user"
	"github.com/yungbote/coursehub-backend/internal/platform/dbctx"
	"github.com/yungbote/coursehub-backend/internal/platform/logger"
)

type TeacherDetail struct {
	Teacher  *user.User            `json:"teacher"`
	Courses  []*learning.Course    `json:"courses"`
	Ratings  []*user.TeacherRating `json:"ratings"`
	MyRating *user.TeacherRating   `json:"my_rating,omitempty"`
}

type ContactInput struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Message string `json:"message"`
}

func (in ContactInput) normalize(op string) (ContactInput, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Phone = normalizePhone(in.Phone)
	in.Message = strings.TrimSpace(in.Message)
	if in.Name == "" || in.Phone == "" || in.Message == "" {
		return in, validation(op, "name, phone and message are required")
	}
	return in, nil
}

type TeacherService interface {
	List(ctx context.Context) ([]*user.User, error)
	Detail(ctx context.Context, teacherID uuid.UUID) (TeacherDetail, error)
	Rate(ctx context.Context, teacherID uuid.UUID, stars int, review string) (domainagg.RateTeacherResult, error)
	Contact(ctx context.Context, teacherID uuid.UUID, in ContactInput) (*community.ContactToTeacher, error)
}

type teacherService struct {
	log         *logger.Logger
	userRepo    repos.UserRepo
	courseRepo  repos.CourseRepo
	ratingRepo  repos.TeacherRatingRepo
	contactRepo repos.ContactToTeacherRepo
	ratings     domainagg.RatingAggregate
}

func NewTeacherService(baseLog *logger.Logger, r repos.Set, ratings domainagg.RatingAggregate) TeacherService {
	return &teacherService{
		log:         baseLog.With("service", "TeacherService"),
		userRepo:    r.Users,
		courseRepo:  r.Courses,
		ratingRepo:  r.Ratings,
		contactRepo: r.TeacherContacts,
		ratings:     ratings,
	}
}

func (ts *teacherService) List(ctx context.Context) ([]*user.User, error) {
	out, err := ts.userRepo.ListTeachers(dbctx.Context{Ctx: ctx})
	if err != nil {
		return nil, internal("Teacher.List", err)
	}
	return out, nil
}

func (ts *teacherService) teacher(dbc dbctx.Context, op string, id uuid.UUID) (*user.User, error) {
	t, err := ts.userRepo.GetByID(dbc, id)
	if err != nil {
		return nil, internal(op, err)
	}
	if t == nil || !t.Role.IsTeacher() {
		return nil, notFound(op, "teacher")
	}
	return t, nil
}

func (ts *teacherService) Detail(ctx context.Context, teacherID uuid.UUID) (TeacherDetail, error) {
	const op = "Teacher.Detail"
	dbc := dbctx.Context{Ctx: ctx}
	t, err := ts.teacher(dbc, op, teacherID)
	if err != nil {
		return TeacherDetail{}, err
	}
	out := TeacherDetail{Teacher: t}

	courses, err := ts.courseRepo.ListByTeacher(dbc, teacherID)
	if err != nil {
		return TeacherDetail{}, internal(op, err)
	}
	out.Courses = make([]*learning.Course, 0, len(courses))
	for _, c := range courses {
		if c.IsActive {
			out.Courses = append(out.Courses, c)
		}
	}
	if out.Ratings, err = ts.ratingRepo.ListByTeacher(dbc, teacherID); err != nil {
		return TeacherDetail{}, internal(op, err)
	}
	if actor, authErr := actorFromContext(ctx); authErr == nil {
		for _, r := range out.Ratings {
			if r.RaterID == actor.ID {
				out.MyRating = r
				break
			}
		}
	}
	return out, nil
}

func (ts *teacherService) Rate(ctx context.Context, teacherID uuid.UUID, stars int, review string) (domainagg.RateTeacherResult, error) {
	actor, err := actorFromContext(ctx)
	if err != nil {
		return domainagg.RateTeacherResult{}, err
	}
	res, err := ts.ratings.Rate(ctx, domainagg.RateTeacherInput{
		RaterID:   actor.ID,
		TeacherID: teacherID,
		Stars:     stars,
		Review:    strings.TrimSpace(review),
	})
	if err != nil {
		return domainagg.RateTeacherResult{}, err
	}
	ts.log.Info("Teacher rated", "teacher_id", teacherID, "average", res.Average, "total", res.TotalRatings)
	return res, nil
}

func (ts *teacherService) Contact(ctx context.Context, teacherID uuid.UUID, in ContactInput) (*community.ContactToTeacher, error) {
	const op = "Teacher.Contact"
	actor, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if in, err = in.normalize(op); err != nil {
		return nil, err
	}
	dbc := dbctx.Context{Ctx: ctx}
	if _, err := ts.teacher(dbc, op, teacherID); err != nil {
		return nil, err
	}
	msg := &community.ContactToTeacher{
		SenderID:  &actor.ID,
		TeacherID: teacherID,
		Name:      in.Name,
		Phone:     in.Phone,
		Message:   in.Message,
	}
	if err := ts.contactRepo.Create(dbc, msg); err != nil {
		return nil, internal(op, err)
	}
	return msg, nil
}
