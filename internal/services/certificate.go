package services

import (
	"bytes"
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/coursehub-backend/internal/data/repos"
	"github.com/yungbote/coursehub-backend/internal/domain/community"
	"github.com/yungbote/coursehub-backend/internal/observability"
	"github.com/yungbote/coursehub-backend/internal/platform/dbctx"
	"github.com/yungbote/coursehub-backend/internal/platform/logger"
	"github.com/yungbote/coursehub-backend/internal/platform/objectstore"
)

type CertificateService interface {
	// IssueIfComplete issues the course certificate once every lesson is completed.
	// It returns nil when the course is not complete, and reports whether this call created it.
	IssueIfComplete(ctx context.Context, userID, courseID uuid.UUID) (*community.Certificate, bool, error)
	ListMine(ctx context.Context) ([]*community.Certificate, error)
}

type certificateService struct {
	db           *gorm.DB
	log          *logger.Logger
	userRepo     repos.UserRepo
	courseRepo   repos.CourseRepo
	lessonRepo   repos.LessonRepo
	progressRepo repos.ProgressRepo
	certRepo     repos.CertificateRepo
	store        objectstore.Store
	fonts        certificateFonts
	metrics      *observability.Metrics
}

func NewCertificateService(
	db *gorm.DB,
	baseLog *logger.Logger,
	r repos.Set,
	store objectstore.Store,
	fontPath string,
	metrics *observability.Metrics,
) (CertificateService, error) {
	serviceLog := baseLog.With("service", "CertificateService")
	fonts, err := loadCertificateFonts(fontPath)
	if err != nil {
		return nil, fmt.Errorf("could not load certificate font: %w", err)
	}
	return &certificateService{
		db:           db,
		log:          serviceLog,
		userRepo:     r.Users,
		courseRepo:   r.Courses,
		lessonRepo:   r.Lessons,
		progressRepo: r.Progress,
		certRepo:     r.Certificates,
		store:        store,
		fonts:        fonts,
		metrics:      metrics,
	}, nil
}

func (cs *certificateService) IssueIfComplete(ctx context.Context, userID, courseID uuid.UUID) (*community.Certificate, bool, error) {
	const op = "Certificate.Issue"
	dbc := dbctx.Context{Ctx: ctx}

	total, err := cs.lessonRepo.CountByCourse(dbc, courseID)
	if err != nil {
		return nil, false, internal(op, err)
	}
	done, err := cs.progressRepo.CountCompletedInCourse(dbc, userID, courseID)
	if err != nil {
		return nil, false, internal(op, err)
	}
	if total == 0 || done < total {
		return nil, false, nil
	}

	course, err := cs.courseRepo.GetDetail(dbc, courseID)
	if err != nil {
		return nil, false, internal(op, err)
	}
	if course == nil {
		return nil, false, notFound(op, "course")
	}

	created, err := cs.certRepo.CreateIfAbsent(dbc, &community.Certificate{
		UserID:   userID,
		CourseID: courseID,
		Title:    course.Title,
	})
	if err != nil {
		return nil, false, internal(op, err)
	}
	cert, err := cs.certRepo.Get(dbc, userID, courseID)
	if err != nil {
		return nil, false, internal(op, err)
	}
	if cert == nil {
		return nil, false, internal(op, fmt.Errorf("certificate vanished after insert"))
	}
	if created {
		cs.metrics.IncCertificateIssued()
		cs.log.Info("Certificate issued", "user_id", userID, "course_id", courseID)
	}
	if cert.ImageKey != "" || cs.store == nil {
		return cert, created, nil
	}

	student, err := cs.userRepo.GetByID(dbc, userID)
	if err != nil {
		return cert, created, internal(op, err)
	}
	text := certificateText{CourseTitle: course.Title, IssuedAt: cert.IssuedAt}
	if student != nil {
		text.StudentName = student.FullName()
	}
	if course.Teacher != nil {
		text.TeacherName = course.Teacher.FullName()
	}
	png, err := renderCertificate(cs.fonts, text)
	if err != nil {
		return cert, created, internal(op, err)
	}
	key := cert.ID.String() + ".png"
	obj, err := cs.store.Put(ctx, objectstore.CategoryCertificate, key, bytes.NewReader(png))
	if err != nil {
		return cert, created, internal(op, fmt.Errorf("upload certificate: %w", err))
	}
	cs.metrics.AddUploadBytes(string(objectstore.CategoryCertificate), obj.Size)
	if err := cs.certRepo.SetImage(dbc, cert.ID, key, obj.URL); err != nil {
		return cert, created, internal(op, err)
	}
	cert.ImageKey, cert.ImageURL = key, obj.URL
	return cert, created, nil
}

func (cs *certificateService) ListMine(ctx context.Context) ([]*community.Certificate, error) {
	actor, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}
	out, err := cs.certRepo.ListByUser(dbctx.Context{Ctx: ctx}, actor.ID)
	if err != nil {
		return nil, internal("Certificate.List", err)
	}
	return out, nil
}
