package learning

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yungbote/coursehub-backend/internal/domain/learning"
	"github.com/yungbote/coursehub-backend/internal/platform/dbctx"
	"github.com/yungbote/coursehub-backend/internal/platform/logger"
)

type ReactionRepo interface {
	Get(dbc dbctx.Context, userID, lessonID uuid.UUID) (*learning.LessonLikeDislike, error)
	LockByPair(dbc dbctx.Context, userID, lessonID uuid.UUID) (*learning.LessonLikeDislike, error)
	Create(dbc dbctx.Context, r *learning.LessonLikeDislike) error
	Delete(dbc dbctx.Context, id uuid.UUID) error
	SetLike(dbc dbctx.Context, id uuid.UUID, isLike bool) error
	Counts(dbc dbctx.Context, lessonID uuid.UUID) (int64, int64, error)
}

type reactionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewReactionRepo(db *gorm.DB, baseLog *logger.Logger) ReactionRepo {
	repoLog := baseLog.With("repo", "ReactionRepo")
	return &reactionRepo{db: db, log: repoLog}
}

func (rr *reactionRepo) Get(dbc dbctx.Context, userID, lessonID uuid.UUID) (*learning.LessonLikeDislike, error) {
	return firstReaction(dbc.DB(rr.db).Where("user_id = ? AND lesson_id = ?", userID, lessonID))
}

func (rr *reactionRepo) LockByPair(dbc dbctx.Context, userID, lessonID uuid.UUID) (*learning.LessonLikeDislike, error) {
	return firstReaction(dbc.DB(rr.db).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ? AND lesson_id = ?", userID, lessonID))
}

// Create inserts without conflict handling; a lost race on the pair surfaces as a unique violation.
func (rr *reactionRepo) Create(dbc dbctx.Context, r *learning.LessonLikeDislike) error {
	if r == nil {
		return nil
	}
	return dbc.DB(rr.db).Create(r).Error
}

func (rr *reactionRepo) Delete(dbc dbctx.Context, id uuid.UUID) error {
	return dbc.DB(rr.db).Where("id = ?", id).Delete(&learning.LessonLikeDislike{}).Error
}

func (rr *reactionRepo) SetLike(dbc dbctx.Context, id uuid.UUID, isLike bool) error {
	return dbc.DB(rr.db).Model(&learning.LessonLikeDislike{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"is_like": isLike, "updated_at": time.Now().UTC()}).Error
}

// Counts returns (likes, dislikes) for a lesson.
func (rr *reactionRepo) Counts(dbc dbctx.Context, lessonID uuid.UUID) (int64, int64, error) {
	var rows []struct {
		IsLike bool
		N      int64
	}
	err := dbc.DB(rr.db).Model(&learning.LessonLikeDislike{}).
		Select("is_like, COUNT(*) AS n").
		Where("lesson_id = ?", lessonID).
		Group("is_like").
		Scan(&rows).Error
	if err != nil {
		return 0, 0, err
	}
	var likes, dislikes int64
	for _, r := range rows {
		if r.IsLike {
			likes = r.N
		} else {
			dislikes = r.N
		}
	}
	return likes, dislikes, nil
}

func firstReaction(q *gorm.DB) (*learning.LessonLikeDislike, error) {
	var r learning.LessonLikeDislike
	err := q.First(&r).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}
