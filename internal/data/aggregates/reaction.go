package aggregates

import (
	"context"

	"github.com/google/uuid"
	"github.com/yungbote/coursehub-backend/internal/data/repos"
	domainagg "github.com/yungbote/coursehub-backend/internal/domain/aggregates"
	"github.com/yungbote/coursehub-backend/internal/domain/learning"
	"github.com/yungbote/coursehub-backend/internal/platform/dbctx"
)

type ReactionAggregateDeps struct {
	Base BaseDeps

	Reactions repos.ReactionRepo
}

type reactionAggregate struct {
	deps ReactionAggregateDeps
}

func NewReactionAggregate(deps ReactionAggregateDeps) domainagg.ReactionAggregate {
	deps.Base = deps.Base.withDefaults()
	return &reactionAggregate{deps: deps}
}

func (a *reactionAggregate) Contract() domainagg.Contract {
	return domainagg.ReactionAggregateContract
}

func (a *reactionAggregate) Toggle(ctx context.Context, in domainagg.ToggleReactionInput) (domainagg.ToggleReactionResult, error) {
	const op = "Learning.Reaction.Toggle"
	var out domainagg.ToggleReactionResult
	if in.UserID == uuid.Nil {
		return out, domainagg.Validation(op, "missing user_id")
	}
	if in.LessonID == uuid.Nil {
		return out, domainagg.Validation(op, "missing lesson_id")
	}
	if a.deps.Reactions == nil {
		return out, domainagg.NewError(domainagg.CodeInternal, op, "reaction aggregate repos not configured", nil)
	}

	err := executeWriteWithRetry(ctx, a.deps.Base, op, conflictRetries, func(dbc dbctx.Context) error {
		existing, err := a.deps.Reactions.LockByPair(dbc, in.UserID, in.LessonID)
		if err != nil {
			return err
		}
		action, state := learning.DecideReaction(existing, in.Like)
		switch action {
		case learning.ReactionCreate:
			err = a.deps.Reactions.Create(dbc, &learning.LessonLikeDislike{
				UserID:   in.UserID,
				LessonID: in.LessonID,
				IsLike:   in.Like,
			})
		case learning.ReactionDelete:
			err = a.deps.Reactions.Delete(dbc, existing.ID)
		case learning.ReactionFlip:
			err = a.deps.Reactions.SetLike(dbc, existing.ID, in.Like)
		}
		if err != nil {
			return err
		}

		likes, dislikes, err := a.deps.Reactions.Counts(dbc, in.LessonID)
		if err != nil {
			return err
		}
		out = domainagg.ToggleReactionResult{
			Action:   action,
			State:    state,
			Likes:    likes,
			Dislikes: dislikes,
		}
		return nil
	})
	return out, err
}
