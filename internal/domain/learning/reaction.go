package learning

type ReactionState string

const (
	ReactionNone    ReactionState = "none"
	ReactionLike    ReactionState = "like"
	ReactionDislike ReactionState = "dislike"
)

func StateOf(isLike bool) ReactionState {
	if isLike {
		return ReactionLike
	}
	return ReactionDislike
}

type ReactionAction int

const (
	ReactionCreate ReactionAction = iota
	ReactionDelete
	ReactionFlip
)

func (a ReactionAction) String() string {
	switch a {
	case ReactionCreate:
		return "create"
	case ReactionDelete:
		return "delete"
	case ReactionFlip:
		return "flip"
	default:
		return "unknown"
	}
}

// DecideReaction picks the write for a toggle given the stored row (nil when absent).
// Same direction clears, opposite direction flips, nothing stored creates.
func DecideReaction(existing *LessonLikeDislike, wantLike bool) (ReactionAction, ReactionState) {
	switch {
	case existing == nil:
		return ReactionCreate, StateOf(wantLike)
	case existing.IsLike == wantLike:
		return ReactionDelete, ReactionNone
	default:
		return ReactionFlip, StateOf(wantLike)
	}
}
