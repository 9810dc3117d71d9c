package domain

// A ReactionState is the session-local like/dislike state for one
// product. It is not persisted; only the counters are durable.
type ReactionState string

const (
	ReactionNone     ReactionState = "none"
	ReactionLiked    ReactionState = "liked"
	ReactionDisliked ReactionState = "disliked"
)

// A ReactionAction is a like or dislike toggle.
type ReactionAction string

const (
	ActionLike    ReactionAction = "like"
	ActionDislike ReactionAction = "dislike"
)

// Counters are the durable like/dislike totals of one product.
type Counters struct {
	Likes    int
	Dislikes int
}

// ApplyReaction runs the toggle state machine: none → liked/disliked
// → none, with an atomic counter swap when switching sides. Counters
// never go negative. It returns the next counters and session state.
func ApplyReaction(
	c Counters, state ReactionState, action ReactionAction,
) (Counters, ReactionState) {
	switch action {
	case ActionLike:
		switch state {
		case ReactionLiked:
			c.Likes--
			state = ReactionNone
		case ReactionDisliked:
			c.Likes++
			c.Dislikes--
			state = ReactionLiked
		default:
			c.Likes++
			state = ReactionLiked
		}
	case ActionDislike:
		switch state {
		case ReactionDisliked:
			c.Dislikes--
			state = ReactionNone
		case ReactionLiked:
			c.Dislikes++
			c.Likes--
			state = ReactionDisliked
		default:
			c.Dislikes++
			state = ReactionDisliked
		}
	}

	c.Likes = max(c.Likes, 0)
	c.Dislikes = max(c.Dislikes, 0)
	return c, state
}

// A Reaction is one interaction event with the resulting absolute
// counters, streamed for the reaction tally.
type Reaction struct {
	ProductID string
	Action    ReactionAction
	Likes     int
	Dislikes  int
	At        int64
}
