package domain_test

import (
	"testing"

	"github.com/smartdeal/storefront/internal/core/domain"
	"github.com/stretchr/testify/assert"
)

func TestApplyReaction(t *testing.T) {
	start := domain.Counters{Likes: 5, Dislikes: 2}

	t.Run("LikeTwiceRoundTrips", func(t *testing.T) {
		c, state := domain.ApplyReaction(start, domain.ReactionNone, domain.ActionLike)
		assert.Equal(t, domain.ReactionLiked, state)
		assert.Equal(t, domain.Counters{Likes: 6, Dislikes: 2}, c)

		c, state = domain.ApplyReaction(c, state, domain.ActionLike)
		assert.Equal(t, domain.ReactionNone, state)
		assert.Equal(t, start, c)
	})

	t.Run("DislikeTwiceRoundTrips", func(t *testing.T) {
		c, state := domain.ApplyReaction(start, domain.ReactionNone, domain.ActionDislike)
		assert.Equal(t, domain.ReactionDisliked, state)
		assert.Equal(t, domain.Counters{Likes: 5, Dislikes: 3}, c)

		c, state = domain.ApplyReaction(c, state, domain.ActionDislike)
		assert.Equal(t, domain.ReactionNone, state)
		assert.Equal(t, start, c)
	})

	t.Run("SwitchSidesSwapsAtomically", func(t *testing.T) {
		c, state := domain.ApplyReaction(start, domain.ReactionLiked, domain.ActionDislike)
		assert.Equal(t, domain.ReactionDisliked, state)
		assert.Equal(t, domain.Counters{Likes: 4, Dislikes: 3}, c)

		c, state = domain.ApplyReaction(c, state, domain.ActionLike)
		assert.Equal(t, domain.ReactionLiked, state)
		assert.Equal(t, domain.Counters{Likes: 5, Dislikes: 2}, c)
	})

	t.Run("NeverNegative", func(t *testing.T) {
		c, _ := domain.ApplyReaction(domain.Counters{}, domain.ReactionLiked, domain.ActionLike)
		assert.Equal(t, domain.Counters{}, c)

		c, _ = domain.ApplyReaction(domain.Counters{}, domain.ReactionDisliked, domain.ActionDislike)
		assert.Equal(t, domain.Counters{}, c)
	})
}
