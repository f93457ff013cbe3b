package style

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategories_Order(t *testing.T) {
	cats := Categories()
	require.Len(t, cats, 6)
	assert.Equal(t, CategoryMinimalist, cats[0])
	assert.Equal(t, CategoryEdgy, cats[5])

	cats[0] = "mutated"
	assert.Equal(t, CategoryMinimalist, Categories()[0])
}

func TestCategory_IsValid(t *testing.T) {
	assert.True(t, CategoryCasualChic.IsValid())
	assert.False(t, Category("casual chic").IsValid())
	assert.False(t, Category("").IsValid())
}

func TestParseAction(t *testing.T) {
	tests := []struct {
		in      string
		want    Action
		wantErr bool
	}{
		{"like", ActionLike, false},
		{" Dislike ", ActionDislike, false},
		{"SUPERLIKE", ActionSuperlike, false},
		{"none", ActionNone, false},
		{"", ActionNone, false},
		{"love", ActionNone, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseAction(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAction_Committed(t *testing.T) {
	assert.True(t, ActionLike.Committed())
	assert.True(t, ActionDislike.Committed())
	assert.True(t, ActionSuperlike.Committed())
	assert.False(t, ActionNone.Committed())
	assert.Equal(t, "none", ActionNone.String())
}

func TestTally(t *testing.T) {
	var tally Tally
	tally.Add(ActionLike)
	tally.Add(ActionLike)
	tally.Add(ActionSuperlike)
	tally.Add(ActionDislike)
	tally.Add(ActionNone)

	assert.Equal(t, Tally{Likes: 2, Dislikes: 1, Superlikes: 1}, tally)
	assert.Equal(t, 4, tally.Total())
}
