package ai

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccumulatorAppendsInOrder(t *testing.T) {
	acc := NewAccumulator()
	_, err := uuid.Parse(acc.ID())
	require.NoError(t, err)

	for _, frag := range []string{"Some people ", "", "have resumes, ", "Parth has me."} {
		_, err := acc.Append(frag)
		require.NoError(t, err)
	}

	assert.Equal(t, "Some people have resumes, Parth has me.", acc.Text())
	assert.Equal(t, 3, acc.Fragments())
}

func TestAccumulatorFinish(t *testing.T) {
	acc := NewAccumulator()
	_, _ = acc.Append("partial")

	boom := errors.New("boom")
	acc.Finish(boom)
	acc.Finish(nil)

	done, err := acc.Done()
	assert.True(t, done)
	assert.ErrorIs(t, err, boom)

	text, err := acc.Append("late")
	assert.ErrorIs(t, err, ErrStreamFinished)
	assert.Equal(t, "partial", text)
}
