package embed

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wpanswers/internal/ai"
)

// stubService records every call and fails on the batch offsets listed in
// failCalls (0-based call index).
type stubService struct {
	calls     [][]string
	kinds     []ai.InputType
	truncates []bool
	failCalls map[int]bool
}

func (s *stubService) EmbedBatch(_ context.Context, inputs []string, kind ai.InputType, truncate bool) ([][]float32, error) {
	call := len(s.calls)
	s.calls = append(s.calls, append([]string(nil), inputs...))
	s.kinds = append(s.kinds, kind)
	s.truncates = append(s.truncates, truncate)

	if s.failCalls[call] {
		return nil, errors.New("service unavailable")
	}

	vectors := make([][]float32, len(inputs))
	for i := range inputs {
		vectors[i] = []float32{float32(len(inputs[i]))}
	}
	return vectors, nil
}

func texts(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("chunk-%03d", i)
	}
	return out
}

func TestEmbedAll_BatchGrouping(t *testing.T) {
	cases := []struct {
		n, batchSize, wantCalls int
	}{
		{0, 10, 0},
		{1, 10, 1},
		{10, 10, 1},
		{11, 10, 2},
		{25, 10, 3},
		{96, 96, 1},
	}
	for _, tc := range cases {
		svc := &stubService{}
		b := NewBatcher(svc, tc.batchSize)

		results := b.EmbedAll(context.Background(), texts(tc.n), ai.InputDocument)

		require.Len(t, results, tc.n)
		assert.Len(t, svc.calls, tc.wantCalls, "n=%d b=%d", tc.n, tc.batchSize)
		for _, call := range svc.calls {
			assert.LessOrEqual(t, len(call), tc.batchSize)
		}
	}
}

func TestEmbedAll_PositionalAlignment(t *testing.T) {
	svc := &stubService{}
	b := NewBatcher(svc, 4)
	in := texts(10)

	results := b.EmbedAll(context.Background(), in, ai.InputDocument)

	require.Len(t, results, len(in))
	for i, res := range results {
		assert.Equal(t, in[i], res.Text, "result %d out of order", i)
		require.NoError(t, res.Err)
		assert.NotEmpty(t, res.Vector)
	}
	assert.Equal(t, []ai.InputType{ai.InputDocument, ai.InputDocument, ai.InputDocument}, svc.kinds)
	for _, trunc := range svc.truncates {
		assert.True(t, trunc, "truncate backstop must always be requested")
	}
}

func TestEmbedAll_FailureIsolation(t *testing.T) {
	svc := &stubService{failCalls: map[int]bool{1: true}}
	b := NewBatcher(svc, 5)
	in := texts(13) // batches: [0:5) [5:10) [10:13)

	results := b.EmbedAll(context.Background(), in, ai.InputDocument)

	require.Len(t, results, 13)
	assert.Len(t, svc.calls, 3, "a failed batch must not stop later batches")
	for i, res := range results {
		if i >= 5 && i < 10 {
			assert.Error(t, res.Err, "chunk %d belongs to the failed batch", i)
			assert.Nil(t, res.Vector)
		} else {
			assert.NoError(t, res.Err, "chunk %d belongs to a healthy batch", i)
			assert.NotNil(t, res.Vector)
		}
	}
}

func TestEmbedAllFunc_SinkPerBatch(t *testing.T) {
	svc := &stubService{}
	b := NewBatcher(svc, 5)

	var offsets []int
	var sizes []int
	err := b.EmbedAllFunc(context.Background(), texts(12), ai.InputDocument, func(offset int, batch []Result) error {
		offsets = append(offsets, offset)
		sizes = append(sizes, len(batch))
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, []int{0, 5, 10}, offsets)
	assert.Equal(t, []int{5, 5, 2}, sizes)
}

func TestEmbedAllFunc_SinkErrorAborts(t *testing.T) {
	svc := &stubService{}
	b := NewBatcher(svc, 5)

	sinkErr := errors.New("store gone")
	err := b.EmbedAllFunc(context.Background(), texts(12), ai.InputDocument, func(offset int, _ []Result) error {
		if offset == 5 {
			return sinkErr
		}
		return nil
	})

	require.ErrorIs(t, err, sinkErr)
	assert.Len(t, svc.calls, 2, "no batch may be submitted after the sink fails")
}

func TestEmbedQuery(t *testing.T) {
	t.Run("single input, query kind", func(t *testing.T) {
		svc := &stubService{}
		b := NewBatcher(svc, 96)

		vec, err := b.EmbedQuery(context.Background(), "what is the refund policy?")

		require.NoError(t, err)
		assert.NotEmpty(t, vec)
		require.Len(t, svc.calls, 1)
		assert.Equal(t, []string{"what is the refund policy?"}, svc.calls[0])
		assert.Equal(t, ai.InputQuery, svc.kinds[0])
	})

	t.Run("failure surfaces", func(t *testing.T) {
		svc := &stubService{failCalls: map[int]bool{0: true}}
		b := NewBatcher(svc, 96)

		_, err := b.EmbedQuery(context.Background(), "anything")
		require.Error(t, err)
	})
}
