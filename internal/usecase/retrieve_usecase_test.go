package usecase_test

import (
	"context"
	"errors"
	"testing"

	"digest-orchestrator/internal/domain"
	"digest-orchestrator/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestRetrieve_AggregatesHitsIntoArticles(t *testing.T) {
	mockIndex := new(MockChunkIndex)
	mockEncoder := new(MockVectorEncoder)
	uc := usecase.NewRetrieveUsecase(mockIndex, mockEncoder, testLogger())

	ctx := context.Background()
	vector := []float32{0.1, 0.2, 0.3}
	mockEncoder.On("Encode", ctx, []string{"finance news"}).Return([][]float32{vector}, nil)
	mockIndex.On("Query", ctx, vector, 5).Return([]domain.QueryHit{
		{ChunkID: "a1_chunk_0", Score: 0.92, Content: "part one", Metadata: map[string]string{
			domain.MetaArticleID:  "a1",
			domain.MetaTitle:      "Markets rally",
			domain.MetaChunkIndex: "0",
		}},
		{ChunkID: "a1_chunk_1", Score: 0.85, Content: "part two", Metadata: map[string]string{
			domain.MetaArticleID:  "a1",
			domain.MetaChunkIndex: "1",
		}},
	}, nil)

	out, err := uc.Retrieve(ctx, usecase.RetrieveInput{Query: "finance news", TopK: 5})

	require.NoError(t, err)
	assert.False(t, out.Degraded)
	require.Len(t, out.Articles, 1)
	assert.Equal(t, "part one\n\npart two", out.Articles[0].Content)
	assert.Equal(t, 0.92, out.Articles[0].Score)
	mockIndex.AssertExpectations(t)
}

func TestRetrieve_EmptyQueryShortCircuits(t *testing.T) {
	mockIndex := new(MockChunkIndex)
	mockEncoder := new(MockVectorEncoder)
	uc := usecase.NewRetrieveUsecase(mockIndex, mockEncoder, testLogger())

	out, err := uc.Retrieve(context.Background(), usecase.RetrieveInput{Query: ""})

	require.NoError(t, err)
	assert.Empty(t, out.Articles)
	assert.False(t, out.Degraded)
	mockEncoder.AssertNotCalled(t, "Encode", mock.Anything, mock.Anything)
}

func TestRetrieve_EncoderFailureDegrades(t *testing.T) {
	mockIndex := new(MockChunkIndex)
	mockEncoder := new(MockVectorEncoder)
	uc := usecase.NewRetrieveUsecase(mockIndex, mockEncoder, testLogger())

	ctx := context.Background()
	mockEncoder.On("Encode", ctx, mock.Anything).Return(nil, errors.New("connection refused"))

	out, err := uc.Retrieve(ctx, usecase.RetrieveInput{Query: "anything", TopK: 3})

	require.NoError(t, err)
	assert.True(t, out.Degraded)
	assert.Equal(t, "query embedding unavailable", out.Reason)
	assert.Empty(t, out.Articles)
	mockIndex.AssertNotCalled(t, "Query", mock.Anything, mock.Anything, mock.Anything)
}

func TestRetrieve_IndexFailureDegrades(t *testing.T) {
	mockIndex := new(MockChunkIndex)
	mockEncoder := new(MockVectorEncoder)
	uc := usecase.NewRetrieveUsecase(mockIndex, mockEncoder, testLogger())

	ctx := context.Background()
	mockEncoder.On("Encode", ctx, mock.Anything).Return([][]float32{{0.1}}, nil)
	mockIndex.On("Query", ctx, mock.Anything, 5).Return(nil, errors.New("db down"))

	out, err := uc.Retrieve(ctx, usecase.RetrieveInput{Query: "anything"})

	require.NoError(t, err)
	assert.True(t, out.Degraded)
	assert.Equal(t, "chunk index unavailable", out.Reason)
	assert.Empty(t, out.Articles)
}

func TestRetrieve_DefaultTopK(t *testing.T) {
	mockIndex := new(MockChunkIndex)
	mockEncoder := new(MockVectorEncoder)
	uc := usecase.NewRetrieveUsecase(mockIndex, mockEncoder, testLogger())

	ctx := context.Background()
	mockEncoder.On("Encode", ctx, mock.Anything).Return([][]float32{{0.1}}, nil)
	mockIndex.On("Query", ctx, mock.Anything, 5).Return([]domain.QueryHit{}, nil)

	out, err := uc.Retrieve(ctx, usecase.RetrieveInput{Query: "anything", TopK: 0})

	require.NoError(t, err)
	assert.False(t, out.Degraded)
	mockIndex.AssertExpectations(t)
}
