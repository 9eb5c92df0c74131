package usecases_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"nft-storefront.backend/internal/domain/entities"
	"nft-storefront.backend/internal/usecases"
	"nft-storefront.backend/pkg/utils"
)

func TestActivityUsecase_List(t *testing.T) {
	repo := new(MockActivityRepository)
	items := []*entities.Activity{{SessionID: "s1", Kind: entities.ActivityKindMint}}
	repo.On("ListBySession", mock.Anything, "s1", utils.PaginationParams{Page: 1, Limit: 20}).
		Return(items, int64(41), nil).Once()

	got, meta, err := usecases.NewActivityUsecase(repo).List(context.Background(), "s1", utils.PaginationParams{})
	require.NoError(t, err)
	assert.Len(t, got, 1)
	assert.Equal(t, int64(41), meta.TotalCount)
	assert.Equal(t, 3, meta.TotalPages)
	repo.AssertExpectations(t)
}

func TestActivityUsecase_List_ClampsLimit(t *testing.T) {
	repo := new(MockActivityRepository)
	repo.On("ListBySession", mock.Anything, "s1", utils.PaginationParams{Page: 2, Limit: 100}).
		Return(nil, int64(0), errors.New("db down")).Once()

	_, _, err := usecases.NewActivityUsecase(repo).List(context.Background(), "s1", utils.PaginationParams{Page: 2, Limit: 500})
	assert.EqualError(t, err, "db down")
	repo.AssertExpectations(t)
}
