package main

import (
	"testing"

	"shopapi/internal/database"
	"shopapi/internal/repositories"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeedProducts(t *testing.T) {
	db, err := database.Open("file:TestSeedProducts?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })

	repo := repositories.NewGORMProductRepository(db)

	seedProducts(repo, zerolog.Nop())

	products, err := repo.GetAll()
	require.NoError(t, err)
	assert.Len(t, products, 3)
	for _, p := range products {
		assert.NotEmpty(t, p.ID)
		assert.NotEmpty(t, p.Title)
		assert.NotEmpty(t, p.Img)
		assert.Greater(t, p.Price, 0.0)
	}

	// seeding again is a no-op on a populated catalog
	seedProducts(repo, zerolog.Nop())
	products, err = repo.GetAll()
	require.NoError(t, err)
	assert.Len(t, products, 3)
}
