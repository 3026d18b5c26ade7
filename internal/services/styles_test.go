package services

import (
	"context"
	"testing"

	"fashigram/internal/models"
	"fashigram/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogueGroupsAndSorts(t *testing.T) {
	st := store.NewMemoryStore(
		models.Style{Name: "Punk"},
		models.Style{Name: "Goth"},
		models.Style{Name: "Romantic Goth", Parent: "Goth"},
		models.Style{Name: "Cybergoth", Parent: "Goth"},
	)
	svc, err := NewStyleService(st)
	require.NoError(t, err)

	groups, err := svc.Catalogue(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []models.StyleGroup{
		{Name: "Goth", Substyles: []string{"Cybergoth", "Romantic Goth"}},
		{Name: "Punk", Substyles: []string{}},
	}, groups)
}

func TestCatalogueIsCached(t *testing.T) {
	st := store.NewMemoryStore(models.Style{Name: "Goth"})
	svc, err := NewStyleService(st)
	require.NoError(t, err)
	ctx := context.Background()

	_, err = svc.Catalogue(ctx)
	require.NoError(t, err)

	st.SetFailure(assert.AnError)
	groups, err := svc.Catalogue(ctx)
	require.NoError(t, err)
	assert.Len(t, groups, 1)
}

func TestResolveAndCheckSubstyle(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	name, known, err := env.styles.Resolve(ctx, "jirai   KEI")
	require.NoError(t, err)
	assert.True(t, known)
	assert.Equal(t, "Jirai Kei", name)

	name, known, err = env.styles.Resolve(ctx, "Space Cowboy")
	require.NoError(t, err)
	assert.False(t, known)
	assert.Equal(t, "Space Cowboy", name)

	sub, err := env.styles.CheckSubstyle(ctx, "Goth", "pastel goth")
	require.NoError(t, err)
	assert.Equal(t, "Pastel Goth", sub)

	_, err = env.styles.CheckSubstyle(ctx, "Goth", "Kogal")
	assert.Error(t, err)

	sub, err = env.styles.CheckSubstyle(ctx, "Space Cowboy", "Lasso")
	require.NoError(t, err)
	assert.Equal(t, "Lasso", sub)
}
