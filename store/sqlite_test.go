package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *SQLite {
	t.Helper()
	s, err := OpenSQLite(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func seedCat(t *testing.T, s *SQLite, name string) Cat {
	t.Helper()
	cat, err := s.Insert(context.Background(), Cat{Name: name, Age: 3, Weight: 4.2, Breed: "Tabby"})
	require.NoError(t, err)
	return cat
}

func TestInsertAssignsID(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	tom, err := s.Insert(ctx, Cat{Name: "Tom", Age: 3, Weight: 4.2, Breed: "Tabby"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), tom.ID)

	jerry, err := s.Insert(ctx, Cat{Name: "Jerry", Age: 2, Weight: 1.1, Breed: "Mixed"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), jerry.ID)
}

func TestFindByID(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	tom := seedCat(t, s, "Tom")

	got, err := s.FindByID(ctx, tom.ID)
	require.NoError(t, err)
	assert.Equal(t, tom, got)

	_, err = s.FindByID(ctx, 999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFindByName(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	seedCat(t, s, "Tom")
	seedCat(t, s, "Tom")
	seedCat(t, s, "Jerry")

	toms, err := s.FindByName(ctx, "Tom")
	require.NoError(t, err)
	assert.Len(t, toms, 2)

	none, err := s.FindByName(ctx, "Garfield")
	require.NoError(t, err)
	assert.Empty(t, none)
	assert.NotNil(t, none)
}

func TestFindAll(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	all, err := s.FindAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
	assert.NotNil(t, all, "empty result encodes as [] not null")

	seedCat(t, s, "Tom")
	seedCat(t, s, "Jerry")

	all, err = s.FindAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
	assert.Equal(t, "Tom", all[0].Name)
	assert.Equal(t, "Jerry", all[1].Name)
}

func TestUpdatePartial(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	tom := seedCat(t, s, "Tom")

	age := 4
	updated, err := s.UpdatePartial(ctx, tom.ID, CatUpdate{Age: &age})
	require.NoError(t, err)
	assert.Equal(t, 4, updated.Age)
	assert.Equal(t, tom.Name, updated.Name)
	assert.Equal(t, tom.Weight, updated.Weight)
	assert.Equal(t, tom.Breed, updated.Breed)

	name := "Thomas"
	weight := 5.5
	updated, err = s.UpdatePartial(ctx, tom.ID, CatUpdate{Name: &name, Weight: &weight})
	require.NoError(t, err)
	assert.Equal(t, "Thomas", updated.Name)
	assert.Equal(t, 5.5, updated.Weight)
	assert.Equal(t, 4, updated.Age)
}

func TestUpdatePartialNoFields(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	tom := seedCat(t, s, "Tom")

	got, err := s.UpdatePartial(ctx, tom.ID, CatUpdate{})
	require.NoError(t, err)
	assert.Equal(t, tom, got)
}

func TestUpdatePartialNotFound(t *testing.T) {
	s := newTestStore(t)
	age := 4

	_, err := s.UpdatePartial(context.Background(), 999, CatUpdate{Age: &age})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteByID(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	tom := seedCat(t, s, "Tom")

	n, err := s.DeleteByID(ctx, tom.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	_, err = s.FindByID(ctx, tom.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	n, err = s.DeleteByID(ctx, tom.ID)
	require.NoError(t, err)
	assert.Zero(t, n, "deleting an absent id is not an error")
}

func TestSchemaConstraints(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.Insert(ctx, Cat{Name: "", Age: 3, Weight: 4.2, Breed: "Tabby"})
	assert.Error(t, err, "empty name violates CHECK")

	_, err = s.Insert(ctx, Cat{Name: "Tom", Age: 150, Weight: 4.2, Breed: "Tabby"})
	assert.Error(t, err, "age out of range violates CHECK")

	_, err = s.Insert(ctx, Cat{Name: "Tom", Age: 3, Weight: -1, Breed: "Tabby"})
	assert.Error(t, err, "weight out of range violates CHECK")
}
