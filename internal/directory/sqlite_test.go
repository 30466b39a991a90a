package directory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/taglet/internal/testutil"
)

func newSeededStore(t *testing.T) *Store {
	t.Helper()
	db := testutil.NewTestDB(t)
	t.Cleanup(func() { _ = db.Close() })
	testutil.NewBuilder(t, db).WithTeamTestData().Build()
	return NewStore(db)
}

func TestStore_Search_EmptyQueryListsTrigger(t *testing.T) {
	s := newSeededStore(t)

	got, err := s.Search(context.Background(), '@', "")
	require.NoError(t, err)
	require.Len(t, got, 5)
	// Alphabetical by name
	require.Equal(t, "brad", got[0].Name)
	require.Equal(t, "lucy", got[1].Name)
}

func TestStore_Search_PrefixRanksFirst(t *testing.T) {
	db := testutil.NewTestDB(t)
	t.Cleanup(func() { _ = db.Close() })
	testutil.NewBuilder(t, db).
		WithUser("1", testutil.Name("luna")).
		WithUser("2", testutil.Name("alu")).
		WithUser("3", testutil.Name("lucy")).
		Build()
	s := NewStore(db)

	got, err := s.Search(context.Background(), '@', "lu")
	require.NoError(t, err)
	require.Len(t, got, 3)
	require.Equal(t, "lucy", got[0].Name)
	require.Equal(t, "luna", got[1].Name)
	require.Equal(t, "alu", got[2].Name)
}

func TestStore_Search_CaseInsensitive(t *testing.T) {
	s := newSeededStore(t)

	got, err := s.Search(context.Background(), '#', "FLUT")
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, "Flutter", got[0].Name)
}

func TestStore_Search_MatchesDetail(t *testing.T) {
	s := newSeededStore(t)

	got, err := s.Search(context.Background(), '@', "aoki")
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, "susan", got[0].Name)
}

func TestStore_Search_EscapesLikeWildcards(t *testing.T) {
	db := testutil.NewTestDB(t)
	t.Cleanup(func() { _ = db.Close() })
	testutil.NewBuilder(t, db).
		WithUser("1", testutil.Name("brad")).
		WithUser("2", testutil.Name("100%done")).
		Build()
	s := NewStore(db)

	// A literal '%' must not act as a wildcard
	got, err := s.Search(context.Background(), '@', "%")
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, "100%done", got[0].Name)
}

func TestStore_Lookup(t *testing.T) {
	s := newSeededStore(t)

	c, err := s.Lookup(context.Background(), '@', "11a")
	require.NoError(t, err)
	require.Equal(t, "brad", c.Name)
	require.Equal(t, "Brad Fritz", c.Detail)

	_, err = s.Lookup(context.Background(), '@', "nope")
	require.Error(t, err)
	require.True(t, IsNotFound(err))
}

func TestStore_Upsert(t *testing.T) {
	db := testutil.NewTestDB(t)
	t.Cleanup(func() { _ = db.Close() })
	s := NewStore(db)

	err := s.Upsert(context.Background(), '@', Candidate{ID: "u1", Name: "brad"})
	require.NoError(t, err)

	// Upsert with the same id replaces the row
	err = s.Upsert(context.Background(), '@', Candidate{ID: "u1", Name: "bradley", Detail: "renamed"})
	require.NoError(t, err)

	c, err := s.Lookup(context.Background(), '@', "u1")
	require.NoError(t, err)
	require.Equal(t, "bradley", c.Name)
	require.Equal(t, "renamed", c.Detail)

	got, err := s.Search(context.Background(), '@', "")
	require.NoError(t, err)
	require.Len(t, got, 1)
}
