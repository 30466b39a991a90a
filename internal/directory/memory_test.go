package directory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func seedMemory() *Memory {
	m := NewMemory()
	m.Add('@', Candidate{ID: "11a", Name: "brad", Detail: "Brad Fritz"})
	m.Add('@', Candidate{ID: "21b", Name: "susan", Detail: "Susan Aoki"})
	m.Add('@', Candidate{ID: "42c", Name: "lucy", Detail: "Lucy Ferrao"})
	m.Add('@', Candidate{ID: "56d", Name: "luna", Detail: "Luna Park"})
	m.Add('#', Candidate{ID: "007", Name: "Flutter"})
	return m
}

func TestMemory_Search_EmptyQueryListsAll(t *testing.T) {
	m := seedMemory()

	got, err := m.Search(context.Background(), '@', "")
	require.NoError(t, err)
	require.Len(t, got, 4)
	require.Equal(t, "brad", got[0].Name)
}

func TestMemory_Search_PrefixRanksFirst(t *testing.T) {
	m := NewMemory()
	m.Add('@', Candidate{ID: "1", Name: "luna"})
	m.Add('@', Candidate{ID: "2", Name: "alu"})
	m.Add('@', Candidate{ID: "3", Name: "lucy"})

	got, err := m.Search(context.Background(), '@', "lu")
	require.NoError(t, err)
	require.Len(t, got, 3)
	// Prefix matches (lucy, luna) before the substring match (alu).
	require.Equal(t, "lucy", got[0].Name)
	require.Equal(t, "luna", got[1].Name)
	require.Equal(t, "alu", got[2].Name)
}

func TestMemory_Search_CaseInsensitive(t *testing.T) {
	m := seedMemory()

	got, err := m.Search(context.Background(), '#', "flut")
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, "Flutter", got[0].Name)
}

func TestMemory_Search_MatchesDetail(t *testing.T) {
	m := seedMemory()

	got, err := m.Search(context.Background(), '@', "aoki")
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, "susan", got[0].Name)
}

func TestMemory_Search_TriggersAreIsolated(t *testing.T) {
	m := seedMemory()

	got, err := m.Search(context.Background(), '#', "brad")
	require.NoError(t, err)
	require.Empty(t, got)
}

func TestMemory_Lookup(t *testing.T) {
	m := seedMemory()

	c, err := m.Lookup(context.Background(), '@', "11a")
	require.NoError(t, err)
	require.Equal(t, "brad", c.Name)

	_, err = m.Lookup(context.Background(), '@', "missing")
	require.Error(t, err)
	require.True(t, IsNotFound(err))
}
