package store

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/europass-builder/internal/types"
)

func newResume(t *testing.T, given, family string) *types.Resume {
	t.Helper()
	r, err := types.NewResume(types.Profile{GivenName: given, FamilyName: family})
	require.NoError(t, err)
	return r
}

func TestCreateAndGet(t *testing.T) {
	s := New(0)
	r := newResume(t, "Ada", "Lovelace")

	id, err := s.Create(r)
	require.NoError(t, err)
	assert.Len(t, id, 8, "handles are short identifiers")

	got, err := s.Get(id)
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", got.FullName())

	_, err = s.Get("missing1")
	var notFound *NotFoundError
	assert.ErrorAs(t, err, &notFound)
}

func TestCreateRejectsInvalidResume(t *testing.T) {
	s := New(0)
	_, err := s.Create(&types.Resume{})
	assert.Error(t, err)
	assert.Equal(t, 0, s.Len())
}

func TestEvictionOldestFirst(t *testing.T) {
	s := New(3)
	var ids []string
	for i := 0; i < 3; i++ {
		id, err := s.Create(newResume(t, "Person", fmt.Sprintf("Number%d", i)))
		require.NoError(t, err)
		ids = append(ids, id)
	}

	_, err := s.Create(newResume(t, "Person", "Number3"))
	require.NoError(t, err)

	assert.Equal(t, 3, s.Len(), "capacity holds")
	_, err = s.Get(ids[0])
	assert.Error(t, err, "oldest entry was evicted")
	_, err = s.Get(ids[1])
	assert.NoError(t, err)
}

func TestUpdateShallowMerge(t *testing.T) {
	s := New(0)
	r := newResume(t, "Ada", "Lovelace")
	r.Languages = []types.Language{{Name: "English", Level: "native"}}
	id, err := s.Create(r)
	require.NoError(t, err)

	jobs := []types.Job{{
		Organization: types.Organization{Name: "Analytical Engines"},
		Roles:        []types.Role{{Title: "Programmer", StartDate: "1843-01"}},
	}}
	updated, err := s.Update(id, types.ResumePatch{Jobs: &jobs}, false)
	require.NoError(t, err)
	assert.Len(t, updated.Jobs, 1)
	assert.Len(t, updated.Languages, 1, "untouched fields survive")
}

func TestUpdateRejectedPatchLeavesRecordUntouched(t *testing.T) {
	s := New(0)
	r := newResume(t, "Marie", "Curie")
	r.RawXML = "<Candidate>imported</Candidate>"
	id, err := s.Create(r)
	require.NoError(t, err)

	_, err = s.Update(id, types.ResumePatch{Profile: &types.Profile{}}, true)
	require.Error(t, err, "clearing both names is invalid")

	got, err := s.Get(id)
	require.NoError(t, err)
	assert.Equal(t, "Marie", got.Profile.GivenName)
	assert.Equal(t, "Curie", got.Profile.FamilyName)
	assert.NotEmpty(t, got.RawXML, "rederive has no effect when the patch is rejected")
}

func TestUpdateClearsRawXMLOnRederive(t *testing.T) {
	s := New(0)
	r := newResume(t, "Ada", "Lovelace")
	r.RawXML = "<Candidate>imported</Candidate>"
	id, err := s.Create(r)
	require.NoError(t, err)

	kept, err := s.Update(id, types.ResumePatch{}, false)
	require.NoError(t, err)
	assert.NotEmpty(t, kept.RawXML, "raw document survives a plain update")

	cleared, err := s.Update(id, types.ResumePatch{}, true)
	require.NoError(t, err)
	assert.Empty(t, cleared.RawXML, "opting into re-derivation drops the raw document")
}

func TestUpdateMissing(t *testing.T) {
	s := New(0)
	_, err := s.Update("missing1", types.ResumePatch{}, false)
	var notFound *NotFoundError
	assert.ErrorAs(t, err, &notFound)
}

func TestDelete(t *testing.T) {
	s := New(0)
	id, err := s.Create(newResume(t, "Ada", "Lovelace"))
	require.NoError(t, err)

	require.NoError(t, s.Delete(id))
	assert.Equal(t, 0, s.Len())

	var notFound *NotFoundError
	assert.ErrorAs(t, s.Delete(id), &notFound)
}

func TestListSummaries(t *testing.T) {
	s := New(0)
	r := newResume(t, "Ada", "Lovelace")
	r.Profile.Title = "Analyst"
	r.RawXML = "<Candidate />"
	r.Jobs = []types.Job{{Organization: types.Organization{Name: "X"}, Roles: []types.Role{{Title: "Y", StartDate: "2020-01"}}}}
	id, err := s.Create(r)
	require.NoError(t, err)
	_, err = s.Create(newResume(t, "Grace", "Hopper"))
	require.NoError(t, err)

	list := s.List()
	require.Len(t, list, 2)
	assert.Equal(t, id, list[0].ID, "insertion order")
	assert.Equal(t, "Ada Lovelace", list[0].Name)
	assert.Equal(t, "Analyst", list[0].Title)
	assert.Equal(t, 1, list[0].Jobs)
	assert.True(t, list[0].HasRawXML)
	assert.False(t, list[1].HasRawXML)
}
