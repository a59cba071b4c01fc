package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"caseconnect/internal/resource/models"
	"caseconnect/pkg/platform/sentinel"
)

func date(year int, month time.Month, day int) *time.Time {
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return &t
}

func seedResource(t *testing.T, s *Memory, r models.Resource) {
	t.Helper()
	require.NoError(t, s.Create(context.Background(), &r))
}

func TestMemoryCreateAndGet(t *testing.T) {
	s := NewMemory()
	ctx := context.Background()

	r := models.Resource{ResourceID: 1, FirstName: "Ana", UserType: "H1B"}
	require.NoError(t, s.Create(ctx, &r))
	assert.False(t, r.ID.IsZero(), "create assigns a fresh storage key")

	got, err := s.GetByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Ana", got.FirstName)

	_, err = s.GetByID(ctx, 99)
	assert.ErrorIs(t, err, sentinel.ErrNotFound)
}

func TestMemoryCreate_NormalizesNilLists(t *testing.T) {
	s := NewMemory()
	ctx := context.Background()

	require.NoError(t, s.Create(ctx, &models.Resource{
		ResourceID: 1,
		JobDetails: []models.Job{{Company: "Acme"}},
	}))

	got, err := s.GetByID(ctx, 1)
	require.NoError(t, err)
	assert.NotNil(t, got.StatusHistory, "list fields persist as empty, never nil")
	assert.NotNil(t, got.Notes)
	assert.NotNil(t, got.ResumeUploads)
	assert.NotNil(t, got.EducationDetails)
	assert.NotNil(t, got.JobDetails[0].OfferLetters)
}

func TestMemoryLatestID(t *testing.T) {
	s := NewMemory()
	ctx := context.Background()

	_, err := s.LatestID(ctx)
	assert.ErrorIs(t, err, sentinel.ErrNotFound)

	seedResource(t, s, models.Resource{ResourceID: 2})
	seedResource(t, s, models.Resource{ResourceID: 5})
	seedResource(t, s, models.Resource{ResourceID: 3})

	latest, err := s.LatestID(ctx)
	require.NoError(t, err)
	assert.Equal(t, 5, latest)
}

func TestMemoryDelete(t *testing.T) {
	s := NewMemory()
	ctx := context.Background()
	seedResource(t, s, models.Resource{ResourceID: 1})

	removed, err := s.Delete(ctx, 1)
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = s.Delete(ctx, 1)
	require.NoError(t, err)
	assert.False(t, removed, "second delete finds nothing")

	empty, err := s.Empty(ctx)
	require.NoError(t, err)
	assert.True(t, empty)
}

func TestMemoryReplace(t *testing.T) {
	s := NewMemory()
	ctx := context.Background()
	seedResource(t, s, models.Resource{
		ResourceID:       1,
		FirstName:        "Ana",
		EducationDetails: []models.Education{{EducationID: 1}, {EducationID: 2}},
		Notes:            []models.Note{{Text: "keep me"}},
	})

	err := s.Replace(ctx, 1, models.Replacement{
		FirstName:        "Anna",
		UserType:         "H1B",
		EducationDetails: []models.Education{{EducationID: 7}},
	})
	require.NoError(t, err)

	got, err := s.GetByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Anna", got.FirstName)
	assert.Equal(t, "H1B", got.UserType)
	require.Len(t, got.EducationDetails, 1, "list fields are replaced wholesale, not merged")
	assert.Equal(t, 7, got.EducationDetails[0].EducationID)
	assert.Len(t, got.Notes, 1, "notes are not part of the replaced field set")

	err = s.Replace(ctx, 42, models.Replacement{})
	assert.ErrorIs(t, err, sentinel.ErrNotFound)
}

func TestMemorySearch(t *testing.T) {
	s := NewMemory()
	ctx := context.Background()

	seedResource(t, s, models.Resource{
		ResourceID:      1,
		FirstName:       "Ana",
		LastName:        "Moreno",
		TechnicalSkills: []string{"Golang", "Kubernetes"},
		UserType:        "H1B",
		YearOfFiling:    2024,
		JoiningDate:     date(2024, time.March, 15),
	})
	seedResource(t, s, models.Resource{
		ResourceID:      2,
		FirstName:       "ANNE",
		LastName:        "Smith",
		TechnicalSkills: []string{"Java"},
		UserType:        "OPT",
		YearOfFiling:    2023,
		JoiningDate:     date(2024, time.April, 2),
	})
	seedResource(t, s, models.Resource{
		ResourceID:      3,
		FirstName:       "Juan",
		LastName:        "Anderson",
		TechnicalSkills: []string{"golang"},
		UserType:        "H1B",
		YearOfFiling:    2024,
	})

	tests := []struct {
		name     string
		criteria Criteria
		wantIDs  []int
	}{
		{
			name:     "zero criteria returns everything",
			criteria: Criteria{},
			wantIDs:  []int{1, 2, 3},
		},
		{
			name:     "first name prefix is case-insensitive",
			criteria: Criteria{FirstName: "an"},
			wantIDs:  []int{1, 2},
		},
		{
			name:     "prefix not substring",
			criteria: Criteria{FirstName: "na"},
			wantIDs:  []int{},
		},
		{
			name:     "skill matches any entry by prefix",
			criteria: Criteria{Skill: "go"},
			wantIDs:  []int{1, 3},
		},
		{
			name:     "joining date restricts to calendar month, not exact day",
			criteria: Criteria{JoiningDate: date(2024, time.March, 31)},
			wantIDs:  []int{1},
		},
		{
			name:     "user type is exact",
			criteria: Criteria{UserType: "H1B"},
			wantIDs:  []int{1, 3},
		},
		{
			name:     "zero year of filing means unspecified",
			criteria: Criteria{UserType: "OPT", YearOfFiling: 0},
			wantIDs:  []int{2},
		},
		{
			name:     "criteria are conjunctive",
			criteria: Criteria{FirstName: "an", UserType: "H1B", YearOfFiling: 2024},
			wantIDs:  []int{1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.Search(ctx, tt.criteria)
			require.NoError(t, err)
			ids := make([]int, 0, len(got))
			for _, r := range got {
				ids = append(ids, r.ResourceID)
			}
			assert.ElementsMatch(t, tt.wantIDs, ids)
		})
	}
}

func TestMemorySearch_MonthWindowPinnedToUTC(t *testing.T) {
	s := NewMemory()
	ctx := context.Background()

	// Joined in the last half hour of March, UTC.
	joined := time.Date(2024, time.March, 31, 23, 30, 0, 0, time.UTC)
	seedResource(t, s, models.Resource{ResourceID: 1, JoiningDate: &joined})

	zone := time.FixedZone("UTC+1", 3600)

	// Same instant reads as April in UTC+1; the window must not shift with
	// the criteria's zone.
	april := time.Date(2024, time.April, 1, 0, 30, 0, 0, zone)
	got, err := s.Search(ctx, Criteria{JoiningDate: &april})
	require.NoError(t, err)
	assert.Empty(t, got)

	march := time.Date(2024, time.March, 15, 12, 0, 0, 0, zone)
	got, err = s.Search(ctx, Criteria{JoiningDate: &march})
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestMemorySearchByUserType(t *testing.T) {
	s := NewMemory()
	ctx := context.Background()
	seedResource(t, s, models.Resource{ResourceID: 1, UserType: "H1B"})
	seedResource(t, s, models.Resource{ResourceID: 2, UserType: "OPT"})

	got, err := s.SearchByUserType(ctx, "H1B")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 1, got[0].ResourceID)
}

func TestMemoryAppendStatusAndMostRecent(t *testing.T) {
	s := NewMemory()
	ctx := context.Background()
	seedResource(t, s, models.Resource{ResourceID: 1})

	// Appended out of chronological order: A at t=2, then B backfilled at t=1.
	matched, err := s.AppendStatus(ctx, 1, models.StatusEntry{
		StatusID: 5, StatusName: "Approved", Timestamp: time.Unix(2, 0),
	})
	require.NoError(t, err)
	assert.True(t, matched)
	matched, err = s.AppendStatus(ctx, 1, models.StatusEntry{
		StatusID: 3, StatusName: "Filed", Timestamp: time.Unix(1, 0),
	})
	require.NoError(t, err)
	assert.True(t, matched)

	latest, err := s.MostRecentStatus(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 5, latest.StatusID, "current status follows timestamps, not insertion order")

	got, err := s.GetByID(ctx, 1)
	require.NoError(t, err)
	require.Len(t, got.StatusHistory, 2)
	assert.Equal(t, 5, got.StatusHistory[0].StatusID, "timeline preserves insertion order")

	matched, err = s.AppendStatus(ctx, 42, models.StatusEntry{StatusID: 1})
	require.NoError(t, err)
	assert.False(t, matched)
}

func TestMemoryMostRecentStatus_TieBreak(t *testing.T) {
	s := NewMemory()
	ctx := context.Background()
	seedResource(t, s, models.Resource{ResourceID: 1})

	ts := time.Unix(10, 0)
	_, err := s.AppendStatus(ctx, 1, models.StatusEntry{StatusID: 1, Timestamp: ts})
	require.NoError(t, err)
	_, err = s.AppendStatus(ctx, 1, models.StatusEntry{StatusID: 2, Timestamp: ts})
	require.NoError(t, err)

	latest, err := s.MostRecentStatus(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, latest.StatusID, "equal timestamps resolve to the later-appended entry")
}

func TestMemoryMostRecentStatus_Empty(t *testing.T) {
	s := NewMemory()
	ctx := context.Background()
	seedResource(t, s, models.Resource{ResourceID: 1})

	_, err := s.MostRecentStatus(ctx, 1)
	assert.ErrorIs(t, err, sentinel.ErrNotFound)
}

func TestMemoryFindByMostRecentStatus(t *testing.T) {
	s := NewMemory()
	ctx := context.Background()

	// Record 1's latest entry has code 5 even though 5 also appears earlier.
	seedResource(t, s, models.Resource{
		ResourceID: 1, UserType: "H1B", YearOfFiling: 2024,
		StatusHistory: []models.StatusEntry{
			{StatusID: 3, Timestamp: time.Unix(1, 0)},
			{StatusID: 5, Timestamp: time.Unix(2, 0)},
		},
	})
	// Record 2 held code 5 historically but its true latest entry differs.
	seedResource(t, s, models.Resource{
		ResourceID: 2, UserType: "H1B", YearOfFiling: 2024,
		StatusHistory: []models.StatusEntry{
			{StatusID: 5, Timestamp: time.Unix(3, 0)},
			{StatusID: 7, Timestamp: time.Unix(4, 0)},
		},
	})
	seedResource(t, s, models.Resource{
		ResourceID: 3, UserType: "OPT",
		StatusHistory: []models.StatusEntry{
			{StatusID: 5, Timestamp: time.Unix(5, 0)},
		},
	})
	// No status history at all: never matches.
	seedResource(t, s, models.Resource{ResourceID: 4, UserType: "H1B"})

	got, err := s.FindByMostRecentStatus(ctx, 5, "H1B", nil)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 1, got[0].ResourceID)

	year := 2023
	got, err = s.FindByMostRecentStatus(ctx, 5, "H1B", &year)
	require.NoError(t, err)
	assert.Empty(t, got)

	got, err = s.FindByMostRecentStatus(ctx, 5, "", nil)
	require.NoError(t, err)
	require.Len(t, got, 2, "blank user type is omitted from the filter")
}

func TestMemoryAppendNote_InitializesMissingList(t *testing.T) {
	s := NewMemory()
	ctx := context.Background()
	seedResource(t, s, models.Resource{ResourceID: 1, Notes: nil})

	matched, err := s.AppendNote(ctx, 1, models.Note{Text: "first"})
	require.NoError(t, err)
	assert.True(t, matched)

	got, err := s.GetByID(ctx, 1)
	require.NoError(t, err)
	require.Len(t, got.Notes, 1)

	matched, err = s.AppendNote(ctx, 1, models.Note{Text: "second"})
	require.NoError(t, err)
	assert.True(t, matched)

	got, err = s.GetByID(ctx, 1)
	require.NoError(t, err)
	require.Len(t, got.Notes, 2)
	assert.Equal(t, "first", got.Notes[0].Text)

	matched, err = s.AppendNote(ctx, 42, models.Note{Text: "nobody"})
	require.NoError(t, err)
	assert.False(t, matched)
}

func TestMemoryAttachmentOps(t *testing.T) {
	s := NewMemory()
	ctx := context.Background()
	seedResource(t, s, models.Resource{
		ResourceID:    1,
		ResumeUploads: []string{models.AttachmentPlaceholder},
		EducationDetails: []models.Education{
			{EducationID: 1, EducationDocuments: nil},
			{EducationID: 2, EducationDocuments: []string{"existing-doc"}},
		},
		JobDetails: []models.Job{
			{Company: "Acme"},
			{Company: "Globex", OfferLetters: []string{models.AttachmentPlaceholder}},
		},
	})

	t.Run("resume placeholder scrubbed then blob added once", func(t *testing.T) {
		require.NoError(t, s.InitAttachmentLists(ctx, 1, models.KindResume))
		require.NoError(t, s.ScrubAttachmentPlaceholder(ctx, 1, models.KindResume))
		require.NoError(t, s.AddAttachmentRef(ctx, 1, models.KindResume, "blob-1"))
		require.NoError(t, s.AddAttachmentRef(ctx, 1, models.KindResume, "blob-1"))

		got, err := s.GetByID(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, []string{"blob-1"}, got.ResumeUploads)
	})

	t.Run("education add applies to every entry, init only where unset", func(t *testing.T) {
		require.NoError(t, s.InitAttachmentLists(ctx, 1, models.KindEducationDocument))
		require.NoError(t, s.ScrubAttachmentPlaceholder(ctx, 1, models.KindEducationDocument))
		require.NoError(t, s.AddAttachmentRef(ctx, 1, models.KindEducationDocument, "edu-doc"))

		got, err := s.GetByID(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, []string{"edu-doc"}, got.EducationDetails[0].EducationDocuments)
		assert.Equal(t, []string{"existing-doc", "edu-doc"}, got.EducationDetails[1].EducationDocuments,
			"initialization must not clobber a sibling entry's existing list")
	})

	t.Run("offer letter placeholder scrubbed across jobs", func(t *testing.T) {
		require.NoError(t, s.InitAttachmentLists(ctx, 1, models.KindOfferLetter))
		require.NoError(t, s.ScrubAttachmentPlaceholder(ctx, 1, models.KindOfferLetter))
		require.NoError(t, s.AddAttachmentRef(ctx, 1, models.KindOfferLetter, "offer-1"))

		got, err := s.GetByID(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, []string{"offer-1"}, got.JobDetails[0].OfferLetters)
		assert.Equal(t, []string{"offer-1"}, got.JobDetails[1].OfferLetters)
	})

	t.Run("missing resource", func(t *testing.T) {
		err := s.AddAttachmentRef(ctx, 42, models.KindResume, "blob")
		assert.ErrorIs(t, err, sentinel.ErrNotFound)
	})
}

func TestMemoryGetAll_ReturnsCopies(t *testing.T) {
	s := NewMemory()
	ctx := context.Background()
	seedResource(t, s, models.Resource{ResourceID: 1, TechnicalSkills: []string{"Go"}})

	all, err := s.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	all[0].TechnicalSkills[0] = "mutated"

	got, err := s.GetByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Go", got.TechnicalSkills[0])
}
