package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeLists_ReplacesNilWithEmpty(t *testing.T) {
	r := Resource{
		ResourceID:       1,
		EducationDetails: []Education{{EducationID: 1}},
		JobDetails:       []Job{{Company: "Acme"}},
	}
	r.NormalizeLists()

	assert.NotNil(t, r.TechnicalSkills)
	assert.NotNil(t, r.ResumeUploads)
	assert.NotNil(t, r.StatusHistory)
	assert.NotNil(t, r.Notes)
	assert.NotNil(t, r.EducationDetails[0].EducationDocuments, "nested lists normalize too")
	assert.NotNil(t, r.JobDetails[0].OfferLetters)
	assert.NotNil(t, r.JobDetails[0].RelievingLetters)
}

func TestNormalizeLists_KeepsExistingEntries(t *testing.T) {
	r := Resource{
		TechnicalSkills: []string{"go"},
		ResumeUploads:   []string{"blob-1"},
		StatusHistory:   []StatusEntry{{StatusID: 2}},
	}
	r.NormalizeLists()

	assert.Equal(t, []string{"go"}, r.TechnicalSkills)
	assert.Equal(t, []string{"blob-1"}, r.ResumeUploads)
	require.Len(t, r.StatusHistory, 1)
	assert.Equal(t, 2, r.StatusHistory[0].StatusID)
}

func TestReplacementNormalizeLists(t *testing.T) {
	u := Replacement{JobDetails: []Job{{Company: "Acme"}}}
	u.NormalizeLists()

	assert.NotNil(t, u.TechnicalSkills)
	assert.NotNil(t, u.ResumeUploads)
	assert.NotNil(t, u.EducationDetails)
	assert.NotNil(t, u.JobDetails[0].OfferLetters)
	assert.NotNil(t, u.JobDetails[0].RelievingLetters)
}

func TestMostRecentStatus(t *testing.T) {
	ts := time.Unix(10, 0)
	entries := []StatusEntry{
		{StatusID: 1, Timestamp: time.Unix(20, 0)},
		{StatusID: 2, Timestamp: ts},
		{StatusID: 3, Timestamp: ts},
	}

	latest := MostRecentStatus(entries)
	require.NotNil(t, latest)
	assert.Equal(t, 1, latest.StatusID)

	assert.Nil(t, MostRecentStatus(nil))
}
