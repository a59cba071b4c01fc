package store

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"caseconnect/internal/resource/models"
	"caseconnect/pkg/platform/sentinel"
	pstrings "caseconnect/pkg/platform/strings"
)

// Memory is a mutex-guarded in-memory store implementing the full record
// collection contract. It backs unit tests and mirrors the Mongo store's
// observable behaviour operation for operation.
type Memory struct {
	mu      sync.RWMutex
	records []models.Resource
}

func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) GetAll(_ context.Context) ([]models.Resource, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]models.Resource, 0, len(m.records))
	for i := range m.records {
		out = append(out, *m.records[i].Clone())
	}
	return out, nil
}

func (m *Memory) GetByID(_ context.Context, resourceID int) (*models.Resource, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if r := m.find(resourceID); r != nil {
		return r.Clone(), nil
	}
	return nil, fmt.Errorf("resource %d: %w", resourceID, sentinel.ErrNotFound)
}

func (m *Memory) LatestID(_ context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if len(m.records) == 0 {
		return 0, fmt.Errorf("latest resource id: %w", sentinel.ErrNotFound)
	}
	latest := m.records[0].ResourceID
	for _, r := range m.records[1:] {
		if r.ResourceID > latest {
			latest = r.ResourceID
		}
	}
	return latest, nil
}

func (m *Memory) Create(_ context.Context, r *models.Resource) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored := r.Clone()
	stored.ID = primitive.NewObjectID()
	stored.NormalizeLists()
	m.records = append(m.records, *stored)
	r.ID = stored.ID
	return nil
}

func (m *Memory) Replace(_ context.Context, resourceID int, upd models.Replacement) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r := m.find(resourceID)
	if r == nil {
		return fmt.Errorf("resource %d: %w", resourceID, sentinel.ErrNotFound)
	}
	r.FirstName = upd.FirstName
	r.LastName = upd.LastName
	r.MiddleName = upd.MiddleName
	r.EmailID = upd.EmailID
	r.PhoneNumber = upd.PhoneNumber
	r.CurrentIndiaAddress = upd.CurrentIndiaAddress
	r.CurrentUSAddress = upd.CurrentUSAddress
	r.CountryOfOrigin = upd.CountryOfOrigin
	r.ReferredBy = upd.ReferredBy
	r.ExperienceYears = upd.ExperienceYears
	r.TechnicalSkills = append([]string(nil), upd.TechnicalSkills...)
	r.KeySummary = upd.KeySummary
	r.UserType = upd.UserType
	r.WorkStatus = upd.WorkStatus
	r.YearOfFiling = upd.YearOfFiling
	r.StartDate = upd.StartDate
	r.EndDate = upd.EndDate
	r.JoiningDate = upd.JoiningDate
	r.ExitDate = upd.ExitDate
	r.EducationDetails = append([]models.Education(nil), upd.EducationDetails...)
	r.JobDetails = append([]models.Job(nil), upd.JobDetails...)
	r.ResumeUploads = append([]string(nil), upd.ResumeUploads...)
	r.DepartureCity = upd.DepartureCity
	r.ArrivalCity = upd.ArrivalCity
	r.DepartureDate = upd.DepartureDate
	r.ArrivalDate = upd.ArrivalDate
	r.NormalizeLists()
	return nil
}

func (m *Memory) Delete(_ context.Context, resourceID int) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.records {
		if m.records[i].ResourceID == resourceID {
			m.records = append(m.records[:i], m.records[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (m *Memory) Search(_ context.Context, c Criteria) ([]models.Resource, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]models.Resource, 0, len(m.records))
	for i := range m.records {
		if matches(&m.records[i], c) {
			out = append(out, *m.records[i].Clone())
		}
	}
	return out, nil
}

func (m *Memory) SearchByUserType(ctx context.Context, userType string) ([]models.Resource, error) {
	return m.Search(ctx, Criteria{UserType: userType})
}

func (m *Memory) AppendStatus(_ context.Context, resourceID int, entry models.StatusEntry) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r := m.find(resourceID)
	if r == nil {
		return false, nil
	}
	r.StatusHistory = append(r.StatusHistory, entry)
	return true, nil
}

func (m *Memory) MostRecentStatus(_ context.Context, resourceID int) (*models.StatusEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r := m.find(resourceID)
	if r == nil {
		return nil, fmt.Errorf("resource %d: %w", resourceID, sentinel.ErrNotFound)
	}
	latest := models.MostRecentStatus(r.StatusHistory)
	if latest == nil {
		return nil, fmt.Errorf("resource %d has no status history: %w", resourceID, sentinel.ErrNotFound)
	}
	entry := *latest
	return &entry, nil
}

func (m *Memory) FindByMostRecentStatus(_ context.Context, statusID int, userType string, yearOfFiling *int) ([]models.Resource, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []models.Resource
	for i := range m.records {
		r := &m.records[i]
		if userType != "" && r.UserType != userType {
			continue
		}
		if yearOfFiling != nil && r.YearOfFiling != *yearOfFiling {
			continue
		}
		latest := models.MostRecentStatus(r.StatusHistory)
		if latest == nil || latest.StatusID != statusID {
			continue
		}
		out = append(out, *r.Clone())
	}
	return out, nil
}

func (m *Memory) AppendNote(_ context.Context, resourceID int, note models.Note) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r := m.find(resourceID)
	if r == nil {
		return false, nil
	}
	if r.Notes == nil {
		r.Notes = []models.Note{}
	}
	r.Notes = append(r.Notes, note)
	return true, nil
}

func (m *Memory) InitAttachmentLists(_ context.Context, resourceID int, kind models.AttachmentKind) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r := m.find(resourceID)
	if r == nil {
		return fmt.Errorf("resource %d: %w", resourceID, sentinel.ErrNotFound)
	}
	switch kind {
	case models.KindResume:
		if r.ResumeUploads == nil {
			r.ResumeUploads = []string{}
		}
	case models.KindEducationDocument:
		for i := range r.EducationDetails {
			if r.EducationDetails[i].EducationDocuments == nil {
				r.EducationDetails[i].EducationDocuments = []string{}
			}
		}
	case models.KindOfferLetter:
		for i := range r.JobDetails {
			if r.JobDetails[i].OfferLetters == nil {
				r.JobDetails[i].OfferLetters = []string{}
			}
		}
	case models.KindRelievingLetter:
		for i := range r.JobDetails {
			if r.JobDetails[i].RelievingLetters == nil {
				r.JobDetails[i].RelievingLetters = []string{}
			}
		}
	default:
		return fmt.Errorf("attachment kind %q: %w", kind, sentinel.ErrInvalidArgument)
	}
	return nil
}

func (m *Memory) ScrubAttachmentPlaceholder(_ context.Context, resourceID int, kind models.AttachmentKind) error {
	return m.eachAttachmentList(resourceID, kind, func(list []string) []string {
		return pstrings.Remove(list, models.AttachmentPlaceholder)
	})
}

func (m *Memory) AddAttachmentRef(_ context.Context, resourceID int, kind models.AttachmentKind, blobID string) error {
	return m.eachAttachmentList(resourceID, kind, func(list []string) []string {
		return pstrings.AddUnique(list, blobID)
	})
}

func (m *Memory) Empty(_ context.Context) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.records) == 0, nil
}

// eachAttachmentList applies fn to every target list for kind: the single
// top-level resume list, or the list inside every entry of the nested array.
func (m *Memory) eachAttachmentList(resourceID int, kind models.AttachmentKind, fn func([]string) []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r := m.find(resourceID)
	if r == nil {
		return fmt.Errorf("resource %d: %w", resourceID, sentinel.ErrNotFound)
	}
	switch kind {
	case models.KindResume:
		r.ResumeUploads = fn(r.ResumeUploads)
	case models.KindEducationDocument:
		for i := range r.EducationDetails {
			r.EducationDetails[i].EducationDocuments = fn(r.EducationDetails[i].EducationDocuments)
		}
	case models.KindOfferLetter:
		for i := range r.JobDetails {
			r.JobDetails[i].OfferLetters = fn(r.JobDetails[i].OfferLetters)
		}
	case models.KindRelievingLetter:
		for i := range r.JobDetails {
			r.JobDetails[i].RelievingLetters = fn(r.JobDetails[i].RelievingLetters)
		}
	default:
		return fmt.Errorf("attachment kind %q: %w", kind, sentinel.ErrInvalidArgument)
	}
	return nil
}

// find returns a pointer into the backing slice; callers hold the lock.
func (m *Memory) find(resourceID int) *models.Resource {
	for i := range m.records {
		if m.records[i].ResourceID == resourceID {
			return &m.records[i]
		}
	}
	return nil
}

func matches(r *models.Resource, c Criteria) bool {
	if c.FirstName != "" && !hasFoldedPrefix(r.FirstName, c.FirstName) {
		return false
	}
	if c.LastName != "" && !hasFoldedPrefix(r.LastName, c.LastName) {
		return false
	}
	if c.Skill != "" {
		found := false
		for _, s := range r.TechnicalSkills {
			if hasFoldedPrefix(s, c.Skill) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if c.JoiningDate != nil && !inMonth(r.JoiningDate, *c.JoiningDate) {
		return false
	}
	if c.StartDate != nil && !inMonth(r.StartDate, *c.StartDate) {
		return false
	}
	if c.EndDate != nil && !inMonth(r.EndDate, *c.EndDate) {
		return false
	}
	if c.UserType != "" && r.UserType != c.UserType {
		return false
	}
	if c.YearOfFiling > 0 && r.YearOfFiling != c.YearOfFiling {
		return false
	}
	return true
}

func hasFoldedPrefix(s, prefix string) bool {
	return strings.HasPrefix(strings.ToLower(s), strings.ToLower(prefix))
}

// inMonth reports whether t falls inside the calendar month of ref:
// [first of month, first of next month). The window is pinned to UTC so
// both store implementations classify boundary instants identically.
func inMonth(t *time.Time, ref time.Time) bool {
	if t == nil {
		return false
	}
	start := time.Date(ref.Year(), ref.Month(), 1, 0, 0, 0, 0, time.UTC)
	next := start.AddDate(0, 1, 0)
	return !t.Before(start) && t.Before(next)
}
