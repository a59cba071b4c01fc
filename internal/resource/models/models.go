package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AttachmentPlaceholder is the literal default value some client forms submit
// in attachment lists. It must never survive into a stored list once real
// attachments are added.
const AttachmentPlaceholder = "string"

// AttachmentKind selects which nested list of a resource an attachment
// identifier is written into. Kinds are a closed set; anything else is an
// invalid argument at the service boundary.
type AttachmentKind string

const (
	KindResume            AttachmentKind = "resume"
	KindEducationDocument AttachmentKind = "educationDocument"
	KindOfferLetter       AttachmentKind = "offerLetter"
	KindRelievingLetter   AttachmentKind = "relievingLetter"
)

// Valid reports whether k names one of the four supported attachment targets.
func (k AttachmentKind) Valid() bool {
	switch k {
	case KindResume, KindEducationDocument, KindOfferLetter, KindRelievingLetter:
		return true
	}
	return false
}

// Resource is one tracked work-authorization case: the individual's personal
// data plus all nested sub-entities. The storage key is assigned by the store;
// ResourceID is the externally visible identifier issued by the sequence
// allocator.
type Resource struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ResourceID int                `bson:"resourceId" json:"resourceId"`

	FirstName           string   `bson:"firstName" json:"firstName"`
	LastName            string   `bson:"lastName" json:"lastName"`
	MiddleName          string   `bson:"middleName" json:"middleName"`
	EmailID             string   `bson:"emailId" json:"emailId"`
	PhoneNumber         string   `bson:"phoneNumber" json:"phoneNumber"`
	CurrentIndiaAddress string   `bson:"currentIndiaAddress" json:"currentIndiaAddress"`
	CurrentUSAddress    string   `bson:"currentUsAddress" json:"currentUsAddress"`
	CountryOfOrigin     string   `bson:"countryOfOrigin" json:"countryOfOrigin"`
	ReferredBy          string   `bson:"referredBy" json:"referredBy"`
	ExperienceYears     float64  `bson:"experienceYears" json:"experienceYears"`
	TechnicalSkills     []string `bson:"technicalSkills" json:"technicalSkills"`
	KeySummary          string   `bson:"keySummary" json:"keySummary"`

	UserType     string `bson:"userType" json:"userType"`
	WorkStatus   string `bson:"workStatus" json:"workStatus"`
	YearOfFiling int    `bson:"yearOfFiling" json:"yearOfFiling"`

	StartDate   *time.Time `bson:"startDate" json:"startDate"`
	EndDate     *time.Time `bson:"endDate" json:"endDate"`
	JoiningDate *time.Time `bson:"joiningDate" json:"joiningDate"`
	ExitDate    *time.Time `bson:"exitDate" json:"exitDate"`

	EducationDetails []Education   `bson:"educationDetails" json:"educationDetails"`
	JobDetails       []Job         `bson:"jobDetails" json:"jobDetails"`
	ResumeUploads    []string      `bson:"resumeUploads" json:"resumeUploads"`
	StatusHistory    []StatusEntry `bson:"statusHistory" json:"statusHistory"`
	Notes            []Note        `bson:"notes" json:"notes"`

	DepartureCity string     `bson:"departureCity" json:"departureCity"`
	ArrivalCity   string     `bson:"arrivalCity" json:"arrivalCity"`
	DepartureDate *time.Time `bson:"departureDate" json:"departureDate"`
	ArrivalDate   *time.Time `bson:"arrivalDate" json:"arrivalDate"`
}

// Education is one education history entry with its attached document ids.
type Education struct {
	EducationID        int      `bson:"educationId" json:"educationId"`
	GraduationYear     int      `bson:"graduationYear" json:"graduationYear"`
	InstitutionName    string   `bson:"institutionName" json:"institutionName"`
	GPA                float64  `bson:"gpa" json:"gpa"`
	Percentage         float64  `bson:"percentage" json:"percentage"`
	Grade              string   `bson:"grade" json:"grade"`
	Marks              float64  `bson:"marks" json:"marks"`
	EducationDocuments []string `bson:"educationDocuments" json:"educationDocuments"`
}

// Job is one employment history entry with offer and relieving letter ids.
type Job struct {
	Company                string     `bson:"company" json:"company"`
	StartDate              time.Time  `bson:"startDate" json:"startDate"`
	EndDate                *time.Time `bson:"endDate" json:"endDate"`
	RolesAndResponsibility string     `bson:"rolesAndResponsibility" json:"rolesAndResponsibility"`
	LastDesignation        string     `bson:"lastDesignation" json:"lastDesignation"`
	OfferLetters           []string   `bson:"offerLetters" json:"offerLetters"`
	RelievingLetters       []string   `bson:"relievingLetters" json:"relievingLetters"`
}

// StatusEntry is one event on the immigration-status timeline. The current
// status is the entry with the latest Timestamp, which is not necessarily the
// last one appended.
type StatusEntry struct {
	StatusID   int       `bson:"statusId" json:"statusId"`
	StatusName string    `bson:"statusName" json:"statusName"`
	StatusType string    `bson:"statusType" json:"statusType"`
	Timestamp  time.Time `bson:"timestamp" json:"timestamp"`
}

// Note is a free-text case note.
type Note struct {
	Text      string    `bson:"text" json:"text"`
	Timestamp time.Time `bson:"timestamp" json:"timestamp"`
}

// MostRecentStatus returns the entry with the latest timestamp, or nil when
// the timeline is empty. When two entries share a timestamp the one appended
// later wins.
func MostRecentStatus(entries []StatusEntry) *StatusEntry {
	var latest *StatusEntry
	for i := range entries {
		if latest == nil || !entries[i].Timestamp.Before(latest.Timestamp) {
			latest = &entries[i]
		}
	}
	return latest
}

// AttachmentRefs resolves the blob identifiers for the given kind: the
// top-level resume list, or the union across every entry of the nested array.
func (r *Resource) AttachmentRefs(kind AttachmentKind) []string {
	switch kind {
	case KindResume:
		return append([]string(nil), r.ResumeUploads...)
	case KindEducationDocument:
		var ids []string
		for _, e := range r.EducationDetails {
			ids = append(ids, e.EducationDocuments...)
		}
		return ids
	case KindOfferLetter:
		var ids []string
		for _, j := range r.JobDetails {
			ids = append(ids, j.OfferLetters...)
		}
		return ids
	case KindRelievingLetter:
		var ids []string
		for _, j := range r.JobDetails {
			ids = append(ids, j.RelievingLetters...)
		}
		return ids
	}
	return nil
}

// NormalizeLists replaces nil list fields, top-level and nested, with empty
// slices. Document stores encode nil slices as null, and array update
// operators ($push, $[], arrayFilters) reject null targets, so stores call
// this before persisting.
func (r *Resource) NormalizeLists() {
	if r.TechnicalSkills == nil {
		r.TechnicalSkills = []string{}
	}
	if r.ResumeUploads == nil {
		r.ResumeUploads = []string{}
	}
	if r.StatusHistory == nil {
		r.StatusHistory = []StatusEntry{}
	}
	if r.Notes == nil {
		r.Notes = []Note{}
	}
	if r.EducationDetails == nil {
		r.EducationDetails = []Education{}
	}
	for i := range r.EducationDetails {
		if r.EducationDetails[i].EducationDocuments == nil {
			r.EducationDetails[i].EducationDocuments = []string{}
		}
	}
	if r.JobDetails == nil {
		r.JobDetails = []Job{}
	}
	for i := range r.JobDetails {
		if r.JobDetails[i].OfferLetters == nil {
			r.JobDetails[i].OfferLetters = []string{}
		}
		if r.JobDetails[i].RelievingLetters == nil {
			r.JobDetails[i].RelievingLetters = []string{}
		}
	}
}

// NormalizeLists is the Replacement counterpart of Resource.NormalizeLists,
// applied before a replace is persisted.
func (u *Replacement) NormalizeLists() {
	if u.TechnicalSkills == nil {
		u.TechnicalSkills = []string{}
	}
	if u.ResumeUploads == nil {
		u.ResumeUploads = []string{}
	}
	if u.EducationDetails == nil {
		u.EducationDetails = []Education{}
	}
	for i := range u.EducationDetails {
		if u.EducationDetails[i].EducationDocuments == nil {
			u.EducationDetails[i].EducationDocuments = []string{}
		}
	}
	if u.JobDetails == nil {
		u.JobDetails = []Job{}
	}
	for i := range u.JobDetails {
		if u.JobDetails[i].OfferLetters == nil {
			u.JobDetails[i].OfferLetters = []string{}
		}
		if u.JobDetails[i].RelievingLetters == nil {
			u.JobDetails[i].RelievingLetters = []string{}
		}
	}
}

// Clone returns a deep copy so in-memory stores never hand out aliased
// slices. Nil and empty lists stay distinct, matching what a document store
// round-trips.
func (r *Resource) Clone() *Resource {
	if r == nil {
		return nil
	}
	out := *r
	out.TechnicalSkills = cloneStrings(r.TechnicalSkills)
	out.ResumeUploads = cloneStrings(r.ResumeUploads)
	if r.StatusHistory != nil {
		out.StatusHistory = append([]StatusEntry{}, r.StatusHistory...)
	}
	if r.Notes != nil {
		out.Notes = append([]Note{}, r.Notes...)
	}
	if r.EducationDetails != nil {
		out.EducationDetails = make([]Education, len(r.EducationDetails))
		for i, e := range r.EducationDetails {
			e.EducationDocuments = cloneStrings(e.EducationDocuments)
			out.EducationDetails[i] = e
		}
	}
	if r.JobDetails != nil {
		out.JobDetails = make([]Job, len(r.JobDetails))
		for i, j := range r.JobDetails {
			j.OfferLetters = cloneStrings(j.OfferLetters)
			j.RelievingLetters = cloneStrings(j.RelievingLetters)
			out.JobDetails[i] = j
		}
	}
	return &out
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	return append([]string{}, in...)
}

// Replacement is the fixed set of fields overwritten by a replace operation.
// List fields are replaced wholesale, not merged; entries absent here are
// dropped from the stored record.
type Replacement struct {
	FirstName           string      `json:"firstName"`
	LastName            string      `json:"lastName"`
	MiddleName          string      `json:"middleName"`
	EmailID             string      `json:"emailId"`
	PhoneNumber         string      `json:"phoneNumber"`
	CurrentIndiaAddress string      `json:"currentIndiaAddress"`
	CurrentUSAddress    string      `json:"currentUsAddress"`
	CountryOfOrigin     string      `json:"countryOfOrigin"`
	ReferredBy          string      `json:"referredBy"`
	ExperienceYears     float64     `json:"experienceYears"`
	TechnicalSkills     []string    `json:"technicalSkills"`
	KeySummary          string      `json:"keySummary"`
	UserType            string      `json:"userType"`
	WorkStatus          string      `json:"workStatus"`
	YearOfFiling        int         `json:"yearOfFiling"`
	StartDate           *time.Time  `json:"startDate"`
	EndDate             *time.Time  `json:"endDate"`
	JoiningDate         *time.Time  `json:"joiningDate"`
	ExitDate            *time.Time  `json:"exitDate"`
	EducationDetails    []Education `json:"educationDetails"`
	JobDetails          []Job       `json:"jobDetails"`
	ResumeUploads       []string    `json:"resumeUploads"`
	DepartureCity       string      `json:"departureCity"`
	ArrivalCity         string      `json:"arrivalCity"`
	DepartureDate       *time.Time  `json:"departureDate"`
	ArrivalDate         *time.Time  `json:"arrivalDate"`
}
