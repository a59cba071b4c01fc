// Package store owns the resource record collection: CRUD, partial field
// replacement, append-only sub-lists and multi-predicate search.
package store

import (
	"context"
	"time"

	"caseconnect/internal/resource/models"
)

// Criteria is a conjunctive search filter. Zero-valued fields are omitted
// from the filter, not treated as "match nothing"; a fully zero Criteria
// matches every record.
type Criteria struct {
	// FirstName and LastName match as case-insensitive prefixes.
	FirstName string
	LastName  string

	// Skill matches when any entry of the skills list starts with it,
	// case-insensitively.
	Skill string

	// Date criteria restrict to the calendar month of the supplied value:
	// [first of month, first of next month).
	JoiningDate *time.Time
	StartDate   *time.Time
	EndDate     *time.Time

	// UserType matches exactly. YearOfFiling matches exactly and only
	// applies when greater than zero.
	UserType     string
	YearOfFiling int
}

// Store is the resource record collection contract. Absent records surface
// as sentinel.ErrNotFound; boolean results distinguish "no record matched"
// on append-style operations.
type Store interface {
	GetAll(ctx context.Context) ([]models.Resource, error)
	GetByID(ctx context.Context, resourceID int) (*models.Resource, error)

	// LatestID returns the maximum resourceId currently present, or
	// sentinel.ErrNotFound when the collection is empty.
	LatestID(ctx context.Context) (int, error)

	// Create inserts a record whose ResourceID the caller has already
	// allocated. The storage key is freshly assigned regardless of any
	// caller-supplied value.
	Create(ctx context.Context, r *models.Resource) error

	// Replace overwrites the fixed field set of Replacement wholesale.
	Replace(ctx context.Context, resourceID int, upd models.Replacement) error

	// Delete reports whether a record was actually removed.
	Delete(ctx context.Context, resourceID int) (bool, error)

	Search(ctx context.Context, c Criteria) ([]models.Resource, error)
	SearchByUserType(ctx context.Context, userType string) ([]models.Resource, error)

	// AppendStatus pushes an entry onto the status timeline; false means no
	// record matched.
	AppendStatus(ctx context.Context, resourceID int, entry models.StatusEntry) (bool, error)

	// MostRecentStatus returns the timeline entry with the maximum
	// timestamp, or sentinel.ErrNotFound when the record is absent or its
	// timeline is empty. Equal timestamps resolve to the later-appended
	// entry.
	MostRecentStatus(ctx context.Context, resourceID int) (*models.StatusEntry, error)

	// FindByMostRecentStatus filters by userType and yearOfFiling when
	// supplied, then keeps only records whose latest-by-timestamp status
	// entry carries statusID. The status reduction runs in-process: "most
	// recent of a sub-list" is not a store-native predicate.
	FindByMostRecentStatus(ctx context.Context, statusID int, userType string, yearOfFiling *int) ([]models.Resource, error)

	// AppendNote tolerates a stored notes list that is null or absent by
	// initializing it to empty as part of the append. True means a record
	// matched.
	AppendNote(ctx context.Context, resourceID int, note models.Note) (bool, error)

	// InitAttachmentLists sets the target list for kind to empty wherever
	// it is currently unset. For nested kinds this applies to every entry
	// of the nested array.
	InitAttachmentLists(ctx context.Context, resourceID int, kind models.AttachmentKind) error

	// ScrubAttachmentPlaceholder removes the client-form placeholder value
	// from every target list for kind.
	ScrubAttachmentPlaceholder(ctx context.Context, resourceID int, kind models.AttachmentKind) error

	// AddAttachmentRef adds blobID to the target list(s) for kind, set-like.
	// Nested kinds add to every entry of the nested array: the operation
	// carries no per-entry selector.
	AddAttachmentRef(ctx context.Context, resourceID int, kind models.AttachmentKind, blobID string) error

	// Empty reports whether the collection holds no records. The sequence
	// allocator consults it on reclaim.
	Empty(ctx context.Context) (bool, error)
}
