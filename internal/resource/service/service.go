// Package service orchestrates the sequence allocator, record store, and
// blob store behind the operations the transport layer exposes.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"caseconnect/internal/blob"
	"caseconnect/internal/counter"
	"caseconnect/internal/resource/cache"
	"caseconnect/internal/resource/metrics"
	"caseconnect/internal/resource/models"
	"caseconnect/internal/resource/store"
	"caseconnect/pkg/platform/sentinel"
	pstrings "caseconnect/pkg/platform/strings"
)

// ResourceSequence is the type name under which record identifiers are
// allocated.
const ResourceSequence = "resources"

// Upload is one file payload handed in by the transport layer.
type Upload struct {
	Name string
	Data []byte
}

// Service is the record lifecycle orchestrator. It allocates identifiers on
// create, reclaims them on delete, routes attachments into the correct
// nested list, and surfaces absence uniformly as sentinel.ErrNotFound.
type Service struct {
	records store.Store
	ids     counter.Allocator
	blobs   blob.Store
	cache   cache.Cache      // optional; nil disables read caching
	metrics *metrics.Metrics // optional; methods are nil-safe
	log     zerolog.Logger
}

func New(records store.Store, ids counter.Allocator, blobs blob.Store, c cache.Cache, m *metrics.Metrics, log zerolog.Logger) *Service {
	return &Service{records: records, ids: ids, blobs: blobs, cache: c, metrics: m, log: log}
}

// Create allocates a fresh resource identifier and inserts the record. Any
// caller-supplied storage key or resource id is discarded.
func (s *Service) Create(ctx context.Context, r *models.Resource) (err error) {
	defer s.observe("create", time.Now(), &err)

	id, err := s.ids.Next(ctx, ResourceSequence)
	if err != nil {
		return err
	}
	r.ResourceID = id
	r.ID = primitive.NilObjectID
	r.TechnicalSkills = pstrings.DedupeAndTrim(r.TechnicalSkills)
	if err := s.records.Create(ctx, r); err != nil {
		return err
	}
	s.log.Info().Int("resourceId", id).Msg("resource created")
	return nil
}

// Delete removes the record and, only when something was actually removed,
// reclaims its sequence value. The two store calls are not atomic as a
// unit; a crash between them leaves the counter stale.
func (s *Service) Delete(ctx context.Context, resourceID int) (removed bool, err error) {
	defer s.observe("delete", time.Now(), &err)

	removed, err = s.records.Delete(ctx, resourceID)
	if err != nil || !removed {
		return removed, err
	}
	s.invalidate(ctx, resourceID)
	if err := s.ids.Reclaim(ctx, ResourceSequence); err != nil {
		return true, err
	}
	s.log.Info().Int("resourceId", resourceID).Msg("resource deleted")
	return true, nil
}

func (s *Service) GetAll(ctx context.Context) ([]models.Resource, error) {
	return s.records.GetAll(ctx)
}

// GetByID reads through the cache when one is configured. Cache failures
// other than a miss degrade to a store read.
func (s *Service) GetByID(ctx context.Context, resourceID int) (*models.Resource, error) {
	if s.cache != nil {
		if r, err := s.cache.Get(ctx, resourceID); err == nil {
			s.metrics.IncCacheLookup("hit")
			return r, nil
		}
		s.metrics.IncCacheLookup("miss")
	}
	r, err := s.records.GetByID(ctx, resourceID)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		if err := s.cache.Save(ctx, r); err != nil {
			s.log.Debug().Err(err).Int("resourceId", resourceID).Msg("cache save failed")
		}
	}
	return r, nil
}

func (s *Service) LatestID(ctx context.Context) (int, error) {
	return s.records.LatestID(ctx)
}

func (s *Service) Replace(ctx context.Context, resourceID int, upd models.Replacement) (err error) {
	defer s.observe("replace", time.Now(), &err)

	upd.TechnicalSkills = pstrings.DedupeAndTrim(upd.TechnicalSkills)
	if err := s.records.Replace(ctx, resourceID, upd); err != nil {
		return err
	}
	s.invalidate(ctx, resourceID)
	return nil
}

func (s *Service) Search(ctx context.Context, c store.Criteria) ([]models.Resource, error) {
	return s.records.Search(ctx, c)
}

func (s *Service) SearchByUserType(ctx context.Context, userType string) ([]models.Resource, error) {
	return s.records.SearchByUserType(ctx, userType)
}

// StatusHistory returns the full ordered timeline. An empty timeline is a
// valid result; a missing record is not.
func (s *Service) StatusHistory(ctx context.Context, resourceID int) ([]models.StatusEntry, error) {
	r, err := s.GetByID(ctx, resourceID)
	if err != nil {
		return nil, err
	}
	return r.StatusHistory, nil
}

func (s *Service) CurrentStatus(ctx context.Context, resourceID int) (*models.StatusEntry, error) {
	return s.records.MostRecentStatus(ctx, resourceID)
}

func (s *Service) AppendStatus(ctx context.Context, resourceID int, entry models.StatusEntry) (bool, error) {
	matched, err := s.records.AppendStatus(ctx, resourceID, entry)
	if err == nil && matched {
		s.invalidate(ctx, resourceID)
	}
	return matched, err
}

func (s *Service) FindByMostRecentStatus(ctx context.Context, statusID int, userType string, yearOfFiling *int) ([]models.Resource, error) {
	return s.records.FindByMostRecentStatus(ctx, statusID, userType, yearOfFiling)
}

func (s *Service) AppendNote(ctx context.Context, resourceID int, note models.Note) (bool, error) {
	matched, err := s.records.AppendNote(ctx, resourceID, note)
	if err == nil && matched {
		s.invalidate(ctx, resourceID)
	}
	return matched, err
}

// AttachFiles stores each upload and writes its identifier into the target
// list for kind. For nested kinds the identifier is added to every entry of
// the nested array: the request carries no per-entry selector. Uploads are
// sequential; a mid-batch failure leaves earlier files persisted with their
// references attached.
func (s *Service) AttachFiles(ctx context.Context, resourceID int, files []Upload, kind models.AttachmentKind) (err error) {
	defer s.observe("attach_files", time.Now(), &err)

	if !kind.Valid() {
		return fmt.Errorf("attachment kind %q: %w", kind, sentinel.ErrInvalidArgument)
	}
	if _, err := s.records.GetByID(ctx, resourceID); err != nil {
		return err
	}

	if err := s.records.InitAttachmentLists(ctx, resourceID, kind); err != nil {
		return err
	}
	if err := s.records.ScrubAttachmentPlaceholder(ctx, resourceID, kind); err != nil {
		return err
	}
	defer s.invalidate(ctx, resourceID)

	for _, f := range files {
		blobID, err := s.blobs.Put(ctx, f.Name, f.Data)
		if err != nil {
			return fmt.Errorf("store %q: %w", f.Name, err)
		}
		if err := s.records.AddAttachmentRef(ctx, resourceID, kind, blobID); err != nil {
			return err
		}
		s.metrics.IncAttachmentUploaded(string(kind))
		s.log.Info().
			Int("resourceId", resourceID).
			Str("kind", string(kind)).
			Str("blobId", blobID).
			Msg("attachment stored")
	}
	return nil
}

// DownloadAttachments resolves the identifier list for kind and fetches the
// blobs. One attachment returns raw bytes (archived=false); several return
// a zip archive. A missing record or an empty list is ErrNotFound.
func (s *Service) DownloadAttachments(ctx context.Context, resourceID int, kind models.AttachmentKind) (data []byte, archived bool, err error) {
	defer s.observe("download_attachments", time.Now(), &err)

	if !kind.Valid() {
		return nil, false, fmt.Errorf("attachment kind %q: %w", kind, sentinel.ErrInvalidArgument)
	}
	r, err := s.GetByID(ctx, resourceID)
	if err != nil {
		return nil, false, err
	}
	ids := r.AttachmentRefs(kind)
	if len(ids) == 0 {
		return nil, false, fmt.Errorf("no %s attachments on resource %d: %w", kind, resourceID, sentinel.ErrNotFound)
	}
	return blob.GetMany(ctx, s.blobs, ids)
}

// invalidate drops the cached record after a write. Failures are logged,
// never surfaced: the cache is best-effort.
func (s *Service) invalidate(ctx context.Context, resourceID int) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, resourceID); err != nil {
		s.log.Debug().Err(err).Int("resourceId", resourceID).Msg("cache invalidate failed")
	}
}

func (s *Service) observe(operation string, start time.Time, err *error) {
	outcome := "ok"
	switch {
	case *err == nil:
	case errors.Is(*err, sentinel.ErrNotFound):
		outcome = "not_found"
	case errors.Is(*err, sentinel.ErrInvalidArgument):
		outcome = "invalid_argument"
	default:
		outcome = "error"
	}
	s.metrics.ObserveOperation(operation, outcome, time.Since(start))
}
