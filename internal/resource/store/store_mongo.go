package store

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"caseconnect/internal/resource/models"
	"caseconnect/pkg/platform/sentinel"
)

// ResourcesCollection is the record collection name.
const ResourcesCollection = "resources"

// Mongo persists resource records in a MongoDB collection. Every operation
// is atomic at single-document granularity; the attachment scrub-then-add
// sequence is multiple document-atomic calls with an observable
// intermediate state between them.
type Mongo struct {
	coll *mongo.Collection
}

func NewMongo(db *mongo.Database) *Mongo {
	return &Mongo{coll: db.Collection(ResourcesCollection)}
}

// Collection exposes the underlying handle for the sequence allocator's
// emptiness check.
func (s *Mongo) Collection() *mongo.Collection {
	return s.coll
}

func (s *Mongo) GetAll(ctx context.Context) ([]models.Resource, error) {
	cursor, err := s.coll.Find(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("find all resources: %w", err)
	}
	var out []models.Resource
	if err := cursor.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode resources: %w", err)
	}
	return out, nil
}

func (s *Mongo) GetByID(ctx context.Context, resourceID int) (*models.Resource, error) {
	var r models.Resource
	err := s.coll.FindOne(ctx, byResourceID(resourceID)).Decode(&r)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("resource %d: %w", resourceID, sentinel.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("find resource %d: %w", resourceID, err)
	}
	return &r, nil
}

func (s *Mongo) LatestID(ctx context.Context) (int, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "resourceId", Value: -1}})
	var r models.Resource
	err := s.coll.FindOne(ctx, bson.D{}, opts).Decode(&r)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return 0, fmt.Errorf("latest resource id: %w", sentinel.ErrNotFound)
	}
	if err != nil {
		return 0, fmt.Errorf("find latest resource: %w", err)
	}
	return r.ResourceID, nil
}

func (s *Mongo) Create(ctx context.Context, r *models.Resource) error {
	r.ID = primitive.NilObjectID
	// Nil slices would persist as null and break later array updates.
	r.NormalizeLists()
	result, err := s.coll.InsertOne(ctx, r)
	if err != nil {
		return fmt.Errorf("insert resource %d: %w", r.ResourceID, err)
	}
	if id, ok := result.InsertedID.(primitive.ObjectID); ok {
		r.ID = id
	}
	return nil
}

func (s *Mongo) Replace(ctx context.Context, resourceID int, upd models.Replacement) error {
	upd.NormalizeLists()
	update := bson.D{{Key: "$set", Value: bson.D{
		{Key: "firstName", Value: upd.FirstName},
		{Key: "lastName", Value: upd.LastName},
		{Key: "middleName", Value: upd.MiddleName},
		{Key: "emailId", Value: upd.EmailID},
		{Key: "phoneNumber", Value: upd.PhoneNumber},
		{Key: "currentIndiaAddress", Value: upd.CurrentIndiaAddress},
		{Key: "currentUsAddress", Value: upd.CurrentUSAddress},
		{Key: "countryOfOrigin", Value: upd.CountryOfOrigin},
		{Key: "referredBy", Value: upd.ReferredBy},
		{Key: "experienceYears", Value: upd.ExperienceYears},
		{Key: "technicalSkills", Value: upd.TechnicalSkills},
		{Key: "keySummary", Value: upd.KeySummary},
		{Key: "userType", Value: upd.UserType},
		{Key: "workStatus", Value: upd.WorkStatus},
		{Key: "yearOfFiling", Value: upd.YearOfFiling},
		{Key: "startDate", Value: upd.StartDate},
		{Key: "endDate", Value: upd.EndDate},
		{Key: "joiningDate", Value: upd.JoiningDate},
		{Key: "exitDate", Value: upd.ExitDate},
		{Key: "educationDetails", Value: upd.EducationDetails},
		{Key: "jobDetails", Value: upd.JobDetails},
		{Key: "resumeUploads", Value: upd.ResumeUploads},
		{Key: "departureCity", Value: upd.DepartureCity},
		{Key: "arrivalCity", Value: upd.ArrivalCity},
		{Key: "departureDate", Value: upd.DepartureDate},
		{Key: "arrivalDate", Value: upd.ArrivalDate},
	}}}

	result, err := s.coll.UpdateOne(ctx, byResourceID(resourceID), update)
	if err != nil {
		return fmt.Errorf("replace resource %d: %w", resourceID, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("resource %d: %w", resourceID, sentinel.ErrNotFound)
	}
	return nil
}

func (s *Mongo) Delete(ctx context.Context, resourceID int) (bool, error) {
	result, err := s.coll.DeleteOne(ctx, byResourceID(resourceID))
	if err != nil {
		return false, fmt.Errorf("delete resource %d: %w", resourceID, err)
	}
	return result.DeletedCount > 0, nil
}

func (s *Mongo) Search(ctx context.Context, c Criteria) ([]models.Resource, error) {
	var filters bson.A

	if c.FirstName != "" {
		filters = append(filters, bson.D{{Key: "firstName", Value: prefixRegex(c.FirstName)}})
	}
	if c.LastName != "" {
		filters = append(filters, bson.D{{Key: "lastName", Value: prefixRegex(c.LastName)}})
	}
	if c.Skill != "" {
		filters = append(filters, bson.D{{Key: "technicalSkills", Value: bson.D{
			{Key: "$elemMatch", Value: bson.D{
				{Key: "$regex", Value: prefixRegex(c.Skill)},
			}},
		}}})
	}
	if c.JoiningDate != nil {
		filters = append(filters, monthWindow("joiningDate", *c.JoiningDate)...)
	}
	if c.StartDate != nil {
		filters = append(filters, monthWindow("startDate", *c.StartDate)...)
	}
	if c.EndDate != nil {
		filters = append(filters, monthWindow("endDate", *c.EndDate)...)
	}
	if c.UserType != "" {
		filters = append(filters, bson.D{{Key: "userType", Value: c.UserType}})
	}
	if c.YearOfFiling > 0 {
		filters = append(filters, bson.D{{Key: "yearOfFiling", Value: c.YearOfFiling}})
	}

	filter := bson.D{}
	if len(filters) > 0 {
		filter = bson.D{{Key: "$and", Value: filters}}
	}

	cursor, err := s.coll.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("search resources: %w", err)
	}
	var out []models.Resource
	if err := cursor.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode search results: %w", err)
	}
	return out, nil
}

func (s *Mongo) SearchByUserType(ctx context.Context, userType string) ([]models.Resource, error) {
	cursor, err := s.coll.Find(ctx, bson.D{{Key: "userType", Value: userType}})
	if err != nil {
		return nil, fmt.Errorf("search resources by user type: %w", err)
	}
	var out []models.Resource
	if err := cursor.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode search results: %w", err)
	}
	return out, nil
}

func (s *Mongo) AppendStatus(ctx context.Context, resourceID int, entry models.StatusEntry) (bool, error) {
	update := bson.D{{Key: "$push", Value: bson.D{{Key: "statusHistory", Value: entry}}}}
	result, err := s.coll.UpdateOne(ctx, byResourceID(resourceID), update)
	if err != nil {
		return false, fmt.Errorf("append status to resource %d: %w", resourceID, err)
	}
	return result.MatchedCount > 0, nil
}

func (s *Mongo) MostRecentStatus(ctx context.Context, resourceID int) (*models.StatusEntry, error) {
	r, err := s.GetByID(ctx, resourceID)
	if err != nil {
		return nil, err
	}
	latest := models.MostRecentStatus(r.StatusHistory)
	if latest == nil {
		return nil, fmt.Errorf("resource %d has no status history: %w", resourceID, sentinel.ErrNotFound)
	}
	return latest, nil
}

func (s *Mongo) FindByMostRecentStatus(ctx context.Context, statusID int, userType string, yearOfFiling *int) ([]models.Resource, error) {
	var filters bson.A
	if userType != "" {
		filters = append(filters, bson.D{{Key: "userType", Value: userType}})
	}
	if yearOfFiling != nil {
		filters = append(filters, bson.D{{Key: "yearOfFiling", Value: *yearOfFiling}})
	}
	filter := bson.D{}
	if len(filters) > 0 {
		filter = bson.D{{Key: "$and", Value: filters}}
	}

	cursor, err := s.coll.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("find resources by status: %w", err)
	}
	var candidates []models.Resource
	if err := cursor.All(ctx, &candidates); err != nil {
		return nil, fmt.Errorf("decode status candidates: %w", err)
	}

	// Second phase runs in-process: the latest-by-timestamp entry of a
	// sub-list is not expressible as an equality predicate.
	var out []models.Resource
	for i := range candidates {
		latest := models.MostRecentStatus(candidates[i].StatusHistory)
		if latest != nil && latest.StatusID == statusID {
			out = append(out, candidates[i])
		}
	}
	return out, nil
}

func (s *Mongo) AppendNote(ctx context.Context, resourceID int, note models.Note) (bool, error) {
	// Records written before the notes field existed store it as null, which
	// $push rejects. A pipeline update appends and initializes in one atomic
	// call.
	update := mongo.Pipeline{
		{{Key: "$set", Value: bson.D{{Key: "notes", Value: bson.D{
			{Key: "$concatArrays", Value: bson.A{
				bson.D{{Key: "$ifNull", Value: bson.A{"$notes", bson.A{}}}},
				bson.A{note},
			}},
		}}}}},
	}
	result, err := s.coll.UpdateOne(ctx, byResourceID(resourceID), update)
	if err != nil {
		return false, fmt.Errorf("append note to resource %d: %w", resourceID, err)
	}
	return result.MatchedCount > 0, nil
}

func (s *Mongo) InitAttachmentLists(ctx context.Context, resourceID int, kind models.AttachmentKind) error {
	if err := s.mustExist(ctx, resourceID); err != nil {
		return err
	}

	var update bson.D
	opts := options.Update()

	switch kind {
	case models.KindResume:
		// Top-level list: initialize only when currently unset.
		filter := bson.D{
			{Key: "resourceId", Value: resourceID},
			{Key: "resumeUploads", Value: nil},
		}
		update = bson.D{{Key: "$set", Value: bson.D{{Key: "resumeUploads", Value: bson.A{}}}}}
		if _, err := s.coll.UpdateOne(ctx, filter, update); err != nil {
			return fmt.Errorf("initialize resume uploads for resource %d: %w", resourceID, err)
		}
		return nil
	case models.KindEducationDocument:
		update = bson.D{{Key: "$set", Value: bson.D{
			{Key: "educationDetails.$[entry].educationDocuments", Value: bson.A{}},
		}}}
		opts.SetArrayFilters(options.ArrayFilters{Filters: []interface{}{
			bson.D{{Key: "entry.educationDocuments", Value: nil}},
		}})
	case models.KindOfferLetter:
		update = bson.D{{Key: "$set", Value: bson.D{
			{Key: "jobDetails.$[entry].offerLetters", Value: bson.A{}},
		}}}
		opts.SetArrayFilters(options.ArrayFilters{Filters: []interface{}{
			bson.D{{Key: "entry.offerLetters", Value: nil}},
		}})
	case models.KindRelievingLetter:
		update = bson.D{{Key: "$set", Value: bson.D{
			{Key: "jobDetails.$[entry].relievingLetters", Value: bson.A{}},
		}}}
		opts.SetArrayFilters(options.ArrayFilters{Filters: []interface{}{
			bson.D{{Key: "entry.relievingLetters", Value: nil}},
		}})
	default:
		return fmt.Errorf("attachment kind %q: %w", kind, sentinel.ErrInvalidArgument)
	}

	if _, err := s.coll.UpdateOne(ctx, byResourceID(resourceID), update, opts); err != nil {
		return fmt.Errorf("initialize %s lists for resource %d: %w", kind, resourceID, err)
	}
	return nil
}

func (s *Mongo) ScrubAttachmentPlaceholder(ctx context.Context, resourceID int, kind models.AttachmentKind) error {
	path, err := attachmentPath(kind)
	if err != nil {
		return err
	}
	update := bson.D{{Key: "$pull", Value: bson.D{{Key: path, Value: models.AttachmentPlaceholder}}}}
	result, err := s.coll.UpdateOne(ctx, byResourceID(resourceID), update)
	if err != nil {
		return fmt.Errorf("scrub %s placeholder for resource %d: %w", kind, resourceID, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("resource %d: %w", resourceID, sentinel.ErrNotFound)
	}
	return nil
}

func (s *Mongo) AddAttachmentRef(ctx context.Context, resourceID int, kind models.AttachmentKind, blobID string) error {
	path, err := attachmentPath(kind)
	if err != nil {
		return err
	}
	update := bson.D{{Key: "$addToSet", Value: bson.D{{Key: path, Value: blobID}}}}
	result, err := s.coll.UpdateOne(ctx, byResourceID(resourceID), update)
	if err != nil {
		return fmt.Errorf("add %s attachment to resource %d: %w", kind, resourceID, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("resource %d: %w", resourceID, sentinel.ErrNotFound)
	}
	return nil
}

// mustExist reports ErrNotFound when no record carries the given id.
func (s *Mongo) mustExist(ctx context.Context, resourceID int) error {
	n, err := s.coll.CountDocuments(ctx, byResourceID(resourceID), options.Count().SetLimit(1))
	if err != nil {
		return fmt.Errorf("count resource %d: %w", resourceID, err)
	}
	if n == 0 {
		return fmt.Errorf("resource %d: %w", resourceID, sentinel.ErrNotFound)
	}
	return nil
}

func (s *Mongo) Empty(ctx context.Context) (bool, error) {
	n, err := s.coll.CountDocuments(ctx, bson.D{}, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("count resources: %w", err)
	}
	return n == 0, nil
}

// attachmentPath maps a kind to its update path. Nested kinds use the
// all-positional operator so the add or scrub applies to every entry of the
// nested array.
func attachmentPath(kind models.AttachmentKind) (string, error) {
	switch kind {
	case models.KindResume:
		return "resumeUploads", nil
	case models.KindEducationDocument:
		return "educationDetails.$[].educationDocuments", nil
	case models.KindOfferLetter:
		return "jobDetails.$[].offerLetters", nil
	case models.KindRelievingLetter:
		return "jobDetails.$[].relievingLetters", nil
	}
	return "", fmt.Errorf("attachment kind %q: %w", kind, sentinel.ErrInvalidArgument)
}

func byResourceID(resourceID int) bson.D {
	return bson.D{{Key: "resourceId", Value: resourceID}}
}

// prefixRegex builds a case-insensitive anchored prefix matcher.
func prefixRegex(prefix string) primitive.Regex {
	return primitive.Regex{Pattern: "^" + regexp.QuoteMeta(prefix), Options: "i"}
}

// monthWindow restricts field to the calendar month of ref:
// [first of month, first of next month).
func monthWindow(field string, ref time.Time) bson.A {
	start := time.Date(ref.Year(), ref.Month(), 1, 0, 0, 0, 0, time.UTC)
	next := start.AddDate(0, 1, 0)
	return bson.A{
		bson.D{{Key: field, Value: bson.D{{Key: "$gte", Value: start}}}},
		bson.D{{Key: field, Value: bson.D{{Key: "$lt", Value: next}}}},
	}
}
