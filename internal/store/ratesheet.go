package store

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/GregMSThompson/ratesheet-backend/internal/errs"
	"github.com/GregMSThompson/ratesheet-backend/internal/models"
	"github.com/GregMSThompson/ratesheet-backend/internal/rates"
	"github.com/GregMSThompson/ratesheet-backend/pkg/logger"
)

var collections = map[models.SheetKind]string{
	models.SheetStandard: "rates",
	models.SheetRental:   "rentalRates",
}

type rateSheetStore struct {
	client *firestore.Client
}

func NewRateSheetStore(client *firestore.Client) *rateSheetStore {
	return &rateSheetStore{client: client}
}

func (s *rateSheetStore) collection(kind models.SheetKind) *firestore.CollectionRef {
	return s.client.Collection(collections[kind])
}

func (s *rateSheetStore) latestQuery(kind models.SheetKind) firestore.Query {
	return s.collection(kind).OrderBy("createdAt", firestore.Desc).Limit(1)
}

// FindLatest returns the most recently created document of the collection.
func (s *rateSheetStore) FindLatest(ctx context.Context, kind models.SheetKind) (*models.RateSheet, error) {
	snap, err := s.latestSnapshot(ctx, kind)
	if err != nil {
		return nil, err
	}
	return decodeSheet(snap)
}

func (s *rateSheetStore) latestSnapshot(ctx context.Context, kind models.SheetKind) (*firestore.DocumentSnapshot, error) {
	iter := s.latestQuery(kind).Documents(ctx)
	defer iter.Stop()

	doc, err := iter.Next()
	if err == iterator.Done {
		return nil, errs.NewNotFoundError("no " + string(kind) + " rate sheet exists")
	}
	if err != nil {
		return nil, errs.NewDatabaseError("read", "failed to query latest rate sheet", err)
	}
	return doc, nil
}

// PatchLatest applies every path of the patch to the latest document in a
// single write and returns the document as stored afterwards.
func (s *rateSheetStore) PatchLatest(ctx context.Context, kind models.SheetKind, patch rates.Patch) (*models.RateSheet, error) {
	log := logger.FromContext(ctx)

	snap, err := s.latestSnapshot(ctx, kind)
	if err != nil {
		return nil, err
	}

	updates := toUpdates(patch, time.Now())
	if _, err := snap.Ref.Update(ctx, updates); err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errs.NewNotFoundError("rate sheet was removed")
		}
		return nil, errs.NewDatabaseError("update", "failed to patch rate sheet", err)
	}
	log.Debug("rate sheet patched", "collection", collections[kind], "doc_id", snap.Ref.ID, "fields", len(updates))
	if logger.IsDebugEnabled(ctx) {
		log.Debug("patched fields", "doc_id", snap.Ref.ID, "paths", updatePaths(updates))
	}

	updated, err := snap.Ref.Get(ctx)
	if err != nil {
		return nil, errs.NewDatabaseError("read", "failed to read patched rate sheet", err)
	}
	return decodeSheet(updated)
}

// InsertIfAbsent creates doc only when the collection is empty. The returned
// bool reports whether a document was created.
func (s *rateSheetStore) InsertIfAbsent(ctx context.Context, kind models.SheetKind, doc *models.RateSheet) (*models.RateSheet, bool, error) {
	var (
		out     *models.RateSheet
		created bool
	)
	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		created = false
		docs, err := tx.Documents(s.latestQuery(kind)).GetAll()
		if err != nil {
			return err
		}
		if len(docs) > 0 {
			out, err = decodeSheet(docs[0])
			return err
		}

		ref := s.collection(kind).Doc(uuid.New().String())
		if err := tx.Create(ref, doc); err != nil {
			return err
		}
		copied := *doc
		copied.ID = ref.ID
		out = &copied
		created = true
		return nil
	})
	if err != nil {
		return nil, false, errs.NewDatabaseError("create", "failed to initialise rate sheet", err)
	}
	return out, created, nil
}

func toUpdates(patch rates.Patch, now time.Time) []firestore.Update {
	updates := make([]firestore.Update, 0, len(patch)+1)
	for _, f := range patch.Paths() {
		updates = append(updates, firestore.Update{Path: f.String(), Value: patch[f]})
	}
	return append(updates, firestore.Update{Path: "updatedAt", Value: now})
}

func updatePaths(updates []firestore.Update) []string {
	out := make([]string, len(updates))
	for i, u := range updates {
		out[i] = u.Path
	}
	return out
}

func decodeSheet(snap *firestore.DocumentSnapshot) (*models.RateSheet, error) {
	var sheet models.RateSheet
	if err := snap.DataTo(&sheet); err != nil {
		return nil, errs.NewDatabaseError("read", "failed to parse rate sheet data", err)
	}
	sheet.ID = snap.Ref.ID
	return &sheet, nil
}
