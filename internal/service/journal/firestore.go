package journal

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const entriesCollection = "entries"

// firestoreEntry maps to the Firestore document structure. The document ID is the entry ID.
type firestoreEntry struct {
	Work      string    `firestore:"work"`
	Struggle  string    `firestore:"struggle"`
	Intention string    `firestore:"intention"`
	CreatedAt time.Time `firestore:"created_at"`
	UpdatedAt time.Time `firestore:"updated_at"`
}

func (fe firestoreEntry) toEntry(id string) *Entry {
	return &Entry{
		ID:        id,
		Work:      fe.Work,
		Struggle:  fe.Struggle,
		Intention: fe.Intention,
		CreatedAt: fe.CreatedAt.UTC(),
		UpdatedAt: fe.UpdatedAt.UTC(),
	}
}

// FirestoreStore implements Store on a Firestore collection.
type FirestoreStore struct {
	client *firestore.Client
}

// NewFirestoreStore creates a Firestore-backed store. The store takes ownership of client.
func NewFirestoreStore(client *firestore.Client) *FirestoreStore {
	return &FirestoreStore{client: client}
}

func (s *FirestoreStore) collection() *firestore.CollectionRef {
	return s.client.Collection(entriesCollection)
}

// Create writes a new document; DocumentRef.Create fails if the ID is somehow taken.
func (s *FirestoreStore) Create(ctx context.Context, params CreateParams) (*Entry, error) {
	id := uuid.NewString()
	ts := now()
	fe := firestoreEntry{
		Work:      params.Work,
		Struggle:  params.Struggle,
		Intention: params.Intention,
		CreatedAt: ts,
		UpdatedAt: ts,
	}
	if _, err := s.collection().Doc(id).Create(ctx, fe); err != nil {
		return nil, fmt.Errorf("firestore create entry: %w", err)
	}
	return fe.toEntry(id), nil
}

func (s *FirestoreStore) Get(ctx context.Context, id string) (*Entry, error) {
	doc, err := s.collection().Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("firestore get entry: %w", err)
	}
	var fe firestoreEntry
	if err := doc.DataTo(&fe); err != nil {
		return nil, fmt.Errorf("firestore decode entry: %w", err)
	}
	return fe.toEntry(doc.Ref.ID), nil
}

func (s *FirestoreStore) List(ctx context.Context) ([]*Entry, error) {
	iter := s.collection().OrderBy("created_at", firestore.Desc).Documents(ctx)
	defer iter.Stop()

	var out []*Entry
	for {
		doc, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("firestore list entries: %w", err)
		}
		var fe firestoreEntry
		if err := doc.DataTo(&fe); err != nil {
			return nil, fmt.Errorf("firestore decode entry %s: %w", doc.Ref.ID, err)
		}
		out = append(out, fe.toEntry(doc.Ref.ID))
	}
	// Firestore has no secondary order on document ID descending; apply it here.
	sortNewestFirst(out)
	return out, nil
}

// Update applies params inside a transaction so concurrent updates do not lose fields.
func (s *FirestoreStore) Update(ctx context.Context, id string, params UpdateParams) (*Entry, error) {
	docRef := s.collection().Doc(id)
	var result *Entry

	err := s.client.RunTransaction(ctx, func(_ context.Context, tx *firestore.Transaction) error {
		doc, err := tx.Get(docRef)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return ErrNotFound
			}
			return err
		}
		var fe firestoreEntry
		if err := doc.DataTo(&fe); err != nil {
			return err
		}
		e := fe.toEntry(id)
		params.apply(e)
		e.UpdatedAt = now()

		fe.Work, fe.Struggle, fe.Intention, fe.UpdatedAt = e.Work, e.Struggle, e.Intention, e.UpdatedAt
		if err := tx.Set(docRef, fe); err != nil {
			return err
		}
		result = e
		return nil
	})
	if err != nil {
		return nil, wrapTxError("update", err)
	}
	return result, nil
}

// Delete removes the document, failing with ErrNotFound when it does not exist.
func (s *FirestoreStore) Delete(ctx context.Context, id string) error {
	docRef := s.collection().Doc(id)
	err := s.client.RunTransaction(ctx, func(_ context.Context, tx *firestore.Transaction) error {
		if _, err := tx.Get(docRef); err != nil {
			if status.Code(err) == codes.NotFound {
				return ErrNotFound
			}
			return err
		}
		return tx.Delete(docRef)
	})
	return wrapTxError("delete", err)
}

// DeleteAll removes every document with a BulkWriter.
func (s *FirestoreStore) DeleteAll(ctx context.Context) (int, error) {
	refs, err := s.collection().DocumentRefs(ctx).GetAll()
	if err != nil {
		return 0, fmt.Errorf("firestore list entry refs: %w", err)
	}
	if len(refs) == 0 {
		return 0, nil
	}

	bw := s.client.BulkWriter(ctx)
	jobs := make([]*firestore.BulkWriterJob, 0, len(refs))
	for _, ref := range refs {
		job, err := bw.Delete(ref)
		if err != nil {
			bw.End()
			return 0, fmt.Errorf("firestore enqueue delete %s: %w", ref.ID, err)
		}
		jobs = append(jobs, job)
	}
	bw.End()

	deleted := 0
	for _, job := range jobs {
		if _, err := job.Results(); err != nil {
			return deleted, fmt.Errorf("firestore delete entries: %w", err)
		}
		deleted++
	}
	return deleted, nil
}

func (s *FirestoreStore) Count(ctx context.Context) (int, error) {
	refs, err := s.collection().DocumentRefs(ctx).GetAll()
	if err != nil {
		return 0, fmt.Errorf("firestore count entries: %w", err)
	}
	return len(refs), nil
}

// Ping issues a single-document read against the collection.
func (s *FirestoreStore) Ping(ctx context.Context) error {
	iter := s.collection().Limit(1).Documents(ctx)
	defer iter.Stop()
	if _, err := iter.Next(); err != nil && !errors.Is(err, iterator.Done) {
		return fmt.Errorf("firestore ping: %w", err)
	}
	return nil
}

func (s *FirestoreStore) Close() error {
	return s.client.Close()
}

func wrapTxError(op string, err error) error {
	if err == nil || errors.Is(err, ErrNotFound) {
		return err
	}
	return fmt.Errorf("firestore %s entry: %w", op, err)
}

var _ Store = (*FirestoreStore)(nil)
