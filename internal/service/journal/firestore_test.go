package journal

import (
	"context"
	"testing"

	"cloud.google.com/go/firestore"

	"github.com/janisto/journal-api/internal/testutil"
)

func TestFirestoreStore(t *testing.T) {
	testutil.SetupFirestoreEmulator(t)

	runStoreSuite(t, func(t *testing.T) Store {
		testutil.ClearFirestore(t)
		client, err := firestore.NewClient(context.Background(), testutil.ProjectID)
		if err != nil {
			t.Fatalf("firestore client: %v", err)
		}
		s := NewFirestoreStore(client)
		t.Cleanup(func() { _ = s.Close() })
		return s
	})
}
