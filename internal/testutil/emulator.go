package testutil

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"testing"
	"time"
)

const (
	FirestoreEmulatorHost = "127.0.0.1:7130"
	ProjectID             = "demo-test-project"
)

// firestoreHost prefers FIRESTORE_EMULATOR_HOST when set.
func firestoreHost() string {
	if h := os.Getenv("FIRESTORE_EMULATOR_HOST"); h != "" {
		return h
	}
	return FirestoreEmulatorHost
}

// reachable reports whether a TCP connection to host succeeds within 100ms.
func reachable(host string) bool {
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", host)
	if err != nil {
		return false
	}
	_ = conn.Close()
	return true
}

// SetupFirestoreEmulator skips the test when the emulator is not running and otherwise
// points the Firestore client at it.
func SetupFirestoreEmulator(t *testing.T) {
	t.Helper()
	host := firestoreHost()
	if !reachable(host) {
		t.Skip("Firestore emulator not available")
	}
	t.Setenv("FIRESTORE_EMULATOR_HOST", host)
}

// ClearFirestore removes all documents from the emulator's default database.
func ClearFirestore(t *testing.T) {
	t.Helper()
	url := fmt.Sprintf("http://%s/emulator/v1/projects/%s/databases/(default)/documents", firestoreHost(), ProjectID)
	req, err := http.NewRequestWithContext(context.Background(), http.MethodDelete, url, nil)
	if err != nil {
		t.Fatalf("failed to create request: %v", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("failed to clear Firestore: %v", err)
	}
	_ = resp.Body.Close()
}

// PostgresURL returns TEST_DATABASE_URL or skips the test when it is unset.
func PostgresURL(t *testing.T) string {
	t.Helper()
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	return url
}
