package auth_test

import (
	"encoding/base64"
	"os"
	"path/filepath"
	"testing"

	"laureld/internal/auth"
)

func writeFlatFile(t *testing.T, entries map[string]string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "passwd.flat")
	var data []byte
	for user, stored := range entries {
		key := base64.StdEncoding.EncodeToString([]byte(user))
		data = append(data, []byte(key+":"+stored+"\n")...)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestFlatStorageLookup(t *testing.T) {
	path := writeFlatFile(t, map[string]string{"uid=alice,dc=example": "{CLEARTEXT}hunter2"})
	s := auth.NewFlatStorage(path, auth.RefreshOnce)
	res, err := s.Lookup("uid=alice,dc=example")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if !res.Found || len(res.Values) != 1 || res.Values[0] != "{CLEARTEXT}hunter2" {
		t.Fatalf("got %+v", res)
	}
}

func TestFlatStorageMissingKey(t *testing.T) {
	path := writeFlatFile(t, map[string]string{"uid=alice,dc=example": "{CLEARTEXT}hunter2"})
	s := auth.NewFlatStorage(path, auth.RefreshOnce)
	res, err := s.Lookup("uid=bob,dc=example")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if res.Found {
		t.Fatal("expected not found")
	}
}

func TestFlatStorageRefreshEachPicksUpChanges(t *testing.T) {
	path := writeFlatFile(t, map[string]string{"uid=alice,dc=example": "{CLEARTEXT}hunter2"})
	s := auth.NewFlatStorage(path, auth.RefreshEach)
	if _, err := s.Lookup("uid=alice,dc=example"); err != nil {
		t.Fatalf("Lookup: %v", err)
	}

	key := base64.StdEncoding.EncodeToString([]byte("uid=carol,dc=example"))
	if err := os.WriteFile(path, []byte(key+":{CLEARTEXT}x\n"), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	res, err := s.Lookup("uid=carol,dc=example")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if !res.Found {
		t.Fatal("expected refreshed storage to find new entry")
	}
}
