package assetstore

import (
	"context"
	"errors"
	"net"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rentgrid/registry-middleware/pkg/asset"
	"github.com/rentgrid/registry-middleware/pkg/pgutil"
	mghelper "github.com/rentgrid/registry-middleware/pkg/pgutil/migrations"
)

func setupStore(t *testing.T) (context.Context, *pgStore) {
	t.Helper()
	requireDockerAccess(t)

	ctx := context.Background()
	db, cleanup := pgutil.SetupTestDB(t)
	t.Cleanup(cleanup)

	if err := mghelper.CreateSchema(ctx, db, &AssetDao{}); err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}

	return ctx, NewStore(db)
}

func requireDockerAccess(t *testing.T) {
	t.Helper()

	candidates := []string{
		"/var/run/docker.sock",
		filepath.Join(os.Getenv("HOME"), ".docker/run/docker.sock"),
	}

	for _, sock := range candidates {
		if sock == "" {
			continue
		}
		if _, err := os.Stat(sock); err != nil {
			continue
		}
		conn, err := (&net.Dialer{}).DialContext(context.Background(), "unix", sock)
		if err == nil {
			_ = conn.Close()
			return
		}
	}

	t.Skip("docker daemon socket is not accessible; skipping testcontainer-backed assetstore tests")
}

func newTestAsset(id int64, creator string) *asset.Asset {
	return &asset.Asset{
		ID:      id,
		Creator: creator,
	}
}

func TestAssetPGStore_CreateIfAbsent(t *testing.T) {
	ctx, s := setupStore(t)

	a := newTestAsset(1, "0x1111111111111111111111111111111111111111")
	created, err := s.CreateIfAbsent(ctx, a)
	if err != nil {
		t.Fatalf("CreateIfAbsent() failed: %v", err)
	}
	if !created {
		t.Fatalf("expected first create to insert")
	}

	// A second CREATED event for the same id must not clobber the row.
	dup := newTestAsset(1, "0x2222222222222222222222222222222222222222")
	created, err = s.CreateIfAbsent(ctx, dup)
	if err != nil {
		t.Fatalf("CreateIfAbsent(dup) failed: %v", err)
	}
	if created {
		t.Fatalf("expected duplicate create to be a no-op")
	}

	got, err := s.GetByID(ctx, 1)
	if err != nil {
		t.Fatalf("GetByID() failed: %v", err)
	}
	if got.Creator != a.Creator {
		t.Fatalf("creator overwritten: got %s want %s", got.Creator, a.Creator)
	}
}

func TestAssetPGStore_CreateWithInitialProofHash(t *testing.T) {
	ctx, s := setupStore(t)

	hash := "0x" + strings.Repeat("c", 64)
	a := newTestAsset(2, "0x1111111111111111111111111111111111111111")
	a.LatestProofHash = hash

	if _, err := s.CreateIfAbsent(ctx, a); err != nil {
		t.Fatalf("CreateIfAbsent() failed: %v", err)
	}

	got, err := s.GetByID(ctx, 2)
	if err != nil {
		t.Fatalf("GetByID() failed: %v", err)
	}
	if got.LatestProofHash != hash {
		t.Fatalf("initial proof hash lost: got %q", got.LatestProofHash)
	}
}

func TestAssetPGStore_SetLatestProofHash(t *testing.T) {
	ctx, s := setupStore(t)

	if _, err := s.CreateIfAbsent(ctx, newTestAsset(5, "0x1111111111111111111111111111111111111111")); err != nil {
		t.Fatalf("CreateIfAbsent() failed: %v", err)
	}

	first := "0x" + strings.Repeat("a", 64)
	second := "0x" + strings.Repeat("b", 64)

	if err := s.SetLatestProofHash(ctx, 5, first); err != nil {
		t.Fatalf("SetLatestProofHash(first) failed: %v", err)
	}
	if err := s.SetLatestProofHash(ctx, 5, second); err != nil {
		t.Fatalf("SetLatestProofHash(second) failed: %v", err)
	}

	got, err := s.GetByID(ctx, 5)
	if err != nil {
		t.Fatalf("GetByID() failed: %v", err)
	}
	if got.LatestProofHash != second {
		t.Fatalf("proof hash mismatch: got %s want %s", got.LatestProofHash, second)
	}

	err = s.SetLatestProofHash(ctx, 404, first)
	if !errors.Is(err, ErrAssetNotFound) {
		t.Fatalf("expected ErrAssetNotFound, got %v", err)
	}
}

func TestAssetPGStore_SetMetadata(t *testing.T) {
	ctx, s := setupStore(t)

	if _, err := s.CreateIfAbsent(ctx, newTestAsset(9, "0x1111111111111111111111111111111111111111")); err != nil {
		t.Fatalf("CreateIfAbsent() failed: %v", err)
	}

	md := asset.Metadata{
		Title:       "City bike",
		Description: "Three-speed commuter bike",
		Category:    "vehicles",
		Tags:        []string{"bike", "city"},
		URL:         "https://example.com/bike",
	}
	if err := s.SetMetadata(ctx, 9, md); err != nil {
		t.Fatalf("SetMetadata() failed: %v", err)
	}

	got, err := s.GetByID(ctx, 9)
	if err != nil {
		t.Fatalf("GetByID() failed: %v", err)
	}
	if got.Title != md.Title || got.Category != md.Category {
		t.Fatalf("metadata not persisted: %+v", got)
	}
	if len(got.Tags) != 2 {
		t.Fatalf("tags not persisted: %+v", got.Tags)
	}

	if err := s.SetMetadata(ctx, 404, md); !errors.Is(err, ErrAssetNotFound) {
		t.Fatalf("expected ErrAssetNotFound, got %v", err)
	}
}

func TestAssetPGStore_ListFilters(t *testing.T) {
	ctx, s := setupStore(t)

	creator := "0x1111111111111111111111111111111111111111"
	other := "0x2222222222222222222222222222222222222222"

	for i, c := range []string{creator, creator, other} {
		if _, err := s.CreateIfAbsent(ctx, newTestAsset(int64(i+1), c)); err != nil {
			t.Fatalf("CreateIfAbsent() failed: %v", err)
		}
	}

	byCreator, err := s.List(ctx, WithCreator(creator))
	if err != nil {
		t.Fatalf("List(creator) failed: %v", err)
	}
	if len(byCreator) != 2 {
		t.Fatalf("expected 2 assets for creator, got %d", len(byCreator))
	}

	// Creator filter is case-insensitive: addresses compare as hex, not text.
	byCreatorUpper, err := s.List(ctx, WithCreator("0X1111111111111111111111111111111111111111"))
	if err != nil {
		t.Fatalf("List(creator upper) failed: %v", err)
	}
	if len(byCreatorUpper) != 2 {
		t.Fatalf("expected case-insensitive creator match, got %d", len(byCreatorUpper))
	}

	paged, err := s.List(ctx, WithPagination(1, 1))
	if err != nil {
		t.Fatalf("List(paged) failed: %v", err)
	}
	if len(paged) != 1 || paged[0].ID != 2 {
		t.Fatalf("unexpected page: %+v", paged)
	}
}
