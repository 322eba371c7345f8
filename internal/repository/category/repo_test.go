package category

import (
	"context"
	"errors"
	"testing"
)

func TestAllCids(t *testing.T) {
	repo, _ := newTestRepo(t)

	cids, err := repo.AllCids(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cids) != 5 || cids[0] != 1 || cids[4] != 5 {
		t.Errorf("cids = %v", cids)
	}
}

func TestChildren_BreadthFirstWithoutCycles(t *testing.T) {
	repo, _ := newTestRepo(t)

	got, err := repo.Children(context.Background(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []int64{2, 3, 4}
	if len(got) != len(want) {
		t.Fatalf("Children = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Children = %v, want %v", got, want)
		}
	}
}

func TestChildren_Leaf(t *testing.T) {
	repo, _ := newTestRepo(t)

	got, err := repo.Children(context.Background(), 5)
	if err != nil || len(got) != 0 {
		t.Errorf("Children(5) = %v, %v", got, err)
	}
}

func TestWatched(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	got, err := repo.Watched(ctx, 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 || got[0] != 5 || got[1] != 2 {
		t.Errorf("Watched = %v", got)
	}

	got, err = repo.Watched(ctx, 0)
	if err != nil || got != nil {
		t.Errorf("guest Watched = %v, %v", got, err)
	}
}

func TestFields(t *testing.T) {
	repo, _ := newTestRepo(t)

	rows, err := repo.Fields(context.Background(), []int64{2, 1, 9}, []string{"name"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rows[0]["name"] != "Help" || rows[1]["name"] != "General" || len(rows[2]) != 0 {
		t.Errorf("rows = %v", rows)
	}
	if _, ok := rows[1]["slug"]; ok {
		t.Error("unrequested field returned")
	}
}

func TestChildren_StoreError(t *testing.T) {
	repo, ms := newTestRepo(t)
	ms.err = errors.New("down")

	if _, err := repo.Children(context.Background(), 1); !errors.Is(err, ms.err) {
		t.Errorf("expected wrapped error, got %v", err)
	}
}
