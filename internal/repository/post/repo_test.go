package post

import (
	"context"
	"errors"
	"testing"
)

func TestPosts_AlignedWithNilForMissing(t *testing.T) {
	repo, _ := newTestRepo(t)

	posts, err := repo.Posts(context.Background(), []int64{3, 99, 1, 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(posts) != 4 {
		t.Fatalf("expected 4 entries, got %d", len(posts))
	}
	if posts[1] != nil {
		t.Errorf("missing post should be nil, got %+v", posts[1])
	}
	if posts[0].Pid != 3 {
		t.Errorf("pid should fall back to the key, got %d", posts[0].Pid)
	}
	if posts[0].Votes != 3 {
		t.Errorf("votes should derive from up/down, got %d", posts[0].Votes)
	}
	if posts[2].Tid != 100 || posts[2].Timestamp != 1000 || posts[2].Votes != 3 {
		t.Errorf("unexpected post: %+v", posts[2])
	}
	if !posts[3].Deleted {
		t.Error("post 2 should be deleted")
	}
}

func TestPosts_Empty(t *testing.T) {
	repo, ms := newTestRepo(t)

	posts, err := repo.Posts(context.Background(), nil)
	if err != nil || len(posts) != 0 {
		t.Errorf("Posts(nil) = %v, %v", posts, err)
	}
	if ms.calls != 0 {
		t.Errorf("expected no store calls, got %d", ms.calls)
	}
}

func TestContentsAndTids(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	contents, err := repo.Contents(ctx, []int64{1, 42})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if contents[0] != "I have a cat" || contents[1] != "" {
		t.Errorf("contents = %q", contents)
	}

	tids, err := repo.Tids(ctx, []int64{2, 42})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tids[0] != 200 || tids[1] != 0 {
		t.Errorf("tids = %v", tids)
	}
}

func TestFilterByCids(t *testing.T) {
	repo, _ := newTestRepo(t)

	got, err := repo.FilterByCids(context.Background(), []int64{3, 1, 2, 42}, []int64{2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 || got[0] != 3 || got[1] != 2 {
		t.Errorf("got %v, want [3 2]", got)
	}
}

func TestFilterByUids(t *testing.T) {
	repo, _ := newTestRepo(t)

	got, err := repo.FilterByUids(context.Background(), []int64{3, 2, 1}, []int64{10})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 || got[0] != 3 || got[1] != 1 {
		t.Errorf("got %v, want [3 1]", got)
	}
}

func TestPosts_StoreError(t *testing.T) {
	repo, ms := newTestRepo(t)
	ms.err = errors.New("connection refused")

	if _, err := repo.Posts(context.Background(), []int64{1}); !errors.Is(err, ms.err) {
		t.Errorf("expected wrapped store error, got %v", err)
	}
}
