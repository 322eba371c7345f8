package redis

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/redis/rueidis"
	"github.com/redis/rueidis/mock"
	"go.uber.org/mock/gomock"

	"github.com/kailas-cloud/forumsearch/internal/db"
)

// --- client.go tests ---

func TestPing_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("PING")).
		Return(mock.Result(mock.RedisString("PONG")))

	s := NewStoreForTest(c)
	if err := s.Ping(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestPing_Error(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("PING")).
		Return(mock.ErrorResult(context.DeadlineExceeded))

	s := NewStoreForTest(c)
	if err := s.Ping(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}

func TestPing_WrapsOp(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("PING")).
		Return(mock.ErrorResult(errors.New("connection refused")))

	var dbErr *db.Error
	err := NewStoreForTest(c).Ping(context.Background())
	if !errors.As(err, &dbErr) || dbErr.Op != db.OpPing {
		t.Fatalf("expected db.Error with op PING, got %v", err)
	}
}

func TestWaitForReady_RetriesUntilPong(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	gomock.InOrder(
		c.EXPECT().
			Do(gomock.Any(), mock.Match("PING")).
			Return(mock.ErrorResult(errors.New("LOADING Redis is loading the dataset in memory"))),
		c.EXPECT().
			Do(gomock.Any(), mock.Match("PING")).
			Return(mock.Result(mock.RedisString("PONG"))),
	)

	if err := NewStoreForTest(c).WaitForReady(context.Background(), 2*time.Second); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestWaitForReady_Timeout(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("PING")).
		Return(mock.ErrorResult(errors.New("connection refused"))).
		AnyTimes()

	err := NewStoreForTest(c).WaitForReady(context.Background(), 120*time.Millisecond)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
	if !strings.Contains(err.Error(), "connection refused") {
		t.Errorf("last ping error missing from %q", err)
	}
}

func TestNewStore_RequiresAddrs(t *testing.T) {
	if _, err := NewStore(Config{}); err == nil {
		t.Fatal("expected error for empty addrs")
	}
}

// --- hash.go tests ---

func TestHGetAll_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("HGETALL", "topic:1")).
		Return(mock.Result(mock.RedisMap(map[string]rueidis.RedisMessage{
			"cid":   mock.RedisString("2"),
			"title": mock.RedisString("Hello"),
		})))

	s := NewStoreForTest(c)
	m, err := s.HGetAll(context.Background(), "topic:1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m["cid"] != "2" || m["title"] != "Hello" {
		t.Errorf("unexpected map: %v", m)
	}
}

func TestHGetAll_Error(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("HGETALL", "topic:1")).
		Return(mock.ErrorResult(context.DeadlineExceeded))

	s := NewStoreForTest(c)
	_, err := s.HGetAll(context.Background(), "topic:1")
	if !isDBError(err) {
		t.Errorf("expected db.Error, got %T", err)
	}
}

func TestHGetAllMulti_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		DoMulti(gomock.Any(), gomock.Any(), gomock.Any()).
		Return([]rueidis.RedisResult{
			mock.Result(mock.RedisMap(map[string]rueidis.RedisMessage{
				"tid": mock.RedisString("1"),
			})),
			mock.Result(mock.RedisMap(map[string]rueidis.RedisMessage{})),
		})

	s := NewStoreForTest(c)
	out, err := s.HGetAllMulti(context.Background(), []string{"topic:1", "topic:2"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("expected 2 maps, got %d", len(out))
	}
	if out[0]["tid"] != "1" {
		t.Errorf("out[0] = %v", out[0])
	}
	if len(out[1]) != 0 {
		t.Errorf("missing hash should be empty, got %v", out[1])
	}
}

func TestHGetAllMulti_Empty(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	s := NewStoreForTest(c)
	out, err := s.HGetAllMulti(context.Background(), nil)
	if err != nil || out != nil {
		t.Errorf("expected nil, nil; got %v, %v", out, err)
	}
}

func TestHMGetMulti_SkipsNilFields(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		DoMulti(gomock.Any(), gomock.Any(), gomock.Any()).
		Return([]rueidis.RedisResult{
			mock.Result(mock.RedisArray(mock.RedisString("5"), mock.RedisString("1700000000000"))),
			mock.Result(mock.RedisArray(mock.RedisNil(), mock.RedisNil())),
		})

	s := NewStoreForTest(c)
	out, err := s.HMGetMulti(context.Background(),
		[]string{"post:1", "post:2"}, []string{"uid", "timestamp"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out[0]["uid"] != "5" || out[0]["timestamp"] != "1700000000000" {
		t.Errorf("out[0] = %v", out[0])
	}
	if len(out[1]) != 0 {
		t.Errorf("out[1] = %v, want empty", out[1])
	}
}

func TestHMGetMulti_RequiresFields(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	s := NewStoreForTest(c)
	if _, err := s.HMGetMulti(context.Background(), []string{"post:1"}, nil); err == nil {
		t.Fatal("expected error")
	}
}

func TestHMGetMulti_Error(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		DoMulti(gomock.Any(), gomock.Any()).
		Return([]rueidis.RedisResult{mock.ErrorResult(context.DeadlineExceeded)})

	s := NewStoreForTest(c)
	_, err := s.HMGetMulti(context.Background(), []string{"post:1"}, []string{"uid"})
	if !isDBError(err) {
		t.Errorf("expected db.Error, got %v", err)
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected wrapped DeadlineExceeded, got %v", err)
	}
}

// --- set.go tests ---

func TestSMembers_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("SMEMBERS", "topic:1:tags")).
		Return(mock.Result(mock.RedisArray(mock.RedisString("go"), mock.RedisString("redis"))))

	s := NewStoreForTest(c)
	members, err := s.SMembers(context.Background(), "topic:1:tags")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(members) != 2 {
		t.Errorf("expected 2 members, got %v", members)
	}
}

func TestSMembersMulti_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		DoMulti(gomock.Any(), gomock.Any(), gomock.Any()).
		Return([]rueidis.RedisResult{
			mock.Result(mock.RedisArray(mock.RedisString("a"))),
			mock.Result(mock.RedisArray()),
		})

	s := NewStoreForTest(c)
	out, err := s.SMembersMulti(context.Background(), []string{"k1", "k2"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 2 || len(out[0]) != 1 || len(out[1]) != 0 {
		t.Errorf("unexpected result: %v", out)
	}
}

func TestSIsMember(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("SISMEMBER", "administrators", "1")).
		Return(mock.Result(mock.RedisInt64(1)))

	s := NewStoreForTest(c)
	ok, err := s.SIsMember(context.Background(), "administrators", "1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Error("expected member")
	}
}

// --- zset.go tests ---

func TestZRange_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("ZRANGE", "uid:1:bookmarks", "0", "499")).
		Return(mock.Result(mock.RedisArray(mock.RedisString("10"), mock.RedisString("11"))))

	s := NewStoreForTest(c)
	members, err := s.ZRange(context.Background(), "uid:1:bookmarks", 0, 499)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(members) != 2 || members[0] != "10" {
		t.Errorf("unexpected members: %v", members)
	}
}

func TestZRange_Error(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), gomock.Any()).
		Return(mock.ErrorResult(errors.New("boom")))

	s := NewStoreForTest(c)
	if _, err := s.ZRange(context.Background(), "k", 0, 1); !isDBError(err) {
		t.Errorf("expected db.Error, got %v", err)
	}
}

func TestZRangeMulti_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		DoMulti(gomock.Any(), gomock.Any(), gomock.Any()).
		Return([]rueidis.RedisResult{
			mock.Result(mock.RedisArray(mock.RedisString("3"), mock.RedisString("4"))),
			mock.Result(mock.RedisArray()),
		})

	s := NewStoreForTest(c)
	out, err := s.ZRangeMulti(context.Background(), []string{"cid:1:children", "cid:2:children"}, 0, -1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out[0]) != 2 || len(out[1]) != 0 {
		t.Errorf("unexpected result: %v", out)
	}
}

func TestZMScore_MissingMembers(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("ZMSCORE", "username:uid", "alice", "ghost")).
		Return(mock.Result(mock.RedisArray(mock.RedisString("7"), mock.RedisNil())))

	s := NewStoreForTest(c)
	scores, err := s.ZMScore(context.Background(), "username:uid", []string{"alice", "ghost"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if scores[0] == nil || *scores[0] != 7 {
		t.Errorf("scores[0] = %v, want 7", scores[0])
	}
	if scores[1] != nil {
		t.Errorf("scores[1] = %v, want nil", *scores[1])
	}
}

func TestZRangeByLex_Args(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("ZRANGE", "username:sorted", "[al", "[al\xff", "BYLEX", "LIMIT", "0", "20")).
		Return(mock.Result(mock.RedisArray(mock.RedisString("alice:7"))))

	s := NewStoreForTest(c)
	members, err := s.ZRangeByLex(context.Background(), "username:sorted", "[al", "[al\xff", 0, 20)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(members) != 1 || members[0] != "alice:7" {
		t.Errorf("unexpected members: %v", members)
	}
}

// --- index.go tests ---

func TestCreateIndex_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool {
			return cmd[0] == "FT.CREATE" && cmd[1] == "idx:posts" &&
				strings.Join(cmd, " ") == "FT.CREATE idx:posts ON HASH PREFIX 1 post: SCHEMA content TEXT cid TAG"
		})).
		Return(mock.Result(mock.RedisString("OK")))

	s := NewStoreForTest(c)
	def := db.NewIndex("idx:posts").Prefix("post:").Text("content").Tag("cid").MustBuild()
	if err := s.CreateIndex(context.Background(), def); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestCreateIndex_AlreadyExists(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), gomock.Any()).
		Return(mock.Result(mock.RedisError("Index already exists")))

	s := NewStoreForTest(c)
	def := db.NewIndex("idx:posts").Text("content").MustBuild()
	if err := s.CreateIndex(context.Background(), def); !errors.Is(err, db.ErrIndexExists) {
		t.Errorf("expected ErrIndexExists, got %v", err)
	}
}

func TestCreateIndex_InvalidDefinition(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	def := &db.IndexDefinition{Name: "idx posts", Fields: []db.IndexField{{Name: "content", Type: db.IndexFieldText}}}
	if err := NewStoreForTest(c).CreateIndex(context.Background(), def); err == nil {
		t.Fatal("expected validation error before any command")
	}
}

func TestIndexExists(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("FT.INFO", "idx:posts")).
		Return(mock.Result(mock.RedisArray(mock.RedisString("index_name"), mock.RedisString("idx:posts"))))
	c.EXPECT().
		Do(gomock.Any(), mock.Match("FT.INFO", "idx:gone")).
		Return(mock.Result(mock.RedisError("Unknown index name")))

	s := NewStoreForTest(c)
	ok, err := s.IndexExists(context.Background(), "idx:posts")
	if err != nil || !ok {
		t.Errorf("IndexExists(idx:posts) = %v, %v", ok, err)
	}
	ok, err = s.IndexExists(context.Background(), "idx:gone")
	if err != nil || ok {
		t.Errorf("IndexExists(idx:gone) = %v, %v", ok, err)
	}
}

// --- search.go tests ---

func TestSearchKeys_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match(
			"FT.SEARCH", "idx:posts", "@cid:{1 | 2} @content:(hello world)",
			"NOCONTENT", "LIMIT", "0", "50", "DIALECT", "2",
		)).
		Return(mock.Result(mock.RedisArray(
			mock.RedisInt64(2),
			mock.RedisString("post:9"),
			mock.RedisString("post:3"),
		)))

	s := NewStoreForTest(c)
	res, err := s.SearchKeys(context.Background(), &db.TextQuery{
		IndexName: "idx:posts",
		Field:     "content",
		Terms:     []string{"hello", "world"},
		Tags:      []db.TagFilter{{Field: "cid", Values: []string{"1", "2"}}},
		Limit:     50,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Total != 2 || len(res.Keys) != 2 {
		t.Fatalf("unexpected result: %+v", res)
	}
	if res.Keys[0] != "post:9" || res.Keys[1] != "post:3" {
		t.Errorf("order not preserved: %v", res.Keys)
	}
}

func TestSearchKeys_Validation(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)
	s := NewStoreForTest(c)

	if _, err := s.SearchKeys(context.Background(), &db.TextQuery{Limit: 10}); err == nil {
		t.Error("expected error for missing index")
	}
	if _, err := s.SearchKeys(context.Background(), &db.TextQuery{IndexName: "idx"}); err == nil {
		t.Error("expected error for non-positive limit")
	}
}

func TestSearchKeys_UnknownIndex(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), gomock.Any()).
		Return(mock.Result(mock.RedisError("idx:posts: no such index")))

	s := NewStoreForTest(c)
	_, err := s.SearchKeys(context.Background(), &db.TextQuery{IndexName: "idx:posts", Limit: 10})
	if !errors.Is(err, db.ErrIndexNotFound) {
		t.Errorf("expected ErrIndexNotFound, got %v", err)
	}
}

func TestSearchKeys_Empty(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), gomock.Any()).
		Return(mock.Result(mock.RedisArray(mock.RedisInt64(0))))

	s := NewStoreForTest(c)
	res, err := s.SearchKeys(context.Background(), &db.TextQuery{IndexName: "idx:posts", Limit: 10})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Total != 0 || len(res.Keys) != 0 {
		t.Errorf("expected empty result, got %+v", res)
	}
}

func TestBuildQuery(t *testing.T) {
	tests := []struct {
		name string
		q    db.TextQuery
		want string
	}{
		{"match all", db.TextQuery{}, "*"},
		{"and terms", db.TextQuery{Terms: []string{"cat", "dog"}}, "(cat dog)"},
		{"or terms", db.TextQuery{Terms: []string{"cat", "dog"}, MatchAny: true}, "(cat | dog)"},
		{"field", db.TextQuery{Field: "title", Terms: []string{"go"}}, "@title:(go)"},
		{"escaped", db.TextQuery{Terms: []string{"c++"}}, `(c\+\+)`},
		{"blank terms", db.TextQuery{Terms: []string{" ", ""}}, "*"},
		{
			"tags only",
			db.TextQuery{Tags: []db.TagFilter{{Field: "uid", Values: []string{"4"}}, {Field: "cid"}}},
			"@uid:{4}",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := buildQuery(&tc.q); got != tc.want {
				t.Errorf("buildQuery = %q, want %q", got, tc.want)
			}
		})
	}
}

// --- helpers ---

// isDBError is a test helper for checking wrapped db.Error.
func isDBError(err error) bool {
	var dbErr *db.Error
	return errors.As(err, &dbErr)
}
