// Package privilege filters ids by category privileges.
package privilege

import (
	"context"
	"fmt"
	"math"
	"strconv"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/kailas-cloud/forumsearch/internal/repository/keyspace"
)

// store is the consumer interface for privileges (ISP).
type store interface {
	SIsMember(ctx context.Context, key, member string) (bool, error)
	SMembersMulti(ctx context.Context, keys []string) ([][]string, error)
	HMGetMulti(ctx context.Context, keys []string, fields []string) ([]map[string]string, error)
}

// Repo implements usecase/search.Authorizer. A uid holds a privilege on a
// category when the category's privilege set names the uid or a group the
// uid belongs to; administrators hold every privilege.
type Repo struct {
	store store
	keys  keyspace.Keyspace
}

// New creates a privilege repository.
func New(s store, ks keyspace.Keyspace) *Repo {
	return &Repo{store: s, keys: ks}
}

// FilterCids keeps the cids on which uid holds priv, in order.
func (r *Repo) FilterCids(ctx context.Context, priv string, cids []int64, uid int64) ([]int64, error) {
	if len(cids) == 0 {
		return nil, nil
	}
	allowed, err := r.allowed(ctx, priv, cids, uid)
	if err != nil {
		return nil, err
	}
	out := make([]int64, 0, len(cids))
	for _, cid := range cids {
		if contains(allowed, cid) {
			out = append(out, cid)
		}
	}
	return out, nil
}

// FilterPids keeps the pids whose topic's category grants uid priv, in order.
// Posts or topics that no longer exist are dropped.
func (r *Repo) FilterPids(ctx context.Context, priv string, pids []int64, uid int64) ([]int64, error) {
	if len(pids) == 0 {
		return nil, nil
	}
	postRows, err := r.store.HMGetMulti(ctx, r.keys.Posts(pids), []string{"tid"})
	if err != nil {
		return nil, fmt.Errorf("hmget post tids: %w", err)
	}
	tids := make([]int64, len(pids))
	for i := 0; i < len(postRows) && i < len(pids); i++ {
		tids[i] = keyspace.ParseID(postRows[i]["tid"])
	}

	uniqTids := unique(tids)
	topicRows, err := r.store.HMGetMulti(ctx, r.keys.Topics(uniqTids), []string{"cid"})
	if err != nil {
		return nil, fmt.Errorf("hmget topic cids: %w", err)
	}
	cidOf := make(map[int64]int64, len(uniqTids))
	for i := 0; i < len(topicRows) && i < len(uniqTids); i++ {
		cidOf[uniqTids[i]] = keyspace.ParseID(topicRows[i]["cid"])
	}

	cids := make([]int64, 0, len(cidOf))
	for _, cid := range cidOf {
		cids = append(cids, cid)
	}
	allowed, err := r.allowed(ctx, priv, unique(cids), uid)
	if err != nil {
		return nil, err
	}

	out := make([]int64, 0, len(pids))
	for i, pid := range pids {
		if contains(allowed, cidOf[tids[i]]) {
			out = append(out, pid)
		}
	}
	return out, nil
}

// allowed returns the subset of cids on which uid holds priv.
func (r *Repo) allowed(ctx context.Context, priv string, cids []int64, uid int64) (*roaring.Bitmap, error) {
	bm := roaring.New()
	if len(cids) == 0 {
		return bm, nil
	}

	if uid > 0 {
		admin, err := r.store.SIsMember(ctx, r.keys.Administrators(), strconv.FormatInt(uid, 10))
		if err != nil {
			return nil, fmt.Errorf("check administrator: %w", err)
		}
		if admin {
			for _, cid := range cids {
				add(bm, cid)
			}
			return bm, nil
		}
	}

	keys := make([]string, len(cids))
	for i, cid := range cids {
		keys[i] = r.keys.Privilege(cid, priv)
	}
	grants, err := r.store.SMembersMulti(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("smembers %s privileges: %w", priv, err)
	}

	principals := principalsOf(uid)
	for i := 0; i < len(grants) && i < len(cids); i++ {
		for _, member := range grants[i] {
			if _, ok := principals[member]; ok {
				add(bm, cids[i])
				break
			}
		}
	}
	return bm, nil
}

// principalsOf lists the set members that grant uid a privilege.
func principalsOf(uid int64) map[string]struct{} {
	if uid <= 0 {
		return map[string]struct{}{keyspace.GroupGuests: {}}
	}
	return map[string]struct{}{
		strconv.FormatInt(uid, 10): {},
		keyspace.GroupRegistered:   {},
	}
}

func add(bm *roaring.Bitmap, cid int64) {
	if cid > 0 && cid <= math.MaxUint32 {
		bm.Add(uint32(cid))
	}
}

func contains(bm *roaring.Bitmap, cid int64) bool {
	return cid > 0 && cid <= math.MaxUint32 && bm.Contains(uint32(cid))
}

func unique(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if id <= 0 {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
