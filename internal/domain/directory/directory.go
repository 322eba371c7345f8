// Package directory holds the hit types of the non-content search domains.
package directory

// User is a user directory hit.
type User struct {
	UID      int64  `json:"uid"`
	Username string `json:"username"`
}

// Category is a category directory hit.
type Category struct {
	Cid  int64  `json:"cid"`
	Name string `json:"name"`
}

// Tag is a tag directory hit.
type Tag struct {
	Value string `json:"value"`
	Score int64  `json:"score"`
}
