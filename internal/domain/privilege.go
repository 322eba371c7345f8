package domain

// Category privileges consulted by search.
const (
	// PrivilegeRead allows listing a category.
	PrivilegeRead = "read"
	// PrivilegeFind allows discovering a category, e.g. as a child.
	PrivilegeFind = "find"
	// PrivilegeTopicsRead allows reading the posts of a category's topics.
	PrivilegeTopicsRead = "topics:read"
)
