package models

// ProjectWithTags is the read model served to the gallery and dashboard. It
// is assembled on every read and never stored.
type ProjectWithTags struct {
	Project
	User ProjectOwner `json:"user"`
	Tags []Tag        `json:"tags"`
}
