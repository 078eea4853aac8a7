package database

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rpupo63/designer-portfolio-backend/models"
)

type likeKey struct {
	projectID   int
	fingerprint string
}

// MemStorage keeps every entity in process memory. One lock guards all maps
// so each call observes a consistent snapshot. Data is lost on restart.
type MemStorage struct {
	mu sync.RWMutex

	users       map[int]models.User
	projects    map[int]models.Project
	tags        map[int]models.Tag
	projectTags map[int]models.ProjectTag
	likes       map[likeKey]struct{}

	nextUserID       int
	nextProjectID    int
	nextTagID        int
	nextProjectTagID int

	now func() time.Time
}

var _ Storage = (*MemStorage)(nil)

func NewMemStorage() *MemStorage {
	s := &MemStorage{now: time.Now}
	s.reset()
	return s
}

// Reset drops all data and restarts id allocation at 1.
func (s *MemStorage) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reset()
}

func (s *MemStorage) reset() {
	s.users = make(map[int]models.User)
	s.projects = make(map[int]models.Project)
	s.tags = make(map[int]models.Tag)
	s.projectTags = make(map[int]models.ProjectTag)
	s.likes = make(map[likeKey]struct{})
	s.nextUserID = 1
	s.nextProjectID = 1
	s.nextTagID = 1
	s.nextProjectTagID = 1
}

func (s *MemStorage) CreateUser(_ context.Context, user models.User) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user.ID = s.nextUserID
	s.nextUserID++
	s.users[user.ID] = user
	return &user, nil
}

func (s *MemStorage) GetUser(_ context.Context, id int) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[id]
	if !ok {
		return nil, nil
	}
	return &user, nil
}

func (s *MemStorage) GetUserByUsername(_ context.Context, username string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, user := range s.users {
		if user.Username == username {
			return &user, nil
		}
	}
	return nil, nil
}

func (s *MemStorage) CreateProject(_ context.Context, project models.Project) (*models.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	project = project.Clone()
	project.ID = s.nextProjectID
	project.CreatedAt = s.now()
	s.nextProjectID++
	s.projects[project.ID] = project

	out := project.Clone()
	return &out, nil
}

func (s *MemStorage) UpdateProject(_ context.Context, id int, project models.Project) (*models.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.projects[id]
	if !ok {
		return nil, notFound("project", id)
	}

	project = project.Clone()
	project.ID = existing.ID
	project.CreatedAt = existing.CreatedAt
	project.UserID = existing.UserID
	s.projects[id] = project

	out := project.Clone()
	return &out, nil
}

func (s *MemStorage) DeleteProject(_ context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.projects, id)
	return nil
}

func (s *MemStorage) GetAllProjects(_ context.Context) ([]models.ProjectWithTags, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.collect(func(models.Project) bool { return true }), nil
}

func (s *MemStorage) GetProjectByID(_ context.Context, id int) (*models.ProjectWithTags, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	project, ok := s.projects[id]
	if !ok {
		return nil, nil
	}
	out := s.withTags(project)
	return &out, nil
}

func (s *MemStorage) GetProjectsByUserID(_ context.Context, userID int) ([]models.ProjectWithTags, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.collect(func(p models.Project) bool { return p.UserID == userID }), nil
}

// collect returns matching projects in insertion order. Ids are allocated
// monotonically, so id order is insertion order. Caller holds s.mu.
func (s *MemStorage) collect(match func(models.Project) bool) []models.ProjectWithTags {
	ids := make([]int, 0, len(s.projects))
	for id, p := range s.projects {
		if match(p) {
			ids = append(ids, id)
		}
	}
	sort.Ints(ids)

	out := make([]models.ProjectWithTags, 0, len(ids))
	for _, id := range ids {
		out = append(out, s.withTags(s.projects[id]))
	}
	return out
}

// withTags joins the owner and tags of p. Caller holds s.mu.
func (s *MemStorage) withTags(p models.Project) models.ProjectWithTags {
	owner := models.UnknownOwner
	if user, ok := s.users[p.UserID]; ok {
		owner = user.Owner()
	}
	return models.ProjectWithTags{
		Project: p.Clone(),
		User:    owner,
		Tags:    s.projectTagsLocked(p.ID),
	}
}

func (s *MemStorage) CreateTag(_ context.Context, name string) (*models.Tag, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tag := models.Tag{ID: s.nextTagID, Name: name}
	s.nextTagID++
	s.tags[tag.ID] = tag
	return &tag, nil
}

func (s *MemStorage) GetTagByID(_ context.Context, id int) (*models.Tag, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tag, ok := s.tags[id]
	if !ok {
		return nil, nil
	}
	return &tag, nil
}

func (s *MemStorage) GetTagByName(_ context.Context, name string) (*models.Tag, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	// lowest id wins when duplicates exist
	var found *models.Tag
	for _, tag := range s.tags {
		if strings.EqualFold(tag.Name, name) && (found == nil || tag.ID < found.ID) {
			t := tag
			found = &t
		}
	}
	return found, nil
}

func (s *MemStorage) GetAllTags(_ context.Context) ([]models.Tag, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Tag, 0, len(s.tags))
	for _, tag := range s.tags {
		out = append(out, tag)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *MemStorage) AddTagToProject(_ context.Context, projectID, tagID int) (*models.ProjectTag, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	pt := models.ProjectTag{ID: s.nextProjectTagID, ProjectID: projectID, TagID: tagID}
	s.nextProjectTagID++
	s.projectTags[pt.ID] = pt
	return &pt, nil
}

func (s *MemStorage) RemoveTagsFromProject(_ context.Context, projectID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, pt := range s.projectTags {
		if pt.ProjectID == projectID {
			delete(s.projectTags, id)
		}
	}
	return nil
}

func (s *MemStorage) GetProjectTags(_ context.Context, projectID int) ([]models.Tag, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.projectTagsLocked(projectID), nil
}

// projectTagsLocked resolves join rows in join-row order, skipping rows whose
// tag no longer exists. Caller holds s.mu.
func (s *MemStorage) projectTagsLocked(projectID int) []models.Tag {
	var rows []models.ProjectTag
	for _, pt := range s.projectTags {
		if pt.ProjectID == projectID {
			rows = append(rows, pt)
		}
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].ID < rows[j].ID })

	tags := make([]models.Tag, 0, len(rows))
	for _, pt := range rows {
		if tag, ok := s.tags[pt.TagID]; ok {
			tags = append(tags, tag)
		}
	}
	return tags
}

func (s *MemStorage) LikeProject(_ context.Context, projectID int, fingerprint string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := likeKey{projectID, fingerprint}
	if _, ok := s.likes[key]; ok {
		return false, nil
	}
	s.likes[key] = struct{}{}
	return true, nil
}

func (s *MemStorage) UnlikeProject(_ context.Context, projectID int, fingerprint string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := likeKey{projectID, fingerprint}
	if _, ok := s.likes[key]; !ok {
		return false, nil
	}
	delete(s.likes, key)
	return true, nil
}

func (s *MemStorage) IsProjectLiked(_ context.Context, projectID int, fingerprint string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.likes[likeKey{projectID, fingerprint}]
	return ok, nil
}

func (s *MemStorage) GetProjectLikes(_ context.Context, projectID int) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := 0
	for key := range s.likes {
		if key.projectID == projectID {
			n++
		}
	}
	return n, nil
}
