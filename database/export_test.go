package database

// projectTagCount returns the number of join rows referencing projectID,
// dangling ones included.
func (s *MemStorage) projectTagCount(projectID int) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := 0
	for _, pt := range s.projectTags {
		if pt.ProjectID == projectID {
			n++
		}
	}
	return n
}

// deleteTag removes a tag row without touching join rows that reference it.
func (s *MemStorage) deleteTag(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tags, id)
}
