package api

import "sync"

// Canned substitutes served by WithFallback when the backend is
// unreachable. Deterministic on purpose: tests and offline demos see
// the same data every time.

// MockRoster is the fallback team roster.
func MockRoster() []TeamMember {
	return []TeamMember{
		{ID: "u1", Name: "Sean", Roles: []string{"Engineering"}, Status: "active"},
		{ID: "u2", Name: "Yug", Roles: []string{"Engineering"}, Status: "active"},
		{ID: "u3", Name: "Coordinator", Roles: []string{"Coordination"}, Status: "idle"},
	}
}

// MockCollaborators is the static roster for the notebook chat
// sub-thread. One collaborator is selected at a time.
func MockCollaborators() []TeamMember {
	return []TeamMember{
		{ID: "c1", Name: "Sean", Roles: []string{"Engineering"}, Status: "active"},
		{ID: "c2", Name: "Yug", Roles: []string{"Engineering"}, Status: "active"},
	}
}

// MockMessages is the fallback conversation log: empty, so a dead
// backend shows an empty chat rather than an error screen.
func MockMessages() []Message { return []Message{} }

// MockActivity is the fallback activity feed.
func MockActivity() []ActivityEntry { return []ActivityEntry{} }

// MockTasks is the fallback task board.
func MockTasks() []Task { return []Task{} }

// MockInbox is the fallback inbox.
func MockInbox() []Message { return []Message{} }

// MockRepoReadmeContent is the placeholder served for any file in the
// mock repository that has no edited content yet.
const MockRepoReadmeContent = "# Mock repo\n\nThis is a mock repository used while GitHub is not connected.\nEdit this file and save to exercise the editor flow offline.\n"

// mockRepoState is the one piece of process-wide mutable state: the
// mock GitHub connection flag plus edited file contents. It lives for
// the lifetime of the process and is only touched from this file.
type mockRepoState struct {
	mu      sync.Mutex
	enabled bool
	files   map[string]string
}

var mockRepo = &mockRepoState{files: map[string]string{}}

// EnableMockRepo flips the process into mock-repository mode. From
// here on the GitHub proxy methods answer locally without any network
// call, which lets the whole editor flow run offline.
func EnableMockRepo() {
	mockRepo.mu.Lock()
	defer mockRepo.mu.Unlock()
	mockRepo.enabled = true
}

// ResetMockRepo clears mock-repository mode and any edited contents.
// Tests use this to get back to a clean slate.
func ResetMockRepo() {
	mockRepo.mu.Lock()
	defer mockRepo.mu.Unlock()
	mockRepo.enabled = false
	mockRepo.files = map[string]string{}
}

// MockRepoEnabled reports whether mock-repository mode is on.
func MockRepoEnabled() bool {
	mockRepo.mu.Lock()
	defer mockRepo.mu.Unlock()
	return mockRepo.enabled
}

func mockRepoListing() []RepoEntry {
	return []RepoEntry{
		{Path: "README.md", Kind: "file"},
		{Path: "docs", Kind: "directory"},
		{Path: "notes.md", Kind: "file"},
	}
}

func mockRepoRead(path string) string {
	mockRepo.mu.Lock()
	defer mockRepo.mu.Unlock()
	if content, ok := mockRepo.files[path]; ok {
		return content
	}
	return MockRepoReadmeContent
}

func mockRepoWrite(path, content string) SaveResult {
	mockRepo.mu.Lock()
	defer mockRepo.mu.Unlock()
	mockRepo.files[path] = content
	return SaveResult{OK: true, Detail: "saved to mock repository"}
}
