package api

import (
	"context"
	"strings"
	"testing"
)

// The mock repository escape hatch: once enabled, the whole editor
// flow answers locally, no backend involved.
func TestMockRepoEscapeHatch(t *testing.T) {
	t.Cleanup(ResetMockRepo)
	EnableMockRepo()

	client := New("http://127.0.0.1:1") // unreachable on purpose
	ctx := context.Background()

	status, err := client.RepoStatus(ctx)
	if err != nil || !status.Connected {
		t.Fatalf("mock repo must report connected, got %+v err=%v", status, err)
	}

	files, err := client.RepoFiles(ctx, "")
	if err != nil {
		t.Fatalf("files: %v", err)
	}
	var hasReadme bool
	for _, entry := range files {
		if entry.Path == "README.md" && entry.Kind == "file" {
			hasReadme = true
		}
	}
	if !hasReadme {
		t.Fatalf("mock listing must contain README.md, got %+v", files)
	}

	content, err := client.RepoFile(ctx, "README.md")
	if err != nil {
		t.Fatalf("file: %v", err)
	}
	if !strings.Contains(content, "Mock repo") {
		t.Fatalf("mock content must contain the placeholder, got %q", content)
	}
}

func TestMockRepoRemembersEdits(t *testing.T) {
	t.Cleanup(ResetMockRepo)
	EnableMockRepo()

	client := New("http://127.0.0.1:1")
	ctx := context.Background()

	result, err := client.SaveRepoFile(ctx, "README.md", "edited offline")
	if err != nil || !result.OK {
		t.Fatalf("mock save must acknowledge, got %+v err=%v", result, err)
	}
	content, err := client.RepoFile(ctx, "README.md")
	if err != nil {
		t.Fatalf("file: %v", err)
	}
	if content != "edited offline" {
		t.Fatalf("edited content lost, got %q", content)
	}

	// Commit goes through the same local write path.
	if _, err := client.CommitRepoFile(ctx, "notes.md", "note body", "add notes"); err != nil {
		t.Fatalf("mock commit: %v", err)
	}
	if got, _ := client.RepoFile(ctx, "notes.md"); got != "note body" {
		t.Fatalf("committed content lost, got %q", got)
	}
}

func TestResetMockRepoClearsState(t *testing.T) {
	EnableMockRepo()
	client := New("http://127.0.0.1:1")
	_, _ = client.SaveRepoFile(context.Background(), "README.md", "scratch")
	ResetMockRepo()

	if MockRepoEnabled() {
		t.Fatalf("reset must disable mock mode")
	}
	EnableMockRepo()
	t.Cleanup(ResetMockRepo)
	content, _ := client.RepoFile(context.Background(), "README.md")
	if !strings.Contains(content, "Mock repo") {
		t.Fatalf("reset must drop edited contents, got %q", content)
	}
}
