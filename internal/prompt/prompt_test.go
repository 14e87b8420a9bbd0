package prompt

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"leetcoach/internal/llm"
)

func TestBuildSystemPrompt_WithCode(t *testing.T) {
	page := PageData{
		Title:         "1. Two Sum",
		Description:   "<p>Given an array of integers nums...</p>",
		EditorContent: "def twoSum(nums, target):\n    pass",
		Language:      "python",
	}

	msg, err := BuildSystemPrompt(page, ModeLearn, "")
	if err != nil {
		t.Fatalf("BuildSystemPrompt failed: %v", err)
	}

	if msg.Role != llm.RoleSystem {
		t.Errorf("Expected system role, got %s", msg.Role)
	}
	for _, want := range []string{
		"Leetcode coach",
		"attempting to solve 1. Two Sum.",
		"```html\n<p>Given an array of integers nums...</p>\n```",
		"Here is the user's current code:",
		"```python\ndef twoSum(nums, target):\n    pass\n```",
		"Use this context to answer the user's questions.",
	} {
		if !strings.Contains(msg.Content, want) {
			t.Errorf("Prompt should contain %q\n---\n%s", want, msg.Content)
		}
	}
	if strings.Contains(msg.Content, "suggest_code") {
		t.Error("Learn mode must not mention the suggest_code tool")
	}
}

func TestBuildSystemPrompt_EmptyEditorAndCustom(t *testing.T) {
	msg, err := BuildSystemPrompt(PageData{Title: "Valid Parentheses"}, ModeAgent, "  Answer in French.  ")
	if err != nil {
		t.Fatalf("BuildSystemPrompt failed: %v", err)
	}

	if strings.Contains(msg.Content, "current code") {
		t.Error("Prompt must omit the code section when the editor is empty")
	}
	if !strings.Contains(msg.Content, "\n\nAnswer in French.\n\n") {
		t.Errorf("Expected trimmed custom instructions in their own paragraph:\n%s", msg.Content)
	}
	if !strings.Contains(msg.Content, "suggest_code") {
		t.Error("Agent mode should mention the suggest_code tool")
	}
}

func TestParseMode(t *testing.T) {
	if m, err := ParseMode(""); err != nil || m != ModeLearn {
		t.Errorf("Expected default learn mode, got %q %v", m, err)
	}
	if m, err := ParseMode(" Agent "); err != nil || m != ModeAgent {
		t.Errorf("Expected agent mode, got %q %v", m, err)
	}
	if _, err := ParseMode("teach"); err == nil {
		t.Error("Expected error for unknown mode")
	}
}

func TestLoadPage(t *testing.T) {
	dir := t.TempDir()
	desc := filepath.Join(dir, "problem.html")
	sol := filepath.Join(dir, "solution.go")
	os.WriteFile(desc, []byte("<p>desc</p>"), 0644)
	os.WriteFile(sol, []byte("package main"), 0644)

	page, err := LoadPage("Two Sum", desc, sol, "")
	if err != nil {
		t.Fatalf("LoadPage failed: %v", err)
	}
	if page.Description != "<p>desc</p>" || page.EditorContent != "package main" {
		t.Errorf("Unexpected page: %+v", page)
	}
	if page.Language != "go" {
		t.Errorf("Expected language from extension, got %q", page.Language)
	}

	page, err = LoadPage("", "", filepath.Join(dir, "missing.py"), "")
	if err != nil {
		t.Fatalf("Missing solution file should not fail: %v", err)
	}
	if page.EditorContent != "" || page.Language != "python" || page.Title == "" {
		t.Errorf("Unexpected page for missing solution: %+v", page)
	}

	if _, err := LoadPage("x", filepath.Join(dir, "nope.html"), "", ""); err == nil {
		t.Error("Expected error for missing description file")
	}
}
