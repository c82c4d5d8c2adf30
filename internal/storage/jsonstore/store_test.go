package jsonstore

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestKnowledgeBaseLoads(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "kb.json", `{
		"intents": [
			{"tag": "greeting", "patterns": ["hi"], "responses": ["Hello!"]}
		]
	}`)

	kb := NewKnowledgeBaseStore(path).KnowledgeBase()
	if len(kb.Intents) != 1 || kb.Intents[0].Tag != "greeting" {
		t.Errorf("unexpected knowledge base: %+v", kb)
	}
}

func TestMissingFileYieldsEmptyStructures(t *testing.T) {
	dir := t.TempDir()

	kb := NewKnowledgeBaseStore(filepath.Join(dir, "absent.json")).KnowledgeBase()
	if len(kb.Intents) != 0 {
		t.Errorf("expected empty knowledge base, got %+v", kb)
	}

	data := NewAdminDataStore(filepath.Join(dir, "absent.json")).AdminData()
	if len(data.Departments) != 0 || data.ExamSchedule != nil {
		t.Errorf("expected empty admin data, got %+v", data)
	}
}

func TestCorruptFileYieldsEmptyStructures(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "broken.json", `{"intents": [`)

	kb := NewKnowledgeBaseStore(path).KnowledgeBase()
	if len(kb.Intents) != 0 {
		t.Errorf("expected empty knowledge base, got %+v", kb)
	}
}

func TestAdminDataSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "admin.json", `{"departments": ["BCA"]}`)
	store := NewAdminDataStore(path)

	payload := `{"departments": ["BCA", "BBA"], "custom_field": 42}`
	if err := store.Save(json.RawMessage(payload)); err != nil {
		t.Fatalf("Save: %v", err)
	}

	data := store.AdminData()
	if len(data.Departments) != 2 {
		t.Errorf("Departments = %v", data.Departments)
	}

	// Fields this service does not model survive the write.
	raw, err := store.Raw()
	if err != nil {
		t.Fatalf("Raw: %v", err)
	}
	var full map[string]interface{}
	if err := json.Unmarshal(raw, &full); err != nil {
		t.Fatalf("saved file is not valid JSON: %v", err)
	}
	if _, ok := full["custom_field"]; !ok {
		t.Error("unmodeled field dropped on save")
	}
}

func TestSaveRejectsInvalidPayload(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "admin.json", `{"departments": []}`)
	store := NewAdminDataStore(path)

	if err := store.Save(json.RawMessage(`not json`)); err == nil {
		t.Error("expected an error for invalid JSON")
	}
	if err := store.Save(json.RawMessage(`[1, 2, 3]`)); err == nil {
		t.Error("expected an error for a non-object payload")
	}

	// The original file is untouched after rejected writes.
	data := store.AdminData()
	if data.Departments == nil {
		t.Errorf("original file corrupted: %+v", data)
	}
}
