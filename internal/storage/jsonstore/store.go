// Package jsonstore reads the admin-owned JSON files behind the
// chatbot. A missing or corrupt file is substituted with an empty
// structure so lookups degrade to "not found" answers instead of
// erroring.
package jsonstore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/campus-helpdesk/backend/internal/storage/models"
	"github.com/campus-helpdesk/backend/pkg/logger"
)

type KnowledgeBaseStore struct {
	path string
}

func NewKnowledgeBaseStore(path string) *KnowledgeBaseStore {
	return &KnowledgeBaseStore{path: path}
}

func (s *KnowledgeBaseStore) KnowledgeBase() *models.KnowledgeBase {
	var kb models.KnowledgeBase
	if err := readJSON(s.path, &kb); err != nil {
		logger.Warn("Knowledge base unavailable, using empty set",
			zap.String("path", s.path),
			zap.Error(err),
		)
		return &models.KnowledgeBase{}
	}
	return &kb
}

type AdminDataStore struct {
	path string
}

func NewAdminDataStore(path string) *AdminDataStore {
	return &AdminDataStore{path: path}
}

func (s *AdminDataStore) AdminData() *models.AdminData {
	var data models.AdminData
	if err := readJSON(s.path, &data); err != nil {
		logger.Warn("Admin data unavailable, using empty structure",
			zap.String("path", s.path),
			zap.Error(err),
		)
		return &models.AdminData{}
	}
	return &data
}

// Raw returns the file contents untouched for the admin dashboard, so
// fields this service does not model survive the round trip.
func (s *AdminDataStore) Raw() (json.RawMessage, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read admin data: %w", err)
	}
	return data, nil
}

// Save validates and writes the admin panel's payload atomically.
func (s *AdminDataStore) Save(payload json.RawMessage) error {
	if !json.Valid(payload) {
		return fmt.Errorf("admin data payload is not valid JSON")
	}

	var pretty map[string]interface{}
	if err := json.Unmarshal(payload, &pretty); err != nil {
		return fmt.Errorf("admin data payload must be a JSON object: %w", err)
	}
	formatted, err := json.MarshalIndent(pretty, "", "    ")
	if err != nil {
		return fmt.Errorf("failed to format admin data: %w", err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, "admin_data-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(formatted); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write admin data: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace admin data: %w", err)
	}

	logger.Info("Admin data saved", zap.String("path", s.path))
	return nil
}

func readJSON(path string, out interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
	}
	return nil
}
