// Package store provides persistence for merchant-to-category mappings.
package store

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/njdifiore91/budget-buddy-v3-6th329-sub001/internal/logging"
)

// MappingStore manages loading and saving of merchant-to-category mappings.
// Mappings are cached in memory after the first load; learned mappings are
// marked dirty and written back on Flush.
type MappingStore struct {
	MappingFile string

	mu       sync.RWMutex
	mappings map[string]string
	loaded   bool
	dirty    bool
	logger   logging.Logger
}

// NewMappingStore creates a store backed by the given YAML file. An empty
// filename falls back to the default lookup locations for "mappings.yaml".
func NewMappingStore(mappingFile string, logger logging.Logger) *MappingStore {
	if logger == nil {
		logger = logging.GetLogger()
	}
	return &MappingStore{
		MappingFile: mappingFile,
		logger:      logger,
	}
}

// FindConfigFile looks for a configuration file in standard locations
func (s *MappingStore) FindConfigFile(filename string) (string, error) {
	// Check if it's an absolute path
	if filepath.IsAbs(filename) {
		if _, err := os.Stat(filename); err == nil {
			return filename, nil
		}
		return "", os.ErrNotExist
	}

	// Common locations to check for config files
	locations := []string{
		filename,                            // Current directory
		filepath.Join("config", filename),   // ./config/ directory
		filepath.Join("database", filename), // ./database/ directory
	}

	// Try each location
	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location, nil
		}
	}

	// If still not found, check in user's home directory under .config/budget-buddy/
	homeDir, err := os.UserHomeDir()
	if err == nil {
		configDir := filepath.Join(homeDir, ".config", "budget-buddy")
		configPath := filepath.Join(configDir, filename)
		if _, err := os.Stat(configPath); err == nil {
			return configPath, nil
		}
	}

	return "", os.ErrNotExist
}

func (s *MappingStore) filename() string {
	if s.MappingFile != "" {
		return s.MappingFile
	}
	return "mappings.yaml"
}

// LoadMappings loads merchant mappings from the YAML file. A missing file is
// not an error; it yields an empty map. Keys are lower-cased so lookups are
// case-insensitive.
func (s *MappingStore) LoadMappings() (map[string]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.loadLocked(); err != nil {
		return nil, err
	}
	return s.copyMappingsLocked(), nil
}

func (s *MappingStore) loadLocked() error {
	if s.loaded {
		return nil
	}

	filename := s.filename()
	filePath, err := s.FindConfigFile(filename)
	if err != nil {
		if os.IsNotExist(err) {
			s.logger.Warn("Merchant mappings file not found",
				logging.Field{Key: logging.FieldLocation, Value: filename})
			s.mappings = map[string]string{}
			s.loaded = true
			return nil
		}
		return fmt.Errorf("error resolving mappings file: %w", err)
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return fmt.Errorf("error reading mappings file: %w", err)
	}

	var raw map[string]string
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("error parsing mappings file: %w", err)
	}

	s.mappings = make(map[string]string, len(raw))
	for merchant, category := range raw {
		s.mappings[strings.ToLower(strings.TrimSpace(merchant))] = category
	}
	s.loaded = true

	s.logger.Debug("Loaded merchant mappings",
		logging.Field{Key: logging.FieldCount, Value: len(s.mappings)},
		logging.Field{Key: logging.FieldLocation, Value: filePath})
	return nil
}

func (s *MappingStore) copyMappingsLocked() map[string]string {
	out := make(map[string]string, len(s.mappings))
	for k, v := range s.mappings {
		out[k] = v
	}
	return out
}

// Lookup returns the category mapped to a merchant, case-insensitively.
func (s *MappingStore) Lookup(merchant string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.loadLocked(); err != nil {
		return "", false, err
	}
	category, ok := s.mappings[strings.ToLower(strings.TrimSpace(merchant))]
	return category, ok, nil
}

// Learn records a merchant-to-category mapping in memory and marks the store
// dirty. The mapping is persisted on the next Flush.
func (s *MappingStore) Learn(merchant, category string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.loadLocked(); err != nil {
		return err
	}

	key := strings.ToLower(strings.TrimSpace(merchant))
	if key == "" {
		return nil
	}
	if existing, ok := s.mappings[key]; ok && existing == category {
		return nil
	}
	s.mappings[key] = category
	s.dirty = true
	return nil
}

// Dirty reports whether there are unsaved mappings.
func (s *MappingStore) Dirty() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dirty
}

// Flush writes the mappings back to disk if anything changed since the last
// load or Flush.
func (s *MappingStore) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.dirty {
		return nil
	}

	filename := s.filename()

	// Find the existing file or use standard locations
	filePath, err := s.FindConfigFile(filename)
	if err != nil && err != os.ErrNotExist {
		return fmt.Errorf("error resolving mappings file: %w", err)
	}

	// If file not found, use the database directory by default
	if err == os.ErrNotExist {
		if !filepath.IsAbs(filename) {
			// Default to database directory
			filePath = filepath.Join("database", filename)
		} else {
			filePath = filename
		}
	}

	// Create parent directory if it doesn't exist
	dir := filepath.Dir(filePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("error creating directory: %w", err)
	}

	data, err := yaml.Marshal(s.mappings)
	if err != nil {
		return fmt.Errorf("error marshaling mappings: %w", err)
	}

	if err := os.WriteFile(filePath, data, 0644); err != nil {
		return fmt.Errorf("error writing mappings: %w", err)
	}

	s.dirty = false
	s.logger.Debug("Saved merchant mappings",
		logging.Field{Key: logging.FieldCount, Value: len(s.mappings)},
		logging.Field{Key: logging.FieldLocation, Value: filePath})
	return nil
}
