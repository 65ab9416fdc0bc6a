package providers

import (
	"os"
	"sync"

	json "github.com/goccy/go-json"

	"pad/internal/refresh/interfaces"
	"pad/internal/structures"
)

// StateStoreInterface is the narrow key-value port the engine persists
// its cross-invocation state through (marks, VIP snapshot, highlights,
// ping snapshot). Values are opaque JSON documents.
type StateStoreInterface interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte)
	Delete(key string)
	Load() error
	Save() error
}

// FileStateStore keeps all keys in one zstd-compressed JSON file,
// written atomically via tmp+rename. Absent or corrupt files load as
// empty state rather than failing the pipeline.
type FileStateStore struct {
	mu         sync.RWMutex
	path       string
	data       map[string]json.RawMessage
	compressor interfaces.CompressorInterface
	logger     Logger
}

func NewStateStoreProvider(conf *structures.Config, compressor interfaces.CompressorInterface, logger Logger) StateStoreInterface {
	return &FileStateStore{
		path:       conf.Persistence.StatePath,
		data:       make(map[string]json.RawMessage),
		compressor: compressor,
		logger:     logger,
	}
}

func (s *FileStateStore) Get(key string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	val, ok := s.data[key]
	return val, ok
}

func (s *FileStateStore) Set(key string, value []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = json.RawMessage(value)
}

func (s *FileStateStore) Delete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
}

func (s *FileStateStore) Load() error {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	decompressed, err := s.compressor.Decompress(raw)
	if err != nil {
		s.logger.Warnf(TypeApp, "State file %s is corrupt, starting empty: %s", s.path, err)
		return nil
	}

	var data map[string]json.RawMessage
	if err := json.Unmarshal(decompressed, &data); err != nil {
		s.logger.Warnf(TypeApp, "State file %s is not valid JSON, starting empty: %s", s.path, err)
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = data
	return nil
}

func (s *FileStateStore) Save() error {
	s.mu.RLock()
	jsonData, err := json.Marshal(s.data)
	s.mu.RUnlock()
	if err != nil {
		return err
	}

	data, err := s.compressor.Compress(jsonData)
	if err != nil {
		return err
	}

	tmpFile := s.path + ".tmp"
	file, err := os.Create(tmpFile)
	if err != nil {
		return err
	}

	if _, err = file.Write(data); err != nil {
		file.Close()
		os.Remove(tmpFile)
		return err
	}

	if err = file.Sync(); err != nil {
		file.Close()
		os.Remove(tmpFile)
		return err
	}

	if err = file.Close(); err != nil {
		os.Remove(tmpFile)
		return err
	}

	return os.Rename(tmpFile, s.path)
}
