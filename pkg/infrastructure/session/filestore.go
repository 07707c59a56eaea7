package session

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/pkg/errors"

	"storefront/pkg/domain/model"
)

const DefaultKey = "stride_user"

var _ model.SessionStore = &FileStore{}

// FileStore keeps the session slot as <dir>/<key>.json.
type FileStore struct {
	mu   sync.Mutex
	path string
}

func NewFileStore(dir, key string) *FileStore {
	if key == "" {
		key = DefaultKey
	}
	return &FileStore{path: filepath.Join(dir, key+".json")}
}

func (s *FileStore) Path() string { return s.path }

func (s *FileStore) Load() (*model.SessionRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil, model.ErrNoSession
	}
	if err != nil {
		return nil, errors.Wrap(err, "read session")
	}
	return decodeRecord(data)
}

func (s *FileStore) Save(record *model.SessionRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return errors.Wrap(err, "encode session")
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return errors.Wrap(err, "create session directory")
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return errors.Wrap(err, "write session")
	}
	return errors.Wrap(os.Rename(tmp, s.path), "replace session")
}

func (s *FileStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "remove session")
	}
	return nil
}

// decodeRecord accepts the versioned schema and the unversioned legacy shape,
// which was the bare user object.
func decodeRecord(data []byte) (*model.SessionRecord, error) {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, errors.Wrap(model.ErrCorruptSession, err.Error())
	}

	if _, versioned := probe["version"]; versioned {
		var record model.SessionRecord
		if err := json.Unmarshal(data, &record); err != nil {
			return nil, errors.Wrap(model.ErrCorruptSession, err.Error())
		}
		if record.Version < 1 || record.User.Email == "" {
			return nil, errors.Wrapf(model.ErrCorruptSession, "invalid session record, version %d", record.Version)
		}
		return &record, nil
	}

	var legacy model.User
	if err := json.Unmarshal(data, &legacy); err != nil || legacy.Email == "" {
		return nil, errors.Wrap(model.ErrCorruptSession, "unrecognised session shape")
	}
	return &model.SessionRecord{Version: model.SessionSchemaVersion, User: legacy}, nil
}
