package bookmarks

import (
	"os"
	"path/filepath"

	jsoniter "github.com/json-iterator/go"
)

// Persister handles durable storage of the bookmark collection
type Persister interface {
	Load() ([]Record, error)
	Save(records []Record) error
}

// FilePersister stores bookmarks as an ordered JSON array on disk
type FilePersister struct {
	path string
}

// NewFilePersister creates a persister writing to the given path
func NewFilePersister(path string) *FilePersister {
	return &FilePersister{path: path}
}

// Load reads the bookmark file. A missing file is not an error; it yields an
// empty collection.
func (p *FilePersister) Load() ([]Record, error) {
	data, err := os.ReadFile(p.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var records []Record
	if err := jsoniter.Unmarshal(data, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// Save writes the full collection, replacing the previous contents. The file
// is user-readable only, matching the credentials file.
func (p *FilePersister) Save(records []Record) error {
	if records == nil {
		records = []Record{}
	}

	data, err := jsoniter.MarshalIndent(records, "", "  ")
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(p.path), 0700); err != nil {
		return err
	}
	return os.WriteFile(p.path, data, 0600)
}
