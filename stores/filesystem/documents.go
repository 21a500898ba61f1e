package filesystem

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"invoice-docstore/core"

	"github.com/oklog/ulid/v2"
	"github.com/sirupsen/logrus"
)

type documentStore struct {
	basePath string // Directory where documents are stored.
}

// NewDocumentStore creates basePath if needed and stores every document as
// <basePath>/<hash>.pdf.
func NewDocumentStore(basePath string) (core.DocumentStore, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create base directory: %w", err)
	}

	return &documentStore{basePath: basePath}, nil
}

func (s *documentStore) FindID(ctx context.Context, id string) (*core.Document, error) {
	log := logrus.WithField("document_id", id)

	key, ok := core.DocumentKey(id)
	if !ok {
		log.Warn("Malformed document ID")
		return nil, fmt.Errorf("document with id %s: %w", id, core.ErrNotFound)
	}
	filePath := filepath.Join(s.basePath, key)

	log.WithField("file_path", filePath).Debug("Retrieving document by ID")
	data, err := os.ReadFile(filePath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			log.Warn("Document with specified ID not found")
			return nil, fmt.Errorf("document with id %s: %w", id, core.ErrNotFound)
		}
		log.WithField("error", err).Error("Failed to retrieve document")
		return nil, fmt.Errorf("read document %s: %w", id, err)
	}

	log.Info("Document retrieved successfully")
	return &core.Document{Data: data}, nil
}

func (s *documentStore) Create(ctx context.Context, document *core.Document) (string, error) {
	id := core.HashDocument(document.Data)
	key, _ := core.DocumentKey(id)
	filePath := filepath.Join(s.basePath, key)
	log := logrus.WithFields(logrus.Fields{
		"document_id": id,
		"file_path":   filePath,
		"data_length": len(document.Data),
	})

	if _, err := os.Stat(filePath); err == nil {
		log.Info("Document already stored")
		return id, nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		log.WithField("error", err).Error("Failed to stat document")
		return "", fmt.Errorf("stat document %s: %w", id, err)
	}

	if err := s.writeAtomic(filePath, document.Data); err != nil {
		log.WithField("error", err).Error("Failed to create document")
		return "", err
	}

	log.Info("Document created successfully")
	return id, nil
}

// writeAtomic writes data to a private temp file in the same directory and
// renames it onto filePath, so readers see either nothing or the full file.
// Concurrent writers of the same hash rename identical content.
func (s *documentStore) writeAtomic(filePath string, data []byte) (err error) {
	tmpPath := filepath.Join(s.basePath, "."+filepath.Base(filePath)+"."+ulid.Make().String()+".tmp")
	f, err := os.OpenFile(tmpPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer func() {
		if err != nil {
			_ = os.Remove(tmpPath)
		}
	}()

	if _, err = f.Write(data); err != nil {
		_ = f.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err = f.Sync(); err != nil {
		_ = f.Close()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err = f.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err = os.Rename(tmpPath, filePath); err != nil {
		return fmt.Errorf("commit document: %w", err)
	}
	if err = syncDir(s.basePath); err != nil {
		return fmt.Errorf("sync base directory: %w", err)
	}
	return nil
}

// syncDir flushes the directory entry created by a rename.
func syncDir(dir string) error {
	d, err := os.Open(dir)
	if err != nil {
		return err
	}
	if err := d.Sync(); err != nil {
		_ = d.Close()
		return err
	}
	return d.Close()
}
