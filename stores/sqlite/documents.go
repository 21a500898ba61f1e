package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"invoice-docstore/core"

	_ "github.com/mattn/go-sqlite3"
	"github.com/sirupsen/logrus"
)

type documentStore struct {
	db *sql.DB
}

// NewDocumentStore opens dataSourceName and creates the documents table.
func NewDocumentStore(dataSourceName string) (core.DocumentStore, error) {
	db, err := sql.Open("sqlite3", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	sts := `CREATE TABLE IF NOT EXISTS documents (id TEXT PRIMARY KEY, data BLOB NOT NULL);`
	if _, err = db.Exec(sts); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create documents table: %w", err)
	}
	return &documentStore{db}, nil
}

func (s *documentStore) FindID(ctx context.Context, id string) (*core.Document, error) {
	log := logrus.WithField("document_id", id)

	key, ok := core.DocumentKey(id)
	if !ok {
		log.Warn("Malformed document ID")
		return nil, fmt.Errorf("document with id %s: %w", id, core.ErrNotFound)
	}

	log.Debug("Retrieving document by ID")
	var data []byte
	err := s.db.QueryRowContext(ctx, "SELECT data FROM documents WHERE id = ?", key).Scan(&data)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Warn("Document with specified ID not found")
			return nil, fmt.Errorf("document with id %s: %w", id, core.ErrNotFound)
		}
		log.WithField("error", err).Error("Failed to retrieve document")
		return nil, fmt.Errorf("query document %s: %w", id, err)
	}
	log.Info("Document retrieved successfully")
	return &core.Document{Data: data}, nil
}

func (s *documentStore) Create(ctx context.Context, document *core.Document) (string, error) {
	id := core.HashDocument(document.Data)
	key, _ := core.DocumentKey(id)
	data := document.Data
	if data == nil {
		data = []byte{}
	}
	log := logrus.WithFields(logrus.Fields{
		"document_id": id,
		"data_length": len(data),
	})

	res, err := s.db.ExecContext(ctx, "INSERT OR IGNORE INTO documents (id, data) VALUES (?, ?)", key, data)
	if err != nil {
		log.WithField("error", err).Error("Failed to create document")
		return "", fmt.Errorf("insert document %s: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		log.Info("Document already stored")
		return id, nil
	}
	log.Info("Document created successfully")
	return id, nil
}

func (s *documentStore) Close() error {
	return s.db.Close()
}
