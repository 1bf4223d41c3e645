package endpoint

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/kbukum/flowstack/config"
	apperrors "github.com/kbukum/flowstack/errors"
	"github.com/kbukum/flowstack/ingestion"
	"github.com/kbukum/flowstack/knowledge"
	"github.com/kbukum/flowstack/logger"
	"github.com/kbukum/flowstack/server"
	"github.com/kbukum/flowstack/storage"
)

// UploadDocument accepts a multipart file, extracts its text, stores the
// document record, and kicks off embedding in the background.
func UploadDocument(store *storage.Store, kb *knowledge.Service, cfg config.UploadConfig) gin.HandlerFunc {
	log := logger.WithComponent("documents")
	return func(c *gin.Context) {
		fileHeader, err := c.FormFile("file")
		if err != nil {
			server.RespondWithError(c, apperrors.MissingField("file"))
			return
		}
		if fileHeader.Size > cfg.MaxFileSize {
			server.RespondWithError(c, apperrors.InvalidInput("file",
				fmt.Sprintf("exceeds maximum size of %d bytes", cfg.MaxFileSize)))
			return
		}
		ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
		if !extensionAllowed(ext, cfg.AllowedExtensions) {
			server.RespondWithError(c, apperrors.InvalidInput("file",
				fmt.Sprintf("file type %s is not supported", ext)))
			return
		}

		if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
			server.RespondWithError(c, apperrors.Internal(err))
			return
		}
		storedName := uuid.New().String() + ext
		path := filepath.Join(cfg.Dir, storedName)
		if err := c.SaveUploadedFile(fileHeader, path); err != nil {
			server.RespondWithError(c, apperrors.Internal(err))
			return
		}

		content, err := ingestion.ExtractText(path)
		if err != nil {
			os.Remove(path)
			server.RespondWithError(c, apperrors.InvalidInput("file", err.Error()))
			return
		}

		doc := &storage.Document{
			Filename:         storedName,
			OriginalFilename: fileHeader.Filename,
			FilePath:         path,
			FileSize:         fileHeader.Size,
			FileType:         strings.TrimPrefix(ext, "."),
			Content:          content,
		}
		if err := store.CreateDocument(c.Request.Context(), doc); err != nil {
			os.Remove(path)
			server.RespondWithError(c, err)
			return
		}

		// Embedding runs detached from the request so large documents do not
		// hold the upload open.
		go func() {
			if _, err := kb.ProcessDocument(context.Background(), doc); err != nil {
				log.WithError(err).Error("background document indexing failed",
					logger.Fields(logger.FieldDocument, doc.ID))
			}
		}()

		server.RespondCreated(c, doc)
	}
}

// ListDocuments returns all uploaded documents.
func ListDocuments(store *storage.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		docs, err := store.ListDocuments(c.Request.Context())
		if err != nil {
			server.RespondWithError(c, err)
			return
		}
		server.RespondOK(c, docs)
	}
}

// GetDocument returns one document by id.
func GetDocument(store *storage.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c)
		if !ok {
			return
		}
		doc, err := store.GetDocument(c.Request.Context(), id)
		if err != nil {
			server.RespondWithError(c, err)
			return
		}
		server.RespondOK(c, doc)
	}
}

// DeleteDocument removes a document, its chunks, and its file on disk.
func DeleteDocument(store *storage.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c)
		if !ok {
			return
		}
		doc, err := store.GetDocument(c.Request.Context(), id)
		if err != nil {
			server.RespondWithError(c, err)
			return
		}
		if err := store.DeleteDocument(c.Request.Context(), id); err != nil {
			server.RespondWithError(c, err)
			return
		}
		// The file is best-effort; the record is already gone.
		os.Remove(doc.FilePath)
		server.RespondNoContent(c)
	}
}

func extensionAllowed(ext string, allowed []string) bool {
	for _, a := range allowed {
		if ext == strings.ToLower(a) {
			return true
		}
	}
	return false
}
