package store

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"lanhub/models"
	"lanhub/utils"
)

// ErrFileTooLarge is returned by StageFile when a part's payload exceeds the
// configured maximum.
var ErrFileTooLarge = errors.New("file exceeds maximum allowed size")

// ErrFileNotFound is returned by DeleteFile for names with no matching file.
var ErrFileNotFound = errors.New("file not found")

// stagedPrefix marks temp files belonging to uploads that have not been
// committed yet. Staged files are excluded from listings.
const stagedPrefix = ".staged-"

// StagedFile is one upload part persisted to a temp file but not yet visible
// under its final name. Uploads are committed all-or-nothing: every part of a
// request is staged first, and only a fully valid request gets renamed into
// place.
type StagedFile struct {
	Name     string // sanitized final filename
	TempPath string
	Size     int64
}

// StageFile streams one part's payload into a uuid-named temp file inside the
// uploads directory (same filesystem, so the later rename is atomic). Returns
// ErrFileTooLarge when the payload exceeds maxBytes.
func (s *Store) StageFile(name string, r io.Reader, maxBytes int64) (StagedFile, error) {
	tempPath := filepath.Join(s.UploadsDir, stagedPrefix+utils.GenerateDashlessUUID()+".tmp")
	f, err := os.OpenFile(tempPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return StagedFile{}, fmt.Errorf("failed to create staging file: %w", err)
	}

	// Copy one byte past the cap so overruns are detectable.
	written, err := io.Copy(f, io.LimitReader(r, maxBytes+1))
	closeErr := f.Close()
	if err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(tempPath)
		return StagedFile{}, fmt.Errorf("failed to stage upload '%s': %w", name, err)
	}
	if written > maxBytes {
		_ = os.Remove(tempPath)
		return StagedFile{}, ErrFileTooLarge
	}

	return StagedFile{Name: name, TempPath: tempPath, Size: written}, nil
}

// CommitStaged renames every staged file to its final name under one uploads
// lock critical section, overwriting same-named files (last write wins), and
// sets owner-read/write, group/other-read permissions. On failure the
// remaining staged files are discarded; files renamed before the failure stay.
func (s *Store) CommitStaged(files []StagedFile) error {
	s.uploadsMu.Lock()
	defer s.uploadsMu.Unlock()

	for i, sf := range files {
		finalPath := filepath.Join(s.UploadsDir, sf.Name)
		if err := os.Rename(sf.TempPath, finalPath); err != nil {
			s.discardLocked(files[i:])
			return fmt.Errorf("failed to commit upload '%s': %w", sf.Name, err)
		}
		if err := os.Chmod(finalPath, 0o644); err != nil {
			log.Printf("WARN: Failed to set permissions on '%s': %v", finalPath, err)
		}
		log.Printf("INFO: Saved uploaded file '%s' (%d bytes)", sf.Name, sf.Size)
	}
	return nil
}

// DiscardStaged removes staged temp files after a rejected request.
func (s *Store) DiscardStaged(files []StagedFile) {
	s.uploadsMu.Lock()
	defer s.uploadsMu.Unlock()
	s.discardLocked(files)
}

func (s *Store) discardLocked(files []StagedFile) {
	for _, sf := range files {
		if err := os.Remove(sf.TempPath); err != nil && !os.IsNotExist(err) {
			log.Printf("WARN: Failed to remove staged file '%s': %v", sf.TempPath, err)
		}
	}
}

// DeleteFile removes one uploaded file by its sanitized name under the
// uploads lock. Returns ErrFileNotFound when no regular file of that name
// exists.
func (s *Store) DeleteFile(name string) error {
	s.uploadsMu.Lock()
	defer s.uploadsMu.Unlock()

	path := filepath.Join(s.UploadsDir, name)
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return ErrFileNotFound
	}
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("failed to delete file '%s': %w", name, err)
	}
	log.Printf("INFO: Deleted uploaded file '%s'", name)
	return nil
}

// ListFiles returns info for every committed file in the uploads directory,
// sorted by name. Staged temp files are skipped.
func (s *Store) ListFiles() ([]models.FileInfo, error) {
	s.uploadsMu.Lock()
	defer s.uploadsMu.Unlock()

	entries, err := os.ReadDir(s.UploadsDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read uploads directory: %w", err)
	}

	files := make([]models.FileInfo, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), stagedPrefix) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		files = append(files, models.FileInfo{
			Name:      entry.Name(),
			SizeBytes: info.Size(),
			Extension: strings.TrimPrefix(filepath.Ext(entry.Name()), "."),
			MimeType:  utils.MimeTypeByName(entry.Name()),
		})
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Name < files[j].Name })
	return files, nil
}

// HasFile reports whether a committed file of that name exists.
func (s *Store) HasFile(name string) bool {
	s.uploadsMu.Lock()
	defer s.uploadsMu.Unlock()
	info, err := os.Stat(filepath.Join(s.UploadsDir, name))
	return err == nil && !info.IsDir()
}
