// Package media places captured photo and audio files on the local
// filesystem: one category subtree per media type, one subdirectory per
// experience, collision-free generated filenames.
package media

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/tabiroku/tabiroku/internal/model"
)

const (
	photosDir        = "photos"
	audioMemosDir    = "audio_memos"
	ambientSoundsDir = "ambient_sounds"
)

type Store struct {
	root string
}

func NewStore(root string) *Store {
	return &Store{root: root}
}

// EnsureDirectories creates the media root and the category
// subdirectories. Idempotent.
func (s *Store) EnsureDirectories() error {
	for _, dir := range []string{s.root, s.categoryDir(photosDir), s.categoryDir(audioMemosDir), s.categoryDir(ambientSoundsDir)} {
		err := os.MkdirAll(dir, 0755)
		if err != nil {
			return fmt.Errorf("failed to create media directory %s: %w", dir, err)
		}
	}
	return nil
}

func (s *Store) categoryDir(category string) string {
	return filepath.Join(s.root, category)
}

func categoryFor(fileType string) (string, error) {
	switch fileType {
	case model.MediaTypePhoto:
		return photosDir, nil
	case model.MediaTypeAudioMemo:
		return audioMemosDir, nil
	case model.MediaTypeAmbientSound:
		return ambientSoundsDir, nil
	default:
		return "", fmt.Errorf("unknown media type: %s", fileType)
	}
}

// SavePhoto copies the source file into the experience's photo
// directory under a generated filename and returns the final path. The
// source is preserved: the camera roll owns it.
func (s *Store) SavePhoto(experienceID, sourceURI string) (string, error) {
	dir := filepath.Join(s.categoryDir(photosDir), experienceID)
	err := os.MkdirAll(dir, 0755)
	if err != nil {
		return "", fmt.Errorf("failed to create photo directory: %w", err)
	}

	destPath := filepath.Join(dir, uuid.NewString()+".jpg")
	err = copyFile(sourceURI, destPath)
	if err != nil {
		return "", fmt.Errorf("failed to save photo: %w", err)
	}

	return destPath, nil
}

// SaveAudio moves the source file into the category's per-experience
// directory under a generated filename and returns the final path. The
// caller's temporary recording file is consumed.
func (s *Store) SaveAudio(experienceID, sourceURI, fileType string) (string, error) {
	category, err := categoryFor(fileType)
	if err != nil {
		return "", err
	}
	if category == photosDir {
		return "", fmt.Errorf("not an audio type: %s", fileType)
	}

	dir := filepath.Join(s.categoryDir(category), experienceID)
	err = os.MkdirAll(dir, 0755)
	if err != nil {
		return "", fmt.Errorf("failed to create audio directory: %w", err)
	}

	destPath := filepath.Join(dir, uuid.NewString()+".m4a")
	err = os.Rename(sourceURI, destPath)
	if err != nil {
		// Rename fails across filesystems; fall back to copy+remove.
		err = copyFile(sourceURI, destPath)
		if err != nil {
			return "", fmt.Errorf("failed to save audio: %w", err)
		}
		removeErr := os.Remove(sourceURI)
		if removeErr != nil {
			slog.Warn("failed to remove source recording", "path", sourceURI, "error", removeErr)
		}
	}

	return destPath, nil
}

// DeleteExperienceFiles removes the experience's directory under each
// category root. Already-absent directories are not an error.
func (s *Store) DeleteExperienceFiles(experienceID string) error {
	for _, category := range []string{photosDir, audioMemosDir, ambientSoundsDir} {
		dir := filepath.Join(s.categoryDir(category), experienceID)
		err := os.RemoveAll(dir)
		if err != nil {
			return fmt.Errorf("failed to delete media directory %s: %w", dir, err)
		}
	}
	return nil
}

// Remove deletes a single stored file. Used as the compensating action
// when a row insert fails after the file was already written.
func (s *Store) Remove(path string) error {
	err := os.Remove(path)
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// FileInfo returns the size of a stored file, or an error when it does
// not exist.
func (s *Store) FileInfo(path string) (int64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}

// Sweep removes per-experience directories that hold no path present in
// keep. Run at startup to reconcile crash leftovers: a file written
// right before a crash has no row and would otherwise linger forever.
// Returns the number of directories removed.
func (s *Store) Sweep(keep []string) (int, error) {
	kept := make(map[string]struct{}, len(keep))
	for _, p := range keep {
		abs, err := filepath.Abs(p)
		if err != nil {
			continue
		}
		kept[filepath.Dir(abs)] = struct{}{}
	}

	removed := 0
	for _, category := range []string{photosDir, audioMemosDir, ambientSoundsDir} {
		root := s.categoryDir(category)
		entries, err := os.ReadDir(root)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return removed, err
		}

		for _, entry := range entries {
			if !entry.IsDir() {
				continue
			}
			dir := filepath.Join(root, entry.Name())
			abs, err := filepath.Abs(dir)
			if err != nil {
				continue
			}
			if _, ok := kept[abs]; ok {
				continue
			}
			err = os.RemoveAll(dir)
			if err != nil {
				return removed, fmt.Errorf("failed to sweep %s: %w", dir, err)
			}
			slog.Info("swept orphaned media directory", "dir", dir)
			removed++
		}
	}

	return removed, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}

	_, err = io.Copy(out, in)
	if err != nil {
		out.Close()
		return err
	}

	return out.Close()
}

// Ext returns the storage filename extension for a media type.
func Ext(fileType string) string {
	if strings.EqualFold(fileType, model.MediaTypePhoto) {
		return ".jpg"
	}
	return ".m4a"
}
