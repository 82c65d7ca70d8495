// Package secrets encrypts home-directory files into the Secrets managed
// root and decrypts them back. Files are protected with a passphrase
// through age's scrypt recipient; the on-disk layout mirrors the file's
// home-relative path under Secrets/<group>, reusing the same group and
// target resolution as the symlink engine.
package secrets

import (
	"bytes"
	"io"
	"path/filepath"
	"strings"

	"filippo.io/age"
	"github.com/pbastos-dev/tuck/pkg/dotfiles"
	"github.com/pbastos-dev/tuck/pkg/errors"
	"github.com/pbastos-dev/tuck/pkg/logging"
	"github.com/pbastos-dev/tuck/pkg/paths"
	"github.com/pbastos-dev/tuck/pkg/symlinks"
	"github.com/pbastos-dev/tuck/pkg/types"
)

// Handler encrypts and decrypts secret dotfiles with a passphrase
type Handler struct {
	fs         types.FS
	paths      *paths.Paths
	passphrase string
}

// NewHandler creates a secrets handler for the given passphrase
func NewHandler(fsys types.FS, p *paths.Paths, passphrase string) *Handler {
	return &Handler{fs: fsys, paths: p, passphrase: passphrase}
}

// Encrypt encrypts the given home-directory files into Secrets/<group>,
// mirroring each file's home-relative path.
func (h *Handler) Encrypt(group string, files []string) error {
	logger := logging.GetLogger("secrets")

	recipient, err := age.NewScryptRecipient(h.passphrase)
	if err != nil {
		return errors.Wrap(err, errors.ErrEncryptionFailed, "failed to derive encryption key")
	}

	destDir := h.paths.GroupDir(paths.SecretsDirName, group)
	if err := h.fs.MkdirAll(destDir, 0755); err != nil {
		return errors.Wrapf(err, errors.ErrEncryptionFailed, "failed to create %s", destDir)
	}

	for _, file := range files {
		abs, err := filepath.Abs(file)
		if err != nil {
			return errors.Wrapf(err, errors.ErrFileNotFound, "invalid path %s", file)
		}

		content, err := h.fs.ReadFile(abs)
		if err != nil {
			return errors.Wrapf(err, errors.ErrFileNotFound, "no such file or directory: %s", file)
		}

		rel := strings.TrimPrefix(abs, h.paths.Home()+string(filepath.Separator))
		dest := filepath.Join(destDir, rel)

		sealed, err := seal(content, recipient)
		if err != nil {
			return errors.Wrapf(err, errors.ErrEncryptionFailed, "failed to encrypt %s", file)
		}

		if err := h.fs.MkdirAll(filepath.Dir(dest), 0755); err != nil {
			return errors.Wrapf(err, errors.ErrEncryptionFailed, "failed to create parent of %s", dest)
		}
		if err := h.fs.WriteFile(dest, sealed, 0600); err != nil {
			return errors.Wrapf(err, errors.ErrEncryptionFailed, "failed to write %s", dest)
		}

		logger.Info().Str("file", rel).Str("group", group).Msg("Encrypted secret")
	}

	return nil
}

// Decrypt decrypts every secret of the given groups into destDir. The
// wildcard expands to all secret groups; conditional groups are skipped
// on non-matching platforms.
func (h *Handler) Decrypt(platform types.Platform, groups, exclude []string, destDir string) error {
	logger := logging.GetLogger("secrets")

	if invalid := dotfiles.InvalidGroups(h.fs, h.paths.Root(), paths.SecretsDirName, groups); len(invalid) > 0 {
		return errors.Newf(errors.ErrGroupNotFound, "no such secret group: %s", strings.Join(invalid, ", "))
	}

	identity, err := age.NewScryptIdentity(h.passphrase)
	if err != nil {
		return errors.Wrap(err, errors.ErrDecryptionFailed, "failed to derive decryption key")
	}

	expanded := make([]string, 0, len(groups))
	for _, group := range groups {
		if group == symlinks.Wildcard {
			expanded = append(expanded, dotfiles.ListGroups(h.fs, h.paths.Root(), paths.SecretsDirName)...)
			continue
		}
		expanded = append(expanded, group)
	}

	excluded := make(map[string]bool, len(exclude))
	for _, group := range exclude {
		excluded[group] = true
	}

	for _, group := range expanded {
		if excluded[group] || !dotfiles.GroupAppliesTo(group, platform) {
			continue
		}

		groupDir := h.paths.GroupDir(paths.SecretsDirName, group)
		groupFile, err := dotfiles.New(h.paths.Root(), groupDir)
		if err != nil {
			return err
		}

		var walkErr error
		groupFile.MapFiles(h.fs, func(file dotfiles.Dotfile) {
			if walkErr != nil {
				return
			}
			info, err := h.fs.Lstat(file.Path)
			if err != nil || info.IsDir() {
				return
			}

			sealed, err := h.fs.ReadFile(file.Path)
			if err != nil {
				walkErr = errors.Wrapf(err, errors.ErrDecryptionFailed, "failed to read %s", file.Path)
				return
			}

			content, err := open(sealed, identity)
			if err != nil {
				walkErr = errors.Wrap(err, errors.ErrDecryptionFailed, "wrong password")
				return
			}

			dest := filepath.Join(destDir, filepath.Base(file.Path))
			if err := h.fs.WriteFile(dest, content, 0600); err != nil {
				walkErr = errors.Wrapf(err, errors.ErrDecryptionFailed, "failed to write %s", dest)
				return
			}

			logger.Info().Str("file", filepath.Base(file.Path)).Str("group", group).Msg("Decrypted secret")
		}, func(path string, err error) {
			logger.Warn().Err(err).Str("path", path).Msg("Skipping unreadable secret")
		})

		if walkErr != nil {
			return walkErr
		}
	}

	return nil
}

func seal(content []byte, recipient age.Recipient) ([]byte, error) {
	var buf bytes.Buffer
	w, err := age.Encrypt(&buf, recipient)
	if err != nil {
		return nil, err
	}
	if _, err := w.Write(content); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func open(sealed []byte, identity age.Identity) ([]byte, error) {
	r, err := age.Decrypt(bytes.NewReader(sealed), identity)
	if err != nil {
		return nil, err
	}
	return io.ReadAll(r)
}
