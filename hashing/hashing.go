package hashing

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"github.com/pkg/errors"
)

// SkipFunc reports whether a directory should be pruned or a file left out.
type SkipFunc func(path string, d fs.DirEntry) bool

// Tree digests every regular file under roots. Files are visited in lexical
// order and contribute their root-relative path and content hash, so a rename
// changes the digest as well as an edit. Missing roots and files removed
// mid-walk are left out.
func Tree(roots []string, skip SkipFunc) (string, error) {
	h := sha256.New()

	for i, root := range roots {
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				if os.IsNotExist(err) {
					return nil
				}
				return err
			}

			if path != root && skip != nil && skip(path, d) {
				if d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			if !d.Type().IsRegular() {
				return nil
			}

			fileHash, err := HashFile(path)
			if err != nil {
				if os.IsNotExist(errors.Cause(err)) {
					return nil
				}
				return err
			}

			rel, err := filepath.Rel(root, path)
			if err != nil {
				rel = path
			}
			_, _ = io.WriteString(h, strconv.Itoa(i)+":"+filepath.ToSlash(rel)+"\x00"+fileHash+"\n")
			return nil
		})
		if err != nil {
			return "", errors.Wrapf(err, "failed to hash %s", root)
		}
	}

	return "sha256:" + hex.EncodeToString(h.Sum(nil)), nil
}

func HashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", errors.Wrapf(err, "failed to open file %s", path)
	}
	defer f.Close()

	h := sha256.New()
	if _, err = io.Copy(h, f); err != nil {
		return "", errors.Wrapf(err, "failed to hash file %s", path)
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}
