package nodejs

import (
	"archive/tar"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
)

// extractTarGz unpacks a gzip-compressed tarball into dest, preserving the
// directory layout, file modes and symlinks. Entries that would land outside
// dest, directly or through a symlink from the archive, are rejected.
func extractTarGz(r io.Reader, dest string) error {
	gz, err := gzip.NewReader(r)
	if err != nil {
		return fmt.Errorf("gunzip: %w", err)
	}
	defer gz.Close()

	root, err := filepath.Abs(dest)
	if err != nil {
		return err
	}

	tr := tar.NewReader(gz)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("read tar: %w", err)
		}

		target, err := safeJoin(root, hdr.Name)
		if err != nil {
			return err
		}
		if err := noSymlinkParents(root, target); err != nil {
			return err
		}

		switch hdr.Typeflag {
		case tar.TypeDir:
			if isSymlink(target) {
				return fmt.Errorf("archive directory %q is a symlink", hdr.Name)
			}
			if err := os.MkdirAll(target, dirMode(hdr)); err != nil {
				return err
			}
		case tar.TypeReg:
			if isSymlink(target) {
				if err := os.Remove(target); err != nil {
					return err
				}
			}
			if err := writeFile(target, tr, hdr.FileInfo().Mode().Perm()); err != nil {
				return err
			}
		case tar.TypeSymlink:
			if err := writeSymlink(root, target, hdr.Linkname); err != nil {
				return err
			}
		case tar.TypeLink:
			src, err := safeJoin(root, hdr.Linkname)
			if err != nil {
				return err
			}
			if err := noSymlinkParents(root, src); err != nil {
				return err
			}
			if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
				return err
			}
			_ = os.Remove(target)
			if err := os.Link(src, target); err != nil {
				return err
			}
		default:
			// Device nodes, fifos and pax metadata are not part of a
			// release archive.
		}
	}
}

func safeJoin(root, name string) (string, error) {
	target := filepath.Join(root, filepath.FromSlash(name))
	if !within(root, target) {
		return "", fmt.Errorf("archive entry %q escapes %s", name, root)
	}
	return target, nil
}

func within(root, path string) bool {
	return path == root || strings.HasPrefix(path, root+string(os.PathSeparator))
}

// noSymlinkParents rejects path when a directory between root and path is a
// symlink. Nothing is ever written through a link the archive created.
func noSymlinkParents(root, path string) error {
	rel, err := filepath.Rel(root, filepath.Dir(path))
	if err != nil || rel == "." || rel == ".." {
		return err
	}
	cur := root
	for _, part := range strings.Split(rel, string(os.PathSeparator)) {
		cur = filepath.Join(cur, part)
		fi, err := os.Lstat(cur)
		if os.IsNotExist(err) {
			return nil
		}
		if err != nil {
			return err
		}
		if fi.Mode()&os.ModeSymlink != 0 {
			return fmt.Errorf("archive entry %s passes through symlink %s", path, cur)
		}
	}
	return nil
}

func isSymlink(path string) bool {
	fi, err := os.Lstat(path)
	return err == nil && fi.Mode()&os.ModeSymlink != 0
}

// checkLink walks link from the directory holding path. It must stay inside
// root and may only end on a symlink, never pass through one.
func checkLink(root, path, link string) error {
	if filepath.IsAbs(link) {
		return fmt.Errorf("symlink %s -> %s escapes %s", path, link, root)
	}
	parts := strings.Split(filepath.FromSlash(link), string(os.PathSeparator))
	cur := filepath.Dir(path)
	for i, part := range parts {
		switch part {
		case "", ".":
			continue
		case "..":
			if cur == root {
				return fmt.Errorf("symlink %s -> %s escapes %s", path, link, root)
			}
			cur = filepath.Dir(cur)
		default:
			cur = filepath.Join(cur, part)
			if i < len(parts)-1 && isSymlink(cur) {
				return fmt.Errorf("symlink %s -> %s passes through symlink %s", path, link, cur)
			}
		}
	}
	return nil
}

func dirMode(hdr *tar.Header) os.FileMode {
	if m := hdr.FileInfo().Mode().Perm(); m != 0 {
		return m | 0o700
	}
	return 0o755
}

func writeFile(path string, r io.Reader, mode os.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode|0o600)
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func writeSymlink(root, path, link string) error {
	if err := checkLink(root, path, link); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	if fi, err := os.Lstat(path); err == nil {
		if fi.IsDir() {
			return fmt.Errorf("symlink %s would replace a directory", path)
		}
		if err := os.Remove(path); err != nil {
			return err
		}
	}
	return os.Symlink(link, path)
}
