package nodejs

import (
	"archive/tar"
	"bytes"
	"testing"

	"github.com/klauspost/compress/gzip"
)

type tarEntry struct {
	name string
	body string
	mode int64
	link string
	dir  bool
}

func buildTarGz(t *testing.T, entries ...tarEntry) []byte {
	t.Helper()
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gz)
	for _, e := range entries {
		hdr := &tar.Header{Name: e.name, Mode: e.mode}
		switch {
		case e.dir:
			hdr.Typeflag = tar.TypeDir
			if hdr.Mode == 0 {
				hdr.Mode = 0o755
			}
		case e.link != "":
			hdr.Typeflag = tar.TypeSymlink
			hdr.Linkname = e.link
		default:
			hdr.Typeflag = tar.TypeReg
			hdr.Size = int64(len(e.body))
			if hdr.Mode == 0 {
				hdr.Mode = 0o644
			}
		}
		if err := tw.WriteHeader(hdr); err != nil {
			t.Fatal(err)
		}
		if hdr.Typeflag == tar.TypeReg {
			if _, err := tw.Write([]byte(e.body)); err != nil {
				t.Fatal(err)
			}
		}
	}
	if err := tw.Close(); err != nil {
		t.Fatal(err)
	}
	if err := gz.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

// nodeArchive mimics the layout of a release tarball.
func nodeArchive(t *testing.T, name string) []byte {
	return buildTarGz(t,
		tarEntry{name: name + "/", dir: true},
		tarEntry{name: name + "/bin/", dir: true},
		tarEntry{name: name + "/bin/node", body: "#!/bin/sh\necho v0\n", mode: 0o755},
		tarEntry{name: name + "/lib/node_modules/npm/bin/npm-cli.js", body: "// npm", mode: 0o644},
		tarEntry{name: name + "/bin/npm", link: "../lib/node_modules/npm/bin/npm-cli.js"},
	)
}
