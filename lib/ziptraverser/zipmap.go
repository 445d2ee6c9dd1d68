package ziptraverser

import (
	"archive/zip"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

type zipMap struct {
	// Open archives. The least recently used one is at index 0.
	zipLRU  []mapElement
	maxSize int
}

type mapElement struct {
	Filename string
	Zip      *zip.ReadCloser
}

func newMap(size int) *zipMap {
	if size < 1 {
		size = 1
	}
	return &zipMap{
		zipLRU:  make([]mapElement, 0, size),
		maxSize: size,
	}
}

func (z *zipMap) getZipHandle(zipfile string) (*zip.ReadCloser, error) {
	for i, read := range z.zipLRU {
		if read.Filename == zipfile {
			z.zipLRU = append(z.zipLRU[:i], z.zipLRU[i+1:]...)
			z.zipLRU = append(z.zipLRU, read)
			return read.Zip, nil
		}
	}

	f, err := zip.OpenReader(zipfile)
	if err != nil {
		return nil, err
	}

	if len(z.zipLRU) == z.maxSize {
		z.zipLRU[0].Zip.Close()
		copy(z.zipLRU, z.zipLRU[1:])
		z.zipLRU = z.zipLRU[:z.maxSize-1]
	}
	z.zipLRU = append(z.zipLRU, mapElement{zipfile, f})

	return f, nil
}

func (z *zipMap) Exists(filename string) bool {
	f, err := z.Get(filename)
	if err == nil {
		f.Close()
		return true
	}
	return false
}

// splitPath finds the first archive in a path, and returns the path to the
// archive and the name of the file inside it
func splitPath(filename string) (archive, local string, ok bool) {
	filename = filepath.ToSlash(filename)
	abs := ""
	elems := strings.Split(filename, "/")
	if elems[0] == "" {
		elems = elems[1:]
		abs = "/"
	}

	for i, elem := range elems {
		if !isArchive(elem) || i == len(elems)-1 {
			continue
		}
		return abs + filepath.Join(elems[0:i+1]...), strings.Join(elems[i+1:], "/"), true
	}

	return "", "", false
}

func (z *zipMap) Get(filename string) (io.ReadCloser, error) {
	// Try opening the file itself, maybe that works...
	fi, err := os.Stat(filename)
	if err == nil && fi.Mode().IsRegular() {
		return os.Open(filename)
	}

	zipfile, localfile, ok := splitPath(filename)
	if !ok {
		return nil, errors.Wrapf(os.ErrNotExist, "file '%s' does not exist", filename)
	}

	read, err := z.getZipHandle(zipfile)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot open archive '%s'", zipfile)
	}

	for _, zfp := range read.File {
		if zfp.Name == localfile {
			return zfp.Open()
		}
	}

	return nil, errors.Wrapf(os.ErrNotExist, "file '%s' does not exist in '%s'", localfile, zipfile)
}

func (z *zipMap) Close() {
	for _, m := range z.zipLRU {
		m.Zip.Close()
	}
	z.zipLRU = z.zipLRU[:0]
}
