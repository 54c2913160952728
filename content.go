package main

import (
	"bufio"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"strings"

	"github.com/valyala/bytebufferpool"
)

type ContentOptions struct {
	// Re-insert '\n' after every html line instead of joining the lines.
	KeepLineEndings bool
}

type imageEncoder func(io.Writer, image.Image) error

var imageEncoders = map[string]imageEncoder{
	"gif": func(w io.Writer, m image.Image) error {
		return gif.Encode(w, m, nil)
	},
	"jpeg": func(w io.Writer, m image.Image) error {
		return jpeg.Encode(w, m, nil)
	},
	"png": func(w io.Writer, m image.Image) error {
		return png.Encode(w, m)
	},
}

// WriteContent writes the body for t and returns the number of bytes
// written. Missing targets and unknown extensions produce no body.
// A file that is not a decodable image yields ErrImageDecode with
// nothing written.
func WriteContent(w io.Writer, t *Target, opts ContentOptions) (int64, error) {
	if t == nil || !t.Exists() || !t.HasExtension {
		return 0, nil
	}
	if t.Extension == "html" {
		return copyLines(w, t.Path, opts.KeepLineEndings)
	}
	if enc, ok := imageEncoders[t.Extension]; ok {
		return reencodeImage(w, t.Path, enc)
	}
	return 0, nil
}

// copyLines writes each line of the file without its terminator.
func copyLines(w io.Writer, path string, keepLineEndings bool) (int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	var total int64
	r := bufio.NewReader(f)
	for {
		line, rerr := r.ReadString('\n')
		if rerr != nil && rerr != io.EOF {
			return total, rerr
		}
		if len(line) == 0 && rerr == io.EOF {
			return total, nil
		}
		line = strings.TrimSuffix(strings.TrimSuffix(line, "\n"), "\r")
		if keepLineEndings {
			line += "\n"
		}
		n, err := io.WriteString(w, line)
		total += int64(n)
		if err != nil {
			return total, fmt.Errorf("%w: %v", ErrWrite, err)
		}
		if rerr == io.EOF {
			return total, nil
		}
	}
}

func decodeImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrImageDecode, err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrImageDecode, path, err)
	}
	return img, nil
}

func reencodeImage(w io.Writer, path string, enc imageEncoder) (int64, error) {
	img, err := decodeImage(path)
	if err != nil {
		return 0, err
	}

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	if err := enc(buf, img); err != nil {
		return 0, fmt.Errorf("failed to encode %s: %v", path, err)
	}
	n, err := buf.WriteTo(w)
	if err != nil {
		return n, fmt.Errorf("%w: %v", ErrWrite, err)
	}
	return n, nil
}
