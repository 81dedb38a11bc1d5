package services

import (
	"fmt"
	"os"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// Asset is a non-markdown file served from the content root, such as an
// image referenced by a document.
type Asset struct {
	Path string
	MIME string
	Size int64
}

var allowedAssetTypes = []string{"application/pdf", "text/plain"}

func assetAllowed(m *mimetype.MIME) bool {
	for ; m != nil; m = m.Parent() {
		if strings.HasPrefix(m.String(), "image/") {
			return true
		}
		for _, t := range allowedAssetTypes {
			if m.Is(t) {
				return true
			}
		}
	}
	return false
}

// ResolveAsset locates target below root and checks that its sniffed content
// type may be served. Markdown sources and hidden files are never served.
func ResolveAsset(root, target string) (*Asset, error) {
	fullPath := SafeJoin(root, "", target)
	if fullPath == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidSlug, target)
	}
	for _, part := range strings.Split(strings.Trim(target, "/"), "/") {
		if isHidden(part) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, target)
		}
	}
	if IsMarkdown(fullPath) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, target)
	}

	info, err := os.Stat(fullPath)
	if err != nil || info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, target)
	}

	mtype, err := mimetype.DetectFile(fullPath)
	if err != nil {
		return nil, fmt.Errorf("detect %s: %w", target, err)
	}
	if !assetAllowed(mtype) {
		return nil, fmt.Errorf("%w: %s has type %s", ErrNotFound, target, mtype.String())
	}

	return &Asset{
		Path: fullPath,
		MIME: mtype.String(),
		Size: info.Size(),
	}, nil
}
