package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

type FileType string

const (
	FileTypeFolder FileType = "folder"
	FileTypeFile   FileType = "file"
	FileTypeImage  FileType = "image"
)

// ThumbnailWidths are the derived widths produced for every uploaded file.
var ThumbnailWidths = []int{500, 250, 100}

// ParentID references the folder a record lives in. The root is "0" and is
// rendered as the JSON number 0.
type ParentID string

const RootParent ParentID = "0"

func (p ParentID) IsRoot() bool { return p == "" || p == RootParent }

// Normalize maps every spelling of the root to RootParent.
func (p ParentID) Normalize() ParentID {
	if p.IsRoot() {
		return RootParent
	}
	return p
}

func (p ParentID) MarshalJSON() ([]byte, error) {
	if p.IsRoot() {
		return []byte("0"), nil
	}
	return json.Marshal(string(p))
}

func (p *ParentID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*p = RootParent
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*p = ParentID(s).Normalize()
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("parentId must be a string or a number: %w", err)
	}
	*p = ParentID(n.String()).Normalize()
	return nil
}

type File struct {
	FileID    string    `json:"id" dynamodbav:"file_id" bson:"_id"`
	UserID    string    `json:"userId" dynamodbav:"user_id" bson:"userId"`
	Name      string    `json:"name" dynamodbav:"name" bson:"name"`
	Type      FileType  `json:"type" dynamodbav:"type" bson:"type"`
	IsPublic  bool      `json:"isPublic" dynamodbav:"is_public" bson:"isPublic"`
	ParentID  ParentID  `json:"parentId" dynamodbav:"parent_id" bson:"parentId"`
	LocalPath string    `json:"-" dynamodbav:"local_path,omitempty" bson:"localPath,omitempty"`
	CreatedAt time.Time `json:"-" dynamodbav:"created_at" bson:"createdAt"`
}

func (f *File) IsFolder() bool { return f.Type == FileTypeFolder }

// ContentPath returns the stored path for the requested size: the original
// content for 0, otherwise the derived thumbnail for that width.
func (f *File) ContentPath(size int) string {
	if size == 0 {
		return f.LocalPath
	}
	return ThumbnailPath(f.LocalPath, size)
}

func ThumbnailPath(localPath string, width int) string {
	return fmt.Sprintf("%s_%d", localPath, width)
}

// ValidSize reports whether size names the original (0) or a thumbnail width.
func ValidSize(size int) bool {
	if size == 0 {
		return true
	}
	for _, w := range ThumbnailWidths {
		if w == size {
			return true
		}
	}
	return false
}

type UploadFileRequest struct {
	Name     string   `json:"name" validate:"required"`
	Type     FileType `json:"type" validate:"required,oneof=folder file image"`
	Data     string   `json:"data" validate:"required_unless=Type folder"`
	IsPublic bool     `json:"isPublic"`
	ParentID ParentID `json:"parentId"`
}
