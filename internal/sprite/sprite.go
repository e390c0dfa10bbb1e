package sprite

import (
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/png"
	"os"
	"path/filepath"
)

var ErrUnknownPose = errors.New("sprite: unknown pose")

// Pose names the figure image to draw.
type Pose string

const (
	Stand     Pose = "stand"
	LookLeft  Pose = "lookLeft"
	LookRight Pose = "lookRight"
)

// Poses lists every pose the visualiser draws.
var Poses = []Pose{Stand, LookLeft, LookRight}

// FileName is the asset file conventionally holding the pose.
func (p Pose) FileName() (string, error) {
	switch p {
	case Stand:
		return "sprite-stand.png", nil
	case LookLeft:
		return "sprite-look-left.png", nil
	case LookRight:
		return "sprite-look-right.png", nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownPose, string(p))
}

// Source resolves a pose to an image.
type Source interface {
	Load(ctx context.Context, pose Pose) (image.Image, error)
}

// FileSource reads PNG sprites from a directory.
type FileSource struct {
	Dir string
}

func (s FileSource) Load(ctx context.Context, pose Pose) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	name, err := pose.FileName()
	if err != nil {
		return nil, err
	}
	f, err := os.Open(filepath.Join(s.Dir, name))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", name, err)
	}
	return img, nil
}
